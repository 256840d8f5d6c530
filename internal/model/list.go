package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ErrNotFound reports an intent that referenced an id (or index) absent from
// the list. It signals a stale reference held by the caller, not user error;
// the list is left untouched.
var ErrNotFound = errors.New("not found")

// Item is a single shopping-list entry. Identity is the id; the name is the
// user-facing handle and need not stay unique after edits.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// Category groups items and owns their relative order.
type Category struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	ItemIDs []string `json:"itemIds"`
}

// List is the complete normalized state of a shopping list: entities live in
// id-keyed maps, orderings in separate id slices. The sequence counters are
// monotonic and never reused, so an id stays stable for the life of a list.
//
// A List is treated as an immutable value: every operation returns a new
// List and leaves its receiver untouched.
type List struct {
	Items           map[string]Item     `json:"items"`
	Categories      map[string]Category `json:"categories"`
	CategoryOrder   []string            `json:"categoryOrder"`
	NextItemSeq     int                 `json:"nextItemSeq"`
	NextCategorySeq int                 `json:"nextCategorySeq"`
}

// Id prefixes keep the two kinds structurally distinct: an item id can never
// be mistaken for a category id.
const (
	itemIDPrefix     = "item-"
	categoryIDPrefix = "category-"
)

func itemID(seq int) string     { return itemIDPrefix + strconv.Itoa(seq) }
func categoryID(seq int) string { return categoryIDPrefix + strconv.Itoa(seq) }

// New returns the canonical empty list.
func New() List {
	return List{
		Items:      map[string]Item{},
		Categories: map[string]Category{},
	}
}

// Category returns the category with the given id.
func (l List) Category(id string) (Category, error) {
	c, ok := l.Categories[id]
	if !ok {
		return Category{}, fmt.Errorf("category %q: %w", id, ErrNotFound)
	}
	return c, nil
}

// Item returns the item with the given id.
func (l List) Item(id string) (Item, error) {
	it, ok := l.Items[id]
	if !ok {
		return Item{}, fmt.Errorf("item %q: %w", id, ErrNotFound)
	}
	return it, nil
}

// CategoryAt resolves a position in the category order to its category.
func (l List) CategoryAt(index int) (Category, error) {
	if index < 0 || index >= len(l.CategoryOrder) {
		return Category{}, fmt.Errorf("category index %d: %w", index, ErrNotFound)
	}
	return l.Categories[l.CategoryOrder[index]], nil
}

// ItemsOf returns the items of a category in their stored order.
func (l List) ItemsOf(categoryID string) ([]Item, error) {
	c, err := l.Category(categoryID)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(c.ItemIDs))
	for i, id := range c.ItemIDs {
		items[i] = l.Items[id]
	}
	return items, nil
}

// Len reports the total number of items across all categories.
func (l List) Len() int { return len(l.Items) }

// clone deep-copies the list so operations can splice freely without
// touching the receiver.
func (l List) clone() List {
	out := List{
		Items:           maps.Clone(l.Items),
		Categories:      make(map[string]Category, len(l.Categories)),
		CategoryOrder:   slices.Clone(l.CategoryOrder),
		NextItemSeq:     l.NextItemSeq,
		NextCategorySeq: l.NextCategorySeq,
	}
	if out.Items == nil {
		out.Items = map[string]Item{}
	}
	for id, c := range l.Categories {
		c.ItemIDs = slices.Clone(c.ItemIDs)
		out.Categories[id] = c
	}
	return out
}

// Check verifies the structural invariants: the category order covers the
// category map exactly, every item is owned by exactly one category, no
// category is empty, ids carry the right prefix, and the sequence counters
// exceed every suffix issued so far. The codec runs this on decoded
// snapshots; tests run it after every operation.
func (l List) Check() error {
	if len(l.CategoryOrder) != len(l.Categories) {
		return fmt.Errorf("category order has %d entries for %d categories", len(l.CategoryOrder), len(l.Categories))
	}
	seenCat := make(map[string]bool, len(l.CategoryOrder))
	for _, id := range l.CategoryOrder {
		if seenCat[id] {
			return fmt.Errorf("category %q listed twice in order", id)
		}
		seenCat[id] = true
		if _, ok := l.Categories[id]; !ok {
			return fmt.Errorf("category order references unknown %q", id)
		}
	}

	owner := make(map[string]string, len(l.Items))
	for id, c := range l.Categories {
		if c.ID != id {
			return fmt.Errorf("category %q keyed as %q", c.ID, id)
		}
		if err := checkID(id, categoryIDPrefix, l.NextCategorySeq); err != nil {
			return err
		}
		if len(c.ItemIDs) == 0 {
			return fmt.Errorf("category %q is empty", id)
		}
		seen := make(map[string]bool, len(c.ItemIDs))
		for _, itemID := range c.ItemIDs {
			if seen[itemID] {
				return fmt.Errorf("item %q listed twice in category %q", itemID, id)
			}
			seen[itemID] = true
			if _, ok := l.Items[itemID]; !ok {
				return fmt.Errorf("category %q references unknown item %q", id, itemID)
			}
			if prev, ok := owner[itemID]; ok {
				return fmt.Errorf("item %q owned by both %q and %q", itemID, prev, id)
			}
			owner[itemID] = id
		}
	}

	for id, it := range l.Items {
		if it.ID != id {
			return fmt.Errorf("item %q keyed as %q", it.ID, id)
		}
		if err := checkID(id, itemIDPrefix, l.NextItemSeq); err != nil {
			return err
		}
		if it.Name == "" {
			return fmt.Errorf("item %q has an empty name", id)
		}
		if _, ok := owner[id]; !ok {
			return fmt.Errorf("item %q belongs to no category", id)
		}
	}
	return nil
}

func checkID(id, prefix string, next int) error {
	suffix, ok := strings.CutPrefix(id, prefix)
	if !ok {
		return fmt.Errorf("id %q lacks prefix %q", id, prefix)
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return fmt.Errorf("id %q has a non-numeric suffix", id)
	}
	if n >= next {
		return fmt.Errorf("id %q exceeds sequence counter %d", id, next)
	}
	return nil
}
