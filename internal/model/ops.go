package model

import (
	"fmt"
	"slices"
)

// The operations below are pure: each takes the receiver by value and
// returns a new List, so callers can compare states freely and retry on
// error without ever seeing a half-applied list.

// CreateItem adds an item under the named category.
//
// If an item with exactly this name already exists anywhere in the list, its
// quantity is incremented instead and its category is left alone: repeat
// purchases merge rather than duplicate rows. Otherwise the category is
// resolved by exact name (names are the user-facing identity), created at
// the end of the order when absent, and the new item is appended to it.
func (l List) CreateItem(name string, quantity float64, categoryName string) List {
	out := l.clone()

	for _, id := range out.orderedItemIDs() {
		if out.Items[id].Name == name {
			it := out.Items[id]
			it.Quantity += quantity
			out.Items[id] = it
			return out
		}
	}

	item := Item{ID: itemID(out.NextItemSeq), Name: name, Quantity: quantity}
	out.Items[item.ID] = item
	out.NextItemSeq++

	for _, cid := range out.CategoryOrder {
		c := out.Categories[cid]
		if c.Name == categoryName {
			c.ItemIDs = append(c.ItemIDs, item.ID)
			out.Categories[cid] = c
			return out
		}
	}

	cat := Category{ID: categoryID(out.NextCategorySeq), Name: categoryName, ItemIDs: []string{item.ID}}
	out.Categories[cat.ID] = cat
	out.CategoryOrder = append(out.CategoryOrder, cat.ID)
	out.NextCategorySeq++
	return out
}

// RenameCategory replaces a category's name. Membership and order are
// untouched; an existing category keeping an old duplicate name is fine.
func (l List) RenameCategory(categoryID, name string) (List, error) {
	if _, err := l.Category(categoryID); err != nil {
		return l, err
	}
	out := l.clone()
	c := out.Categories[categoryID]
	c.Name = name
	out.Categories[categoryID] = c
	return out, nil
}

// DeleteCategory removes a category together with every item it owns.
func (l List) DeleteCategory(categoryID string) (List, error) {
	c, err := l.Category(categoryID)
	if err != nil {
		return l, err
	}
	out := l.clone()
	for _, id := range c.ItemIDs {
		delete(out.Items, id)
	}
	delete(out.Categories, categoryID)
	out.CategoryOrder = slices.DeleteFunc(out.CategoryOrder, func(id string) bool { return id == categoryID })
	return out, nil
}

// ItemUpdate carries the fields of a partial item edit; nil means leave the
// field as it is.
type ItemUpdate struct {
	Name     *string
	Quantity *float64
}

// UpdateItem applies a partial edit to an item in place. It never moves the
// item between categories and never merges, even when the new name collides
// with another item's name. Only CreateItem merges.
func (l List) UpdateItem(itemID string, upd ItemUpdate) (List, error) {
	if _, err := l.Item(itemID); err != nil {
		return l, err
	}
	out := l.clone()
	it := out.Items[itemID]
	if upd.Name != nil {
		it.Name = *upd.Name
	}
	if upd.Quantity != nil {
		it.Quantity = *upd.Quantity
	}
	out.Items[itemID] = it
	return out, nil
}

// DeleteItem removes an item from its category. When that empties the
// category, the category goes too, in the same step; callers never observe
// an empty category.
func (l List) DeleteItem(categoryID, itemID string) (List, error) {
	c, err := l.Category(categoryID)
	if err != nil {
		return l, err
	}
	if !slices.Contains(c.ItemIDs, itemID) {
		return l, fmt.Errorf("item %q in category %q: %w", itemID, categoryID, ErrNotFound)
	}
	out := l.clone()
	delete(out.Items, itemID)
	c = out.Categories[categoryID]
	c.ItemIDs = slices.DeleteFunc(c.ItemIDs, func(id string) bool { return id == itemID })
	if len(c.ItemIDs) == 0 {
		delete(out.Categories, categoryID)
		out.CategoryOrder = slices.DeleteFunc(out.CategoryOrder, func(id string) bool { return id == categoryID })
		return out, nil
	}
	out.Categories[categoryID] = c
	return out, nil
}

// ReorderCategory moves the category at fromIndex to toIndex, where toIndex
// addresses the order after removal (list-splice semantics: moving 0 to 2 in
// [A B C D] yields [B C A D]). Equal indexes are a no-op and return the
// input unchanged.
func (l List) ReorderCategory(fromIndex, toIndex int) (List, error) {
	n := len(l.CategoryOrder)
	if fromIndex < 0 || fromIndex >= n {
		return l, fmt.Errorf("category index %d: %w", fromIndex, ErrNotFound)
	}
	if toIndex < 0 || toIndex >= n {
		return l, fmt.Errorf("category index %d: %w", toIndex, ErrNotFound)
	}
	if fromIndex == toIndex {
		return l, nil
	}
	out := l.clone()
	out.CategoryOrder = splice(out.CategoryOrder, fromIndex, toIndex)
	return out, nil
}

// ReorderItem moves the item at sourceIndex of the source category to
// destIndex of the destination category. Within one category destIndex
// addresses the sequence after removal; across categories it addresses the
// destination sequence as-is (it is a distinct sequence, so removal cannot
// shift it). A cross-category move that drains the source category removes
// the source category in the same step.
func (l List) ReorderItem(sourceCategoryID string, sourceIndex int, destCategoryID string, destIndex int) (List, error) {
	src, err := l.Category(sourceCategoryID)
	if err != nil {
		return l, err
	}
	if sourceIndex < 0 || sourceIndex >= len(src.ItemIDs) {
		return l, fmt.Errorf("item index %d in category %q: %w", sourceIndex, sourceCategoryID, ErrNotFound)
	}

	if sourceCategoryID == destCategoryID {
		if destIndex < 0 || destIndex >= len(src.ItemIDs) {
			return l, fmt.Errorf("item index %d in category %q: %w", destIndex, destCategoryID, ErrNotFound)
		}
		if sourceIndex == destIndex {
			return l, nil
		}
		out := l.clone()
		c := out.Categories[sourceCategoryID]
		c.ItemIDs = splice(c.ItemIDs, sourceIndex, destIndex)
		out.Categories[sourceCategoryID] = c
		return out, nil
	}

	dst, err := l.Category(destCategoryID)
	if err != nil {
		return l, err
	}
	if destIndex < 0 || destIndex > len(dst.ItemIDs) {
		return l, fmt.Errorf("item index %d in category %q: %w", destIndex, destCategoryID, ErrNotFound)
	}

	out := l.clone()
	moved := src.ItemIDs[sourceIndex]

	srcOut := out.Categories[sourceCategoryID]
	srcOut.ItemIDs = slices.Delete(srcOut.ItemIDs, sourceIndex, sourceIndex+1)
	if len(srcOut.ItemIDs) == 0 {
		delete(out.Categories, sourceCategoryID)
		out.CategoryOrder = slices.DeleteFunc(out.CategoryOrder, func(id string) bool { return id == sourceCategoryID })
	} else {
		out.Categories[sourceCategoryID] = srcOut
	}

	dstOut := out.Categories[destCategoryID]
	dstOut.ItemIDs = slices.Insert(dstOut.ItemIDs, destIndex, moved)
	out.Categories[destCategoryID] = dstOut
	return out, nil
}

// StartNewList throws the current list away.
func (l List) StartNewList() List { return New() }

// splice removes the element at from and reinserts it at to, with to
// addressing the post-removal slice.
func splice(ids []string, from, to int) []string {
	id := ids[from]
	ids = slices.Delete(ids, from, from+1)
	return slices.Insert(ids, to, id)
}

// orderedItemIDs flattens item ids in category order then item order, giving
// map-independent deterministic traversal.
func (l List) orderedItemIDs() []string {
	out := make([]string, 0, len(l.Items))
	for _, cid := range l.CategoryOrder {
		out = append(out, l.Categories[cid].ItemIDs...)
	}
	return out
}
