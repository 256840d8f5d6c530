package model

import (
	"iter"
	"strconv"
	"strings"
)

// Read-only projections of a List. All of them walk the category order then
// each category's item order, so their output is deterministic for a given
// list regardless of map iteration.

// OrderedCategories yields every category in order together with its items
// in order. The sequence is restartable; ranging twice is fine.
func (l List) OrderedCategories() iter.Seq2[Category, []Item] {
	return func(yield func(Category, []Item) bool) {
		for _, cid := range l.CategoryOrder {
			c := l.Categories[cid]
			items, _ := l.ItemsOf(cid)
			if !yield(c, items) {
				return
			}
		}
	}
}

// NameCompletions returns the item names for input assist, de-duplicated
// with the first occurrence winning.
func (l List) NameCompletions() []string {
	names := make([]string, 0, len(l.Items))
	seen := make(map[string]bool, len(l.Items))
	for _, id := range l.orderedItemIDs() {
		name := l.Items[id].Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// CategoryCompletions returns the category names for input assist,
// de-duplicated with the first occurrence winning.
func (l List) CategoryCompletions() []string {
	names := make([]string, 0, len(l.Categories))
	seen := make(map[string]bool, len(l.Categories))
	for _, cid := range l.CategoryOrder {
		name := l.Categories[cid].Name
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// ExportText renders the list as plain text, one "<quantity> <name>" line
// per item, categories top to bottom.
func (l List) ExportText() string {
	var b strings.Builder
	for i, id := range l.orderedItemIDs() {
		if i > 0 {
			b.WriteByte('\n')
		}
		it := l.Items[id]
		b.WriteString(FormatQuantity(it.Quantity))
		b.WriteByte(' ')
		b.WriteString(it.Name)
	}
	return b.String()
}

// FormatQuantity prints a quantity in its shortest round-trip form, so
// integral quantities come out without a decimal point.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
