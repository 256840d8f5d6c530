package model

import (
	"math/rand"
	"testing"
)

// TestInvariantsUnderRandomIntents applies a long pseudo-random sequence of
// valid intents to the empty list and re-checks the structural invariants
// after every step. The seed is fixed so a failure replays.
func TestInvariantsUnderRandomIntents(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	names := []string{"Bread", "Milk", "Eggs", "Apples", "Soup", "Rice", "Tea", "Butter"}
	categories := []string{"Bakery", "Dairy", "Veg", "Tins", "Drinks"}

	l := New()
	for step := 0; step < 2000; step++ {
		op := rng.Intn(8)
		switch op {
		case 0, 1, 2: // create, weighted so the list grows
			l = l.CreateItem(names[rng.Intn(len(names))], float64(rng.Intn(5)+1), categories[rng.Intn(len(categories))])

		case 3: // update a random item
			if id, ok := randomItem(rng, l); ok {
				var upd ItemUpdate
				if rng.Intn(2) == 0 {
					n := names[rng.Intn(len(names))]
					upd.Name = &n
				}
				if rng.Intn(2) == 0 {
					q := float64(rng.Intn(9) - 2)
					upd.Quantity = &q
				}
				var err error
				l, err = l.UpdateItem(id, upd)
				must(t, step, err)
			}

		case 4: // delete a random item
			if cid, iid, ok := randomOwnedItem(rng, l); ok {
				var err error
				l, err = l.DeleteItem(cid, iid)
				must(t, step, err)
			}

		case 5: // delete or rename a random category
			if cid, ok := randomCategory(rng, l); ok {
				var err error
				if rng.Intn(4) == 0 {
					l, err = l.DeleteCategory(cid)
				} else {
					l, err = l.RenameCategory(cid, categories[rng.Intn(len(categories))])
				}
				must(t, step, err)
			}

		case 6: // reorder categories
			if n := len(l.CategoryOrder); n > 0 {
				var err error
				l, err = l.ReorderCategory(rng.Intn(n), rng.Intn(n))
				must(t, step, err)
			}

		case 7: // move an item, sometimes across categories
			src, ok := randomCategoryValue(rng, l)
			if !ok {
				continue
			}
			dst, _ := randomCategoryValue(rng, l)
			from := rng.Intn(len(src.ItemIDs))
			var to int
			if src.ID == dst.ID {
				to = rng.Intn(len(src.ItemIDs))
			} else {
				to = rng.Intn(len(dst.ItemIDs) + 1)
			}
			var err error
			l, err = l.ReorderItem(src.ID, from, dst.ID, to)
			must(t, step, err)
		}

		if err := l.Check(); err != nil {
			t.Fatalf("step %d (op %d): invariants broken: %v", step, op, err)
		}
	}
}

func must(t *testing.T, step int, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("step %d: unexpected error: %v", step, err)
	}
}

func randomItem(rng *rand.Rand, l List) (string, bool) {
	ids := l.orderedItemIDs()
	if len(ids) == 0 {
		return "", false
	}
	return ids[rng.Intn(len(ids))], true
}

func randomOwnedItem(rng *rand.Rand, l List) (categoryID, itemID string, ok bool) {
	c, found := randomCategoryValue(rng, l)
	if !found {
		return "", "", false
	}
	return c.ID, c.ItemIDs[rng.Intn(len(c.ItemIDs))], true
}

func randomCategory(rng *rand.Rand, l List) (string, bool) {
	if len(l.CategoryOrder) == 0 {
		return "", false
	}
	return l.CategoryOrder[rng.Intn(len(l.CategoryOrder))], true
}

func randomCategoryValue(rng *rand.Rand, l List) (Category, bool) {
	id, ok := randomCategory(rng, l)
	if !ok {
		return Category{}, false
	}
	return l.Categories[id], true
}
