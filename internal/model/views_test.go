package model

import (
	"reflect"
	"testing"
)

func TestOrderedCategories(t *testing.T) {
	l := sample(t)

	var cats []string
	var counts []int
	for c, items := range l.OrderedCategories() {
		cats = append(cats, c.Name)
		counts = append(counts, len(items))
	}
	if !reflect.DeepEqual(cats, []string{"Veg", "Tins"}) {
		t.Errorf("categories: %v", cats)
	}
	if !reflect.DeepEqual(counts, []int{3, 2}) {
		t.Errorf("item counts: %v", counts)
	}

	// restartable: a second pass sees the same sequence
	var again []string
	for c := range l.OrderedCategories() {
		again = append(again, c.Name)
	}
	if !reflect.DeepEqual(again, cats) {
		t.Errorf("second pass differs: %v vs %v", again, cats)
	}

	// early break must not panic or leak
	for range l.OrderedCategories() {
		break
	}
}

func TestNameCompletions(t *testing.T) {
	l := sample(t)
	want := []string{"Apples", "Leeks", "Onions", "Beans", "Soup"}
	if got := l.NameCompletions(); !reflect.DeepEqual(got, want) {
		t.Errorf("completions: %v", got)
	}

	// duplicate names after an edit collapse to the first occurrence
	soup := itemByName(t, l, "Soup")
	name := "Beans"
	l, err := l.UpdateItem(soup.ID, ItemUpdate{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	want = []string{"Apples", "Leeks", "Onions", "Beans"}
	if got := l.NameCompletions(); !reflect.DeepEqual(got, want) {
		t.Errorf("completions after collision: %v", got)
	}
}

func TestCategoryCompletions(t *testing.T) {
	l := sample(t)
	if got := l.CategoryCompletions(); !reflect.DeepEqual(got, []string{"Veg", "Tins"}) {
		t.Errorf("completions: %v", got)
	}

	// duplicate category names collapse too
	tins := categoryByName(t, l, "Tins")
	l, err := l.RenameCategory(tins.ID, "Veg")
	if err != nil {
		t.Fatal(err)
	}
	if got := l.CategoryCompletions(); !reflect.DeepEqual(got, []string{"Veg"}) {
		t.Errorf("completions after rename: %v", got)
	}
}

func TestExportText(t *testing.T) {
	t.Run("category order then item order", func(t *testing.T) {
		l := sample(t)
		want := "3 Apples\n1 Leeks\n2 Onions\n4 Beans\n1 Soup"
		if got := l.ExportText(); got != want {
			t.Errorf("export:\n%q\nwant:\n%q", got, want)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		if got := New().ExportText(); got != "" {
			t.Errorf("export of empty list: %q", got)
		}
	})

	t.Run("fractional quantities keep their shortest form", func(t *testing.T) {
		l := New().CreateItem("Flour", 1.5, "Baking")
		if got := l.ExportText(); got != "1.5 Flour" {
			t.Errorf("export: %q", got)
		}
	})
}

func TestFormatQuantity(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{2.5, "2.5"},
		{-3, "-3"},
		{0, "0"},
	}
	for _, tc := range cases {
		if got := FormatQuantity(tc.in); got != tc.want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
