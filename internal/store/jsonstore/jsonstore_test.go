package jsonstore

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/idilsaglam/shoplist/internal/model"
)

func buildList(t *testing.T) model.List {
	t.Helper()
	l := model.New().
		CreateItem("Bread", 2, "Bakery").
		CreateItem("Milk", 1, "Dairy").
		CreateItem("Butter", 1.5, "Dairy")
	if err := l.Check(); err != nil {
		t.Fatalf("test list invalid: %v", err)
	}
	return l
}

func TestRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		list model.List
	}{
		{"empty", model.New()},
		{"populated", buildList(t)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Encode(tc.list)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got := Decode(b)
			if !reflect.DeepEqual(got, tc.list) {
				t.Errorf("round trip mismatch:\nwant %#v\n got %#v", tc.list, got)
			}
		})
	}
}

func TestDecodeCorruptBlobs(t *testing.T) {
	empty := model.New()
	cases := []struct {
		name string
		blob string
	}{
		{"not json", `{"items":`},
		{"wrong root type", `[1,2,3]`},
		{"quantity as string", `{"items":{"item-0":{"id":"item-0","name":"Bread","quantity":"2"}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0"]}},"categoryOrder":["category-0"],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"dangling item id", `{"items":{},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0"]}},"categoryOrder":["category-0"],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"orphaned item", `{"items":{"item-0":{"id":"item-0","name":"Bread","quantity":2}},"categories":{},"categoryOrder":[],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"duplicate id in category order", `{"items":{"item-0":{"id":"item-0","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0"]}},"categoryOrder":["category-0","category-0"],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"category missing from order", `{"items":{"item-0":{"id":"item-0","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0"]}},"categoryOrder":[],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"duplicate item in one category", `{"items":{"item-0":{"id":"item-0","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0","item-0"]}},"categoryOrder":["category-0"],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"item owned twice", `{"items":{"item-0":{"id":"item-0","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0"]},"category-1":{"id":"category-1","name":"Dairy","itemIds":["item-0"]}},"categoryOrder":["category-0","category-1"],"nextItemSeq":1,"nextCategorySeq":2}`},
		{"empty category", `{"items":{"item-0":{"id":"item-0","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0"]},"category-1":{"id":"category-1","name":"Empty","itemIds":[]}},"categoryOrder":["category-0","category-1"],"nextItemSeq":1,"nextCategorySeq":2}`},
		{"empty item name", `{"items":{"item-0":{"id":"item-0","name":"","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-0"]}},"categoryOrder":["category-0"],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"id key mismatch", `{"items":{"item-5":{"id":"item-0","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-5"]}},"categoryOrder":["category-0"],"nextItemSeq":6,"nextCategorySeq":1}`},
		{"wrong id prefix", `{"items":{"category-0":{"id":"category-0","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["category-0"]}},"categoryOrder":["category-0"],"nextItemSeq":1,"nextCategorySeq":1}`},
		{"counter behind issued ids", `{"items":{"item-3":{"id":"item-3","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-3"]}},"categoryOrder":["category-0"],"nextItemSeq":3,"nextCategorySeq":1}`},
		{"non-numeric id suffix", `{"items":{"item-x":{"id":"item-x","name":"Bread","quantity":2}},"categories":{"category-0":{"id":"category-0","name":"Bakery","itemIds":["item-x"]}},"categoryOrder":["category-0"],"nextItemSeq":1,"nextCategorySeq":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Decode([]byte(tc.blob))
			if !reflect.DeepEqual(got, empty) {
				t.Errorf("corrupt blob decoded to %#v, want the empty list", got)
			}
		})
	}
}

func TestDecodeValidBlob(t *testing.T) {
	blob := `{
	  "items": {"item-0": {"id": "item-0", "name": "Bread", "quantity": 2}},
	  "categories": {"category-0": {"id": "category-0", "name": "Bakery", "itemIds": ["item-0"]}},
	  "categoryOrder": ["category-0"],
	  "nextItemSeq": 1,
	  "nextCategorySeq": 1
	}`
	got := Decode([]byte(blob))
	if got.Len() != 1 {
		t.Fatalf("decoded %d items, want 1", got.Len())
	}
	it, err := got.Item("item-0")
	if err != nil {
		t.Fatal(err)
	}
	if it.Name != "Bread" || it.Quantity != 2 {
		t.Errorf("decoded item: %+v", it)
	}
}

func TestLoadSaveSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.json")
	t.Setenv("SHOPLIST_FILE", path)

	t.Run("missing file is an empty list", func(t *testing.T) {
		got, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, model.New()) {
			t.Errorf("got %#v", got)
		}
	})

	t.Run("save then load", func(t *testing.T) {
		want := buildList(t)
		if err := Save(want); err != nil {
			t.Fatal(err)
		}
		got, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("slot round trip mismatch:\nwant %#v\n got %#v", want, got)
		}
	})

	t.Run("corrupt slot recovers to empty", func(t *testing.T) {
		if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := Load()
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got, model.New()) {
			t.Errorf("got %#v", got)
		}
	})
}
