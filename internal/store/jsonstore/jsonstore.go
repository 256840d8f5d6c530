package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/shoplist/internal/model"
)

// JSON-backed storage. A single file holds one list snapshot; human-readable,
// portable. No locking for v1; fine for a local single-user CLI.

const dataFileName = "shoplist.json"

// envFile overrides the snapshot location, e.g. for scripted use or tests.
const envFile = "SHOPLIST_FILE"

func dataPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(envFile)); p != "" {
		return p, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}
	return filepath.Join(wd, dataFileName), nil
}

// Decode parses a snapshot blob into a list. Anything that fails to parse or
// breaks the structural invariants yields the empty list instead: corrupt
// data is treated exactly like no data, never surfaced to the user.
func Decode(blob []byte) model.List {
	var l model.List
	if err := json.Unmarshal(blob, &l); err != nil {
		return model.New()
	}
	if l.Items == nil {
		l.Items = map[string]model.Item{}
	}
	if l.Categories == nil {
		l.Categories = map[string]model.Category{}
	}
	if err := l.Check(); err != nil {
		return model.New()
	}
	return l
}

// Encode serializes a list. It always succeeds for lists built through the
// model's operations, and Decode(Encode(l)) reproduces l.
func Encode(l model.List) ([]byte, error) {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Load reads the snapshot slot. A missing file is an empty list.
func Load() (model.List, error) {
	p, err := dataPath()
	if err != nil {
		return model.New(), err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.New(), nil
		}
		return model.New(), fmt.Errorf("read file: %w", err)
	}
	return Decode(b), nil
}

// Save writes the snapshot slot.
func Save(l model.List) error {
	p, err := dataPath()
	if err != nil {
		return err
	}
	b, err := Encode(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}
