// Package champion holds the static champion reference table keyed by the
// numeric champion id Riot uses in mastery and match payloads.
package champion

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound is returned when no champion has the requested key.
var ErrNotFound = errors.New("champion not found")

//go:embed champion.json
var bundled []byte

// Champion is a single entry of the Data Dragon champion.json file.
// Key is the numeric id as a string ("103"), ID is the internal name ("Ahri").
type Champion struct {
	ID    string   `json:"id"`
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// Dataset mirrors the top level of Data Dragon's champion.json.
type Dataset struct {
	Type    string              `json:"type"`
	Format  string              `json:"format"`
	Version string              `json:"version"`
	Data    map[string]Champion `json:"data"`
}

// Table is an immutable lookup of champions by key. It is safe for
// concurrent use once built.
type Table struct {
	version string
	byKey   map[string]Champion
}

// Load builds a Table from a champion.json stream.
func Load(r io.Reader) (*Table, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode champion data: %w", err)
	}
	return NewTable(ds)
}

// LoadBundled builds a Table from the dataset compiled into the binary.
func LoadBundled() (*Table, error) {
	return Load(bytes.NewReader(bundled))
}

// NewTable indexes a dataset by champion key. Duplicate or empty keys are
// rejected so that a lookup always resolves to exactly one champion.
func NewTable(ds Dataset) (*Table, error) {
	if len(ds.Data) == 0 {
		return nil, errors.New("champion data is empty")
	}

	byKey := make(map[string]Champion, len(ds.Data))
	for name, c := range ds.Data {
		if c.Key == "" {
			return nil, fmt.Errorf("champion %s has no key", name)
		}
		if prev, ok := byKey[c.Key]; ok {
			return nil, fmt.Errorf("champion key %s shared by %s and %s", c.Key, prev.ID, c.ID)
		}
		byKey[c.Key] = c
	}

	return &Table{version: ds.Version, byKey: byKey}, nil
}

// ByKey returns the champion whose key equals the given numeric id.
func (t *Table) ByKey(key string) (Champion, error) {
	c, ok := t.byKey[key]
	if !ok {
		return Champion{}, fmt.Errorf("%w: id %s", ErrNotFound, key)
	}
	return c, nil
}

// Len reports the number of champions in the table.
func (t *Table) Len() int {
	return len(t.byKey)
}

// Version is the Data Dragon patch the table was built from.
func (t *Table) Version() string {
	return t.version
}
