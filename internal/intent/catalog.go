// Package intent resolves messages to discrete intent tags and their
// canned response templates.
package intent

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Entry is one intent definition from the catalog file.
type Entry struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

type catalogFile struct {
	Intents []Entry `json:"intents"`
}

// Catalog is the ordered intent table. The external classifier reports a
// label index; its position in this table determines the tag, so the file
// order is load-bearing and must match the order the model was trained on.
type Catalog struct {
	entries []Entry
	byTag   map[string]int
}

// LoadCatalog reads the intents JSON file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read intent catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode intent catalog %s: %w", path, err)
	}
	return NewCatalog(file.Intents)
}

// NewCatalog builds a Catalog from ordered entries.
func NewCatalog(entries []Entry) (*Catalog, error) {
	byTag := make(map[string]int, len(entries))
	for i, e := range entries {
		tag := strings.TrimSpace(e.Tag)
		if tag == "" {
			return nil, fmt.Errorf("intent catalog entry %d has no tag", i)
		}
		if _, dup := byTag[tag]; dup {
			return nil, fmt.Errorf("intent catalog has duplicate tag %q", tag)
		}
		byTag[tag] = i
	}
	return &Catalog{entries: entries, byTag: byTag}, nil
}

// Len returns the number of intents in the table.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// TagAt maps a classifier label index to its tag. Out-of-range indexes
// return false.
func (c *Catalog) TagAt(index int) (string, bool) {
	if index < 0 || index >= len(c.entries) {
		return "", false
	}
	return c.entries[index].Tag, true
}

// Responses returns the response templates registered for a tag. A nil
// result means the tag is unknown or has no templates.
func (c *Catalog) Responses(tag string) []string {
	i, ok := c.byTag[tag]
	if !ok {
		return nil
	}
	return c.entries[i].Responses
}
