package compendium

import (
	"errors"
	"strings"
)

// ErrNotFound indicates a requested record does not exist in the store.
var ErrNotFound = errors.New("compendium record not found")

// NameKey reduces a record name to its lookup key: lowercase with
// everything but letters and digits stripped.
func NameKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Action is one named action block on a monster stat sheet. Text holds the
// raw attack sentence; parsing happens in the normalize package.
type Action struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Monster is an imported monster record.
type Monster struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Size      string   `json:"size,omitempty"`
	Type      string   `json:"type,omitempty"`
	Alignment string   `json:"alignment,omitempty"`
	AC        Field    `json:"ac"`
	HP        Field    `json:"hp"`
	Speed     string   `json:"speed,omitempty"`
	CR        Field    `json:"cr"`
	Traits    []Action `json:"traits,omitempty"`
	Actions   []Action `json:"actions,omitempty"`
	Source    string   `json:"source,omitempty"`
}

// Spell is an imported spell record.
type Spell struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	School string `json:"school,omitempty"`
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"`
}

// Item is an imported item record.
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"`
	Rarity string `json:"rarity,omitempty"`
	Text   string `json:"text,omitempty"`
	Source string `json:"source,omitempty"`
}
