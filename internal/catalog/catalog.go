// Package catalog holds the discovered element kinds.
package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind is an element kind the player has discovered.
type Kind struct {
	ID    string
	Emoji string
	Text  string
}

// Label is the sidebar/tile label, emoji followed by the display text.
func (k Kind) Label() string {
	return k.Emoji + " " + k.Text
}

var seed = []Kind{
	{ID: "water", Emoji: "💧", Text: "Water"},
	{ID: "fire", Emoji: "🔥", Text: "Fire"},
	{ID: "earth", Emoji: "🌿", Text: "Earth"},
	{ID: "air", Emoji: "💨", Text: "Air"},
}

// Catalog is an insertion-ordered registry of kinds. Kinds are never
// removed. It is not safe for concurrent use; the UI loop owns it.
type Catalog struct {
	kinds map[string]Kind
	order []string
}

func New() *Catalog {
	c := &Catalog{
		kinds: make(map[string]Kind, len(seed)),
		order: make([]string, 0, len(seed)),
	}
	for _, k := range seed {
		c.Add(k.ID, k.Emoji)
	}
	return c
}

// Add registers id with emoji unless it is already known. It reports
// whether a new kind was inserted.
func (c *Catalog) Add(id, emoji string) bool {
	if id == "" {
		return false
	}
	if _, ok := c.kinds[id]; ok {
		return false
	}
	c.kinds[id] = Kind{ID: id, Emoji: emoji, Text: capitalize(id)}
	c.order = append(c.order, id)
	return true
}

// Lookup returns the label for id, or id itself when it is unknown.
func (c *Catalog) Lookup(id string) string {
	if k, ok := c.kinds[id]; ok {
		return k.Label()
	}
	return id
}

func (c *Catalog) Get(id string) (Kind, bool) {
	k, ok := c.kinds[id]
	return k, ok
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.kinds[id]
	return ok
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Kinds returns all kinds in discovery order.
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.kinds[id])
	}
	return out
}

// Filter returns the kinds whose display text contains query, ignoring
// case. An empty query matches everything.
func (c *Catalog) Filter(query string) []Kind {
	q := strings.ToLower(query)
	if q == "" {
		return c.Kinds()
	}
	var out []Kind
	for _, id := range c.order {
		k := c.kinds[id]
		if strings.Contains(strings.ToLower(k.Text), q) {
			out = append(out, k)
		}
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
