// Package board tracks the tiles placed on the canvas and turns drop
// gestures into moves, placements and merges.
package board

import (
	"math"
	"sort"

	"github.com/google/uuid"
)

// Threshold is the per-axis distance, in canvas units, under which a
// dropped tile lands on another one.
const Threshold = 50.0

// Item is a tile placed on the canvas.
type Item struct {
	ID    string
	Kind  string
	X     float64
	Y     float64
	Stack int
}

// Store keeps items in insertion order. Stack orders come from a single
// counter that only grows, so every placement or move ends up on top.
type Store struct {
	items []Item
	top   int
	newID func() string
}

func NewStore() *Store {
	return &Store{newID: uuid.NewString}
}

func (s *Store) nextStack() int {
	s.top++
	return s.top
}

// Place adds a new item on top of everything else.
func (s *Store) Place(kind string, x, y float64) Item {
	it := Item{
		ID:    s.newID(),
		Kind:  kind,
		X:     x,
		Y:     y,
		Stack: s.nextStack(),
	}
	s.items = append(s.items, it)
	return it
}

// Move relocates id and raises it to the top. Its position in store
// order is unchanged.
func (s *Store) Move(id string, x, y float64) (Item, bool) {
	i := s.index(id)
	if i < 0 {
		return Item{}, false
	}
	s.items[i].X = x
	s.items[i].Y = y
	s.items[i].Stack = s.nextStack()
	return s.items[i], true
}

func (s *Store) Remove(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

func (s *Store) Get(id string) (Item, bool) {
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return Item{}, false
}

// Items returns a copy of the items in store order.
func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// ByStack returns the items bottom-most first, the order to draw them in.
func (s *Store) ByStack() []Item {
	out := s.Items()
	sort.Slice(out, func(i, j int) bool { return out[i].Stack < out[j].Stack })
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

// TopStack is the highest stack order handed out so far.
func (s *Store) TopStack() int {
	return s.top
}

// Clear drops every item. The stack counter keeps counting.
func (s *Store) Clear() {
	s.items = s.items[:0]
}

// CandidateNear returns the first item in store order that lies within
// Threshold of (x, y) on both axes. Items for which skip returns true
// are not considered.
func (s *Store) CandidateNear(x, y float64, skip func(Item) bool) (Item, bool) {
	for _, it := range s.items {
		if skip != nil && skip(it) {
			continue
		}
		if math.Abs(it.X-x) < Threshold && math.Abs(it.Y-y) < Threshold {
			return it, true
		}
	}
	return Item{}, false
}

func (s *Store) index(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
