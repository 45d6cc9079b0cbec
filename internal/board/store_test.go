package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_StackOrderMonotonic(t *testing.T) {
	s := NewStore()
	a := s.Place("water", 0, 0)
	b := s.Place("fire", 10, 10)
	moved, ok := s.Move(a.ID, 200, 200)
	require.True(t, ok)
	s.Remove(b.ID)
	c := s.Place("air", 5, 5)
	s.Clear()
	d := s.Place("earth", 1, 1)

	stacks := []int{a.Stack, b.Stack, moved.Stack, c.Stack, d.Stack}
	for i := 1; i < len(stacks); i++ {
		assert.Greater(t, stacks[i], stacks[i-1], "stack orders must strictly increase: %v", stacks)
	}
	assert.Equal(t, 5, s.TopStack())
}

func TestStore_UniqueIDs(t *testing.T) {
	s := NewStore()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		it := s.Place("water", float64(i), 0)
		require.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
}

func TestStore_MoveKeepsStoreOrder(t *testing.T) {
	s := NewStore()
	a := s.Place("water", 0, 0)
	b := s.Place("fire", 100, 0)

	_, ok := s.Move(a.ID, 300, 300)
	require.True(t, ok)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, a.ID, items[0].ID)
	assert.Equal(t, 300.0, items[0].X)
	assert.Equal(t, b.ID, items[1].ID)

	byStack := s.ByStack()
	assert.Equal(t, b.ID, byStack[0].ID)
	assert.Equal(t, a.ID, byStack[1].ID, "moved item renders on top")
}

func TestStore_MissingItem(t *testing.T) {
	s := NewStore()
	_, ok := s.Move("nope", 1, 1)
	assert.False(t, ok)
	assert.False(t, s.Remove("nope"))
	_, ok = s.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, s.TopStack(), "failed move must not consume a stack order")
}

func TestStore_CandidateNear(t *testing.T) {
	cases := []struct {
		name   string
		dx, dy float64
		want   bool
	}{
		{"same spot", 0, 0, true},
		{"49 on both axes", 49, 49, true},
		{"negative 49", -49, -49, true},
		{"50 is outside", 50, 0, false},
		{"51 on x", 51, 0, false},
		{"51 on y", 0, 51, false},
		{"51 on both", 51, 51, false},
		{"far on x only", 300, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewStore()
			s.Place("water", 100, 100)
			_, ok := s.CandidateNear(100+tc.dx, 100+tc.dy, nil)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestStore_CandidateNearFirstInStoreOrder(t *testing.T) {
	s := NewStore()
	far := s.Place("fire", 140, 140)
	near := s.Place("water", 101, 101)

	got, ok := s.CandidateNear(100, 100, nil)
	require.True(t, ok)
	assert.Equal(t, far.ID, got.ID, "first match wins, not the nearest")

	got, ok = s.CandidateNear(100, 100, func(it Item) bool { return it.ID == far.ID })
	require.True(t, ok)
	assert.Equal(t, near.ID, got.ID)
}

func TestStore_ItemsIsCopy(t *testing.T) {
	s := NewStore()
	s.Place("water", 0, 0)
	items := s.Items()
	items[0].Kind = "lava"

	got := s.Items()
	assert.Equal(t, "water", got[0].Kind)
}
