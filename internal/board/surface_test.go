package board

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elemerge/internal/catalog"
	"elemerge/internal/merge"
)

type call struct {
	first, second string
}

type fakeResolver struct {
	calls  []call
	result merge.Result
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, first, second string) (merge.Result, error) {
	f.calls = append(f.calls, call{first, second})
	return f.result, f.err
}

func newSurface(t *testing.T, opts ...SurfaceOption) *Surface {
	t.Helper()
	return NewSurface(NewStore(), catalog.New(), opts...)
}

func dropKind(t *testing.T, s *Surface, kind string, at Point) DropResult {
	t.Helper()
	g, err := s.PickUpKind(kind, Point{})
	require.NoError(t, err)
	return s.Drop(g, at)
}

func TestSurface_TargetMath(t *testing.T) {
	s := newSurface(t, WithOrigin(Point{X: 10, Y: 20}))
	g := Gesture{Kind: "water", Offset: Point{X: 3, Y: 4}}

	assert.Equal(t, Point{X: 87, Y: 76}, s.Target(g, Point{X: 100, Y: 100}))
}

func TestSurface_PickUpOffset(t *testing.T) {
	s := newSurface(t, WithOrigin(Point{X: 0, Y: 16}))
	it := s.Store().Place("water", 40, 32)

	g, err := s.PickUp(it.ID, Point{X: 56, Y: 48})
	require.NoError(t, err)
	assert.Equal(t, Point{X: 16, Y: 0}, g.Offset)
	assert.Equal(t, "water", g.Kind)

	// Releasing where it was grabbed leaves it in place.
	assert.Equal(t, Point{X: 40, Y: 32}, s.Target(g, Point{X: 56, Y: 48}))
}

func TestSurface_PickUpErrors(t *testing.T) {
	s := newSurface(t)

	_, err := s.PickUp("missing", Point{})
	assert.ErrorIs(t, err, ErrNoSuchItem)

	_, err = s.PickUpKind("lava", Point{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSurface_DropOnEmptySpace(t *testing.T) {
	s := newSurface(t)

	dr := dropKind(t, s, "water", Point{X: 100, Y: 100})

	assert.Equal(t, OutcomePlaced, dr.Outcome)
	require.Equal(t, 1, s.Store().Len())
	it := s.Store().Items()[0]
	assert.Equal(t, "water", it.Kind)
	assert.Equal(t, 100.0, it.X)
	assert.Equal(t, 100.0, it.Y)
	assert.Equal(t, 1, it.Stack)
	assert.Equal(t, it, dr.Item)
}

func TestSurface_MoveWithoutCandidate(t *testing.T) {
	s := newSurface(t)
	a := s.Store().Place("water", 0, 0)
	s.Store().Place("fire", 500, 500)

	g, err := s.PickUp(a.ID, Point{})
	require.NoError(t, err)
	dr := s.Drop(g, Point{X: 200, Y: 10})

	assert.Equal(t, OutcomeMoved, dr.Outcome)
	assert.Equal(t, 2, s.Store().Len())
	got, _ := s.Store().Get(a.ID)
	assert.Equal(t, 200.0, got.X)
	assert.Equal(t, 3, got.Stack)
}

func TestSurface_DraggedItemIsNotItsOwnCandidate(t *testing.T) {
	s := newSurface(t)
	a := s.Store().Place("water", 100, 100)

	g, err := s.PickUp(a.ID, Point{X: 100, Y: 100})
	require.NoError(t, err)
	r := &fakeResolver{}
	_, outcome := s.DropAndResolve(context.Background(), g, Point{X: 110, Y: 110}, r)

	assert.Equal(t, OutcomeMoved, outcome)
	assert.Empty(t, r.calls)
}

func TestSurface_ExampleSession(t *testing.T) {
	s := newSurface(t)
	r := &fakeResolver{result: merge.Result{Kind: "steam", Emoji: "💨"}}

	g, err := s.PickUpKind("water", Point{})
	require.NoError(t, err)
	_, outcome := s.DropAndResolve(context.Background(), g, Point{X: 100, Y: 100}, r)
	require.Equal(t, OutcomePlaced, outcome)

	g, err = s.PickUpKind("fire", Point{})
	require.NoError(t, err)
	merged, outcome := s.DropAndResolve(context.Background(), g, Point{X: 110, Y: 105}, r)
	require.Equal(t, OutcomeMerged, outcome)

	require.Len(t, r.calls, 1)
	assert.Equal(t, call{"fire", "water"}, r.calls[0])

	items := s.Store().Items()
	require.Len(t, items, 1)
	assert.Equal(t, "steam", items[0].Kind)
	assert.Equal(t, 2, items[0].Stack)
	assert.Equal(t, 110.0, items[0].X)
	assert.Equal(t, 105.0, items[0].Y)
	assert.Equal(t, merged, items[0])

	assert.True(t, s.Catalog().Has("steam"))
	assert.Equal(t, 5, s.Catalog().Len())
	assert.False(t, s.Catalog().Add("steam", "💨"), "steam is already registered")
	assert.Equal(t, 5, s.Catalog().Len())
}

func TestSurface_MergeExistingItems(t *testing.T) {
	s := newSurface(t)
	a := s.Store().Place("earth", 0, 0)
	b := s.Store().Place("water", 300, 300)
	r := &fakeResolver{result: merge.Result{Kind: "mud", Emoji: "🟫"}}

	g, err := s.PickUp(a.ID, Point{})
	require.NoError(t, err)
	it, outcome := s.DropAndResolve(context.Background(), g, Point{X: 320, Y: 290}, r)

	require.Equal(t, OutcomeMerged, outcome)
	assert.Equal(t, []call{{"earth", "water"}}, r.calls)
	assert.Equal(t, 1, s.Store().Len())
	_, ok := s.Store().Get(a.ID)
	assert.False(t, ok)
	_, ok = s.Store().Get(b.ID)
	assert.False(t, ok)
	assert.Equal(t, "mud", it.Kind)
	assert.Equal(t, Point{X: 320, Y: 290}, Point{X: it.X, Y: it.Y})
	assert.Equal(t, "🟫 Mud", s.Catalog().Lookup("mud"))
}

func TestSurface_FailedMergeOfExistingItemMoves(t *testing.T) {
	s := newSurface(t)
	a := s.Store().Place("earth", 0, 0)
	b := s.Store().Place("water", 300, 300)
	r := &fakeResolver{err: merge.ErrMergeFailed}

	g, err := s.PickUp(a.ID, Point{})
	require.NoError(t, err)
	it, outcome := s.DropAndResolve(context.Background(), g, Point{X: 310, Y: 310}, r)

	assert.Equal(t, OutcomeMoved, outcome)
	assert.Len(t, r.calls, 1)
	assert.Equal(t, 2, s.Store().Len())
	assert.Equal(t, a.ID, it.ID)
	assert.Equal(t, 310.0, it.X)
	assert.Greater(t, it.Stack, b.Stack)
	_, ok := s.Store().Get(b.ID)
	assert.True(t, ok)
	assert.Equal(t, 4, s.Catalog().Len())
}

func TestSurface_FailedMergeOfNewItemPlaces(t *testing.T) {
	s := newSurface(t)
	s.Store().Place("water", 100, 100)
	r := &fakeResolver{err: errors.New("connection refused")}

	it, outcome := func() (Item, Outcome) {
		g, err := s.PickUpKind("fire", Point{})
		require.NoError(t, err)
		return s.DropAndResolve(context.Background(), g, Point{X: 110, Y: 110}, r)
	}()

	assert.Equal(t, OutcomePlaced, outcome)
	assert.Equal(t, 2, s.Store().Len())
	assert.Equal(t, "fire", it.Kind)
	assert.Equal(t, 0, s.InFlight())
}

func TestSurface_EmptyResultCountsAsFailure(t *testing.T) {
	s := newSurface(t)
	s.Store().Place("water", 0, 0)
	r := &fakeResolver{result: merge.Result{}}

	g, _ := s.PickUpKind("air", Point{})
	_, outcome := s.DropAndResolve(context.Background(), g, Point{X: 1, Y: 1}, r)

	assert.Equal(t, OutcomePlaced, outcome)
	assert.Equal(t, 4, s.Catalog().Len())
}

func TestSurface_PendingLocksParticipants(t *testing.T) {
	s := newSurface(t)
	a := s.Store().Place("earth", 0, 0)
	b := s.Store().Place("water", 100, 100)
	c := s.Store().Place("fire", 400, 400)

	g, err := s.PickUp(a.ID, Point{})
	require.NoError(t, err)
	dr := s.Drop(g, Point{X: 100, Y: 100})
	require.Equal(t, OutcomeMergePending, dr.Outcome)
	assert.Equal(t, "earth", dr.Pending.Gesture.Kind)
	assert.Equal(t, "water", dr.Pending.CandidateKind)
	assert.True(t, s.Pending(a.ID))
	assert.True(t, s.Pending(b.ID))

	_, err = s.PickUp(a.ID, Point{})
	assert.ErrorIs(t, err, ErrBusy)
	_, err = s.PickUp(b.ID, Point{})
	assert.ErrorIs(t, err, ErrBusy)

	// A second gesture over the locked tile does not merge with it.
	g2, err := s.PickUp(c.ID, Point{})
	require.NoError(t, err)
	dr2 := s.Drop(g2, Point{X: 100, Y: 100})
	assert.Equal(t, OutcomeMoved, dr2.Outcome)

	// Nothing changed for the locked tiles while the merge is out.
	assert.Equal(t, 3, s.Store().Len())

	_, outcome := s.Complete(dr.Pending, merge.Result{Kind: "mud", Emoji: "🟫"}, nil)
	assert.Equal(t, OutcomeMerged, outcome)
	assert.False(t, s.Pending(a.ID))
	assert.Equal(t, 0, s.InFlight())
	assert.Equal(t, 2, s.Store().Len())
}

func TestSurface_CandidateVanishedWhilePending(t *testing.T) {
	s := newSurface(t)
	s.Store().Place("water", 100, 100)

	g, _ := s.PickUpKind("fire", Point{})
	dr := s.Drop(g, Point{X: 100, Y: 100})
	require.Equal(t, OutcomeMergePending, dr.Outcome)

	s.Store().Clear()
	it, outcome := s.Complete(dr.Pending, merge.Result{Kind: "steam", Emoji: "💨"}, nil)

	assert.Equal(t, OutcomePlaced, outcome)
	assert.Equal(t, "fire", it.Kind)
	assert.True(t, s.Catalog().Has("steam"), "the discovery is kept")
	assert.Equal(t, 0, s.InFlight())
}

func TestSurface_DropOfVanishedItemIgnored(t *testing.T) {
	s := newSurface(t)
	a := s.Store().Place("water", 0, 0)
	g, err := s.PickUp(a.ID, Point{})
	require.NoError(t, err)
	s.Store().Remove(a.ID)

	dr := s.Drop(g, Point{X: 10, Y: 10})
	assert.Equal(t, OutcomeIgnored, dr.Outcome)
	assert.Equal(t, 0, s.Store().Len())
}

func TestSurface_SameProximityRuleForBothSources(t *testing.T) {
	cases := []struct {
		name string
		at   Point
		want Outcome
	}{
		{"49 off is a candidate", Point{X: 149, Y: 149}, OutcomeMergePending},
		{"51 off on x is not", Point{X: 151, Y: 100}, OutcomePlaced},
		{"51 off on y is not", Point{X: 100, Y: 151}, OutcomePlaced},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newSurface(t)
			s.Store().Place("water", 100, 100)
			dr := dropKind(t, s, "fire", tc.at)
			assert.Equal(t, tc.want, dr.Outcome)
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "merged", OutcomeMerged.String())
	assert.Equal(t, "ignored", Outcome(99).String())
}
