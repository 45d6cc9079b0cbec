package board

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"elemerge/internal/catalog"
	"elemerge/internal/merge"
)

var (
	ErrNoSuchItem  = errors.New("no such item")
	ErrBusy        = errors.New("item is waiting on a merge")
	ErrUnknownKind = errors.New("unknown element kind")
)

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Gesture is a tile in the hand. ItemID is empty when the tile was
// taken from the catalog rather than from the canvas.
type Gesture struct {
	ItemID string
	Kind   string
	Offset Point
}

func (g Gesture) FromCatalog() bool {
	return g.ItemID == ""
}

type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomePlaced
	OutcomeMoved
	OutcomeMergePending
	OutcomeMerged
)

func (o Outcome) String() string {
	switch o {
	case OutcomePlaced:
		return "placed"
	case OutcomeMoved:
		return "moved"
	case OutcomeMergePending:
		return "merge pending"
	case OutcomeMerged:
		return "merged"
	default:
		return "ignored"
	}
}

// Pending is a drop waiting for the resolver. The dragged kind always
// comes first.
type Pending struct {
	Gesture       Gesture
	Target        Point
	CandidateID   string
	CandidateKind string
}

// DropResult describes what a drop did. Item is set for placements and
// moves, Pending for merges.
type DropResult struct {
	Outcome Outcome
	Item    Item
	Pending Pending
}

// Surface is the drop target. Origin is where the canvas starts in
// pointer coordinates.
type Surface struct {
	Origin Point

	store   *Store
	catalog *catalog.Catalog
	logger  *zap.Logger
	busy    map[string]bool
}

type SurfaceOption func(*Surface)

func WithLogger(l *zap.Logger) SurfaceOption {
	return func(s *Surface) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithOrigin(p Point) SurfaceOption {
	return func(s *Surface) {
		s.Origin = p
	}
}

func NewSurface(store *Store, cat *catalog.Catalog, opts ...SurfaceOption) *Surface {
	s := &Surface{
		store:   store,
		catalog: cat,
		logger:  zap.NewNop(),
		busy:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Store() *Store {
	return s.store
}

func (s *Surface) Catalog() *catalog.Catalog {
	return s.catalog
}

// PickUp starts dragging a placed item grabbed at pointer.
func (s *Surface) PickUp(itemID string, pointer Point) (Gesture, error) {
	it, ok := s.store.Get(itemID)
	if !ok {
		return Gesture{}, fmt.Errorf("pick up %s: %w", itemID, ErrNoSuchItem)
	}
	if s.busy[itemID] {
		return Gesture{}, fmt.Errorf("pick up %s: %w", itemID, ErrBusy)
	}
	return Gesture{
		ItemID: itemID,
		Kind:   it.Kind,
		Offset: pointer.Sub(s.Origin).Sub(Point{X: it.X, Y: it.Y}),
	}, nil
}

// PickUpKind starts dragging a fresh tile of kind out of the catalog.
// offset is the pointer position relative to the entry's visual origin.
func (s *Surface) PickUpKind(kind string, offset Point) (Gesture, error) {
	if !s.catalog.Has(kind) {
		return Gesture{}, fmt.Errorf("pick up %q: %w", kind, ErrUnknownKind)
	}
	return Gesture{Kind: kind, Offset: offset}, nil
}

// Target is where the gesture's tile lands if released at pointer.
func (s *Surface) Target(g Gesture, pointer Point) Point {
	return pointer.Sub(g.Offset).Sub(s.Origin)
}

// Pending reports whether id is locked by a merge in flight.
func (s *Surface) Pending(id string) bool {
	return s.busy[id]
}

// InFlight is the number of items locked by merges in flight.
func (s *Surface) InFlight() int {
	return len(s.busy)
}

// Drop releases g at pointer. Without a nearby tile it moves or places
// the tile straight away. Otherwise both tiles are locked and the caller
// must resolve the returned Pending and hand the answer to Complete.
func (s *Surface) Drop(g Gesture, pointer Point) DropResult {
	target := s.Target(g, pointer)

	if g.FromCatalog() {
		if !s.catalog.Has(g.Kind) {
			return DropResult{Outcome: OutcomeIgnored}
		}
	} else {
		it, ok := s.store.Get(g.ItemID)
		if !ok || s.busy[g.ItemID] {
			return DropResult{Outcome: OutcomeIgnored}
		}
		g.Kind = it.Kind
	}

	cand, ok := s.store.CandidateNear(target.X, target.Y, func(it Item) bool {
		return it.ID == g.ItemID || s.busy[it.ID]
	})
	if !ok {
		return s.settle(g, target)
	}

	if !g.FromCatalog() {
		s.busy[g.ItemID] = true
	}
	s.busy[cand.ID] = true
	s.logger.Debug("merge requested",
		zap.String("dragged", g.Kind),
		zap.String("target", cand.Kind),
		zap.Float64("x", target.X),
		zap.Float64("y", target.Y),
	)
	return DropResult{
		Outcome: OutcomeMergePending,
		Pending: Pending{
			Gesture:       g,
			Target:        target,
			CandidateID:   cand.ID,
			CandidateKind: cand.Kind,
		},
	}
}

// Complete applies the resolver's answer to a pending drop. A failed
// merge degrades to a plain move or placement; nothing is destroyed.
func (s *Surface) Complete(p Pending, res merge.Result, err error) (Item, Outcome) {
	defer s.release(p)

	if err == nil && res.Kind == "" {
		err = fmt.Errorf("%w: empty result", merge.ErrMergeFailed)
	}
	if err != nil {
		s.logger.Warn("merge failed",
			zap.String("dragged", p.Gesture.Kind),
			zap.String("target", p.CandidateKind),
			zap.Error(err),
		)
		return s.settleDropped(p)
	}

	s.catalog.Add(res.Kind, res.Emoji)

	if _, ok := s.store.Get(p.CandidateID); !ok {
		s.logger.Info("merge target vanished",
			zap.String("target", p.CandidateKind),
			zap.String("result", res.Kind),
		)
		return s.settleDropped(p)
	}

	if !p.Gesture.FromCatalog() {
		s.store.Remove(p.Gesture.ItemID)
	}
	s.store.Remove(p.CandidateID)
	it := s.store.Place(res.Kind, p.Target.X, p.Target.Y)
	s.logger.Info("merged",
		zap.String("dragged", p.Gesture.Kind),
		zap.String("target", p.CandidateKind),
		zap.String("result", res.Kind),
	)
	return it, OutcomeMerged
}

// DropAndResolve runs a whole drop synchronously, calling r at most once.
func (s *Surface) DropAndResolve(ctx context.Context, g Gesture, pointer Point, r merge.Resolver) (Item, Outcome) {
	dr := s.Drop(g, pointer)
	if dr.Outcome != OutcomeMergePending {
		return dr.Item, dr.Outcome
	}
	p := dr.Pending
	res, err := r.Resolve(ctx, p.Gesture.Kind, p.CandidateKind)
	return s.Complete(p, res, err)
}

func (s *Surface) settleDropped(p Pending) (Item, Outcome) {
	dr := s.settle(p.Gesture, p.Target)
	return dr.Item, dr.Outcome
}

func (s *Surface) settle(g Gesture, target Point) DropResult {
	if g.FromCatalog() {
		it := s.store.Place(g.Kind, target.X, target.Y)
		return DropResult{Outcome: OutcomePlaced, Item: it}
	}
	it, ok := s.store.Move(g.ItemID, target.X, target.Y)
	if !ok {
		return DropResult{Outcome: OutcomeIgnored}
	}
	return DropResult{Outcome: OutcomeMoved, Item: it}
}

func (s *Surface) release(p Pending) {
	if !p.Gesture.FromCatalog() {
		delete(s.busy, p.Gesture.ItemID)
	}
	delete(s.busy, p.CandidateID)
}
