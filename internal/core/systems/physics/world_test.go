package physics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dineshkummarc/oge/internal/core/events/bus"
)

func newTestWorld(t *testing.T, width, height float64, opts ...Option) *World {
	t.Helper()
	w, err := NewWorld(width, height, opts...)
	require.NoError(t, err)
	return w
}

type cell struct{ x, y int }

func zoneCells(zones []*Zone) map[cell]struct{} {
	out := make(map[cell]struct{}, len(zones))
	for _, z := range zones {
		out[cell{z.X, z.Y}] = struct{}{}
	}
	return out
}

// requireIndexConsistent checks that every body is indexed in exactly the
// zones GetZones reports for its current rectangle, and nowhere else.
func requireIndexConsistent(t *testing.T, w *World) {
	t.Helper()
	for _, b := range w.Bodies() {
		var holding []*Zone
		for x := 0; x < w.Columns(); x++ {
			for y := 0; y < w.Rows(); y++ {
				if z := w.Zone(x, y); z.Contains(b) {
					holding = append(holding, z)
				}
			}
		}
		require.Equal(t, zoneCells(w.GetZones(b.Rect())), zoneCells(holding), "zones of %s", b)
	}
}

func TestNewWorldValidation(t *testing.T) {
	_, err := NewWorld(0, 10)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = NewWorld(10, -1)
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = NewWorld(10, 10, WithZoneSize(0))
	assert.ErrorIs(t, err, ErrInvalidZoneSize)
}

func TestGridOverAllocatesOneCell(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	assert.Equal(t, 11, w.Columns())
	assert.Equal(t, 11, w.Rows())

	w = newTestWorld(t, 95, 40, WithZoneSize(20))
	assert.Equal(t, 6, w.Columns())
	assert.Equal(t, 3, w.Rows())
	assert.Nil(t, w.Zone(6, 0))
	assert.Nil(t, w.Zone(-1, 0))
	assert.NotNil(t, w.Zone(5, 2))
}

func TestAddBodyOutsideGridFails(t *testing.T) {
	w := newTestWorld(t, 100, 100, WithZoneSize(10))
	b := NewBody(95, 95, 10, 10)

	assert.False(t, w.AddBodyActive(b, true))
	assert.False(t, w.Contains(b))
	assert.Empty(t, w.ActiveBodies())
	assert.False(t, b.Active, "a rejected add does not touch the body")
	for x := 0; x < w.Columns(); x++ {
		for y := 0; y < w.Rows(); y++ {
			assert.Zero(t, w.Zone(x, y).Len())
		}
	}

	assert.False(t, w.AddBody(NewBody(-1, 0, 5, 5)))
	assert.False(t, w.AddBody(nil))
}

func TestGetZonesRange(t *testing.T) {
	w := newTestWorld(t, 100, 100)

	zones := w.GetZones(NewRect(15, 5, 10, 10))
	got := make([]cell, 0, len(zones))
	for _, z := range zones {
		got = append(got, cell{z.X, z.Y})
	}
	assert.Equal(t, []cell{{1, 0}, {1, 1}, {2, 0}, {2, 1}}, got)

	// the right edge counts as covering the next cell
	assert.Len(t, w.GetZones(NewRect(0, 0, 10, 10)), 4)
	assert.Len(t, w.GetZones(NewRect(90, 90, 10, 10)), 4)

	assert.Empty(t, w.GetZones(NewRect(95, 0, 10, 10)))
	assert.Empty(t, w.GetZones(NewRect(0, -0.5, 10, 10)))
}

func TestGetBodiesDeduplicates(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	big := NewBody(5, 5, 30, 30)
	small := NewBody(12, 12, 2, 2)
	far := NewBody(80, 80, 5, 5)
	require.True(t, w.AddBody(big))
	require.True(t, w.AddBody(small))
	require.True(t, w.AddBody(far))

	got := w.GetBodies(NewRect(0, 0, 40, 40))
	assert.Equal(t, []*Body{big, small}, got)
}

func TestGetBodiesShiftsRegionInside(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	corner := NewBody(90, 90, 5, 5)
	require.True(t, w.AddBody(corner))

	// hangs off the bottom-right corner; shifted back to (80, 80)
	got := w.GetBodies(NewRect(95, 95, 20, 20))
	assert.Equal(t, []*Body{corner}, got)

	assert.Empty(t, w.GetBodies(NewRect(0, 0, 200, 10)), "regions larger than the world find nothing")
}

func TestRemoveBody(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	a.OnCollision(func(*Body) Response { return Resolve })
	require.True(t, w.AddBodyActive(a, true))

	w.RemoveBody(a)
	w.RemoveBody(a)

	assert.False(t, w.Contains(a))
	assert.Empty(t, w.ActiveBodies())
	assert.Empty(t, w.GetBodies(a.Rect()))
	assert.Equal(t, 1, a.Observers(), "removal keeps collision observers")
}

func TestAddBodyTwiceDoesNotDuplicate(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(a))

	assert.Len(t, w.ActiveBodies(), 1)
	assert.Equal(t, 1, w.Len())

	require.True(t, w.AddBodyActive(a, false))
	assert.Empty(t, w.ActiveBodies())
	requireIndexConsistent(t, w)
}

func TestLiteralBodiesGetDistinctIdentities(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := &Body{X: 10, Y: 10, Width: 10, Height: 10}
	b := &Body{X: 50, Y: 50, Width: 10, Height: 10}
	require.True(t, w.AddBody(a))
	require.True(t, w.AddBody(b))

	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, []*Body{a}, w.GetBodies(a.Rect()))
	assert.Equal(t, []*Body{b}, w.GetBodies(b.Rect()))
	requireIndexConsistent(t, w)

	w.RemoveBody(a)
	assert.False(t, w.Contains(a))
	assert.True(t, w.Contains(b))
	requireIndexConsistent(t, w)
}

func TestSetActiveAndRelocate(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	assert.False(t, w.SetActive(a, true))
	require.True(t, w.AddBody(a))

	assert.True(t, w.SetActive(a, true))
	assert.Equal(t, []*Body{a}, w.ActiveBodies())
	assert.True(t, w.SetActive(a, false))
	assert.Empty(t, w.ActiveBodies())

	assert.True(t, w.Relocate(a, 50, 60))
	assert.Equal(t, 50.0, a.X)
	assert.Equal(t, 60.0, a.Y)
	requireIndexConsistent(t, w)

	assert.False(t, w.Relocate(a, 95, 0))
	assert.Equal(t, 50.0, a.X)
	requireIndexConsistent(t, w)
}

func TestStepBlocksAtObstacle(t *testing.T) {
	w := newTestWorld(t, 100, 100, WithZoneSize(10))
	a := NewBody(10, 10, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	b := NewBody(30, 10, 10, 10)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBodyActive(b, false))

	w.Step(25)

	assert.Equal(t, 20.0, a.X)
	assert.Equal(t, 10.0, a.Y)
	assert.Equal(t, 30.0, b.X)
	assert.Equal(t, uint64(25), w.Tick())
	requireIndexConsistent(t, w)
}

func TestStepSpeedCountsUnitMoves(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(0, 0, 5, 5)
	a.Speed = 3
	a.Direction = NewDirection(0, 1)
	require.True(t, w.AddBodyActive(a, true))

	w.Step(2)
	assert.Equal(t, 6.0, a.Y)

	a.Speed = 0
	w.Step(1)
	assert.Equal(t, 6.0, a.Y)

	a.Speed = 1
	a.Direction = nil
	w.Step(1)
	assert.Equal(t, 6.0, a.Y)
}

func TestBlockNeedsBothSides(t *testing.T) {
	cases := []struct {
		name          string
		mover, target Response
		wantX         float64
	}{
		{"neither vetoes", Resolve, Resolve, 20},
		{"mover vetoes", Veto, Resolve, 35},
		{"target vetoes", Resolve, Veto, 35},
		{"both veto", Veto, Veto, 35},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t, 100, 100)
			a := NewBody(10, 10, 10, 10)
			a.Speed = 1
			a.Direction = NewDirection(1, 0)
			b := NewBody(30, 10, 10, 10)

			moverCalls, targetCalls := 0, 0
			a.OnCollision(func(*Body) Response { moverCalls++; return tc.mover })
			b.OnCollision(func(*Body) Response { targetCalls++; return tc.target })
			require.True(t, w.AddBodyActive(a, true))
			require.True(t, w.AddBody(b))

			w.Step(25)

			assert.Equal(t, tc.wantX, a.X)
			assert.Equal(t, moverCalls, targetCalls, "both sides are always evaluated")
			if tc.wantX == 20 {
				assert.Equal(t, 15, moverCalls, "one blocked attempt per remaining tick")
			} else {
				assert.Equal(t, 1, moverCalls, "only a newly arising overlap is reported")
			}
			requireIndexConsistent(t, w)
		})
	}
}

func TestSlideDeflectsLaterally(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 20, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	a.Slide = true
	b := NewBody(20, 25, 10, 10)
	a.OnCollision(func(*Body) Response { return Resolve })
	b.OnCollision(func(*Body) Response { return Resolve })
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(b))

	w.Step(1)

	// the upper diagonal overlaps b less, so a moves up
	assert.InDelta(t, 10, a.X, eps)
	assert.InDelta(t, 19, a.Y, eps)
	requireIndexConsistent(t, w)
}

func TestSlideDisabledHalts(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 20, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	b := NewBody(20, 25, 10, 10)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(b))

	w.Step(1)

	assert.Equal(t, 10.0, a.X)
	assert.Equal(t, 20.0, a.Y)
}

func TestSlideEqualObstructionStays(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 20, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	a.Slide = true
	// centered on a's path: both diagonals overlap it equally
	b := NewBody(20, 15, 10, 20)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(b))

	w.Step(3)

	assert.Equal(t, 10.0, a.X)
	assert.Equal(t, 20.0, a.Y)
}

func TestSlideAroundCorner(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 20, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	a.Slide = true
	b := NewBody(20, 25, 10, 10)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(b))

	// five slides clear the obstacle's top edge, then a moves on
	w.Step(7)

	assert.InDelta(t, 15, a.Y, eps)
	assert.InDelta(t, 12, a.X, eps)
	assert.False(t, a.Intersects(b))
	requireIndexConsistent(t, w)
}

func TestBoundaryStopsMovement(t *testing.T) {
	w := newTestWorld(t, 50, 50)
	a := NewBody(30, 10, 10, 10)
	a.Speed = 5
	a.Direction = NewDirection(1, 0)
	require.True(t, w.AddBodyActive(a, true))

	w.Step(10)

	// a moving body never touches the right edge
	assert.Equal(t, 39.0, a.X)
	requireIndexConsistent(t, w)
}

func TestInvalidDirectionDoesNotMove(t *testing.T) {
	w := newTestWorld(t, 50, 50)
	a := NewBody(10, 10, 5, 5)
	a.Speed = 1
	a.Direction = DirectionBetween(0, 0, 0, 0)
	require.True(t, w.AddBodyActive(a, true))

	w.Step(3)

	assert.Equal(t, 10.0, a.X)
	assert.Equal(t, 10.0, a.Y)
	requireIndexConsistent(t, w)
}

func TestExistingOverlapDoesNotBlock(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	b := NewBody(15, 10, 10, 10)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(b))

	w.Step(5)

	assert.Equal(t, 15.0, a.X)
}

func TestObserverRemovesOtherBody(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	pickup := NewBody(30, 10, 5, 5)
	pickup.OnCollision(func(*Body) Response {
		w.RemoveBody(pickup)
		return Veto
	})
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(pickup))

	w.Step(25)

	assert.Equal(t, 35.0, a.X)
	assert.False(t, w.Contains(pickup))
	requireIndexConsistent(t, w)
}

func TestObserverRemovesMover(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	a.Speed = 10
	a.Direction = NewDirection(1, 0)
	wall := NewBody(25, 10, 10, 10)
	wall.OnCollision(func(other *Body) Response {
		w.RemoveBody(other)
		return Resolve
	})
	follower := NewBody(10, 40, 10, 10)
	follower.Speed = 1
	follower.Direction = NewDirection(0, 1)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBodyActive(follower, true))
	require.True(t, w.AddBody(wall))

	w.Step(1)

	assert.False(t, w.Contains(a))
	assert.Equal(t, []*Body{follower}, w.ActiveBodies())
	for x := 0; x < w.Columns(); x++ {
		for y := 0; y < w.Rows(); y++ {
			assert.False(t, w.Zone(x, y).Contains(a))
		}
	}
	assert.Equal(t, 41.0, follower.Y, "the next active body still moves in the same tick")
	requireIndexConsistent(t, w)
}

func TestBodyActivatedMidTickMovesSameTick(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	trigger := NewBody(20.5, 10, 5, 5)
	late := NewBody(50, 50, 5, 5)
	late.Speed = 2
	late.Direction = NewDirection(0, 1)
	trigger.OnCollision(func(*Body) Response {
		w.AddBodyActive(late, true)
		return Veto
	})
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(trigger))

	w.Step(1)

	assert.Equal(t, 11.0, a.X)
	assert.Equal(t, 52.0, late.Y)
}

func TestMoveContract(t *testing.T) {
	w := newTestWorld(t, 100, 100)
	a := NewBody(10, 10, 10, 10)
	right := NewDirection(1, 0)

	assert.ErrorIs(t, w.Move(nil, right, 1), ErrNilBody)
	assert.ErrorIs(t, w.Move(a, nil, 1), ErrNilDirection)
	assert.ErrorIs(t, w.Move(a, right, 0), ErrNonPositiveSteps)
	assert.ErrorIs(t, w.Move(a, right, 1), ErrBodyNotInWorld)

	require.True(t, w.AddBody(a))
	require.NoError(t, w.Move(a, right, 4))
	assert.Equal(t, 14.0, a.X)
	requireIndexConsistent(t, w)
}

func TestEventsArePublished(t *testing.T) {
	eventBus := bus.New()
	w := newTestWorld(t, 100, 100, WithEventBus(eventBus))

	counts := map[string]int{}
	var blocked Event
	for _, typ := range []string{EventBodyAdded, EventBodyRemoved, EventBodyBlocked, EventBodySlid, EventBodyBoundary} {
		_, err := eventBus.Subscribe(typ, func(e bus.Event) error {
			counts[e.Type()]++
			if e.Type() == EventBodyBlocked {
				blocked = e.Data().(Event)
			}
			return nil
		})
		require.NoError(t, err)
	}

	a := NewBody(10, 20, 10, 10)
	a.Speed = 1
	a.Direction = NewDirection(1, 0)
	a.Slide = true
	b := NewBody(20, 25, 10, 10)
	require.True(t, w.AddBodyActive(a, true))
	require.True(t, w.AddBody(b))

	w.Step(1)
	w.RemoveBody(b)

	assert.Equal(t, 2, counts[EventBodyAdded])
	assert.Equal(t, 1, counts[EventBodyBlocked])
	assert.Equal(t, 1, counts[EventBodySlid])
	assert.Equal(t, 1, counts[EventBodyRemoved])
	assert.Same(t, a, blocked.Body)
	assert.Same(t, b, blocked.Other)
}

func TestRandomWorldKeepsIndexAndContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := newTestWorld(t, 200, 150, WithZoneSize(16))

	var bodies []*Body
	for len(bodies) < 40 {
		b := NewBody(rng.Float64()*180, rng.Float64()*130, 4+rng.Float64()*12, 4+rng.Float64()*12)
		if rng.Intn(3) > 0 {
			b.Speed = 1 + rng.Intn(3)
			b.Direction = NewDirection(1, 0).Rotate(rng.Float64() * 360)
			b.Slide = rng.Intn(2) == 0
		}
		if rng.Intn(5) == 0 {
			b.OnCollision(func(*Body) Response { return Veto })
		}
		if w.AddBodyActive(b, b.Speed > 0) {
			bodies = append(bodies, b)
		}
	}

	for round := 0; round < 20; round++ {
		w.Step(5)
		victim := bodies[rng.Intn(len(bodies))]
		w.RemoveBody(victim)
		requireIndexConsistent(t, w)
	}

	for _, b := range w.ActiveBodies() {
		assert.True(t, b.Rect().Within(w.Width(), w.Height()), "%s escaped", b)
	}
}
