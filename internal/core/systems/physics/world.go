package physics

import (
	"math"
	"slices"

	"github.com/dineshkummarc/oge/internal/core/events/bus"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
)

// World owns the zone grid and every body placed in it.
//
// The grid has ceil(width/zoneSize)+1 columns and ceil(height/zoneSize)+1
// rows. A body is indexed in exactly the zones its rectangle covers, as
// computed by GetZones.
//
// World is not safe for concurrent use. Collision observers run inline during
// Step and may add, remove or modify bodies.
type World struct {
	width, height float64
	zoneSize      float64
	cols, rows    int
	zones         [][]*Zone

	members map[BodyID]*membership
	order   []*Body
	active  []*Body

	tick          uint64
	maxSlideDepth int

	logger log.Log
	events bus.EventBus
}

type membership struct {
	body  *Body
	zones []*Zone
}

// NewWorld creates a width x height world.
func NewWorld(width, height float64, opts ...Option) (*World, error) {
	if !(width > 0) || !(height > 0) {
		return nil, ErrInvalidDimensions
	}

	w := &World{
		width:         width,
		height:        height,
		zoneSize:      DefaultZoneSize,
		maxSlideDepth: DefaultMaxSlideDepth,
		members:       make(map[BodyID]*membership),
		logger:        log.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if !(w.zoneSize > 0) {
		return nil, ErrInvalidZoneSize
	}
	w.logger = w.logger.With(log.String("component", "world"))

	w.cols = int(math.Ceil(width/w.zoneSize)) + 1
	w.rows = int(math.Ceil(height/w.zoneSize)) + 1
	w.zones = make([][]*Zone, w.cols)
	for x := range w.zones {
		w.zones[x] = make([]*Zone, w.rows)
		for y := range w.zones[x] {
			w.zones[x][y] = newZone(x, y)
		}
	}

	return w, nil
}

func (w *World) Width() float64    { return w.width }
func (w *World) Height() float64   { return w.height }
func (w *World) ZoneSize() float64 { return w.zoneSize }
func (w *World) Columns() int      { return w.cols }
func (w *World) Rows() int         { return w.rows }

// Tick returns the number of ticks performed by Step.
func (w *World) Tick() uint64 { return w.tick }

// Len returns the number of bodies in the world.
func (w *World) Len() int { return len(w.order) }

// Zone returns the zone at grid coordinates (x, y), or nil outside the grid.
func (w *World) Zone(x, y int) *Zone {
	if x < 0 || y < 0 || x >= w.cols || y >= w.rows {
		return nil
	}
	return w.zones[x][y]
}

// Contains reports whether b is currently in the world.
func (w *World) Contains(b *Body) bool {
	if b == nil {
		return false
	}
	_, ok := w.members[b.ID()]
	return ok
}

// Bodies returns every body in the world in the order they were added.
func (w *World) Bodies() []*Body {
	return slices.Clone(w.order)
}

// ActiveBodies returns the bodies advanced by Step, in stepping order.
func (w *World) ActiveBodies() []*Body {
	return slices.Clone(w.active)
}

// AddBody places b in the world using its current Active flag. It returns false
// without changing anything if b's rectangle is not inside the world.
// Overlapping other bodies is allowed; no collision check happens here.
func (w *World) AddBody(b *Body) bool {
	return w.add(b, nil)
}

// AddBodyActive is AddBody that first sets b.Active.
func (w *World) AddBodyActive(b *Body, active bool) bool {
	return w.add(b, &active)
}

func (w *World) add(b *Body, active *bool) bool {
	if b == nil {
		return false
	}
	zones := w.GetZones(b.Rect())
	if len(zones) == 0 {
		w.logger.Debug("body rejected: outside world", log.Stringer("body", b))
		return false
	}

	m, known := w.members[b.ID()]
	if !known {
		m = &membership{body: b}
		w.members[b.ID()] = m
		w.order = append(w.order, b)
	}
	w.index(m, zones)

	if active != nil {
		b.Active = *active
	}
	if b.Active {
		w.activate(b)
	} else if active != nil {
		w.deactivate(b)
	}

	if !known {
		w.publish(EventBodyAdded, Event{Body: b})
	}
	return true
}

// RemoveBody takes b out of every zone and out of the active list. Its
// collision observers are kept; call ClearEvents to drop them.
func (w *World) RemoveBody(b *Body) {
	if b == nil {
		return
	}
	m, ok := w.members[b.ID()]
	if !ok {
		return
	}
	w.unindex(m)
	delete(w.members, b.ID())
	w.order = slices.DeleteFunc(w.order, func(o *Body) bool { return o.ID() == b.ID() })
	w.deactivate(b)
	w.publish(EventBodyRemoved, Event{Body: b})
}

// SetActive sets b.Active and registers or unregisters b for stepping.
// It returns false if b is not in the world.
func (w *World) SetActive(b *Body, active bool) bool {
	if !w.Contains(b) {
		return false
	}
	b.Active = active
	if active {
		w.activate(b)
	} else {
		w.deactivate(b)
	}
	return true
}

// Relocate moves b to (x, y) without collision checks. It returns false and
// leaves b untouched if b is not in the world or the target is outside it.
func (w *World) Relocate(b *Body, x, y float64) bool {
	if !w.Contains(b) {
		return false
	}
	zones := w.GetZones(Rect{X: x, Y: y, Width: b.Width, Height: b.Height})
	if len(zones) == 0 {
		return false
	}
	b.X, b.Y = x, y
	w.index(w.members[b.ID()], zones)
	return true
}

// GetZones returns the zones covered by r, column by column. r must lie inside
// the world; otherwise the result is empty.
func (w *World) GetZones(r Rect) []*Zone {
	if !r.Within(w.width, w.height) {
		return nil
	}
	x1 := int(math.Floor(r.X / w.zoneSize))
	x2 := min(int(math.Floor((r.X+r.Width)/w.zoneSize)), w.cols-1)
	y1 := int(math.Floor(r.Y / w.zoneSize))
	y2 := min(int(math.Floor((r.Y+r.Height)/w.zoneSize)), w.rows-1)

	zones := make([]*Zone, 0, (x2-x1+1)*(y2-y1+1))
	for x := x1; x <= x2; x++ {
		for y := y1; y <= y2; y++ {
			zones = append(zones, w.zones[x][y])
		}
	}
	return zones
}

// GetBodies returns the bodies indexed in the zones around r, each once, in
// first-seen order. r is shifted (not shrunk) to fit inside the world first.
// The result is a candidate set: bodies near r are included even when they do
// not overlap it.
func (w *World) GetBodies(r Rect) []*Body {
	zones := w.GetZones(r.ShiftInside(w.width, w.height))
	var (
		bodies []*Body
		seen   = make(map[BodyID]struct{})
	)
	for _, z := range zones {
		for _, b := range z.bodies {
			if _, dup := seen[b.ID()]; dup {
				continue
			}
			seen[b.ID()] = struct{}{}
			bodies = append(bodies, b)
		}
	}
	return bodies
}

// Step performs n ticks. Each tick moves every active body with a positive
// Speed and a Direction, in the order they were activated. Bodies added,
// removed or changed by collision observers are seen as they are when their
// turn comes; a body activated during a tick moves in that same tick.
func (w *World) Step(n int) {
	for i := 0; i < n; i++ {
		w.tick++
		w.stepActive()
	}
}

// stepActive visits each active body at most once while tolerating observers
// that reshape the active list.
func (w *World) stepActive() {
	visited := make(map[BodyID]struct{}, len(w.active))
	for i := 0; i < len(w.active); {
		b := w.active[i]
		if _, done := visited[b.ID()]; done {
			i++
			continue
		}
		visited[b.ID()] = struct{}{}
		if b.Speed > 0 && b.Direction != nil {
			w.move(b, b.Direction, b.Speed, 0)
		}

		switch {
		case i < len(w.active) && w.active[i] == b:
			i++
		default:
			// the list shifted under us; rescan, visited bodies are skipped
			if j := slices.Index(w.active, b); j >= 0 {
				i = j + 1
			} else {
				i = 0
			}
		}
	}
}

// Move advances b by up to steps unit moves along dir, with the same collision
// handling as Step.
func (w *World) Move(b *Body, dir *Direction, steps int) error {
	switch {
	case b == nil:
		return ErrNilBody
	case dir == nil:
		return ErrNilDirection
	case steps <= 0:
		return ErrNonPositiveSteps
	case !w.Contains(b):
		return ErrBodyNotInWorld
	}
	w.move(b, dir, steps, 0)
	return nil
}

func (w *World) index(m *membership, zones []*Zone) {
	w.unindex(m)
	for _, z := range zones {
		z.AddBody(m.body)
	}
	m.zones = zones
}

func (w *World) unindex(m *membership) {
	for _, z := range m.zones {
		z.RemoveBody(m.body)
	}
	m.zones = nil
}

func (w *World) activate(b *Body) {
	if slices.ContainsFunc(w.active, func(o *Body) bool { return o.ID() == b.ID() }) {
		return
	}
	w.active = append(w.active, b)
}

func (w *World) deactivate(b *Body) {
	w.active = slices.DeleteFunc(w.active, func(o *Body) bool { return o.ID() == b.ID() })
}
