package physics

import (
	"math"

	"github.com/dineshkummarc/oge/internal/core/observability/log"
)

// probeReach scales a diagonal heading to the slide probe offset. The probe
// coordinate is truncated and then forced to exactly one unit from the body
// whenever truncation moved it at all.
const probeReach = 1.9

// move advances b one unit at a time. A unit move is undone when b leaves the
// world or runs into a body it did not already overlap and neither side vetoes
// the contact. Leaving the world ends the move; a block ends it too unless b
// slides.
func (w *World) move(b *Body, dir *Direction, steps int, depth int) {
	for i := 0; i < steps; i++ {
		m, ok := w.members[b.ID()]
		if !ok {
			return
		}
		lastX, lastY := b.X, b.Y
		last := b.Rect()
		w.unindex(m)

		b.X += dir.Cos
		b.Y += dir.Sin
		if !w.inMoveBounds(b) {
			b.X, b.Y = lastX, lastY
			w.index(m, w.GetZones(b.Rect()))
			w.logger.Debug("body hit world boundary", log.Stringer("body", b))
			w.publish(EventBodyBoundary, Event{Body: b, Direction: dir})
			return
		}

		var blocker *Body
		for _, other := range w.GetBodies(b.Rect()) {
			if other.ID() == b.ID() || !w.Contains(other) {
				continue
			}
			if other.IntersectsRect(last) || !other.Intersects(b) {
				continue
			}
			forward := b.Collide(other)
			backward := other.Collide(b)
			if forward && backward {
				b.X, b.Y = lastX, lastY
				blocker = other
				break
			}
		}

		// an observer may have removed b
		m, ok = w.members[b.ID()]
		if !ok {
			return
		}
		w.index(m, w.GetZones(b.Rect()))

		if blocker == nil {
			continue
		}
		w.logger.Debug("body blocked",
			log.Stringer("body", b),
			log.Stringer("by", blocker),
			log.Int("depth", depth),
		)
		w.publish(EventBodyBlocked, Event{Body: b, Other: blocker, Direction: dir})
		if !b.Slide || depth >= w.maxSlideDepth {
			return
		}
		w.slide(b, dir, depth+1)
	}
}

// slide nudges a blocked body one unit sideways, toward whichever diagonal of
// dir is less obstructed. Equal obstruction leaves it in place.
func (w *World) slide(b *Body, dir *Direction, depth int) {
	ignore := make(map[BodyID]struct{})
	for _, other := range w.GetBodies(b.Rect()) {
		if other.ID() != b.ID() && other.Intersects(b) {
			ignore[other.ID()] = struct{}{}
		}
	}

	left := w.obstruction(b, dir.Clone().Rotate(-45), ignore)
	right := w.obstruction(b, dir.Clone().Rotate(45), ignore)

	var lateral *Direction
	switch {
	case left < right:
		lateral = dir.Clone().Rotate(-90)
	case left > right:
		lateral = dir.Clone().Rotate(90)
	default:
		return
	}

	x, y := b.X, b.Y
	w.move(b, lateral, 1, depth)
	if b.X != x || b.Y != y {
		w.logger.Debug("body slid",
			log.Stringer("body", b),
			log.Stringer("direction", lateral),
		)
		w.publish(EventBodySlid, Event{Body: b, Direction: lateral})
	}
}

// obstruction sums the overlap between b placed at the probe point along probe
// and every other body there, skipping the ignored ones. The sum is truncated.
func (w *World) obstruction(b *Body, probe *Direction, ignore map[BodyID]struct{}) float64 {
	r := Rect{
		X:      probeCoord(b.X, probe.Cos),
		Y:      probeCoord(b.Y, probe.Sin),
		Width:  b.Width,
		Height: b.Height,
	}
	var area float64
	for _, other := range w.GetBodies(r) {
		if other.ID() == b.ID() || !other.IntersectsRect(r) {
			continue
		}
		if _, skip := ignore[other.ID()]; skip {
			continue
		}
		area += other.IntersectionRect(r)
	}
	return math.Trunc(area)
}

func probeCoord(pos, component float64) float64 {
	p := math.Trunc(pos + component*probeReach)
	switch {
	case p > pos:
		return pos + 1
	case p < pos:
		return pos - 1
	default:
		return p
	}
}

// inMoveBounds is stricter than GetZones: a moving body may not touch the
// right or bottom edge.
func (w *World) inMoveBounds(b *Body) bool {
	return b.X >= 0 && b.Y >= 0 && b.X+b.Width < w.width && b.Y+b.Height < w.height
}
