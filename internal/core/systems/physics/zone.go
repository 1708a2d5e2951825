package physics

import "slices"

// Zone is one grid cell. X and Y are grid coordinates, not world coordinates.
type Zone struct {
	X, Y int

	bodies []*Body
	index  map[BodyID]struct{}
}

func newZone(x, y int) *Zone {
	return &Zone{X: x, Y: y, index: make(map[BodyID]struct{})}
}

// AddBody inserts b unless it is already present.
func (z *Zone) AddBody(b *Body) {
	if _, ok := z.index[b.ID()]; ok {
		return
	}
	z.index[b.ID()] = struct{}{}
	z.bodies = append(z.bodies, b)
}

// RemoveBody removes b if present.
func (z *Zone) RemoveBody(b *Body) {
	if _, ok := z.index[b.ID()]; !ok {
		return
	}
	delete(z.index, b.ID())
	if i := slices.IndexFunc(z.bodies, func(o *Body) bool { return o.ID() == b.ID() }); i >= 0 {
		z.bodies = slices.Delete(z.bodies, i, i+1)
	}
}

// Contains reports whether b is indexed in this zone.
func (z *Zone) Contains(b *Body) bool {
	_, ok := z.index[b.ID()]
	return ok
}

// Bodies returns a copy of the zone's bodies in insertion order.
func (z *Zone) Bodies() []*Body {
	return slices.Clone(z.bodies)
}

func (z *Zone) Len() int { return len(z.bodies) }
