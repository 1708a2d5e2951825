package physics

import (
	"fmt"

	"github.com/google/uuid"
)

// BodyID identifies a body independently of its address.
type BodyID uuid.UUID

func (id BodyID) String() string { return uuid.UUID(id).String() }

// Response is what a collision observer tells the engine about a contact.
type Response uint8

const (
	// Resolve lets the engine treat the contact as solid. It is the zero value,
	// so observers that have nothing to say return it.
	Resolve Response = iota
	// Veto lets the two bodies overlap.
	Veto
)

func (r Response) String() string {
	switch r {
	case Resolve:
		return "resolve"
	case Veto:
		return "veto"
	default:
		return fmt.Sprintf("response(%d)", uint8(r))
	}
}

// CollisionFunc observes a contact between the owning body and other.
type CollisionFunc func(other *Body) Response

// Body is an axis-aligned rectangle that can be placed in a World.
//
// Speed is the number of unit moves taken per step along Direction. A nil
// Direction or zero Speed keeps the body still. Slide enables lateral
// deflection when the body is blocked. Active bodies added to a World are
// advanced by World.Step.
type Body struct {
	X, Y          float64
	Width, Height float64

	Speed     int
	Direction *Direction
	Slide     bool
	Active    bool

	// Name is free-form host metadata.
	Name string

	id        BodyID
	observers []CollisionFunc
}

// NewBody creates a body at (x, y). Non-positive sizes fall back to 1.
func NewBody(x, y, width, height float64) *Body {
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}
	return &Body{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		id:     BodyID(uuid.New()),
	}
}

// ID returns the body's identity. Bodies built without NewBody get one on
// first use.
func (b *Body) ID() BodyID {
	if b.id == (BodyID{}) {
		b.id = BodyID(uuid.New())
	}
	return b.id
}

// Rect returns the body's current rectangle.
func (b *Body) Rect() Rect {
	return Rect{X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Intersects reports whether b overlaps other.
func (b *Body) Intersects(other *Body) bool {
	return b.Rect().Intersects(other.Rect())
}

// IntersectsRect reports whether b overlaps r.
func (b *Body) IntersectsRect(r Rect) bool {
	return b.Rect().Intersects(r)
}

// Intersection returns the overlap area with other; see Rect.Intersection.
func (b *Body) Intersection(other *Body) float64 {
	return b.Rect().Intersection(other.Rect())
}

// IntersectionRect returns the overlap area with r; see Rect.Intersection.
func (b *Body) IntersectionRect(r Rect) float64 {
	return b.Rect().Intersection(r)
}

// OnCollision registers fn to run whenever Collide is evaluated.
func (b *Body) OnCollision(fn CollisionFunc) {
	if fn == nil {
		return
	}
	b.observers = append(b.observers, fn)
}

// Collide runs every observer with other, in registration order. It returns
// false if any observer vetoed and true otherwise, including when there are no
// observers.
func (b *Body) Collide(other *Body) bool {
	collide := true
	// observers may register or clear observers on b
	observers := b.observers
	for _, fn := range observers {
		if fn(other) == Veto {
			collide = false
		}
	}
	return collide
}

// ClearEvents drops all collision observers.
func (b *Body) ClearEvents() {
	b.observers = nil
}

// Observers returns the number of registered collision observers.
func (b *Body) Observers() int { return len(b.observers) }

// SetDirectionTowards points the body from its current position to (x, y).
// It returns false and clears the direction when the points coincide.
func (b *Body) SetDirectionTowards(x, y float64) bool {
	d, ok := DirectionTowards(b.X, b.Y, x, y)
	b.Direction = d
	return ok
}

func (b *Body) String() string {
	name := b.Name
	if name == "" {
		name = b.ID().String()
	}
	return fmt.Sprintf("%s[%g,%g %gx%g]", name, b.X, b.Y, b.Width, b.Height)
}
