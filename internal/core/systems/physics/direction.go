package physics

import (
	"fmt"
	"math"
)

// Direction is a unit heading stored as its cosine and sine.
type Direction struct {
	Cos float64
	Sin float64
}

// NewDirection builds a Direction from its components as given.
func NewDirection(cos, sin float64) *Direction {
	return &Direction{Cos: cos, Sin: sin}
}

// DirectionBetween returns the normalized heading from (x1, y1) to (x2, y2).
// Coincident points yield NaN components; use DirectionTowards to get a nil
// direction instead.
func DirectionBetween(x1, y1, x2, y2 float64) *Direction {
	dx := x2 - x1
	dy := y2 - y1
	h := math.Sqrt(dx*dx + dy*dy)
	return &Direction{Cos: dx / h, Sin: dy / h}
}

// DirectionTowards is DirectionBetween guarded against coincident points.
func DirectionTowards(x1, y1, x2, y2 float64) (*Direction, bool) {
	if x1 == x2 && y1 == y2 {
		return nil, false
	}
	return DirectionBetween(x1, y1, x2, y2), true
}

// Rotate advances the heading by degrees and returns the receiver.
//
// Each component is turned back into an angle through its own inverse
// function (acos for Cos, asin for Sin) before the offset is applied. The two
// components therefore do not always describe the same angle: asin only
// covers [-90, 90] degrees, so headings pointing left mirror on the Sin axis.
// Movement and slide probes depend on these exact values.
func (d *Direction) Rotate(degrees float64) *Direction {
	radians := degrees * (math.Pi / 180)
	d.Cos = math.Cos(math.Acos(clampUnit(d.Cos)) + radians)
	d.Sin = math.Sin(math.Asin(clampUnit(d.Sin)) + radians)
	return d
}

// Clone returns an independent copy.
func (d *Direction) Clone() *Direction {
	return &Direction{Cos: d.Cos, Sin: d.Sin}
}

// IsValid reports whether both components are finite.
func (d *Direction) IsValid() bool {
	return d != nil && !math.IsNaN(d.Cos) && !math.IsNaN(d.Sin) &&
		!math.IsInf(d.Cos, 0) && !math.IsInf(d.Sin, 0)
}

func (d *Direction) String() string {
	if d == nil {
		return "<nil>"
	}
	return fmt.Sprintf("(%.4f, %.4f)", d.Cos, d.Sin)
}

// clampUnit keeps accumulated drift inside the acos/asin domain.
func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
