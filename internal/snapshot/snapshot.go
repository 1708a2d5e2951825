// Package snapshot captures the observable state of a World for transport
// and for determinism checks.
package snapshot

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/dineshkummarc/oge/internal/core/systems/physics"
)

type Snapshot struct {
	Tick   uint64      `json:"tick"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Bodies []BodyState `json:"bodies"`
}

type BodyState struct {
	ID        string     `json:"id"`
	Name      string     `json:"name,omitempty"`
	X         float64    `json:"x"`
	Y         float64    `json:"y"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Speed     int        `json:"speed"`
	Direction *Direction `json:"direction,omitempty"`
	Active    bool       `json:"active"`
	Slide     bool       `json:"slide"`
}

type Direction struct {
	Cos float64 `json:"cos"`
	Sin float64 `json:"sin"`
}

// Capture copies the state of every body in w, in the order they were added.
func Capture(w *physics.World) Snapshot {
	bodies := w.Bodies()
	s := Snapshot{
		Tick:   w.Tick(),
		Width:  w.Width(),
		Height: w.Height(),
		Bodies: make([]BodyState, 0, len(bodies)),
	}
	for _, b := range bodies {
		state := BodyState{
			ID:     b.ID().String(),
			Name:   b.Name,
			X:      b.X,
			Y:      b.Y,
			Width:  b.Width,
			Height: b.Height,
			Speed:  b.Speed,
			Active: b.Active,
			Slide:  b.Slide,
		}
		// NaN headings cannot be encoded as JSON
		if b.Direction.IsValid() {
			state.Direction = &Direction{Cos: b.Direction.Cos, Sin: b.Direction.Sin}
		}
		s.Bodies = append(s.Bodies, state)
	}
	return s
}

func (s Snapshot) JSON() ([]byte, error) {
	return json.Marshal(s)
}

// Digest hashes the positions, sizes and motion of every body. Body IDs are
// left out so that two runs of the same scenario hash alike.
func (s Snapshot) Digest() uint64 {
	d := xxhash.New()
	var buf [8]byte
	putFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	putUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}

	putUint(s.Tick)
	putFloat(s.Width)
	putFloat(s.Height)
	putUint(uint64(len(s.Bodies)))
	for _, b := range s.Bodies {
		putUint(uint64(len(b.Name)))
		_, _ = d.WriteString(b.Name)
		putFloat(b.X)
		putFloat(b.Y)
		putFloat(b.Width)
		putFloat(b.Height)
		putUint(uint64(b.Speed))
		if b.Direction != nil {
			putFloat(b.Direction.Cos)
			putFloat(b.Direction.Sin)
		}
	}
	return d.Sum64()
}

// Find returns the state of the body with the given name.
func (s Snapshot) Find(name string) (BodyState, bool) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return BodyState{}, false
}
