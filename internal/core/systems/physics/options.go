package physics

import (
	"github.com/dineshkummarc/oge/internal/core/events/bus"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
)

const (
	DefaultZoneSize      = 10
	DefaultMaxSlideDepth = 4
)

// Option configures a World.
type Option func(*World)

// WithZoneSize sets the edge length of a grid cell.
func WithZoneSize(size float64) Option {
	return func(w *World) { w.zoneSize = size }
}

// WithMaxSlideDepth bounds how many nested slides a single blocked move may
// trigger. Values below 1 are ignored.
func WithMaxSlideDepth(depth int) Option {
	return func(w *World) {
		if depth >= 1 {
			w.maxSlideDepth = depth
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(logger log.Log) Option {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithEventBus makes the World publish engine events to eventBus.
func WithEventBus(eventBus bus.EventBus) Option {
	return func(w *World) { w.events = eventBus }
}
