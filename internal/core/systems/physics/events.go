package physics

import (
	"github.com/dineshkummarc/oge/internal/core/events/bus"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
)

// Event types published on the World's bus.
const (
	EventBodyAdded    = "body.added"
	EventBodyRemoved  = "body.removed"
	EventBodyBlocked  = "body.blocked"
	EventBodySlid     = "body.slid"
	EventBodyBoundary = "body.boundary"
)

const eventSource = "physics.world"

// Event is the payload of every engine event. Other is set for blocks;
// Direction is the lateral heading for slides.
type Event struct {
	Body      *Body
	Other     *Body
	Direction *Direction
}

func (w *World) publish(eventType string, e Event) {
	if w.events == nil {
		return
	}
	if err := w.events.Publish(bus.NewEvent(eventType, eventSource, w.tick, e)); err != nil {
		w.logger.Warn("event handler failed",
			log.String("event", eventType),
			log.Stringer("body", e.Body),
			log.Error(err),
		)
	}
}
