package server

import (
	"encoding/json"
	"maps"
	"net/http"
	"sync"

	"github.com/dineshkummarc/oge/internal/core/events/bus"
)

// Metrics is served on /metrics.
type Metrics struct {
	Tick    uint64              `json:"tick"`
	Clients int                 `json:"clients"`
	Bus     bus.EventBusMetrics `json:"bus"`
	Events  map[string]uint64   `json:"events"`
}

// eventCounter counts engine events per type as the bus delivers them.
type eventCounter struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newEventCounter() *eventCounter {
	return &eventCounter{counts: make(map[string]uint64)}
}

func (c *eventCounter) OnPublish(eventType string, _ bus.Event) {
	c.mu.Lock()
	c.counts[eventType]++
	c.mu.Unlock()
}

func (c *eventCounter) OnDelivered(string, int, error) {}

func (c *eventCounter) snapshot() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.counts)
}

// Metrics reports the tick, subscriber count and event bus counters. It is
// safe to call while the tick loop runs.
func (s *Server) Metrics() Metrics {
	return Metrics{
		Tick:    s.tick.Load(),
		Clients: s.hub.Len(),
		Bus:     s.events.GetMetrics(),
		Events:  s.counter.snapshot(),
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Metrics()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
