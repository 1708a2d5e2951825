package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dineshkummarc/oge/internal/config"
	"github.com/dineshkummarc/oge/internal/core/events/bus"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
	"github.com/dineshkummarc/oge/internal/core/systems/physics"
	"github.com/dineshkummarc/oge/internal/scenario"
	"github.com/dineshkummarc/oge/internal/snapshot"
)

const shutdownTimeout = 5 * time.Second

// Server runs a scenario at a fixed tick rate and publishes a frame after
// every tick. The World is only touched from the tick loop.
type Server struct {
	config   config.ServerConfig
	scenario *scenario.Scenario
	logger   log.Log
	hub      *Hub
	http     *http.Server
	events   bus.EventBus
	counter  *eventCounter
	tick     atomic.Uint64

	// pending collects engine events raised during the current tick
	pending []EventRecord

	mu     sync.RWMutex
	latest []byte

	running atomic.Bool
}

// Frame is the JSON message sent to subscribers after each tick.
type Frame struct {
	Snapshot snapshot.Snapshot `json:"snapshot"`
	Digest   uint64            `json:"digest"`
	Events   []EventRecord     `json:"events,omitempty"`
}

// EventRecord is the wire form of a physics event.
type EventRecord struct {
	Type  string `json:"type"`
	Tick  uint64 `json:"tick"`
	Body  string `json:"body"`
	Other string `json:"other,omitempty"`
}

var recordedEvents = []string{
	physics.EventBodyRemoved,
	physics.EventBodyBlocked,
	physics.EventBodySlid,
	physics.EventBodyBoundary,
}

// New wires a server around sc. eventBus must be the bus sc's World publishes to.
func New(cfg *config.Config, sc *scenario.Scenario, eventBus bus.EventBus, logger log.Log) (*Server, error) {
	s := &Server{
		config:   cfg.Server,
		scenario: sc,
		logger:   logger.With(log.String("component", "server")),
		hub:      NewHub(logger),
		events:   eventBus,
		counter:  newEventCounter(),
	}
	eventBus.AddObserver(s.counter)
	for _, typ := range recordedEvents {
		if _, err := eventBus.Subscribe(typ, s.record); err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", typ, err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/snapshot", s.handleSnapshot)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	s.http = &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	if err := s.publish(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler exposes the HTTP routes, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Hub returns the subscriber hub.
func (s *Server) Hub() *Hub { return s.hub }

// Latest returns the most recent frame as JSON.
func (s *Server) Latest() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	return s.Serve(ctx, ln)
}

// Serve ticks the world and serves HTTP on ln until ctx is done or either
// side fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if !s.running.CompareAndSwap(false, true) {
		_ = ln.Close()
		return ErrServerAlreadyRunning
	}
	defer s.running.Store(false)

	s.logger.Info("server started",
		log.String("addr", ln.Addr().String()),
		log.Duration("tick_rate", s.config.TickRate),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.loop(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	s.logger.Info("server stopped", log.Uint64("tick", s.scenario.World.Tick()))
	return err
}

func (s *Server) loop(ctx context.Context) error {
	ticker := time.NewTicker(s.config.TickRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.step(); err != nil {
				return err
			}
		}
	}
}

// step advances the world one tick and broadcasts the resulting frame.
func (s *Server) step() error {
	s.scenario.World.Step(1)
	return s.publish()
}

func (s *Server) publish() error {
	snap := snapshot.Capture(s.scenario.World)
	frame := Frame{Snapshot: snap, Digest: snap.Digest(), Events: s.pending}
	s.pending = nil

	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.mu.Lock()
	s.latest = data
	s.mu.Unlock()
	s.tick.Store(snap.Tick)
	s.hub.Broadcast(data)
	return nil
}

func (s *Server) record(e bus.Event) error {
	data, ok := e.Data().(physics.Event)
	if !ok || data.Body == nil {
		return nil
	}
	rec := EventRecord{Type: e.Type(), Tick: e.Tick(), Body: data.Body.Name}
	if data.Other != nil {
		rec.Other = data.Other.Name
	}
	s.pending = append(s.pending, rec)
	return nil
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.Serve(w, r, s.Latest())
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.Latest())
}
