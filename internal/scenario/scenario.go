// Package scenario turns a configuration into a populated physics World and
// attaches the host-side collision rules for each body kind.
package scenario

import (
	"fmt"
	"slices"

	"github.com/dineshkummarc/oge/internal/config"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
	"github.com/dineshkummarc/oge/internal/core/systems/physics"
)

// Scenario is a World plus the bookkeeping of its collision rules.
type Scenario struct {
	World *physics.World

	logger    log.Log
	bodies    map[string]*physics.Body
	collected []string
	contacts  map[string]int
}

// Build creates the world described by cfg. Extra options are applied after
// the ones derived from cfg.World.
func Build(cfg *config.Config, logger log.Log, opts ...physics.Option) (*Scenario, error) {
	if logger == nil {
		logger = log.Nop()
	}
	worldOpts := []physics.Option{
		physics.WithZoneSize(cfg.World.ZoneSize),
		physics.WithLogger(logger),
	}
	if cfg.World.MaxSlideDepth > 0 {
		worldOpts = append(worldOpts, physics.WithMaxSlideDepth(cfg.World.MaxSlideDepth))
	}
	world, err := physics.NewWorld(cfg.World.Width, cfg.World.Height, append(worldOpts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}

	s := &Scenario{
		World:    world,
		logger:   logger.With(log.String("component", "scenario")),
		bodies:   make(map[string]*physics.Body, len(cfg.Bodies)),
		contacts: make(map[string]int),
	}
	for _, bc := range cfg.Bodies {
		if err = s.add(bc); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scenario) add(bc config.BodyConfig) error {
	b := physics.NewBody(bc.X, bc.Y, bc.Width, bc.Height)
	b.Name = bc.Name
	b.Speed = bc.Speed
	b.Slide = bc.Slide

	switch {
	case bc.Direction != nil:
		b.Direction = physics.NewDirection(bc.Direction.Cos, bc.Direction.Sin)
	case bc.Toward != nil:
		if !b.SetDirectionTowards(bc.Toward.X, bc.Toward.Y) {
			s.logger.Warn("body already at its target, leaving it still", log.String("body", bc.Name))
		}
	}

	switch bc.Kind {
	case config.KindGhost:
		b.OnCollision(Ghost())
	case config.KindPickup:
		b.OnCollision(s.pickup(b))
	case config.KindSensor:
		b.OnCollision(s.sensor(b))
	}

	if !s.World.AddBodyActive(b, bc.Active) {
		return fmt.Errorf("%w: %s", ErrBodyOutsideWorld, bc.Name)
	}
	s.bodies[bc.Name] = b
	return nil
}

// Ghost lets anything pass through.
func Ghost() physics.CollisionFunc {
	return func(*physics.Body) physics.Response { return physics.Veto }
}

func (s *Scenario) pickup(self *physics.Body) physics.CollisionFunc {
	return func(other *physics.Body) physics.Response {
		if !s.World.Contains(self) {
			return physics.Veto
		}
		s.World.RemoveBody(self)
		s.collected = append(s.collected, self.Name)
		s.logger.Info("pickup collected",
			log.String("pickup", self.Name),
			log.String("by", other.Name),
			log.Uint64("tick", s.World.Tick()),
		)
		return physics.Veto
	}
}

func (s *Scenario) sensor(self *physics.Body) physics.CollisionFunc {
	return func(other *physics.Body) physics.Response {
		s.contacts[self.Name]++
		s.logger.Debug("sensor touched", log.String("sensor", self.Name), log.String("by", other.Name))
		return physics.Veto
	}
}

// Body returns the body configured under name, even after it left the world.
func (s *Scenario) Body(name string) (*physics.Body, bool) {
	b, ok := s.bodies[name]
	return b, ok
}

// Names returns the configured body names, sorted.
func (s *Scenario) Names() []string {
	names := make([]string, 0, len(s.bodies))
	for name := range s.bodies {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Collected returns the pickups removed so far, in pickup order.
func (s *Scenario) Collected() []string {
	return slices.Clone(s.collected)
}

// Contacts returns how many contacts the named sensor has reported.
func (s *Scenario) Contacts(name string) int {
	return s.contacts[name]
}
