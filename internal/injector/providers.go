package injector

import (
	"github.com/google/wire"

	"github.com/dineshkummarc/oge/internal/config"
	"github.com/dineshkummarc/oge/internal/core/events/bus"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
	"github.com/dineshkummarc/oge/internal/core/systems/physics"
	"github.com/dineshkummarc/oge/internal/scenario"
)

var ProviderSet = wire.NewSet(
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	ProvideScenario,
)

func ProvideLogger(cfg *config.Config) *log.Logger {
	return log.New(cfg.LogLevel())
}

// ProvideScenario builds the configured world publishing to eventBus.
func ProvideScenario(cfg *config.Config, logger log.Log, eventBus bus.EventBus) (*scenario.Scenario, error) {
	return scenario.Build(cfg, logger, physics.WithEventBus(eventBus))
}
