//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/dineshkummarc/oge/internal/config"
	"github.com/dineshkummarc/oge/internal/scenario"
	"github.com/dineshkummarc/oge/internal/server"
)

func InitializeServer(cfg *config.Config) (*server.Server, error) {
	wire.Build(ProviderSet, server.New)
	return nil, nil
}

func InitializeScenario(cfg *config.Config) (*scenario.Scenario, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
