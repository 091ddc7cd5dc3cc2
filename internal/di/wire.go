//go:build wireinject
// +build wireinject

package di

import (
	"SIPScope/pkg/config"
	"SIPScope/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Repositories
		ProvideSeriesSource,
		ProvideTableSink,
		ProvideResultStore,
		ProvidePublisher,

		// Use cases
		ProvidePipeline,
		ProvideAnalysisService,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
