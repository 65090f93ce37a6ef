//go:build wireinject
// +build wireinject

package di

import (
	"PredEval/pkg/config"
	"PredEval/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Metrics
		ProvideMetrics,

		// Infrastructure
		ProvideRecordSource,
		ProvideCache,

		// Use cases
		ProvideReportBuilder,

		// Application
		ProvideApp,
	)
	return &server.App{}, nil
}
