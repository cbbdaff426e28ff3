//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/mbernardes19/torre-matheus/internal/config"
	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Upstream search
		provideTorreConfig,
		torre.NewClient,
		wire.Bind(new(opportunity.Searcher), new(*torre.Client)),

		// Sessions
		provideSessionRepository,

		// Services
		provideOpportunityService,
		provideExporter,

		newResources,
	)

	return nil, nil, nil
}
