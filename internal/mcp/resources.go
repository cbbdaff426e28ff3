package mcp

import (
	"context"
	"fmt"

	"github.com/mbernardes19/torre-matheus/internal/config"
	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/export"
	"github.com/mbernardes19/torre-matheus/internal/repository"
	"github.com/mbernardes19/torre-matheus/internal/storage/memory"
	redisstore "github.com/mbernardes19/torre-matheus/internal/storage/redis"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
	"github.com/mbernardes19/torre-matheus/pkg/sheets"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

// provideTorreConfig extracts Torre client settings from main config
func provideTorreConfig(cfg config.Config, logger *logging.Logger) torre.Config {
	return torre.Config{
		BaseURL: cfg.Torre.BaseURL,
		Timeout: cfg.Torre.Timeout,
		Logger:  logger,
	}
}

// provideSessionRepository uses Redis when REDIS_URL is set and process memory otherwise
func provideSessionRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (repository.SessionRepository, func(), error) {
	if cfg.Redis.URL == "" {
		logger.Info("search sessions kept in memory", "ttl", cfg.Search.SessionTTL.String())
		return memory.NewSessionRepository(cfg.Search.SessionTTL), func() {}, nil
	}

	client, err := redisstore.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("session store: %w", err)
	}
	logger.Info("search sessions kept in redis", "addr", client.Options().Addr, "ttl", cfg.Search.SessionTTL.String())

	cleanup := func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close redis client", "err", err)
		}
	}
	return redisstore.NewSessionRepository(client, cfg.Search.SessionTTL), cleanup, nil
}

func provideOpportunityService(
	searcher opportunity.Searcher,
	repo repository.SessionRepository,
	cfg config.Config,
	logger *logging.Logger,
) (opportunity.Service, error) {
	return opportunity.NewService(
		opportunity.WithSearcher(searcher),
		opportunity.WithRepository(repo),
		opportunity.WithLocale(cfg.Torre.Locale),
		opportunity.WithLogger(logger),
	)
}

// provideExporter builds the Sheets exporter; it stays unconfigured without credentials
func provideExporter(ctx context.Context, cfg config.Config, logger *logging.Logger) *export.Exporter {
	if cfg.Sheets.CredentialsPath == "" {
		logger.Info("sheets export disabled", "reason", "GOOGLE_SHEETS_CREDENTIALS_PATH not set")
		return export.NewExporter(nil)
	}

	client, err := sheets.NewClient(ctx, sheets.Config{CredentialsPath: cfg.Sheets.CredentialsPath})
	if err != nil {
		logger.Warn("failed to initialize sheets client", "err", err)
		return export.NewExporter(nil)
	}

	logger.Info("sheets client initialized", "credentials", cfg.Sheets.CredentialsPath)
	return export.NewExporter(client)
}

func newResources(svc opportunity.Service, exporter *export.Exporter) *Resources {
	return &Resources{
		Opportunities: svc,
		Exporter:      exporter,
	}
}
