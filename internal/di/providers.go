package di

import (
	"fmt"

	"PredEval/internal/domain/repository"
	"PredEval/internal/ingest"
	internalrepo "PredEval/internal/repository"
	"PredEval/internal/usecase"
	"PredEval/pkg/cache"
	pkgch "PredEval/pkg/clickhouse"
	"PredEval/pkg/config"
	"PredEval/pkg/metrics"
	"PredEval/pkg/server"
)

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRecordSource creates the configured prediction log source. The
// ClickHouse pool is owned by the source and closed with it.
func ProvideRecordSource(cfg *config.Config) (repository.RecordSource, error) {
	switch cfg.Input.Source {
	case "csv":
		return ingest.NewCSVSource(cfg.Input.Path), nil
	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
			pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		return internalrepo.NewCHRecordSource(client, cfg.ClickHouse.Table), nil
	default:
		return nil, fmt.Errorf("unknown input source %q", cfg.Input.Source)
	}
}

// ProvideCache creates the report cache: memory only, or layered over
// Redis when enabled.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	redis, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Cache.Redis.Host),
		cache.WithRedisPort(cfg.Cache.Redis.Port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redis), nil
}

// ProvideReportBuilder creates the report builder with caching enabled.
func ProvideReportBuilder(
	source repository.RecordSource,
	m repository.Metrics,
	c cache.Service,
	cfg *config.Config,
) *usecase.ReportBuilder {
	b := usecase.NewReportBuilder(source, m)
	b.SetCache(c, cfg.Cache.ReportTTL)
	return b
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	builder *usecase.ReportBuilder,
	source repository.RecordSource,
	c cache.Service,
) *server.App {
	return server.New(cfg, builder, source, c)
}
