package cli

import (
	"context"
	"fmt"
	"log/slog"

	markov "github.com/MohammadGhaderi0/Diabetes-Markov-Model"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/config"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/file"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/redis"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/observability"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/ports"
)

// newModelStore returns the Redis registry, or nil when Redis is not configured.
func newModelStore(cfg *config.Config) *redis.Store {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithPrefix(cfg.Redis.Prefix))
}

// newLoader picks the model source: a named Redis entry when both Redis and a
// model name are configured, the model file otherwise.
func newLoader(cfg *config.Config, store *redis.Store, logger *slog.Logger) ports.ModelLoader {
	if store != nil && cfg.Model.Name != "" {
		return ports.StoreLoader(store, cfg.Model.Name)
	}
	return file.New(cfg.Model.Path, file.WithLogger(logger))
}

// createEngine initializes an engine with standard CLI conventions.
func createEngine(ctx context.Context, cfg *config.Config, loader ports.ModelLoader, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*markov.Engine, error) {
	seed, hasSeed, err := cfg.Simulation.SeedValue()
	if err != nil {
		return nil, err
	}

	engineOpts := []markov.Option{
		markov.WithLoader(loader),
		markov.WithLogger(logger),
		markov.WithSteps(cfg.Simulation.Steps),
		markov.WithWorkers(cfg.Simulation.Workers),
	}
	if hasSeed {
		engineOpts = append(engineOpts, markov.WithSeed(seed))
	}

	all := append([]domain.LifecycleHooks{}, hooks...)
	if logger.Enabled(ctx, slog.LevelDebug) {
		all = append(all, createDebugHooks(logger))
	}
	if len(all) > 0 {
		engineOpts = append(engineOpts, markov.WithLifecycleHooks(observability.Combine(all...)))
	}

	engine, err := markov.NewContext(ctx, cfg.Model.Path, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}
