package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/hearth"
	"github.com/aretw0/hearth/internal/config"
	"github.com/aretw0/hearth/pkg/adapters/file"
	loamadapter "github.com/aretw0/hearth/pkg/adapters/loam"
	"github.com/aretw0/hearth/pkg/adapters/memory"
	redisadapter "github.com/aretw0/hearth/pkg/adapters/redis"
	"github.com/aretw0/hearth/pkg/observability"
	"github.com/aretw0/hearth/pkg/persistence/middleware"
	"github.com/aretw0/hearth/pkg/ports"
	"github.com/aretw0/hearth/pkg/weather"
)

// defaultRedisPrefix namespaces turn locks when no prefix is configured.
const defaultRedisPrefix = "hearth:"

// App is an Assistant wired from configuration, plus what the commands around it need.
type App struct {
	Config    config.Config
	Assistant *hearth.Assistant
	Metrics   *observability.Metrics
	Logger    *slog.Logger

	closers []func() error
}

// Build wires knowledge base, session store, weather client and metrics from cfg.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: logger}

	kb, err := openKnowledge(ctx, cfg.Knowledge)
	if err != nil {
		return nil, err
	}

	opts := []hearth.Option{
		hearth.WithKnowledgeBase(kb),
		hearth.WithLogger(logger),
		hearth.WithCredential(cfg.Credential()),
		hearth.WithWeather(weather.New(
			weather.WithBaseURL(cfg.Weather.BaseURL),
			weather.WithTimeout(cfg.Weather.Timeout),
			weather.WithLogger(logger),
		)),
	}

	storeOpts, err := app.openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	opts = append(opts, storeOpts...)

	app.Metrics = observability.NewMetrics(nil)
	opts = append(opts, hearth.WithLifecycleHooks(observability.Combine(
		app.Metrics.Hooks(),
		observability.LogHooks(logger),
	)))

	app.Assistant, err = hearth.New(opts...)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func openKnowledge(ctx context.Context, cfg config.KnowledgeConfig) (ports.KnowledgeBase, error) {
	switch cfg.Driver {
	case config.KnowledgeLoam:
		kb, err := loamadapter.Open(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open knowledge repository %s: %w", cfg.Path, err)
		}
		return kb, nil
	case config.KnowledgeYAML:
		return memory.LoadKnowledgeBase(cfg.Path)
	}
	return nil, fmt.Errorf("unknown knowledge driver %q", cfg.Driver)
}

func (a *App) openStore(cfg config.StoreConfig) ([]hearth.Option, error) {
	var opts []hearth.Option

	switch cfg.Driver {
	case config.StoreMemory:
		opts = append(opts, hearth.WithStore(memory.NewStore()))
	case config.StoreFile:
		opts = append(opts, hearth.WithStore(file.New(cfg.Path)))
	case config.StoreRedis:
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = defaultRedisPrefix
		}
		var redisOpts []redisadapter.Option
		if cfg.Redis.Prefix != "" {
			redisOpts = append(redisOpts, redisadapter.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			redisOpts = append(redisOpts, redisadapter.WithTTL(cfg.Redis.TTL))
		}
		store := redisadapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisOpts...)
		a.closers = append(a.closers, store.Close)
		opts = append(opts,
			hearth.WithStore(store),
			hearth.WithLocker(redisadapter.NewLocker(store.Client(), prefix)),
		)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("store encryption key: %w", err)
		}
		opts = append(opts, hearth.WithStoreMiddleware(
			middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
		))
	}
	return opts, nil
}
