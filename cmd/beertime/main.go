package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"beertime/internal/catalog"
	"beertime/internal/config"
	"beertime/internal/logger"
	"beertime/internal/session"
	"beertime/internal/shop"
	tg "beertime/internal/telegram"
	"beertime/internal/telegram/middleware"
	"beertime/internal/telegram/router"
	tgsender "beertime/internal/telegram/sender"

	"log/slog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("beertime: %v", err)
	}
}

func run() error {
	// .env is optional; real deployments pass env vars directly.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	log.Printf("loading config: %s", cfgPath)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		DebugSample: cfg.Logging.DebugSample,
		Dir:         cfg.Logging.Dir,
		File:        cfg.Logging.BotFile,
		Profile:     cfg.Logging.Profile,
	}); err != nil {
		return fmt.Errorf("logger init: %w", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	backend, cleanup, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	store, err := catalog.Open(ctx, backend)
	if err != nil {
		return err
	}

	sessions := session.NewManager()
	dispatcher := shop.New(store, sessions, shop.Options{
		AdminID: cfg.Telegram.AdminID,
		Volumes: cfg.Shop.Volumes,
	})

	reg := tg.NewRegistry()
	shop.Register(reg, dispatcher)

	var middlewares []tg.Middleware
	if cfg.RateLimit.IntervalMS > 0 {
		exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, kind := range cfg.RateLimit.ExcludeUpdates {
			exclude[kind] = struct{}{}
		}
		middlewares = append(middlewares, tg.Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimit(middleware.RateLimitOptions{
				Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:  exclude,
			}),
		})
	}

	routes := []tg.Route{
		router.CallbackRoute(reg, router.CallbackOptions{}),
	}
	routes = append(routes, router.MessageRoutes(sessions, reg, router.MessageOptions{})...)
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: cfg.Telegram.AdminID,
	})...)

	startedAt := time.Now()
	return tg.RunTelegram(ctx, tg.RunOptions{
		Config:   cfg,
		Registry: reg,
		DispatcherOptions: tgsender.Options{
			MaxRetries: 2,
		},
		Middlewares: middlewares,
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, _ tg.Runtime) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	})
}

// openBackend builds the catalog persistence backend selected by
// storage.driver. The returned cleanup closes pooled connections.
func openBackend(cfg *config.Config) (catalog.Backend, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		if err := catalog.RunMigrations(cfg.Storage.Database); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		db, err := catalog.Connect(cfg.Storage.Database)
		if err != nil {
			return nil, nil, err
		}
		return catalog.NewPGStore(db), func() { _ = db.Close() }, nil
	default:
		return catalog.NewFileStore(cfg.Storage.Path), func() {}, nil
	}
}
