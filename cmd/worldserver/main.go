package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/worldobj/internal/config"
	"github.com/udisondev/worldobj/internal/data"
	"github.com/udisondev/worldobj/internal/db"
	"github.com/udisondev/worldobj/internal/engine"
	"github.com/udisondev/worldobj/internal/gameloop"
	"github.com/udisondev/worldobj/internal/world"
)

const ConfigPath = "config/worldserver.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("WORLDOBJ_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadWorldServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("world server starting", "log_level", cfg.LogLevel, "config", cfgPath)

	catalog, err := data.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading item catalog: %w", err)
	}

	logger := slog.Default()
	w := world.New(cfg.Limits.TileMaxItems, world.WithLogger(logger))
	eng := engine.New(catalog, w,
		engine.WithLogger(logger),
		engine.WithDecayWheel(cfg.Decay.Interval, cfg.Decay.Buckets))

	var persist *db.WorldPersistenceService
	if cfg.Database.Enabled {
		dsn := cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("connected to database", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)

		persist = db.NewWorldPersistenceService(database.Items())
		if _, err := persist.LoadTiles(ctx, eng); err != nil {
			return fmt.Errorf("loading tiles: %w", err)
		}
	}

	loop := gameloop.New(eng, cfg.Decay.Interval, cfg.WorkQueueSize)

	g, gctx := errgroup.WithContext(ctx)

	// The loop runs until Stop so the final save can still submit work.
	g.Go(func() error {
		slog.Info("starting game loop", "interval", cfg.Decay.Interval, "buckets", cfg.Decay.Buckets)
		if err := loop.Start(context.Background()); err != nil {
			return fmt.Errorf("game loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		defer loop.Stop()
		if persist == nil {
			<-gctx.Done()
			return nil
		}
		slog.Info("starting tile saver", "interval", cfg.SaveInterval)
		return runSaver(gctx, loop, persist, cfg.SaveInterval)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("world server stopped", "ticks", loop.Ticks())
	return nil
}

// runSaver persists dirty tiles every interval and once more on shutdown.
func runSaver(ctx context.Context, loop *gameloop.Loop, persist *db.WorldPersistenceService, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := saveDirty(saveCtx, loop, persist); err != nil && !errors.Is(err, gameloop.ErrStopped) {
				return fmt.Errorf("final save: %w", err)
			}
			return nil
		case <-ticker.C:
			if err := saveDirty(ctx, loop, persist); err != nil {
				slog.Error("saving tiles", "error", err)
			}
		}
	}
}

func saveDirty(ctx context.Context, loop *gameloop.Loop, persist *db.WorldPersistenceService) error {
	var snap map[string][]db.Row
	err := loop.Submit(ctx, func(e *engine.Engine) error {
		snap = db.CollectDirtyTiles(e.World())
		return nil
	})
	if err != nil {
		return err
	}
	return persist.SaveTiles(ctx, snap)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
