package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
	_ "github.com/JonMunkholm/bizdir/internal/core/schemas" // Register companies and products
	"github.com/JonMunkholm/bizdir/internal/logging"
	"github.com/JonMunkholm/bizdir/internal/store"
	"github.com/JonMunkholm/bizdir/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"upload_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"cache_enabled", cfg.Cache.Enabled(),
	)

	ctx := context.Background()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if u, err := url.Parse(cfg.Database.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}

	st := store.New(pool, cfg.Upload.BatchSize)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Search results are cached in Redis when REDIS_URL is set
	var catalog core.CatalogStore = st
	if cfg.Cache.Enabled() {
		client, err := store.ConnectRedis(ctx, cfg.Cache)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		catalog = store.NewCachedCatalog(st, client, cfg.Cache.TTL)
		slog.Info("search cache enabled", "ttl", cfg.Cache.TTL)
	}

	service, err := core.NewService(core.Stores{
		Catalog:    catalog,
		History:    st,
		Categories: st,
	}, cfg)
	if err != nil {
		slog.Error("failed to create service", "error", err)
		os.Exit(1)
	}

	slog.Info("schemas registered", "count", core.SchemaCount())
	for _, schema := range core.All() {
		slog.Debug("schema", "kind", schema.Kind, "table", schema.Table, "columns", len(schema.Columns))
	}

	server := web.NewServer(service, cfg, st)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())

	if cfg.Upload.HistoryRetention > 0 {
		go service.StartHistoryPruner(jobCtx, core.PruneConfig{
			Retention: cfg.Upload.HistoryRetention,
			Interval:  cfg.Upload.HistoryPruneInterval,
		})
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		// Let running imports commit or roll back before closing the pool
		if status := service.ImportLimiterStatus(); status.Active > 0 {
			slog.Info("waiting for imports to complete", "active", status.Active)
			if err := service.WaitForImports(shutdownCtx); err != nil {
				slog.Warn("imports did not complete in time", "error", err)
			} else {
				slog.Info("all imports completed")
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
