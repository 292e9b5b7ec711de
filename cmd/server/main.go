package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Zerr0-C00L/Katch/internal/api"
	"github.com/Zerr0-C00L/Katch/internal/auth"
	"github.com/Zerr0-C00L/Katch/internal/cache"
	"github.com/Zerr0-C00L/Katch/internal/catalog"
	"github.com/Zerr0-C00L/Katch/internal/config"
	"github.com/Zerr0-C00L/Katch/internal/database"
	"github.com/Zerr0-C00L/Katch/internal/database/gormstore"
	"github.com/Zerr0-C00L/Katch/internal/install"
	"github.com/Zerr0-C00L/Katch/internal/library"
	"github.com/Zerr0-C00L/Katch/internal/logging"
	"github.com/Zerr0-C00L/Katch/internal/metrics"
	"github.com/Zerr0-C00L/Katch/internal/pages"
	"github.com/Zerr0-C00L/Katch/internal/providers"
	"github.com/Zerr0-C00L/Katch/internal/services"
	"github.com/Zerr0-C00L/Katch/internal/shield"
)

// store is whichever backend DATABASE_URL selects.
type store struct {
	history   library.HistoryStore
	watchlist library.WatchlistStore
	health    api.HealthChecker
	close     func() error
}

// openStore uses the embedded gorm store for sqlite:// and file: URLs and
// Postgres for everything else.
func openStore(ctx context.Context, dsn string) (*store, error) {
	if path, ok := strings.CutPrefix(dsn, "sqlite://"); ok || strings.HasPrefix(dsn, "file:") {
		if !ok {
			path = dsn
		}
		db, err := gormstore.Open(path)
		if err != nil {
			return nil, err
		}
		return &store{history: db.History(), watchlist: db.Watchlist(), health: db, close: db.Close}, nil
	}

	db, err := database.New(dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return &store{
		history:   database.NewHistoryStore(db.DB),
		watchlist: database.NewWatchlistStore(db.DB),
		health:    db,
		close:     db.Close,
	}, nil
}

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Options{Debug: cfg.Debug, LogFile: cfg.LogFile})
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug(".env file not found, using environment variables")
	}
	if cfg.TMDBAPIKey == "" {
		logger.Warn("TMDB_API_KEY is not set, catalog pages will be empty")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	st, err := openStore(workerCtx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer st.close()

	m := metrics.New()

	requestCache := cache.NewRequestCache()
	scheduler := services.NewServiceScheduler(logger)
	scheduler.Every(workerCtx, services.ServiceCacheCleanup, "Removes expired vendor responses", time.Hour,
		func(context.Context) error {
			removed := requestCache.Cleanup()
			logger.Debug("request cache swept", "removed", removed, "remaining", requestCache.Len())
			return nil
		})

	tmdb := services.NewTMDBClient(cfg.TMDBAPIKey,
		services.WithBaseURL(cfg.TMDBBaseURL),
		services.WithCache(requestCache, cfg.TMDBCacheTTL),
		services.WithMetrics(m),
		services.WithLogger(logger),
	)

	catalogService := catalog.NewService(tmdb, logger)
	libraryService := library.NewService(st.history, st.watchlist, logger)
	pageService := pages.NewService(catalogService, tmdb, libraryService, cfg.DefaultLang, logger)

	if cfg.SessionSecret == "" {
		logger.Warn("SESSION_SECRET is not set, sessions will not survive a restart")
	}
	sessions, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	if err != nil {
		logger.Error("failed to initialize sessions", "error", err)
		os.Exit(1)
	}
	provider := auth.NewProvider(workerCtx, cfg.OIDC, sessions, logger)
	if !provider.Enabled() {
		logger.Info("OIDC login disabled, every visitor is anonymous")
	}

	policy := shield.NewPolicy(
		[]string{"www.themoviedb.org"},
		providers.Hosts(),
		[]string{"image.tmdb.org"},
	)

	handler, err := api.NewHandler(api.Options{
		Pages:         pageService,
		Catalog:       catalogService,
		Library:       libraryService,
		Auth:          provider,
		Sessions:      sessions,
		Policy:        policy,
		Prompt:        install.NewPrompt(),
		Health:        st.health,
		Jobs:          scheduler,
		Metrics:       m,
		SecureCookies: cfg.SecureCookies,
		DefaultLang:   cfg.DefaultLang,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to build handlers", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.SetupRoutes(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
