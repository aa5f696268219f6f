package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tcgcollectr/internal/analytics"
	"tcgcollectr/internal/auth"
	"tcgcollectr/internal/catalog"
	"tcgcollectr/internal/collection"
	"tcgcollectr/internal/config"
	"tcgcollectr/internal/list"
	"tcgcollectr/internal/logging"
	"tcgcollectr/internal/platform/tcgdex"
	"tcgcollectr/internal/profile"
	"tcgcollectr/internal/store"
)

const userAgent = "tcgcollectr/1.0"

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pools, err := store.NewPools(ctx, cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("database")
	}
	defer pools.Close()
	logger.Info().Msg("database connection OK")

	dex := tcgdex.NewClient(cfg.TCGdex.BaseURL, userAgent,
		cfg.TCGdex.Timeout, cfg.TCGdex.RequestsPerS, cfg.TCGdex.Burst)

	catalogStore := catalog.NewPostgresStore(pools.Read, pools.Service)
	seeder := catalog.NewSeeder(catalogStore, dex, cfg.TCGdex.SeedTimeout)
	catalogService := catalog.NewService(catalogStore, seeder)

	queryTimeout := cfg.Database.QueryTimeout
	userRepo := auth.NewUserPostgresRepo(pools.Service, queryTimeout)
	blacklistRepo := auth.NewBlacklistPostgresRepo(pools.Service, queryTimeout)
	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, userRepo, blacklistRepo)

	collectionService := collection.NewService(
		collection.NewPostgresRepo(pools.Service, queryTimeout), catalogService)
	listService := list.NewService(
		list.NewPostgresRepo(pools.Service, queryTimeout), catalogService)
	profileService := profile.NewService(authService, collectionService)
	analyticsService := analytics.NewService(
		analytics.NewPostgresRepo(pools.Service, queryTimeout))

	h := handlers{
		catalog:    catalog.NewHTTPHandler(catalogService),
		auth:       auth.NewHTTPHandler(authService),
		collection: collection.NewHTTPHandler(collectionService),
		lists:      list.NewHTTPHandler(listService),
		profiles:   profile.NewHTTPHandler(profileService),
		events:     analytics.NewHTTPHandler(analyticsService),
	}

	go cleanupBlacklist(ctx, blacklistRepo, logger)

	router := newRouter(cfg, readiness(pools), h, blacklistRepo)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}
}

// cleanupBlacklist prunes revoked-token rows whose natural expiry has
// passed. The blacklist stays small, one hour of lag is harmless.
func cleanupBlacklist(ctx context.Context, blacklist auth.BlacklistRepository, logger zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := blacklist.CleanupExpired(ctx); err != nil {
				logger.Error().Err(err).Msg("blacklist cleanup")
			}
		}
	}
}

// readiness reports ready only when both credential tiers can reach the
// database.
func readiness(pools *store.Pools) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pools.Read.Ping(ctx); err != nil {
			http.Error(w, "read pool not ready", http.StatusServiceUnavailable)
			return
		}
		if err := pools.Service.Ping(ctx); err != nil {
			http.Error(w, "service pool not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
