package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"restaurant-matching-service/internal/adapters/repositories"
	"restaurant-matching-service/internal/api"
	"restaurant-matching-service/internal/app"
	"restaurant-matching-service/internal/config"
	"restaurant-matching-service/internal/platform/db"
	"restaurant-matching-service/internal/platform/obs"
	"restaurant-matching-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQL, geocoder, cache) behind ports and starts the HTTP server.
func main() {
	logger := obs.NewLogger("restaurant-matching")
	defer logger.Sync() //nolint:errcheck
	zap.ReplaceGlobals(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg.DB.Driver, cfg.DB.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	// Seeding is opt-in; inserts skip rows that already exist.
	if cfg.SeedOnStart {
		if err := repositories.SeedFromJSON(ctx, conn, cfg.SeedPath); err != nil {
			return err
		}
		logger.Info("seed applied", zap.String("path", cfg.SeedPath))
	}

	resolver, closeCache, err := app.NewResolver(ctx, cfg, conn)
	defer closeCache() //nolint:errcheck
	if err != nil {
		return err
	}

	ranker, err := services.NewDistanceRanker(resolver)
	if err != nil {
		return err
	}

	menu := repositories.NewSQLMenuRepository(conn)
	source := repositories.NewSQLBoardSource(conn, repositories.SnapshotTxOptions(cfg.DB.Driver))
	board, err := services.NewOrderBoard(source, ranker, cfg.MatchWorkers)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Deps{Board: board, Menu: menu, DB: conn, Logger: logger})

	// Write timeout covers a cold-cache board pass (external geocoder latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("geocoder", cfg.Geocode.Provider),
			zap.String("geocode_cache", cfg.Geocode.Cache),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
