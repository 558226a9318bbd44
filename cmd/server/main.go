package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nravi/wealthtrack/internal/cache"
	"github.com/nravi/wealthtrack/internal/config"
	"github.com/nravi/wealthtrack/internal/database"
	"github.com/nravi/wealthtrack/internal/modules/catalog"
	"github.com/nravi/wealthtrack/internal/modules/dashboard"
	"github.com/nravi/wealthtrack/internal/modules/fxrates"
	"github.com/nravi/wealthtrack/internal/modules/goals"
	"github.com/nravi/wealthtrack/internal/modules/liabilities"
	"github.com/nravi/wealthtrack/internal/modules/transactions"
	"github.com/nravi/wealthtrack/internal/modules/users"
	"github.com/nravi/wealthtrack/internal/modules/valuations"
	"github.com/nravi/wealthtrack/internal/scheduler"
	"github.com/nravi/wealthtrack/internal/server"
	"github.com/nravi/wealthtrack/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet; write straight to stderr.
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting wealthtrack server")

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Redis when configured, in-process otherwise.
	var (
		payloadCache cache.Cache
		memoryCache  *cache.Memory
	)
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, log)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		defer redisCache.Close()
		payloadCache = redisCache
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis cache")
	} else {
		memoryCache = cache.NewMemory()
		payloadCache = memoryCache
		log.Info().Msg("Using in-process cache")
	}

	conn := db.Conn()

	dashboardRepo := dashboard.NewRepository(conn, log)
	dashboardService := dashboard.NewService(dashboardRepo, payloadCache, cfg.DashboardCacheTTL, log)

	handlers := server.Handlers{
		Dashboard:    dashboard.NewHandler(dashboardService, log),
		Transactions: transactions.NewHandler(transactions.NewRepository(conn, log), payloadCache, log),
		Valuations:   valuations.NewHandler(valuations.NewRepository(conn, log), payloadCache, log),
		Liabilities:  liabilities.NewHandler(liabilities.NewRepository(conn, log), payloadCache, log),
		FxRates:      fxrates.NewHandler(fxrates.NewRepository(conn, log), payloadCache, log),
		Catalog:      catalog.NewHandler(catalog.NewRepository(conn, log), log),
		Goals:        goals.NewHandler(goals.NewRepository(conn, log), log),
		Users:        users.NewHandler(users.NewRepository(conn, log), []byte(cfg.JWTSecret), cfg.TokenTTL, log),
	}

	sched := scheduler.New(log)
	if memoryCache != nil {
		if err := sched.AddJob("@hourly", scheduler.NewCacheSweepJob(memoryCache, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register cache sweep job")
		}
	}
	if err := sched.AddJob("30 3 * * *", scheduler.NewWalCheckpointJob(db, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register WAL checkpoint job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(cfg, handlers, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Graceful shutdown failed")
		}
	}

	log.Info().Msg("Server stopped")
}
