package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/slotswap/slotswap/internal/api/http"
	"github.com/slotswap/slotswap/internal/application/auth"
	"github.com/slotswap/slotswap/internal/application/event"
	"github.com/slotswap/slotswap/internal/application/negotiation"
	"github.com/slotswap/slotswap/internal/config"
	domainSlot "github.com/slotswap/slotswap/internal/domain/slot"
	domainSwap "github.com/slotswap/slotswap/internal/domain/swap"
	domainUser "github.com/slotswap/slotswap/internal/domain/user"
	"github.com/slotswap/slotswap/internal/infrastructure/bus"
	"github.com/slotswap/slotswap/internal/infrastructure/memstore"
	"github.com/slotswap/slotswap/internal/infrastructure/postgres"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()

	ctx := context.Background()

	var (
		slotStore domainSlot.Store
		ledger    domainSwap.Ledger
		userRepo  domainUser.Repository
	)

	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db error: %v", err)
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
			log.Fatalf("migration error: %v", err)
		}

		slotStore = postgres.NewSlotRepository(pool)
		ledger = postgres.NewSwapRepository(pool)
		userRepo = postgres.NewUserRepository(pool)
		logger.Info().Msg("using postgres storage")
	} else {
		slotStore = memstore.NewSlotStore()
		ledger = memstore.NewSwapLedger()
		userRepo = memstore.NewUserRepository()
		logger.Warn().Msg("no DATABASE_URL set, using in-memory storage")
	}

	// infrastructure
	hub := bus.NewHub(logger)
	defer hub.Stop()

	// services
	authSvc := auth.NewService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL, logger)
	eventSvc := event.NewService(slotStore, logger)
	negotiationSvc := negotiation.NewService(slotStore, ledger, userRepo, hub, logger)

	// API server
	apiServer := httpapi.NewServer(authSvc, eventSvc, negotiationSvc, hub, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
