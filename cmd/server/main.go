package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/kirtanupdate/server/internal/adapters/http"
	wsignal "github.com/kirtanupdate/server/internal/adapters/signal"
	"github.com/kirtanupdate/server/internal/app"
	"github.com/kirtanupdate/server/internal/auth"
	"github.com/kirtanupdate/server/internal/config"
	"github.com/kirtanupdate/server/internal/scheduler"
	"github.com/kirtanupdate/server/internal/storage"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := os.MkdirAll(cfg.UploadPath, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create upload dir")
	}

	db, err := storage.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}

	tokens := auth.NewManager(cfg.Secret, cfg.TokenTTL)
	api := &router.API{
		Users:     storage.NewUserRepo(db),
		Samagams:  storage.NewSamagamRepo(db),
		Recorded:  storage.NewRecordedRepo(db),
		Locations: storage.NewLocationRepo(db),
		Tokens:    storage.NewFcmTokenRepo(db),
		Camp:      storage.NewCampRepo(db),
		Auth:      tokens,
		Hasher:    auth.NewPasswordHasher(),
		UploadDir: cfg.UploadPath,
	}

	presence := app.NewPresence(cfg.PresenceInterval)
	coordinator := app.NewCoordinator(presence, storage.NewBroadcastRepo(db))
	if err := coordinator.Reset(); err != nil {
		log.Error().Err(err).Msg("failed to clear stale broadcasts")
	}
	go presence.Run(ctx)

	cleaner := scheduler.NewCleaner(api.Samagams, cfg.CleanupInterval)
	go cleaner.Run(ctx)

	ws := wsignal.NewController(presence, coordinator, tokens)
	r := router.SetupRouter(ctx, cfg, api, ws)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Kirtan Update server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
