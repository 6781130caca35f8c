package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/ai"
	"github.com/aastha-raghuvanshi/welth/internal/config"
	"github.com/aastha-raghuvanshi/welth/internal/database"
	"github.com/aastha-raghuvanshi/welth/internal/ledger"
	"github.com/aastha-raghuvanshi/welth/internal/logger"
	"github.com/aastha-raghuvanshi/welth/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	log := logger.New(cfg.Log.Level)

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("init database")
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// receipt scanning is optional: without a Gemini key the rest of the
	// service still works
	scanner, err := ai.NewScanner(ctx, cfg.Gemini.Model)
	if err != nil {
		log.Warn().Err(err).Msg("receipt scanning disabled")
		scanner = nil
	}

	svc := ledger.New(db, ledger.LogInvalidator{Log: log})

	r := router.Setup(cfg, db, log, svc, scanner)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("run server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := database.Close(db); err != nil {
		log.Error().Err(err).Msg("close database")
	}
}
