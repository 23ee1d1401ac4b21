// AniRec - Anime Recommendation Service
// Copyright 2026 The AniRec Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/anirec/anirec

// Package main is the entry point for the AniRec server.
//
// AniRec serves personalized anime recommendations: it fetches a
// user's MyAnimeList history, runs a per-request incremental fit on a
// copy of a pre-trained latent-factor model, and returns a ranked,
// filterable recommendation list.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml,
//     ANIREC_* environment variables)
//  2. Logging: zerolog, json or console format
//  3. Catalog: immutable CSV snapshot, loaded once
//  4. Model: pre-trained artifact plus identifier mappings, loaded
//     once and shared read-only
//  5. HTTP server: chi router with CORS, rate limiting and Prometheus
//     metrics
//
// # Configuration
//
// The only required setting is the MyAnimeList API credential:
//
//	export ANIREC_MAL_CLIENT_ID=your-client-id
//	./anirec
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the listener stops
// accepting connections and in-flight requests get the configured
// shutdown timeout to finish.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/anirec/anirec/internal/api"
	"github.com/anirec/anirec/internal/catalog"
	"github.com/anirec/anirec/internal/config"
	"github.com/anirec/anirec/internal/logging"
	"github.com/anirec/anirec/internal/mal"
	"github.com/anirec/anirec/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("catalog_path", cfg.Catalog.Path).
		Str("model_path", cfg.Model.Path).
		Msg("Starting AniRec")

	store, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalog")
	}

	model, maps, err := recommend.LoadArtifact(cfg.Model.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load model artifact")
	}

	fetcher := mal.NewClient(&cfg.MAL)

	engine, err := recommend.NewEngine(&recommend.Config{
		Epochs:         cfg.Model.Epochs,
		LearningRate:   cfg.Model.LearningRate,
		Regularization: cfg.Model.Regularization,
		Seed:           cfg.Model.Seed,
		TopN:           cfg.Model.TopN,
	}, model, maps, fetcher, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	handler := api.NewHandler(engine, store)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Run the listener in the background and block on shutdown signals.
	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown incomplete")
	}

	logging.Info().Msg("AniRec stopped gracefully")
}
