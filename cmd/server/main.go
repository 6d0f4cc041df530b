// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Command server runs the offer-matching model trainer: an HTTP
// service that samples confirmed matches, trains the brand, category,
// and matching classifiers, and persists the winning artifacts.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kevka/modelgen/internal/api"
	"github.com/kevka/modelgen/internal/config"
	"github.com/kevka/modelgen/internal/dataset"
	"github.com/kevka/modelgen/internal/embedding"
	"github.com/kevka/modelgen/internal/ensemble/fitters"
	"github.com/kevka/modelgen/internal/logging"
	"github.com/kevka/modelgen/internal/persist"
	"github.com/kevka/modelgen/internal/store"
	"github.com/kevka/modelgen/internal/supervisor"
	"github.com/kevka/modelgen/internal/training"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("matches_store", cfg.Matches.URL).
		Str("offer_cache", cfg.OfferCache.URL).
		Msg("starting modelgen")

	// Collaborator clients.
	matchesClient := store.NewMatchesClient(cfg.Matches)
	offerClient := store.NewOfferCacheClient(cfg.OfferCache)

	// Model artifact store.
	db, err := persist.OpenBadger(cfg.Models.Path)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Models.Path).Msg("failed to open model store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("failed to close model store")
		}
	}()
	repo := persist.NewBadgerModelRepository(db)

	// Training pipelines.
	partitioner := dataset.NewPartitioner(
		matchesClient,
		cfg.Training.MatchesPerShop,
		cfg.Training.MaxMatchesForLearning,
		cfg.Training.TrainingSetFraction,
		cfg.Training.Seed,
		logging.Logger(),
	)
	orchestrator, err := training.NewOrchestrator(
		cfg.Training,
		partitioner,
		offerClient,
		embedding.NewTrainer(0, nil),
		fitters.NewProvider(cfg.Training.Seed),
		repo,
		logging.Logger(),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build training orchestrator")
	}

	// HTTP surface.
	router := api.NewRouter(api.NewHandler(orchestrator))
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Supervision with the zerolog-to-slog bridge.
	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(supervisor.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor error")
		}
		cancel()
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("supervisor shutdown error")
		}
	}

	// Let in-flight training runs complete before the store closes.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := orchestrator.Shutdown(shutdownCtx); err != nil {
		logging.Warn().Err(err).Msg("training runs did not finish in time")
	}

	logging.Info().Msg("stopped")
}
