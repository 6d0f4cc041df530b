// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package training orchestrates the three classifier pipelines:
// dataset partitioning, feature building, model fitting, held-out
// evaluation, and persistence of the winning artifact. At most one run
// per classifier type is in flight at any time.
package training

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/config"
	"github.com/kevka/modelgen/internal/dataset"
	"github.com/kevka/modelgen/internal/ensemble"
	"github.com/kevka/modelgen/internal/evaluation"
	"github.com/kevka/modelgen/internal/features"
	"github.com/kevka/modelgen/internal/metrics"
	"github.com/kevka/modelgen/internal/models"
	"github.com/kevka/modelgen/internal/persist"
)

// modelTypeEmbedding tags persisted text-classifier artifacts.
const modelTypeEmbedding = "textEmbedding"

// Orchestrator owns the training pipelines and their single-flight
// guard. Requests return immediately; runs execute on a bounded worker
// pool.
type Orchestrator struct {
	cfg config.TrainingConfig

	partitioner *dataset.Partitioner
	offers      features.OfferGetter
	embeddings  EmbeddingTrainer
	trainer     *ensemble.Trainer
	repo        persist.ModelRepository

	guard *stateGuard
	sem   chan struct{}
	wg    sync.WaitGroup

	// textModels caches the most recently trained text models so
	// matching-model training avoids a reload round-trip.
	textMu     sync.RWMutex
	textModels map[models.ClassifierType]TextModel

	logger zerolog.Logger
}

// NewOrchestrator wires the pipelines together. The fitter provider
// must supply every roster kind.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func NewOrchestrator(
	cfg config.TrainingConfig,
	partitioner *dataset.Partitioner,
	offers features.OfferGetter,
	embeddings EmbeddingTrainer,
	provider ensemble.FitterProvider,
	repo persist.ModelRepository,
	logger zerolog.Logger,
) (*Orchestrator, error) {
	roster, err := ensemble.NewRoster(provider)
	if err != nil {
		return nil, fmt.Errorf("build candidate roster: %w", err)
	}

	log := logger.With().Str("component", "training").Logger()
	return &Orchestrator{
		cfg:         cfg,
		partitioner: partitioner,
		offers:      offers,
		embeddings:  embeddings,
		trainer:     ensemble.NewTrainer(roster, log),
		repo:        repo,
		guard:       newStateGuard(),
		sem:         make(chan struct{}, cfg.Workers),
		textModels:  make(map[models.ClassifierType]TextModel, 2),
		logger:      log,
	}, nil
}

// RequestTraining accepts or drops a training request for one
// classifier type. On acceptance it returns a run ID and schedules the
// run asynchronously; ErrTrainingInProgress means a run for the same
// type is already in flight. For the matching classifier the
// prerequisite check runs before the guard is touched, so a rejected
// precondition leaves the guard idle.
func (o *Orchestrator) RequestTraining(ctx context.Context, t models.ClassifierType) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownClassifier, t)
	}

	if t == models.ClassifierMatching {
		if err := o.checkPrerequisites(ctx); err != nil {
			return "", err
		}
	}

	if !o.guard.tryAcquire(t) {
		metrics.TrainingRunsRejected.WithLabelValues(string(t)).Inc()
		return "", fmt.Errorf("%w: %s", ErrTrainingInProgress, t)
	}

	runID := uuid.NewString()
	metrics.TrainingRunsStarted.WithLabelValues(string(t)).Inc()
	o.logger.Info().
		Str("run_id", runID).
		Str("classifier", string(t)).
		Msg("training run accepted")

	runCtx := context.WithoutCancel(ctx)
	o.wg.Add(1)
	go o.run(runCtx, runID, t)

	return runID, nil
}

// States returns the guard state of every classifier type.
func (o *Orchestrator) States() map[models.ClassifierType]RunState {
	return o.guard.snapshot()
}

// FreeDatasets drops the cached train/test split. It refuses while any
// run is in flight.
func (o *Orchestrator) FreeDatasets() error {
	if o.guard.anyBusy() {
		return ErrTrainingInProgress
	}
	o.partitioner.Free()
	return nil
}

// RefreshDatasets drops the cached split and materializes a fresh one.
// It refuses while any run is in flight.
func (o *Orchestrator) RefreshDatasets(ctx context.Context) error {
	if o.guard.anyBusy() {
		return ErrTrainingInProgress
	}
	return o.partitioner.Refresh(ctx)
}

// Shutdown waits for in-flight runs to finish or the context to
// expire.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown with runs in flight: %w", ctx.Err())
	}
}

// checkPrerequisites verifies that both text classifiers are persisted
// before a matching run may start.
func (o *Orchestrator) checkPrerequisites(ctx context.Context) error {
	var missing []models.ClassifierType
	for _, t := range []models.ClassifierType{models.ClassifierBrand, models.ClassifierCategory} {
		exists, err := o.repo.Exists(ctx, t)
		if err != nil {
			return fmt.Errorf("check %s model: %w", t, err)
		}
		if !exists {
			missing = append(missing, t)
		}
	}
	if len(missing) > 0 {
		return &PrerequisiteError{Missing: missing}
	}
	return nil
}

// run executes one training pipeline on the worker pool and releases
// the guard when done, success or failure.
func (o *Orchestrator) run(ctx context.Context, runID string, t models.ClassifierType) {
	defer o.wg.Done()

	o.sem <- struct{}{}
	defer func() { <-o.sem }()
	defer o.guard.release(t)

	logger := o.logger.With().Str("run_id", runID).Str("classifier", string(t)).Logger()
	start := time.Now()

	var err error
	switch t {
	case models.ClassifierBrand, models.ClassifierCategory:
		err = o.trainText(ctx, t, logger)
	case models.ClassifierMatching:
		err = o.trainMatching(ctx, logger)
	}

	elapsed := time.Since(start)
	metrics.TrainingDuration.WithLabelValues(string(t)).Observe(elapsed.Seconds())

	if err != nil {
		metrics.TrainingRunsCompleted.WithLabelValues(string(t), "failure").Inc()
		logger.Error().Dur("elapsed", elapsed).Err(err).Msg("training run failed")
		return
	}
	metrics.TrainingRunsCompleted.WithLabelValues(string(t), "success").Inc()
	logger.Info().Dur("elapsed", elapsed).Msg("training run complete")
}

// trainText runs the brand or category pipeline: project the training
// split onto labeled documents, fit the embedding model, evaluate it
// against the held-out split, and persist the artifact.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func (o *Orchestrator) trainText(ctx context.Context, t models.ClassifierType, logger zerolog.Logger) error {
	if err := o.partitioner.Partition(ctx); err != nil {
		return fmt.Errorf("partition dataset: %w", err)
	}

	builder := o.newBuilder(nil, logger)

	trainDocs := o.documents(ctx, builder, t, o.partitioner.Training())
	if len(trainDocs) == 0 {
		return fmt.Errorf("no labeled %s documents in training set", t)
	}

	model, err := o.embeddings.Fit(ctx, trainDocs)
	if err != nil {
		return fmt.Errorf("fit %s model: %w", t, err)
	}

	testDocs := o.documents(ctx, builder, t, o.partitioner.Testing())
	result := evaluation.EvaluateText(testDocs, model, o.threshold(t), logger)

	scored, err := o.scoredText(t, model, result)
	if err != nil {
		return err
	}
	if err := o.repo.Save(ctx, scored); err != nil {
		return fmt.Errorf("persist %s model: %w", t, err)
	}

	o.textMu.Lock()
	o.textModels[t] = model
	o.textMu.Unlock()

	return nil
}

// trainMatching runs the matching pipeline: build engineered instances
// with the trained text classifiers as feature inputs, fit the whole
// candidate roster, report every candidate's held-out diagnostics,
// and persist the candidate with the lowest training error.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func (o *Orchestrator) trainMatching(ctx context.Context, logger zerolog.Logger) error {
	predictor, err := o.loadPredictor(ctx)
	if err != nil {
		return err
	}

	if err := o.partitioner.Partition(ctx); err != nil {
		return fmt.Errorf("partition dataset: %w", err)
	}

	builder := o.newBuilder(predictor, logger)

	trainSet := builder.BuildInstances(ctx, o.partitioner.Training())
	if len(trainSet.Instances) == 0 {
		return errors.New("no usable instances in training set")
	}

	trained, failures := o.trainer.TrainAll(ctx, trainSet.Instances)
	for _, ferr := range failures {
		logger.Warn().Err(ferr).Msg("candidate dropped from selection")
	}
	if len(trained) == 0 {
		return fmt.Errorf("all candidates failed to train: %w", errors.Join(failures...))
	}

	best, trainingError, err := ensemble.SelectByTrainingError(trained, trainSet.Instances)
	if err != nil {
		return err
	}
	logger.Info().
		Str("model", string(best.Kind)).
		Float64("training_error", trainingError).
		Int("candidates", len(trained)).
		Msg("selected matching model")

	holdout := builder.BuildInstances(ctx, o.partitioner.Testing())
	for _, report := range ensemble.EvaluateAllHoldout(trained, holdout.Instances) {
		logger.Info().
			Str("model", string(report.Kind)).
			Float64("classification_error", report.ClassificationError).
			Float64("precision", report.Precision).
			Float64("recall", report.Recall).
			Float64("accuracy", report.Accuracy).
			Msg("holdout evaluation")
	}

	scored, err := best.ToScored(trainingError)
	if err != nil {
		return err
	}
	if err := o.repo.Save(ctx, scored); err != nil {
		return fmt.Errorf("persist matching model: %w", err)
	}
	return nil
}

// loadPredictor assembles the text predictor from the in-memory model
// cache, falling back to the persisted artifacts after a restart.
func (o *Orchestrator) loadPredictor(ctx context.Context) (features.TextPredictor, error) {
	brand, err := o.textModel(ctx, models.ClassifierBrand)
	if err != nil {
		return nil, err
	}
	category, err := o.textModel(ctx, models.ClassifierCategory)
	if err != nil {
		return nil, err
	}
	return newTextPredictor(brand, category), nil
}

func (o *Orchestrator) textModel(ctx context.Context, t models.ClassifierType) (TextModel, error) {
	o.textMu.RLock()
	model, ok := o.textModels[t]
	o.textMu.RUnlock()
	if ok {
		return model, nil
	}

	stored, err := o.repo.Get(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("load %s model: %w", t, err)
	}
	if stored == nil {
		return nil, &PrerequisiteError{Missing: []models.ClassifierType{t}}
	}

	model, err = o.embeddings.Load(stored.Payload)
	if err != nil {
		return nil, fmt.Errorf("revive %s model: %w", t, err)
	}

	o.textMu.Lock()
	o.textModels[t] = model
	o.textMu.Unlock()
	return model, nil
}

//nolint:gocritic // logger passed by value is fine for zerolog
func (o *Orchestrator) newBuilder(predictor features.TextPredictor, logger zerolog.Logger) *features.Builder {
	return features.NewBuilder(
		o.offers,
		predictor,
		o.cfg.BrandLabelThreshold,
		o.cfg.CategoryLabelThreshold,
		o.cfg.Seed,
		logger,
	)
}

func (o *Orchestrator) documents(ctx context.Context, builder *features.Builder, t models.ClassifierType, records []models.MatchingRecord) []models.LabeledDocument {
	if t == models.ClassifierBrand {
		return builder.BrandDocuments(ctx, records)
	}
	return builder.CategoryDocuments(records)
}

func (o *Orchestrator) threshold(t models.ClassifierType) float64 {
	if t == models.ClassifierBrand {
		return o.cfg.BrandLabelThreshold
	}
	return o.cfg.CategoryLabelThreshold
}

func (o *Orchestrator) scoredText(t models.ClassifierType, model TextModel, result *evaluation.TextResult) (*models.ScoredModel, error) {
	payload, err := model.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize %s model: %w", t, err)
	}
	return &models.ScoredModel{
		Payload:   payload,
		ModelType: modelTypeEmbedding,
		Type:      t,
		Score:     result.WeightedAccuracy,
	}, nil
}
