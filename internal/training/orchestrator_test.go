// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package training

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/config"
	"github.com/kevka/modelgen/internal/dataset"
	"github.com/kevka/modelgen/internal/embedding"
	"github.com/kevka/modelgen/internal/ensemble/fitters"
	"github.com/kevka/modelgen/internal/models"
	"github.com/kevka/modelgen/internal/persist"
)

type fakeSource struct {
	records []models.MatchingRecord
}

func (f *fakeSource) ShopIDs(context.Context) ([]int64, error) {
	return []int64{7}, nil
}

func (f *fakeSource) Matches(_ context.Context, _ int64, limit int) ([]models.MatchingRecord, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

type fakeOffers struct {
	offers map[string]*models.ShopOffer
}

func (f *fakeOffers) Offer(_ context.Context, shopID int64, offerKey string) (*models.ShopOffer, error) {
	return f.offers[fmt.Sprintf("%d/%s", shopID, offerKey)], nil
}

// gatedTrainer delays Fit until released so tests can observe the
// guard mid-run.
type gatedTrainer struct {
	inner   EmbeddingTrainer
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedTrainer() *gatedTrainer {
	return &gatedTrainer{
		inner:   embedding.NewTrainer(0, nil),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (g *gatedTrainer) Fit(ctx context.Context, docs []models.LabeledDocument) (TextModel, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.inner.Fit(ctx, docs)
}

func (g *gatedTrainer) Load(payload []byte) (TextModel, error) {
	return g.inner.Load(payload)
}

func fixtureRecords(n int) ([]models.MatchingRecord, *fakeOffers) {
	records := make([]models.MatchingRecord, 0, n)
	offers := &fakeOffers{offers: make(map[string]*models.ShopOffer)}
	brands := []string{"Apple", "Samsung"}
	categories := []string{"Phones", "Tablets"}

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("offer-%d", i)
		title := fmt.Sprintf("%s %s model %d", brands[i%2], categories[i%2], i)
		records = append(records, models.MatchingRecord{
			ShopID:              7,
			OfferKey:            key,
			Brand:               brands[i%2],
			HigherLevelCategory: categories[i%2],
			ParsedData: models.ParsedOffer{
				Title:     title,
				BrandName: brands[i%2],
				Price:     "19.99",
			},
		})
		offers.offers[fmt.Sprintf("7/%s", key)] = &models.ShopOffer{
			ShopID:    7,
			OfferKey:  key,
			BrandName: brands[i%2],
			Titles:    map[string]string{"de": title},
			Prices:    map[string]float64{"de": 19.99},
		}
	}
	return records, offers
}

func testConfig() config.TrainingConfig {
	return config.TrainingConfig{
		MatchesPerShop:        100,
		MaxMatchesForLearning: 100,
		TrainingSetFraction:   0.8,
		Seed:                  1,
		Workers:               2,
	}
}

func newTestOrchestrator(t *testing.T, trainer EmbeddingTrainer, repo persist.ModelRepository, n int) *Orchestrator {
	t.Helper()
	records, offers := fixtureRecords(n)
	cfg := testConfig()
	partitioner := dataset.NewPartitioner(&fakeSource{records: records}, cfg.MatchesPerShop, cfg.MaxMatchesForLearning, cfg.TrainingSetFraction, cfg.Seed, zerolog.Nop())

	o, err := NewOrchestrator(cfg, partitioner, offers, trainer, fitters.NewProvider(cfg.Seed), repo, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o
}

func awaitShutdown(t *testing.T, o *Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := o.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestRequestTrainingUnknownClassifier(t *testing.T) {
	o := newTestOrchestrator(t, embedding.NewTrainer(0, nil), persist.NewMemoryModelRepository(), 10)

	_, err := o.RequestTraining(context.Background(), models.ClassifierType("bogus"))
	if !errors.Is(err, ErrUnknownClassifier) {
		t.Fatalf("err = %v, want ErrUnknownClassifier", err)
	}
}

func TestRequestTrainingSingleFlight(t *testing.T) {
	repo := persist.NewMemoryModelRepository()
	gated := newGatedTrainer()
	o := newTestOrchestrator(t, gated, repo, 10)

	runID, err := o.RequestTraining(context.Background(), models.ClassifierBrand)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if runID == "" {
		t.Fatal("first request returned empty run ID")
	}

	<-gated.started

	if _, err := o.RequestTraining(context.Background(), models.ClassifierBrand); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("second request err = %v, want ErrTrainingInProgress", err)
	}
	if got := o.States()[models.ClassifierBrand]; got != StateTraining {
		t.Errorf("state mid-run = %s, want training", got)
	}
	if err := o.FreeDatasets(); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("FreeDatasets mid-run err = %v, want ErrTrainingInProgress", err)
	}
	if err := o.RefreshDatasets(context.Background()); !errors.Is(err, ErrTrainingInProgress) {
		t.Errorf("RefreshDatasets mid-run err = %v, want ErrTrainingInProgress", err)
	}

	close(gated.release)
	awaitShutdown(t, o)

	if got := o.States()[models.ClassifierBrand]; got != StateIdle {
		t.Errorf("state after run = %s, want idle", got)
	}
	exists, err := repo.Exists(context.Background(), models.ClassifierBrand)
	if err != nil || !exists {
		t.Errorf("brand model persisted = %v, err = %v, want true, nil", exists, err)
	}

	// The guard is free again: a new run is accepted and runs straight
	// through the already-open gate.
	if _, err := o.RequestTraining(context.Background(), models.ClassifierBrand); err != nil {
		t.Errorf("request after release: %v", err)
	}
	awaitShutdown(t, o)
}

func TestMatchingPrerequisitesLeaveGuardIdle(t *testing.T) {
	o := newTestOrchestrator(t, embedding.NewTrainer(0, nil), persist.NewMemoryModelRepository(), 10)

	_, err := o.RequestTraining(context.Background(), models.ClassifierMatching)
	var prereq *PrerequisiteError
	if !errors.As(err, &prereq) {
		t.Fatalf("err = %v, want PrerequisiteError", err)
	}
	if len(prereq.Missing) != 2 {
		t.Errorf("Missing = %v, want brand and category", prereq.Missing)
	}

	for classifier, state := range o.States() {
		if state != StateIdle {
			t.Errorf("%s = %s after rejected precondition, want idle", classifier, state)
		}
	}
}

func TestTrainTextThenMatching(t *testing.T) {
	repo := persist.NewMemoryModelRepository()
	o := newTestOrchestrator(t, embedding.NewTrainer(0, nil), repo, 12)
	ctx := context.Background()

	for _, classifier := range []models.ClassifierType{models.ClassifierBrand, models.ClassifierCategory} {
		if _, err := o.RequestTraining(ctx, classifier); err != nil {
			t.Fatalf("request %s: %v", classifier, err)
		}
		awaitShutdown(t, o)
		exists, err := repo.Exists(ctx, classifier)
		if err != nil || !exists {
			t.Fatalf("%s model persisted = %v, err = %v, want true, nil", classifier, exists, err)
		}
	}

	if _, err := o.RequestTraining(ctx, models.ClassifierMatching); err != nil {
		t.Fatalf("request matching: %v", err)
	}
	awaitShutdown(t, o)

	stored, err := repo.Get(ctx, models.ClassifierMatching)
	if err != nil {
		t.Fatalf("Get matching: %v", err)
	}
	if stored == nil {
		t.Fatal("matching model not persisted")
	}
	if len(stored.Payload) == 0 {
		t.Error("matching model payload is empty")
	}
	if stored.ModelType == "" {
		t.Error("matching model type tag is empty")
	}
}

// A fresh orchestrator has no in-memory text models, so matching
// training revives them from the repository.
func TestMatchingRevivesPersistedTextModels(t *testing.T) {
	repo := persist.NewMemoryModelRepository()
	ctx := context.Background()

	first := newTestOrchestrator(t, embedding.NewTrainer(0, nil), repo, 12)
	for _, classifier := range []models.ClassifierType{models.ClassifierBrand, models.ClassifierCategory} {
		if _, err := first.RequestTraining(ctx, classifier); err != nil {
			t.Fatalf("request %s: %v", classifier, err)
		}
	}
	awaitShutdown(t, first)

	second := newTestOrchestrator(t, embedding.NewTrainer(0, nil), repo, 12)
	if _, err := second.RequestTraining(ctx, models.ClassifierMatching); err != nil {
		t.Fatalf("request matching: %v", err)
	}
	awaitShutdown(t, second)

	exists, err := repo.Exists(ctx, models.ClassifierMatching)
	if err != nil || !exists {
		t.Errorf("matching model persisted = %v, err = %v, want true, nil", exists, err)
	}
}
