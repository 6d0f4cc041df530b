// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package dataset materializes the bounded, shuffled train/test split
// of matching records that all three classifier trainings share.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/metrics"
	"github.com/kevka/modelgen/internal/models"
)

// ErrNoShops reports an empty shop set: the per-shop cap division is
// undefined and the run cannot proceed. This is a configuration error,
// never swallowed.
var ErrNoShops = errors.New("dataset: matches store returned no shops")

// MatchesSource is the read-only matches-store collaborator.
type MatchesSource interface {
	// ShopIDs returns the distinct shops with confirmed matches.
	ShopIDs(ctx context.Context) ([]int64, error)

	// Matches returns at most limit matching records for a shop; no
	// ordering is guaranteed.
	Matches(ctx context.Context, shopID int64, limit int) ([]models.MatchingRecord, error)
}

// split is the immutable result of one partition pass. It is published
// atomically: readers see the full train+test pair or nothing.
type split struct {
	train []models.MatchingRecord
	test  []models.MatchingRecord
}

// Partitioner samples, shuffles, and splits the labeled record pool.
// Once materialized, the split is cached for the orchestrator's
// lifetime so category, brand, and matching-model training reuse one
// dataset; Free or Refresh invalidate it explicitly.
type Partitioner struct {
	source MatchesSource

	perShopCap    int
	totalCap      int
	trainFraction float64
	seed          int64

	mu      sync.Mutex
	current *split

	logger zerolog.Logger
}

// NewPartitioner creates a partitioner. Seed 0 selects the default
// seed; any fixed seed makes sampling reproducible.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func NewPartitioner(source MatchesSource, perShopCap, totalCap int, trainFraction float64, seed int64, logger zerolog.Logger) *Partitioner {
	if seed == 0 {
		seed = 42
	}
	return &Partitioner{
		source:        source,
		perShopCap:    perShopCap,
		totalCap:      totalCap,
		trainFraction: trainFraction,
		seed:          seed,
		logger:        logger.With().Str("component", "dataset").Logger(),
	}
}

// Partition materializes the train/test split if absent. Subsequent
// calls are no-ops until Free or Refresh.
func (p *Partitioner) Partition(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current != nil {
		return nil
	}

	s, err := p.materialize(ctx)
	if err != nil {
		return err
	}
	p.current = s
	return nil
}

// Training returns the cached training subset, or nil when no split is
// materialized.
func (p *Partitioner) Training() []models.MatchingRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	return p.current.train
}

// Testing returns the cached held-out subset, or nil when no split is
// materialized.
func (p *Partitioner) Testing() []models.MatchingRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	return p.current.test
}

// Free drops the cached split. Racing Free against an in-flight
// training run is undefined behavior; callers sequence it.
func (p *Partitioner) Free() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	p.logger.Debug().Msg("dataset cache cleared")
}

// Refresh drops the cached split and materializes a fresh one.
func (p *Partitioner) Refresh(ctx context.Context) error {
	p.Free()
	return p.Partition(ctx)
}

// materialize fetches, samples, shuffles, and splits the record pool.
// Must be called with mu held.
func (p *Partitioner) materialize(ctx context.Context) (*split, error) {
	shopIDs, err := p.source.ShopIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("get shop ids: %w", err)
	}
	if len(shopIDs) == 0 {
		return nil, ErrNoShops
	}

	// Floor division intentionally under-samples when shops outnumber
	// the cap-to-shop ratio.
	perShop := min(p.perShopCap, p.totalCap/len(shopIDs))

	pool := make([]models.MatchingRecord, 0, perShop*len(shopIDs))
	for _, shopID := range shopIDs {
		matches, err := p.source.Matches(ctx, shopID, perShop)
		if err != nil {
			return nil, fmt.Errorf("get matches for shop %d: %w", shopID, err)
		}
		pool = append(pool, matches...)
	}

	rng := rand.New(rand.NewSource(p.seed)) //nolint:gosec // shuffling, not crypto
	perm := rng.Perm(len(pool))

	trainSize := int(p.trainFraction * float64(len(pool)))
	train := make([]models.MatchingRecord, 0, trainSize)
	test := make([]models.MatchingRecord, 0, len(pool)-trainSize)
	for i, idx := range perm {
		if i < trainSize {
			train = append(train, pool[idx])
		} else {
			test = append(test, pool[idx])
		}
	}

	metrics.DatasetPoolSize.Set(float64(len(pool)))
	p.logger.Info().
		Int("shops", len(shopIDs)).
		Int("per_shop", perShop).
		Int("pool", len(pool)).
		Int("train", len(train)).
		Int("test", len(test)).
		Msg("materialized train/test split")

	return &split{train: train, test: test}, nil
}
