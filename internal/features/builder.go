// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package features

import (
	"context"
	"math/rand"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/metrics"
	"github.com/kevka/modelgen/internal/models"
)

// OfferGetter fetches a raw shop offer from the offer cache. A nil
// offer with a nil error means not found.
type OfferGetter interface {
	Offer(ctx context.Context, shopID int64, offerKey string) (*models.ShopOffer, error)
}

// TextPredictor exposes the already-trained brand and category text
// classifiers. The score lets the builder threshold weak predictions
// into "unknown".
type TextPredictor interface {
	PredictBrand(title string) (label string, score float64, ok bool)
	PredictCategory(title string) (label string, score float64, ok bool)
}

// FeatureSet is the matching classifier's training input: engineered
// instances with a fixed schema, positives first.
type FeatureSet struct {
	Instances []Instance
	Positives int
	Negatives int
}

// Builder constructs the task-specific feature representations.
// Instance construction is deterministic for a given seed and record
// list.
type Builder struct {
	offers    OfferGetter
	predictor TextPredictor

	brandThreshold    float64
	categoryThreshold float64

	rng    *rand.Rand
	rngMu  sync.Mutex
	logger zerolog.Logger
}

// NewBuilder creates a feature builder. The predictor may be nil for
// the text-classifier tasks; it is required before BuildInstances is
// called.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func NewBuilder(offers OfferGetter, predictor TextPredictor, brandThreshold, categoryThreshold float64, seed int64, logger zerolog.Logger) *Builder {
	if seed == 0 {
		seed = 42
	}
	return &Builder{
		offers:            offers,
		predictor:         predictor,
		brandThreshold:    brandThreshold,
		categoryThreshold: categoryThreshold,
		rng:               rand.New(rand.NewSource(seed)), //nolint:gosec // sampling, not crypto
		logger:            logger.With().Str("component", "features").Logger(),
	}
}

// BuildInstances turns matching records into the matching-model
// feature set. The shuffled record indices are split at the midpoint:
// the first half become positive instances (each record paired with
// its own cached offer), the second half feed two negative-mining
// passes, one keyed on brand and one on category, so each contributes
// up to two hard negatives.
func (b *Builder) BuildInstances(ctx context.Context, records []models.MatchingRecord) *FeatureSet {
	set := &FeatureSet{}
	if len(records) == 0 {
		return set
	}

	b.rngMu.Lock()
	perm := b.rng.Perm(len(records))
	b.rngMu.Unlock()

	half := len(perm) / 2

	for _, idx := range perm[:half] {
		record := &records[idx]
		offer := b.fetchOffer(ctx, record.ShopID, record.OfferKey)
		if offer == nil {
			continue
		}
		set.Instances = append(set.Instances, newInstance(offer, record, b.predict(record), true))
		set.Positives++
	}

	negatives := perm[half:]
	b.mineNegatives(ctx, records, negatives, set, sameBrand)
	b.mineNegatives(ctx, records, negatives, set, sameCategory)

	b.logger.Debug().
		Int("records", len(records)).
		Int("positives", set.Positives).
		Int("negatives", set.Negatives).
		Msg("built matching feature set")

	return set
}

// pairKey selects the attribute a negative-mining pass keys on.
type pairKey func(a, b *models.MatchingRecord) bool

func sameBrand(a, b *models.MatchingRecord) bool {
	return a.Brand != "" && a.Brand == b.Brand
}

func sameCategory(a, b *models.MatchingRecord) bool {
	return a.HigherLevelCategory != "" && a.HigherLevelCategory == b.HigherLevelCategory
}

// mineNegatives pairs each record in the pool slice with a deliberately
// non-matching partner: the first later pool entry sharing the keyed
// attribute (hard negative), or a uniformly random different record
// when no sharing partner exists (easy negative). The partner's offer
// is paired against the current record's parsed data.
func (b *Builder) mineNegatives(ctx context.Context, records []models.MatchingRecord, pool []int, set *FeatureSet, key pairKey) {
	for i, idx := range pool {
		record := &records[idx]

		partner := -1
		for _, candidate := range pool[i+1:] {
			if candidate != idx && key(record, &records[candidate]) {
				partner = candidate
				break
			}
		}
		if partner == -1 {
			partner = b.randomOther(idx, len(records))
		}
		if partner == -1 {
			continue
		}

		offer := b.fetchOffer(ctx, record.ShopID, records[partner].OfferKey)
		if offer == nil {
			continue
		}
		set.Instances = append(set.Instances, newInstance(offer, record, b.predict(record), false))
		set.Negatives++
	}
}

// randomOther draws a uniform index in [0, n) different from excluded;
// -1 when no such index exists.
func (b *Builder) randomOther(excluded, n int) int {
	if n < 2 {
		return -1
	}
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	for {
		if r := b.rng.Intn(n); r != excluded {
			return r
		}
	}
}

// predict runs the text classifiers over the record's title and
// thresholds the results; weak predictions come back empty (unknown).
func (b *Builder) predict(record *models.MatchingRecord) predictions {
	var preds predictions
	if b.predictor == nil {
		return preds
	}

	title := record.ParsedData.Title
	if label, score, ok := b.predictor.PredictBrand(title); ok && score >= b.brandThreshold {
		preds.brand = label
	}
	if label, score, ok := b.predictor.PredictCategory(title); ok && score >= b.categoryThreshold {
		preds.category = label
	}
	return preds
}

// fetchOffer wraps the cache lookup; failures and misses skip the
// record after the client's own bounded retries.
func (b *Builder) fetchOffer(ctx context.Context, shopID int64, offerKey string) *models.ShopOffer {
	offer, err := b.offers.Offer(ctx, shopID, offerKey)
	if err != nil {
		metrics.RecordsSkipped.WithLabelValues("offer_unavailable").Inc()
		b.logger.Warn().
			Int64("shop_id", shopID).
			Str("offer_key", offerKey).
			Err(err).
			Msg("offer lookup failed, skipping record")
		return nil
	}
	if offer == nil {
		metrics.RecordsSkipped.WithLabelValues("offer_unavailable").Inc()
		return nil
	}
	return offer
}
