// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package features

import (
	"context"
	"strings"

	"github.com/kevka/modelgen/internal/metrics"
	"github.com/kevka/modelgen/internal/models"
)

// BrandDocuments projects matching records onto (title, brand) labeled
// documents. A record without a resolved brand falls back to the brand
// stored on the cached shop offer; records still lacking a title or
// brand are skipped silently. Titles are lower-cased so downstream
// tokenization is case-insensitive.
func (b *Builder) BrandDocuments(ctx context.Context, records []models.MatchingRecord) []models.LabeledDocument {
	docs := make([]models.LabeledDocument, 0, len(records))
	for i := range records {
		record := &records[i]

		title := record.ParsedData.Title
		if title == "" {
			metrics.RecordsSkipped.WithLabelValues("missing_title").Inc()
			continue
		}

		brand := record.Brand
		if brand == "" {
			brand = b.brandFromCache(ctx, record)
		}
		if brand == "" {
			metrics.RecordsSkipped.WithLabelValues("missing_label").Inc()
			continue
		}

		docs = append(docs, models.LabeledDocument{
			Content: strings.ToLower(title),
			Label:   brand,
		})
	}
	return docs
}

// CategoryDocuments projects matching records onto (title,
// higher-level category) labeled documents. There is no offer-cache
// fallback for categories.
func (b *Builder) CategoryDocuments(records []models.MatchingRecord) []models.LabeledDocument {
	docs := make([]models.LabeledDocument, 0, len(records))
	for i := range records {
		record := &records[i]

		title := record.ParsedData.Title
		if title == "" {
			metrics.RecordsSkipped.WithLabelValues("missing_title").Inc()
			continue
		}
		if record.HigherLevelCategory == "" {
			metrics.RecordsSkipped.WithLabelValues("missing_label").Inc()
			continue
		}

		docs = append(docs, models.LabeledDocument{
			Content: strings.ToLower(title),
			Label:   record.HigherLevelCategory,
		})
	}
	return docs
}

// brandFromCache looks the record's offer up in the offer cache and
// returns its brand, or "" when the offer is unavailable.
func (b *Builder) brandFromCache(ctx context.Context, record *models.MatchingRecord) string {
	offer, err := b.offers.Offer(ctx, record.ShopID, record.OfferKey)
	if err != nil || offer == nil {
		b.logger.Debug().
			Int64("shop_id", record.ShopID).
			Str("offer_key", record.OfferKey).
			Err(err).
			Msg("brand fallback lookup failed")
		return ""
	}
	return offer.BrandName
}
