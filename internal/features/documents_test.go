// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package features

import (
	"context"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/models"
)

func TestBrandDocuments(t *testing.T) {
	offers := &fakeOffers{offers: map[string]*models.ShopOffer{
		"7/cached": {BrandName: "CacheBrand"},
	}}
	builder := NewBuilder(offers, nil, 0.5, 0.5, 1, zerolog.Nop())

	records := []models.MatchingRecord{
		{ParsedData: models.ParsedOffer{Title: "Has Brand"}, Brand: "Apple"},
		// Brand resolved from the offer cache.
		{ShopID: 7, OfferKey: "cached", ParsedData: models.ParsedOffer{Title: "From Cache"}},
		// No brand anywhere: skipped.
		{ShopID: 7, OfferKey: "missing", ParsedData: models.ParsedOffer{Title: "No Brand"}},
		// No title: skipped.
		{Brand: "Apple"},
	}

	docs := builder.BrandDocuments(context.Background(), records)

	want := []models.LabeledDocument{
		{Content: "has brand", Label: "Apple"},
		{Content: "from cache", Label: "CacheBrand"},
	}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("BrandDocuments = %v, want %v", docs, want)
	}
}

func TestCategoryDocuments(t *testing.T) {
	builder := NewBuilder(&fakeOffers{}, nil, 0.5, 0.5, 1, zerolog.Nop())

	records := []models.MatchingRecord{
		{ParsedData: models.ParsedOffer{Title: "Phone X"}, HigherLevelCategory: "Phones"},
		// No category: skipped, no offer-cache fallback.
		{ParsedData: models.ParsedOffer{Title: "Mystery"}},
		// No title: skipped.
		{HigherLevelCategory: "Phones"},
	}

	docs := builder.CategoryDocuments(records)

	want := []models.LabeledDocument{
		{Content: "phone x", Label: "Phones"},
	}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("CategoryDocuments = %v, want %v", docs, want)
	}
}
