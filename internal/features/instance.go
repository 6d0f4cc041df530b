// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package features

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/kevka/modelgen/internal/models"
)

// AttributeNames declares the instance schema in column order. The
// class attribute is always the last column; its index is fixed before
// any instance is constructed.
var AttributeNames = []string{
	"title_similarity",
	"brand_match",
	"category_match",
	"price_ratio",
	"predicted_brand_match",
	"predicted_category_match",
	"exact_identifier",
	"is_match",
}

// ClassIndex is the column of the boolean is-match class attribute.
var ClassIndex = len(AttributeNames) - 1

// Agreement encodes whether a thresholded classifier prediction agrees
// with an offer attribute. Below-threshold predictions are unknown, not
// a guessed label, mirroring the information available at inference
// time.
const (
	AgreementNo      = 0.0
	AgreementUnknown = 0.5
	AgreementYes     = 1.0
)

// Instance is one fixed-schema training example for the matching
// classifier: engineered comparisons between a cached shop offer and a
// parsed catalog offer, plus the thresholded text-classifier
// predictions, with a boolean is-match class.
type Instance struct {
	TitleSimilarity        float64
	BrandMatch             float64
	CategoryMatch          float64
	PriceRatio             float64
	PredictedBrandMatch    float64
	PredictedCategoryMatch float64
	ExactIdentifier        float64
	Match                  bool
}

// Values returns the instance as one row in schema order, class column
// included (1 for a match).
func (in Instance) Values() []float64 {
	class := 0.0
	if in.Match {
		class = 1.0
	}
	return []float64{
		in.TitleSimilarity,
		in.BrandMatch,
		in.CategoryMatch,
		in.PriceRatio,
		in.PredictedBrandMatch,
		in.PredictedCategoryMatch,
		in.ExactIdentifier,
		class,
	}
}

// newInstance engineers the attribute vector comparing the cached shop
// offer against the record's parsed catalog data.
func newInstance(offer *models.ShopOffer, record *models.MatchingRecord, preds predictions, match bool) Instance {
	parsed := record.ParsedData

	in := Instance{
		TitleSimilarity:        titleSimilarity(offer.FirstTitle(), parsed.Title),
		BrandMatch:             boolFeature(equalNonEmptyFold(offer.BrandName, parsed.BrandName)),
		CategoryMatch:          boolFeature(equalNonEmptyFold(offer.MappedCatalogCategory, parsed.Category)),
		PriceRatio:             priceRatio(offer, parsed.Price),
		PredictedBrandMatch:    agreement(preds.brand, offer.BrandName),
		PredictedCategoryMatch: agreement(preds.category, offer.MappedCatalogCategory),
		Match:                  match,
	}
	if record.MatchingReason == models.MatchReasonExactIdentifier {
		in.ExactIdentifier = 1
	}
	return in
}

// predictions carries the thresholded text-classifier outputs for one
// record; empty strings mean below-threshold ("unknown").
type predictions struct {
	brand    string
	category string
}

// titleSimilarity is 1 - normalized levenshtein distance over the
// lower-cased titles; 0 when either title is missing.
func titleSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	longest := max(len([]rune(a)), len([]rune(b)))
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// priceRatio is min/max of the two prices, in [0,1]; 0 when either
// side is missing or unparsable.
func priceRatio(offer *models.ShopOffer, parsedPrice string) float64 {
	offerPrice, ok := offer.FirstPrice()
	if !ok || offerPrice <= 0 {
		return 0
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(parsedPrice), 64)
	if err != nil || price <= 0 {
		return 0
	}
	if price > offerPrice {
		return offerPrice / price
	}
	return price / offerPrice
}

// agreement compares a thresholded prediction against an offer
// attribute; an empty prediction encodes unknown.
func agreement(predicted, actual string) float64 {
	if predicted == "" || actual == "" {
		return AgreementUnknown
	}
	if strings.EqualFold(predicted, actual) {
		return AgreementYes
	}
	return AgreementNo
}

func equalNonEmptyFold(a, b string) bool {
	return a != "" && b != "" && strings.EqualFold(a, b)
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
