// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package features

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/models"
)

// fakeOffers serves offers from a map keyed by "shopID/offerKey".
type fakeOffers struct {
	offers map[string]*models.ShopOffer
	calls  int
}

func (f *fakeOffers) Offer(_ context.Context, shopID int64, offerKey string) (*models.ShopOffer, error) {
	f.calls++
	return f.offers[fmt.Sprintf("%d/%s", shopID, offerKey)], nil
}

func testRecords(n int) ([]models.MatchingRecord, *fakeOffers) {
	records := make([]models.MatchingRecord, 0, n)
	offers := &fakeOffers{offers: make(map[string]*models.ShopOffer)}
	brands := []string{"Apple", "Samsung"}
	categories := []string{"Phones", "Tablets"}

	for i := 0; i < n; i++ {
		key := fmt.Sprintf("offer-%d", i)
		records = append(records, models.MatchingRecord{
			ShopID:              7,
			OfferKey:            key,
			Brand:               brands[i%len(brands)],
			HigherLevelCategory: categories[i%len(categories)],
			ParsedData: models.ParsedOffer{
				Title:     fmt.Sprintf("product %d", i),
				BrandName: brands[i%len(brands)],
			},
		})
		offers.offers[fmt.Sprintf("7/%s", key)] = &models.ShopOffer{
			ShopID:    7,
			OfferKey:  key,
			BrandName: brands[i%len(brands)],
			Titles:    map[string]string{"de": fmt.Sprintf("product %d", i)},
		}
	}
	return records, offers
}

func TestBuildInstances(t *testing.T) {
	records, offers := testRecords(10)
	builder := NewBuilder(offers, nil, 0.5, 0.5, 1, zerolog.Nop())

	set := builder.BuildInstances(context.Background(), records)

	if set.Positives != 5 {
		t.Errorf("Positives = %d, want 5 (half the shuffled pool)", set.Positives)
	}
	// Two mining passes over the second half: up to 2 negatives each.
	if set.Negatives == 0 || set.Negatives > 10 {
		t.Errorf("Negatives = %d, want in (0, 10]", set.Negatives)
	}
	if len(set.Instances) != set.Positives+set.Negatives {
		t.Errorf("len(Instances) = %d, want Positives+Negatives = %d",
			len(set.Instances), set.Positives+set.Negatives)
	}

	// Positives come first.
	for i := 0; i < set.Positives; i++ {
		if !set.Instances[i].Match {
			t.Fatalf("instance %d in positive block is not a match", i)
		}
	}
	for i := set.Positives; i < len(set.Instances); i++ {
		if set.Instances[i].Match {
			t.Fatalf("instance %d in negative block is a match", i)
		}
	}
}

func TestBuildInstancesDeterministic(t *testing.T) {
	records, offers := testRecords(12)

	build := func() *FeatureSet {
		builder := NewBuilder(offers, nil, 0.5, 0.5, 99, zerolog.Nop())
		return builder.BuildInstances(context.Background(), records)
	}

	first := build()
	second := build()
	if !reflect.DeepEqual(first.Instances, second.Instances) {
		t.Error("same seed produced different instance sets")
	}
}

func TestBuildInstancesSkipsUnavailableOffers(t *testing.T) {
	records, offers := testRecords(6)
	// Drop every cached offer: nothing can be built.
	offers.offers = map[string]*models.ShopOffer{}

	builder := NewBuilder(offers, nil, 0.5, 0.5, 1, zerolog.Nop())
	set := builder.BuildInstances(context.Background(), records)

	if len(set.Instances) != 0 {
		t.Errorf("built %d instances with no offers available, want 0", len(set.Instances))
	}
}

func TestBuildInstancesEmptyPool(t *testing.T) {
	builder := NewBuilder(&fakeOffers{}, nil, 0.5, 0.5, 1, zerolog.Nop())
	set := builder.BuildInstances(context.Background(), nil)

	if len(set.Instances) != 0 || set.Positives != 0 || set.Negatives != 0 {
		t.Errorf("empty pool produced %+v", set)
	}
}

func TestRandomOther(t *testing.T) {
	builder := NewBuilder(&fakeOffers{}, nil, 0.5, 0.5, 1, zerolog.Nop())

	if got := builder.randomOther(0, 1); got != -1 {
		t.Errorf("randomOther with n=1 = %d, want -1", got)
	}
	for i := 0; i < 20; i++ {
		if got := builder.randomOther(3, 10); got == 3 || got < 0 || got >= 10 {
			t.Fatalf("randomOther returned %d, want in [0,10) excluding 3", got)
		}
	}
}
