// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package dataset

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/models"
)

// fakeSource serves a fixed number of records per shop and counts
// fetches.
type fakeSource struct {
	shops      []int64
	perShop    int
	shopCalls  int
	matchCalls int
}

func (f *fakeSource) ShopIDs(_ context.Context) ([]int64, error) {
	f.shopCalls++
	return f.shops, nil
}

func (f *fakeSource) Matches(_ context.Context, shopID int64, limit int) ([]models.MatchingRecord, error) {
	f.matchCalls++
	n := min(limit, f.perShop)
	records := make([]models.MatchingRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.MatchingRecord{
			ShopID:   shopID,
			OfferKey: fmt.Sprintf("offer-%d-%d", shopID, i),
		})
	}
	return records, nil
}

func TestPartitionPerShopBound(t *testing.T) {
	// Two shops and a total cap of 2: floor division allows one record
	// per shop even though the per-shop cap is higher.
	source := &fakeSource{shops: []int64{1, 2}, perShop: 10}
	p := NewPartitioner(source, 2, 2, 0.5, 1, zerolog.Nop())

	if err := p.Partition(context.Background()); err != nil {
		t.Fatal(err)
	}

	pool := len(p.Training()) + len(p.Testing())
	if pool != 2 {
		t.Errorf("pool size = %d, want 2", pool)
	}
}

func TestPartitionSplitSizes(t *testing.T) {
	source := &fakeSource{shops: []int64{1}, perShop: 10}
	p := NewPartitioner(source, 10, 100, 0.8, 1, zerolog.Nop())

	if err := p.Partition(context.Background()); err != nil {
		t.Fatal(err)
	}

	train, test := p.Training(), p.Testing()
	if len(train) != 8 {
		t.Errorf("training size = %d, want int(0.8*10) = 8", len(train))
	}
	if len(test) != 2 {
		t.Errorf("testing size = %d, want 2", len(test))
	}

	// Every pool record lands in exactly one side.
	seen := make(map[string]int)
	for _, r := range train {
		seen[r.OfferKey]++
	}
	for _, r := range test {
		seen[r.OfferKey]++
	}
	if len(seen) != 10 {
		t.Errorf("distinct records = %d, want 10", len(seen))
	}
	for key, count := range seen {
		if count != 1 {
			t.Errorf("record %s appears %d times", key, count)
		}
	}
}

func TestPartitionNoShops(t *testing.T) {
	source := &fakeSource{}
	p := NewPartitioner(source, 10, 100, 0.8, 1, zerolog.Nop())

	err := p.Partition(context.Background())
	if !errors.Is(err, ErrNoShops) {
		t.Errorf("Partition with no shops = %v, want ErrNoShops", err)
	}
	if p.Training() != nil || p.Testing() != nil {
		t.Error("failed partition left a cached split behind")
	}
}

func TestPartitionIdempotent(t *testing.T) {
	source := &fakeSource{shops: []int64{1}, perShop: 5}
	p := NewPartitioner(source, 5, 100, 0.8, 1, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := p.Partition(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if source.shopCalls != 1 {
		t.Errorf("source fetched %d times across repeated Partition calls, want 1", source.shopCalls)
	}
}

func TestFreeAndRefresh(t *testing.T) {
	source := &fakeSource{shops: []int64{1}, perShop: 5}
	p := NewPartitioner(source, 5, 100, 0.8, 1, zerolog.Nop())

	if err := p.Partition(context.Background()); err != nil {
		t.Fatal(err)
	}

	p.Free()
	if p.Training() != nil || p.Testing() != nil {
		t.Error("Free left a cached split behind")
	}

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if p.Training() == nil {
		t.Error("Refresh did not materialize a split")
	}
	if source.shopCalls != 2 {
		t.Errorf("source fetched %d times, want 2 (initial partition + refresh)", source.shopCalls)
	}
}

func TestPartitionDeterministic(t *testing.T) {
	build := func() ([]models.MatchingRecord, []models.MatchingRecord) {
		source := &fakeSource{shops: []int64{1, 2}, perShop: 10}
		p := NewPartitioner(source, 10, 100, 0.7, 7, zerolog.Nop())
		if err := p.Partition(context.Background()); err != nil {
			t.Fatal(err)
		}
		return p.Training(), p.Testing()
	}

	train1, test1 := build()
	train2, test2 := build()
	if !reflect.DeepEqual(train1, train2) || !reflect.DeepEqual(test1, test2) {
		t.Error("same seed produced different splits")
	}
}
