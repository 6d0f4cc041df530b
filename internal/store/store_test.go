// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kevka/modelgen/internal/config"
)

func newMatchesClient(url string) *MatchesClient {
	return NewMatchesClient(config.MatchesConfig{URL: url, Timeout: 5 * time.Second})
}

func newOfferCacheClient(url string) *OfferCacheClient {
	return NewOfferCacheClient(config.OfferCacheConfig{
		URL:           url,
		OfferRoute:    "/offers/",
		Timeout:       5 * time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
		RatePerSecond: 1000,
		RateBurst:     100,
	})
}

func TestMatchesClientShopIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shops" {
			t.Errorf("path = %q, want /shops", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[3, 7, 11]`))
	}))
	defer srv.Close()

	ids, err := newMatchesClient(srv.URL).ShopIDs(context.Background())
	if err != nil {
		t.Fatalf("ShopIDs: %v", err)
	}
	want := []int64{3, 7, 11}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestMatchesClientMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/matches/7" {
			t.Errorf("path = %q, want /matches/7", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "50" {
			t.Errorf("limit = %q, want 50", r.URL.Query().Get("limit"))
		}
		_, _ = w.Write([]byte(`[
			{"shopId": 7, "offerKey": "a-1", "matchingReason": "identifier", "idealoBrand": "Apple",
			 "parsedData": {"title": "iPhone 15"}},
			{"shopId": 7, "offerKey": "a-2", "matchingReason": "fuzzy"}
		]`))
	}))
	defer srv.Close()

	records, err := newMatchesClient(srv.URL).Matches(context.Background(), 7, 50)
	if err != nil {
		t.Fatalf("Matches: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	first := records[0]
	if first.OfferKey != "a-1" || first.Brand != "Apple" || first.ParsedData.Title != "iPhone 15" {
		t.Errorf("first record = %+v", first)
	}
}

func TestMatchesClientNotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newMatchesClient(srv.URL)

	records, err := client.Matches(context.Background(), 1, 10)
	if err != nil {
		t.Errorf("Matches on 404: err = %v, want nil", err)
	}
	if records != nil {
		t.Errorf("Matches on 404: records = %v, want nil", records)
	}

	ids, err := client.ShopIDs(context.Background())
	if err != nil || ids != nil {
		t.Errorf("ShopIDs on 404 = %v, %v, want nil, nil", ids, err)
	}
}

func TestMatchesClientDecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	if _, err := newMatchesClient(srv.URL).Matches(context.Background(), 1, 10); err == nil {
		t.Error("expected decode error")
	}
}

func TestOfferCacheClientHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/offers/7" {
			t.Errorf("path = %q, want /offers/7", r.URL.Path)
		}
		if r.URL.Query().Get("offerKey") != "key with space" {
			t.Errorf("offerKey = %q, want escaped key round-tripped", r.URL.Query().Get("offerKey"))
		}
		_, _ = w.Write([]byte(`{"shopId": 7, "offerKey": "key with space", "brandName": "Apple",
			"titles": {"de": "iPhone 15"}}`))
	}))
	defer srv.Close()

	offer, err := newOfferCacheClient(srv.URL).Offer(context.Background(), 7, "key with space")
	if err != nil {
		t.Fatalf("Offer: %v", err)
	}
	if offer == nil {
		t.Fatal("offer is nil")
	}
	if offer.BrandName != "Apple" || offer.Titles["de"] != "iPhone 15" {
		t.Errorf("offer = %+v", offer)
	}
}

func TestOfferCacheClientMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	offer, err := newOfferCacheClient(srv.URL).Offer(context.Background(), 7, "missing")
	if err != nil {
		t.Errorf("Offer on 404: err = %v, want nil", err)
	}
	if offer != nil {
		t.Errorf("Offer on 404: offer = %+v, want nil", offer)
	}
}

// Misses must not count as breaker failures: a long run of 404s keeps
// the breaker closed and the client serving.
func TestOfferCacheClientMissesDoNotTripBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newOfferCacheClient(srv.URL)
	for i := 0; i < 10; i++ {
		if _, err := client.Offer(context.Background(), 7, "missing"); err != nil {
			t.Fatalf("Offer %d: %v", i, err)
		}
	}
}

func TestOfferCacheClientBreakerOpensOnFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := newOfferCacheClient(srv.URL)
	for i := 0; i < 5; i++ {
		if _, err := client.Offer(context.Background(), 7, "broken"); err == nil {
			t.Fatalf("Offer %d: expected error", i)
		}
	}

	seen := calls.Load()
	if _, err := client.Offer(context.Background(), 7, "broken"); err == nil {
		t.Fatal("expected open-breaker error")
	}
	if calls.Load() != seen {
		t.Error("open breaker still reached the server")
	}
}
