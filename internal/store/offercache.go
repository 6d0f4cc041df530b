// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/kevka/modelgen/internal/config"
	"github.com/kevka/modelgen/internal/logging"
	"github.com/kevka/modelgen/internal/metrics"
	"github.com/kevka/modelgen/internal/models"
)

// OfferCacheClient reads raw shop offers from the offer cache. The
// cache sits in front of a slow upstream, so the client rate-limits
// itself and wraps every call in a circuit breaker. It implements
// features.OfferGetter.
type OfferCacheClient struct {
	baseURL    string
	offerRoute string
	client     *http.Client
	attempts   int
	delay      time.Duration
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*models.ShopOffer]
	logger     zerolog.Logger
}

// NewOfferCacheClient creates an offer-cache client from configuration.
func NewOfferCacheClient(cfg config.OfferCacheConfig) *OfferCacheClient {
	logger := logging.With().Str("component", "offer_cache_client").Logger()

	settings := gobreaker.Settings{
		Name:        "offer-cache",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &OfferCacheClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		offerRoute: cfg.OfferRoute,
		client:     &http.Client{Timeout: cfg.Timeout},
		attempts:   cfg.RetryAttempts,
		delay:      cfg.RetryDelay,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		breaker:    gobreaker.NewCircuitBreaker[*models.ShopOffer](settings),
		logger:     logger,
	}
}

// Offer fetches one offer by shop and offer key. A missing offer is
// not an error: the result is (nil, nil) so callers can skip the
// record.
func (c *OfferCacheClient) Offer(ctx context.Context, shopID int64, offerKey string) (*models.ShopOffer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s%d?offerKey=%s", c.baseURL, c.offerRoute, shopID, url.QueryEscape(offerKey))

	offer, err := c.breaker.Execute(func() (*models.ShopOffer, error) {
		var o models.ShopOffer
		err := getWithRetry(ctx, c.client, reqURL, &o, c.attempts, c.delay, metrics.OfferCacheRetries, c.logger)
		if errors.Is(err, ErrNotFound) {
			// A missing offer is a valid answer, not a failure the
			// breaker should count.
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &o, nil
	})
	if err != nil {
		metrics.OfferCacheRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch offer %s from shop %d: %w", offerKey, shopID, err)
	}
	if offer == nil {
		metrics.OfferCacheRequests.WithLabelValues("miss").Inc()
		return nil, nil
	}

	metrics.OfferCacheRequests.WithLabelValues("hit").Inc()
	return offer, nil
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
