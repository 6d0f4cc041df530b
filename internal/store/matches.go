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
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/config"
	"github.com/kevka/modelgen/internal/logging"
	"github.com/kevka/modelgen/internal/metrics"
	"github.com/kevka/modelgen/internal/models"
)

// matchesRetryAttempts bounds transient-failure retries against the
// matches store. The store is an internal service, so failures are
// expected to clear quickly.
const (
	matchesRetryAttempts = 3
	matchesRetryDelay    = 2 * time.Second
)

// MatchesClient reads confirmed matching records from the matches
// store. It implements dataset.MatchesSource.
type MatchesClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewMatchesClient creates a matches-store client from configuration.
func NewMatchesClient(cfg config.MatchesConfig) *MatchesClient {
	return &MatchesClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logging.With().Str("component", "matches_client").Logger(),
	}
}

// ShopIDs returns the distinct shops that have confirmed matches.
func (c *MatchesClient) ShopIDs(ctx context.Context) ([]int64, error) {
	url := c.baseURL + "/shops"

	var ids []int64
	err := getWithRetry(ctx, c.client, url, &ids, matchesRetryAttempts, matchesRetryDelay, metrics.MatchesStoreRetries, c.logger)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch shop ids: %w", err)
	}
	return ids, nil
}

// Matches returns at most limit matching records for one shop.
func (c *MatchesClient) Matches(ctx context.Context, shopID int64, limit int) ([]models.MatchingRecord, error) {
	url := fmt.Sprintf("%s/matches/%d?limit=%d", c.baseURL, shopID, limit)

	var records []models.MatchingRecord
	err := getWithRetry(ctx, c.client, url, &records, matchesRetryAttempts, matchesRetryDelay, metrics.MatchesStoreRetries, c.logger)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch matches for shop %d: %w", shopID, err)
	}
	return records, nil
}
