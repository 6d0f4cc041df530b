// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package store implements the REST clients for the two read-only data
// collaborators: the matches store and the offer cache.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// ErrNotFound marks a 404 from a collaborator; callers translate it to
// a nil result rather than a failure.
var ErrNotFound = errors.New("store: not found")

// httpError carries a non-2xx response status for retry
// classification.
type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.status, e.body)
}

// transient reports whether an error is worth retrying: network
// failures, 5xx, and 429. Other client errors are permanent.
func transient(err error) bool {
	var he *httpError
	if errors.As(err, &he) {
		return he.status >= 500 || he.status == http.StatusTooManyRequests
	}
	// Anything that never produced a status line is a transport
	// failure.
	return !errors.Is(err, ErrNotFound)
}

// getJSON performs one GET and decodes the body into out.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &httpError{status: resp.StatusCode, body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// getWithRetry calls getJSON with a bounded number of fixed-delay
// retries on transient errors. The delay wait is context-cancellable.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func getWithRetry(ctx context.Context, client *http.Client, url string, out any, attempts int, delay time.Duration, retries prometheus.Counter, logger zerolog.Logger) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = getJSON(ctx, client, url, out)
		if err == nil || !transient(err) {
			return err
		}

		if attempt < attempts {
			retries.Inc()
			logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_attempts", attempts).
				Dur("delay", delay).
				Msg("transient request failure, retrying")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("max retry attempts reached: %w", err)
}
