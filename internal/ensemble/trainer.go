// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package ensemble

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/features"
)

// FitError reports one candidate's training failure.
type FitError struct {
	Kind ModelKind
	Err  error
}

func (e *FitError) Error() string {
	return fmt.Sprintf("fit %s: %v", e.Kind, e.Err)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// Trainer fits the whole candidate roster against one feature set.
type Trainer struct {
	roster []Candidate
	logger zerolog.Logger
}

// NewTrainer creates a trainer over the given roster.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func NewTrainer(roster []Candidate, logger zerolog.Logger) *Trainer {
	return &Trainer{
		roster: roster,
		logger: logger.With().Str("component", "ensemble").Logger(),
	}
}

// TrainAll fits every candidate against the training instances. A
// failing candidate is logged and collected; the remaining candidates
// still train. The run only fails upstream when no candidate survives.
func (t *Trainer) TrainAll(ctx context.Context, instances []features.Instance) ([]LabeledModel, []error) {
	trained := make([]LabeledModel, 0, len(t.roster))
	var failures []error

	for _, candidate := range t.roster {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			return trained, failures
		}

		model, err := candidate.fitter.Fit(ctx, instances)
		if err != nil {
			t.logger.Error().
				Str("model", string(candidate.Kind)).
				Err(err).
				Msg("candidate training failed")
			failures = append(failures, &FitError{Kind: candidate.Kind, Err: err})
			continue
		}

		t.logger.Debug().
			Str("model", string(candidate.Kind)).
			Msg("candidate training complete")
		trained = append(trained, LabeledModel{Kind: candidate.Kind, Model: model})
	}

	return trained, failures
}
