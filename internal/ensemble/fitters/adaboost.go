// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package fitters

import (
	"context"
	"math"
	"sort"

	"github.com/goccy/go-json"

	"github.com/kevka/modelgen/internal/ensemble"
	"github.com/kevka/modelgen/internal/features"
)

type adaBoostFitter struct {
	rounds int
}

// Stump is one weak learner: a single threshold test on one feature.
// Polarity flips which side predicts a match.
type Stump struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Polarity  int     `json:"polarity"`
	Alpha     float64 `json:"alpha"`
}

func (s *Stump) predict(row []float64) float64 {
	if row[s.Feature] <= s.Threshold {
		return float64(-s.Polarity)
	}
	return float64(s.Polarity)
}

// Fit boosts decision stumps with the discrete AdaBoost weight update.
// Boosting stops early when a round's weighted error hits zero (the
// stump is already perfect) or 0.5 (no weak learner left).
func (f *adaBoostFitter) Fit(ctx context.Context, instances []features.Instance) (ensemble.Model, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	rows, classes := featureRows(instances)
	n := len(rows)

	targets := make([]float64, n)
	for i, match := range classes {
		if match {
			targets[i] = 1
		} else {
			targets[i] = -1
		}
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1 / float64(n)
	}

	model := &AdaBoostModel{}
	for round := 0; round < f.rounds; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stump, errRate := bestStump(rows, targets, weights)
		if errRate >= 0.5 {
			break
		}

		// Clamp so a perfect stump gets a large finite vote.
		bounded := math.Max(errRate, 1e-10)
		stump.Alpha = 0.5 * math.Log((1-bounded)/bounded)
		model.Stumps = append(model.Stumps, stump)

		var total float64
		for i, row := range rows {
			weights[i] *= math.Exp(-stump.Alpha * targets[i] * stump.predict(row))
			total += weights[i]
		}
		for i := range weights {
			weights[i] /= total
		}

		if errRate == 0 {
			break
		}
	}

	if len(model.Stumps) == 0 {
		// Every stump was at chance; fall back to the majority class.
		matches := 0
		for _, match := range classes {
			if match {
				matches++
			}
		}
		model.Fallback = matches*2 > n
		model.UseFallback = true
	}

	return model, nil
}

// bestStump scans every feature midpoint and polarity for the lowest
// weighted error.
func bestStump(rows [][]float64, targets, weights []float64) (*Stump, float64) {
	dims := len(rows[0])
	best := &Stump{Polarity: 1}
	bestErr := math.Inf(1)

	for f := 0; f < dims; f++ {
		values := make([]float64, 0, len(rows))
		for _, row := range rows {
			values = append(values, row[f])
		}
		sort.Float64s(values)

		thresholds := []float64{values[0] - 1}
		for i := 1; i < len(values); i++ {
			if values[i] != values[i-1] {
				thresholds = append(thresholds, (values[i]+values[i-1])/2)
			}
		}

		for _, t := range thresholds {
			for _, polarity := range []int{1, -1} {
				candidate := Stump{Feature: f, Threshold: t, Polarity: polarity}
				var errRate float64
				for i, row := range rows {
					if candidate.predict(row) != targets[i] {
						errRate += weights[i]
					}
				}
				if errRate < bestErr {
					bestErr = errRate
					best = &Stump{Feature: f, Threshold: t, Polarity: polarity}
				}
			}
		}
	}
	return best, bestErr
}

// AdaBoostModel is a boosted ensemble of decision stumps.
type AdaBoostModel struct {
	Stumps      []*Stump `json:"stumps"`
	Fallback    bool     `json:"fallback"`
	UseFallback bool     `json:"useFallback"`
}

// Predict sums the alpha-weighted stump votes; a non-positive sum is
// no-match.
func (m *AdaBoostModel) Predict(in features.Instance) (bool, error) {
	if m.UseFallback {
		return m.Fallback, nil
	}

	row := featureVector(in)
	var sum float64
	for _, stump := range m.Stumps {
		sum += stump.Alpha * stump.predict(row)
	}
	return sum > 0, nil
}

// MarshalBinary serializes the model for the persistence boundary.
func (m *AdaBoostModel) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}
