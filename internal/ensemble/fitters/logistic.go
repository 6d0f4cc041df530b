// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package fitters

import (
	"context"
	"math"

	"github.com/goccy/go-json"

	"github.com/kevka/modelgen/internal/ensemble"
	"github.com/kevka/modelgen/internal/features"
)

type logisticFitter struct {
	epochs       int
	learningRate float64
}

// Fit trains a logistic regression with full-batch gradient descent.
// The instance order does not affect the result, so training is
// deterministic without a seed.
func (f *logisticFitter) Fit(ctx context.Context, instances []features.Instance) (ensemble.Model, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	rows, classes := featureRows(instances)
	dims := len(rows[0])

	model := &LogisticModel{Weights: make([]float64, dims)}
	n := float64(len(rows))

	for epoch := 0; epoch < f.epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gradW := make([]float64, dims)
		gradB := 0.0
		for i, row := range rows {
			p := sigmoid(model.Bias + dot(model.Weights, row))
			y := 0.0
			if classes[i] {
				y = 1.0
			}
			diff := p - y
			for j, x := range row {
				gradW[j] += diff * x
			}
			gradB += diff
		}

		for j := range model.Weights {
			model.Weights[j] -= f.learningRate * gradW[j] / n
		}
		model.Bias -= f.learningRate * gradB / n
	}

	return model, nil
}

// LogisticModel is a fitted logistic regression.
type LogisticModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Predict thresholds the match probability at 0.5.
func (m *LogisticModel) Predict(in features.Instance) (bool, error) {
	return sigmoid(m.Bias+dot(m.Weights, featureVector(in))) > 0.5, nil
}

// MarshalBinary serializes the model for the persistence boundary.
func (m *LogisticModel) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
