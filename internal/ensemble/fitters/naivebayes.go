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

// varianceFloor keeps degenerate (constant) features from producing a
// zero variance and an infinite density.
const varianceFloor = 1e-9

type naiveBayesFitter struct{}

// Fit estimates a Gaussian naive Bayes model: per-class priors plus
// per-feature mean and variance.
func (f *naiveBayesFitter) Fit(_ context.Context, instances []features.Instance) (ensemble.Model, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	rows, classes := featureRows(instances)
	dims := len(rows[0])

	model := &NaiveBayesModel{
		Means:     [2][]float64{make([]float64, dims), make([]float64, dims)},
		Variances: [2][]float64{make([]float64, dims), make([]float64, dims)},
	}

	counts := [2]int{}
	for i, row := range rows {
		c := classOf(classes[i])
		counts[c]++
		for j, x := range row {
			model.Means[c][j] += x
		}
	}
	for c := range 2 {
		if counts[c] == 0 {
			continue
		}
		for j := range model.Means[c] {
			model.Means[c][j] /= float64(counts[c])
		}
	}
	for i, row := range rows {
		c := classOf(classes[i])
		for j, x := range row {
			d := x - model.Means[c][j]
			model.Variances[c][j] += d * d
		}
	}
	for c := range 2 {
		for j := range model.Variances[c] {
			if counts[c] > 0 {
				model.Variances[c][j] /= float64(counts[c])
			}
			model.Variances[c][j] = math.Max(model.Variances[c][j], varianceFloor)
		}
	}

	// Laplace-smoothed priors so a one-class training set still
	// produces finite log-odds.
	total := float64(len(rows) + 2)
	model.LogPriors = [2]float64{
		math.Log(float64(counts[0]+1) / total),
		math.Log(float64(counts[1]+1) / total),
	}

	return model, nil
}

// NaiveBayesModel is a fitted Gaussian naive Bayes classifier. Index 0
// holds the no-match class, index 1 the match class.
type NaiveBayesModel struct {
	LogPriors [2]float64    `json:"logPriors"`
	Means     [2][]float64  `json:"means"`
	Variances [2][]float64  `json:"variances"`
}

// Predict compares the class log-posteriors; ties favor no-match.
func (m *NaiveBayesModel) Predict(in features.Instance) (bool, error) {
	row := featureVector(in)

	scores := [2]float64{m.LogPriors[0], m.LogPriors[1]}
	for c := range 2 {
		for j, x := range row {
			variance := m.Variances[c][j]
			d := x - m.Means[c][j]
			scores[c] += -0.5*math.Log(2*math.Pi*variance) - d*d/(2*variance)
		}
	}
	return scores[1] > scores[0], nil
}

// MarshalBinary serializes the model for the persistence boundary.
func (m *NaiveBayesModel) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}

func classOf(match bool) int {
	if match {
		return 1
	}
	return 0
}
