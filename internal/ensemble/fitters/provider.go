// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package fitters provides the built-in implementations of the
// candidate matching algorithms. Each fitter trains on the engineered
// instance schema and yields a self-serializing model; all training is
// deterministic for a fixed seed.
package fitters

import (
	"errors"
	"fmt"

	"github.com/kevka/modelgen/internal/ensemble"
	"github.com/kevka/modelgen/internal/features"
)

// ErrNoInstances reports a fit over an empty instance set.
var ErrNoInstances = errors.New("fitters: no instances to fit")

// Provider supplies the built-in fitter for every roster kind. It
// implements ensemble.FitterProvider.
type Provider struct {
	seed int64
}

// NewProvider creates a provider. Seed 0 selects the default seed.
func NewProvider(seed int64) *Provider {
	if seed == 0 {
		seed = 42
	}
	return &Provider{seed: seed}
}

// Fitter returns the built-in fitter for a roster kind.
func (p *Provider) Fitter(kind ensemble.ModelKind) (ensemble.Fitter, error) {
	switch kind {
	case ensemble.NaiveBayes:
		return &naiveBayesFitter{}, nil
	case ensemble.Logistic:
		return &logisticFitter{epochs: 200, learningRate: 0.1}, nil
	case ensemble.RandomForest:
		return &forestFitter{trees: 25, maxDepth: 8, seed: p.seed}, nil
	case ensemble.KNN:
		return &knnFitter{k: 5}, nil
	case ensemble.J48:
		return &treeFitter{maxDepth: 10, minLeaf: 2}, nil
	case ensemble.AdaBoost:
		return &adaBoostFitter{rounds: 50}, nil
	}
	return nil, fmt.Errorf("fitters: unknown model kind %q", kind)
}

// featureRows projects instances onto feature vectors (class column
// excluded) and class booleans.
func featureRows(instances []features.Instance) (rows [][]float64, classes []bool) {
	rows = make([][]float64, len(instances))
	classes = make([]bool, len(instances))
	for i, in := range instances {
		rows[i] = in.Values()[:features.ClassIndex]
		classes[i] = in.Match
	}
	return rows, classes
}

func featureVector(in features.Instance) []float64 {
	return in.Values()[:features.ClassIndex]
}
