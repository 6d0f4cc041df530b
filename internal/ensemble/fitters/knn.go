// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package fitters

import (
	"context"
	"sort"

	"github.com/goccy/go-json"

	"github.com/kevka/modelgen/internal/ensemble"
	"github.com/kevka/modelgen/internal/features"
)

type knnFitter struct {
	k int
}

// Fit stores the training data; k is clamped to the instance count.
func (f *knnFitter) Fit(_ context.Context, instances []features.Instance) (ensemble.Model, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	rows, classes := featureRows(instances)
	k := min(f.k, len(rows))

	return &KNNModel{K: k, Rows: rows, Classes: classes}, nil
}

// KNNModel is a k-nearest-neighbors classifier over the stored
// training instances.
type KNNModel struct {
	K       int         `json:"k"`
	Rows    [][]float64 `json:"rows"`
	Classes []bool      `json:"classes"`
}

// Predict takes the majority vote of the k nearest training rows by
// squared Euclidean distance. A tied vote falls to the single nearest
// neighbor.
func (m *KNNModel) Predict(in features.Instance) (bool, error) {
	row := featureVector(in)

	type neighbor struct {
		distance float64
		index    int
	}
	neighbors := make([]neighbor, len(m.Rows))
	for i, r := range m.Rows {
		neighbors[i] = neighbor{distance: squaredDistance(row, r), index: i}
	}
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].distance != neighbors[b].distance {
			return neighbors[a].distance < neighbors[b].distance
		}
		return neighbors[a].index < neighbors[b].index
	})

	votes := 0
	for _, nb := range neighbors[:m.K] {
		if m.Classes[nb.index] {
			votes++
		}
	}
	if votes*2 == m.K {
		return m.Classes[neighbors[0].index], nil
	}
	return votes*2 > m.K, nil
}

// MarshalBinary serializes the model for the persistence boundary.
func (m *KNNModel) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
