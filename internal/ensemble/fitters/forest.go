// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package fitters

import (
	"context"
	"math/rand"

	"github.com/goccy/go-json"

	"github.com/kevka/modelgen/internal/ensemble"
	"github.com/kevka/modelgen/internal/features"
)

type forestFitter struct {
	trees    int
	maxDepth int
	seed     int64
}

// Fit grows a bagged forest: each tree trains on a seeded bootstrap
// sample of the instances.
func (f *forestFitter) Fit(ctx context.Context, instances []features.Instance) (ensemble.Model, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	rows, classes := featureRows(instances)
	rng := rand.New(rand.NewSource(f.seed)) //nolint:gosec // bootstrap sampling, not crypto

	model := &ForestModel{Trees: make([]*TreeNode, 0, f.trees)}
	for t := 0; t < f.trees; t++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sample := make([]int, len(rows))
		for i := range sample {
			sample[i] = rng.Intn(len(rows))
		}
		model.Trees = append(model.Trees, growTree(rows, classes, sample, f.maxDepth, 1))
	}

	return model, nil
}

// ForestModel is a bagged ensemble of decision trees deciding by
// majority vote.
type ForestModel struct {
	Trees []*TreeNode `json:"trees"`
}

// Predict takes the majority vote across trees; a tie favors no-match.
func (m *ForestModel) Predict(in features.Instance) (bool, error) {
	row := featureVector(in)

	votes := 0
	for _, root := range m.Trees {
		node := root
		for !node.Leaf {
			if row[node.Feature] <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		if node.Match {
			votes++
		}
	}
	return votes*2 > len(m.Trees), nil
}

// MarshalBinary serializes the model for the persistence boundary.
func (m *ForestModel) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}
