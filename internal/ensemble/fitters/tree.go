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

type treeFitter struct {
	maxDepth int
	minLeaf  int
}

// Fit grows a binary CART decision tree with gini impurity splits.
func (f *treeFitter) Fit(_ context.Context, instances []features.Instance) (ensemble.Model, error) {
	if len(instances) == 0 {
		return nil, ErrNoInstances
	}

	rows, classes := featureRows(instances)
	indices := make([]int, len(rows))
	for i := range indices {
		indices[i] = i
	}

	return &TreeModel{
		Root: growTree(rows, classes, indices, f.maxDepth, f.minLeaf),
	}, nil
}

// TreeNode is one node of a fitted decision tree. Leaves carry the
// class; internal nodes route on Feature <= Threshold.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Leaf      bool      `json:"leaf"`
	Match     bool      `json:"match"`
}

// TreeModel is a fitted decision tree.
type TreeModel struct {
	Root *TreeNode `json:"root"`
}

// Predict routes the instance to a leaf.
func (m *TreeModel) Predict(in features.Instance) (bool, error) {
	row := featureVector(in)
	node := m.Root
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Match, nil
}

// MarshalBinary serializes the model for the persistence boundary.
func (m *TreeModel) MarshalBinary() ([]byte, error) {
	return json.Marshal(m)
}

// growTree recursively builds a node over the given row indices.
func growTree(rows [][]float64, classes []bool, indices []int, depth, minLeaf int) *TreeNode {
	matches := 0
	for _, idx := range indices {
		if classes[idx] {
			matches++
		}
	}

	if depth <= 0 || len(indices) < 2*minLeaf || matches == 0 || matches == len(indices) {
		return &TreeNode{Leaf: true, Match: matches*2 > len(indices)}
	}

	feature, threshold, found := bestSplit(rows, classes, indices, minLeaf)
	if !found {
		return &TreeNode{Leaf: true, Match: matches*2 > len(indices)}
	}

	var left, right []int
	for _, idx := range indices {
		if rows[idx][feature] <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(rows, classes, left, depth-1, minLeaf),
		Right:     growTree(rows, classes, right, depth-1, minLeaf),
	}
}

// bestSplit scans every feature's midpoints for the lowest weighted
// gini impurity. Ties keep the first (lowest feature, lowest
// threshold) so growth is deterministic.
func bestSplit(rows [][]float64, classes []bool, indices []int, minLeaf int) (feature int, threshold float64, found bool) {
	bestGini := gini(classes, indices)
	dims := len(rows[indices[0]])

	for f := 0; f < dims; f++ {
		values := make([]float64, 0, len(indices))
		for _, idx := range indices {
			values = append(values, rows[idx][f])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			t := (values[i] + values[i-1]) / 2

			var left, right []int
			for _, idx := range indices {
				if rows[idx][f] <= t {
					left = append(left, idx)
				} else {
					right = append(right, idx)
				}
			}
			if len(left) < minLeaf || len(right) < minLeaf {
				continue
			}

			n := float64(len(indices))
			weighted := float64(len(left))/n*gini(classes, left) + float64(len(right))/n*gini(classes, right)
			if weighted < bestGini {
				bestGini = weighted
				feature = f
				threshold = t
				found = true
			}
		}
	}
	return feature, threshold, found
}

func gini(classes []bool, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	matches := 0
	for _, idx := range indices {
		if classes[idx] {
			matches++
		}
	}
	p := float64(matches) / float64(len(indices))
	return 2 * p * (1 - p)
}
