// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package textml

import "math"

// LabelScore pairs a label with its similarity to a document vector.
type LabelScore struct {
	Label string
	Score float64
}

// Score computes the cosine similarity between the document vector and
// every label centroid, in the model's label order. The result is
// unsorted; ties are broken by first-seen order downstream.
func Score(vector []float64, lookup EmbeddingLookup) []LabelScore {
	labels := lookup.Labels()
	scores := make([]LabelScore, 0, len(labels))
	for _, label := range labels {
		centroid, ok := lookup.LabelCentroid(label)
		if !ok {
			continue
		}
		scores = append(scores, LabelScore{Label: label, Score: cosineSimilarity(vector, centroid)})
	}
	return scores
}

// BestLabel scans for the strictly greatest score; ties keep the
// earliest entry. An empty score list returns ok=false with a score of
// -Inf; callers must treat that as "cannot decide", not as an error.
func BestLabel(scores []LabelScore) (label string, score float64, ok bool) {
	best := math.Inf(-1)
	for _, s := range scores {
		if s.Score > best {
			best = s.Score
			label = s.Label
			ok = true
		}
	}
	return label, best, ok
}

// cosineSimilarity returns the inner product over norms of two
// vectors, 0 when either norm is zero or lengths differ.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
