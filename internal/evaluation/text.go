// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package evaluation

import (
	"github.com/rs/zerolog"

	"github.com/kevka/modelgen/internal/models"
	"github.com/kevka/modelgen/internal/textml"
)

// TextResult holds the outcome of evaluating a text classifier against
// a held-out document set.
type TextResult struct {
	Matrix       *ConfusionMatrix
	RightMatches int
	WrongMatches int
	NotLabeled   int
	UsedLabels   []string

	// WeightedPrecision, WeightedRecall, and WeightedAccuracy are the
	// arithmetic means of the per-label values over UsedLabels. The
	// average is NOT weighted by support despite the name; the naming
	// is kept for continuity with the pipeline's reporting.
	WeightedPrecision float64
	WeightedRecall    float64
	WeightedAccuracy  float64

	F1                  float64
	ClassificationError float64
}

// EvaluateText scores every held-out document against the embedding
// model and accumulates a confusion matrix over the trained labels.
// Documents whose true label was not seen during training are dropped.
// A best score below threshold (or an undecidable document) counts as
// not labeled rather than wrong.
//
//nolint:gocritic // logger passed by value is fine for zerolog
func EvaluateText(docs []models.LabeledDocument, lookup textml.EmbeddingLookup, threshold float64, logger zerolog.Logger) *TextResult {
	vectorizer := textml.NewVectorizer(nil)
	matrix := NewConfusionMatrix(lookup.Labels())
	trained := textml.NewLabelIndex(lookup.Labels())

	res := &TextResult{Matrix: matrix}
	used := make(map[string]struct{})

	for _, doc := range docs {
		if _, ok := trained.IndexOf(doc.Label); !ok {
			continue
		}

		vector, _ := vectorizer.MeanVector(doc.Content, lookup)
		scores := textml.Score(vector, lookup)
		bestLabel, bestScore, decided := textml.BestLabel(scores)

		switch {
		case !decided || bestScore < threshold:
			res.NotLabeled++
			matrix.AddNotPredicted(doc.Label)
		case bestLabel == doc.Label:
			res.RightMatches++
			matrix.Add(doc.Label, doc.Label)
		default:
			res.WrongMatches++
			matrix.Add(doc.Label, bestLabel)
		}

		used[doc.Label] = struct{}{}
	}

	for _, label := range trained.Labels() {
		if _, ok := used[label]; ok {
			res.UsedLabels = append(res.UsedLabels, label)
		}
	}

	res.finishMetrics(trained)

	logger.Info().
		Int("right", res.RightMatches).
		Int("wrong", res.WrongMatches).
		Int("not_labeled", res.NotLabeled).
		Int("used_labels", len(res.UsedLabels)).
		Float64("classification_error", res.ClassificationError).
		Float64("precision", res.WeightedPrecision).
		Float64("recall", res.WeightedRecall).
		Float64("accuracy", res.WeightedAccuracy).
		Float64("f1", res.F1).
		Msg("text classifier evaluated")

	return res
}

// finishMetrics derives the aggregate metrics from the accumulated
// matrix over the labels observed in the held-out data.
func (r *TextResult) finishMetrics(trained *textml.LabelIndex) {
	if len(r.UsedLabels) == 0 {
		return
	}

	var precision, recall, accuracy float64
	for _, label := range r.UsedLabels {
		i, _ := trained.IndexOf(label)
		precision += r.Matrix.Precision(i)
		recall += r.Matrix.Recall(i)
		accuracy += r.Matrix.Accuracy(i)
	}

	n := float64(len(r.UsedLabels))
	r.WeightedPrecision = precision / n
	r.WeightedRecall = recall / n
	r.WeightedAccuracy = accuracy / n

	if sum := r.WeightedPrecision + r.WeightedRecall; sum > 0 {
		r.F1 = 2 * r.WeightedPrecision * r.WeightedRecall / sum
	}

	if evaluated := r.RightMatches + r.WrongMatches; evaluated > 0 {
		r.ClassificationError = float64(r.WrongMatches) / float64(evaluated)
	}
}
