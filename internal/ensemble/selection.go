// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package ensemble

import (
	"errors"

	"github.com/kevka/modelgen/internal/evaluation"
	"github.com/kevka/modelgen/internal/features"
)

// ErrNoCandidates reports that selection had nothing to choose from.
var ErrNoCandidates = errors.New("ensemble: no trained candidates to select from")

// Binary label names for the matching task's confusion matrix.
const (
	labelMatch   = "match"
	labelNoMatch = "noMatch"
)

// ClassificationError is the fraction of instances a model
// mispredicts. A prediction failure counts as a misprediction. An
// empty instance set scores 1, the worst possible error.
func ClassificationError(model Model, instances []features.Instance) float64 {
	if len(instances) == 0 {
		return 1
	}

	wrong := 0
	for _, in := range instances {
		predicted, err := model.Predict(in)
		if err != nil || predicted != in.Match {
			wrong++
		}
	}
	return float64(wrong) / float64(len(instances))
}

// SelectByTrainingError is the persisting selection policy: each
// candidate is scored by its classification error on the training set
// and the minimum wins. Ties keep the earlier roster entry.
func SelectByTrainingError(candidates []LabeledModel, training []features.Instance) (LabeledModel, float64, error) {
	if len(candidates) == 0 {
		return LabeledModel{}, 0, ErrNoCandidates
	}

	best := candidates[0]
	bestScore := ClassificationError(best.Model, training)
	for _, candidate := range candidates[1:] {
		if score := ClassificationError(candidate.Model, training); score < bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, bestScore, nil
}

// CandidateReport is one candidate's held-out diagnostics.
type CandidateReport struct {
	Kind                ModelKind
	Matrix              *evaluation.ConfusionMatrix
	ClassificationError float64
	Precision           float64
	Recall              float64
	Accuracy            float64
}

// EvaluateAllHoldout is the reporting-only policy: every candidate is
// evaluated against the held-out set with a full binary confusion
// matrix. No winner is selected; callers that persist use
// SelectByTrainingError.
func EvaluateAllHoldout(candidates []LabeledModel, holdout []features.Instance) []CandidateReport {
	reports := make([]CandidateReport, 0, len(candidates))
	for _, candidate := range candidates {
		matrix := evaluation.NewConfusionMatrix([]string{labelMatch, labelNoMatch})

		for _, in := range holdout {
			predicted, err := candidate.Model.Predict(in)
			if err != nil {
				matrix.AddNotPredicted(binaryLabel(in.Match))
				continue
			}
			matrix.Add(binaryLabel(in.Match), binaryLabel(predicted))
		}

		report := CandidateReport{
			Kind:                candidate.Kind,
			Matrix:              matrix,
			ClassificationError: ClassificationError(candidate.Model, holdout),
			Precision:           matrix.Precision(0),
			Recall:              matrix.Recall(0),
			Accuracy:            matrix.Accuracy(0),
		}
		reports = append(reports, report)
	}
	return reports
}

func binaryLabel(match bool) string {
	if match {
		return labelMatch
	}
	return labelNoMatch
}
