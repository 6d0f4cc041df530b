// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package ensemble fits the fixed roster of candidate matching
// classifiers against one feature set and scores them for selection.
//
// The statistical algorithms themselves are external collaborators:
// each roster entry wraps one externally supplied Fitter behind a
// common capability interface, keeping the ensemble loop free of
// per-algorithm branching.
package ensemble

import (
	"context"
	"encoding"
	"fmt"

	"github.com/kevka/modelgen/internal/features"
	"github.com/kevka/modelgen/internal/models"
)

// ModelKind tags one candidate algorithm. The set is closed; the
// roster is built from exactly these kinds.
type ModelKind string

const (
	NaiveBayes   ModelKind = "naiveBayes"
	Logistic     ModelKind = "logistic"
	RandomForest ModelKind = "randomForest"
	KNN          ModelKind = "kNN"
	J48          ModelKind = "j48"
	AdaBoost     ModelKind = "adaBoost"
)

// RosterKinds is the fixed candidate roster, in training order.
var RosterKinds = []ModelKind{
	NaiveBayes,
	Logistic,
	RandomForest,
	KNN,
	J48,
	AdaBoost,
}

// Model is a trained matching classifier. It must serialize itself for
// the persistence boundary.
type Model interface {
	// Predict returns whether the instance describes a matching pair.
	Predict(in features.Instance) (bool, error)

	encoding.BinaryMarshaler
}

// Fitter trains one candidate algorithm. Implementations are external;
// a fit either returns a usable model or a typed failure, never a
// half-trained model.
type Fitter interface {
	Fit(ctx context.Context, instances []features.Instance) (Model, error)
}

// FitterProvider supplies the external fitter for each roster kind.
type FitterProvider interface {
	Fitter(kind ModelKind) (Fitter, error)
}

// Candidate is one roster entry: a kind tag and its fitter.
type Candidate struct {
	Kind   ModelKind
	fitter Fitter
}

// NewRoster resolves every roster kind against the provider. A
// provider that cannot supply a roster kind is a configuration error.
func NewRoster(provider FitterProvider) ([]Candidate, error) {
	roster := make([]Candidate, 0, len(RosterKinds))
	for _, kind := range RosterKinds {
		fitter, err := provider.Fitter(kind)
		if err != nil {
			return nil, fmt.Errorf("resolve fitter %s: %w", kind, err)
		}
		roster = append(roster, Candidate{Kind: kind, fitter: fitter})
	}
	return roster, nil
}

// LabeledModel is a trained candidate with its kind tag.
type LabeledModel struct {
	Kind  ModelKind
	Model Model
}

// ToScored serializes the model into a persistence envelope. A model
// that cannot be encoded is fatal to the training run.
func (lm LabeledModel) ToScored(score float64) (*models.ScoredModel, error) {
	payload, err := lm.Model.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("serialize %s model: %w", lm.Kind, err)
	}
	return &models.ScoredModel{
		Payload:   payload,
		ModelType: string(lm.Kind),
		Type:      models.ClassifierMatching,
		Score:     score,
	}, nil
}
