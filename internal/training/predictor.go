// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package training

import (
	"context"
	"strings"

	"github.com/kevka/modelgen/internal/models"
	"github.com/kevka/modelgen/internal/textml"
)

// TextModel is a trained text classifier: an embedding lookup that can
// serialize itself for the persistence boundary.
type TextModel = textml.TrainedModel

// EmbeddingTrainer is the external embedding collaborator. Fit trains
// a fresh model from labeled documents; Load revives a persisted
// payload, so matching-model training works across restarts.
type EmbeddingTrainer interface {
	Fit(ctx context.Context, docs []models.LabeledDocument) (TextModel, error)
	Load(payload []byte) (TextModel, error)
}

// textPredictor scores titles against the trained brand and category
// models. It implements features.TextPredictor.
type textPredictor struct {
	vectorizer *textml.Vectorizer
	brand      TextModel
	category   TextModel
}

func newTextPredictor(brand, category TextModel) *textPredictor {
	return &textPredictor{
		vectorizer: textml.NewVectorizer(nil),
		brand:      brand,
		category:   category,
	}
}

func (p *textPredictor) PredictBrand(title string) (string, float64, bool) {
	return p.predict(p.brand, title)
}

func (p *textPredictor) PredictCategory(title string) (string, float64, bool) {
	return p.predict(p.category, title)
}

func (p *textPredictor) predict(model TextModel, title string) (string, float64, bool) {
	vector, ok := p.vectorizer.MeanVector(strings.ToLower(title), model)
	if !ok {
		return "", 0, false
	}
	return textml.BestLabel(textml.Score(vector, model))
}
