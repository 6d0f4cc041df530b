// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package models

// ClassifierType identifies one of the independently trained
// classifiers. It doubles as the persistence key for the winning
// artifact.
type ClassifierType string

const (
	// ClassifierBrand is the text classifier predicting an offer's brand.
	ClassifierBrand ClassifierType = "brand"

	// ClassifierCategory is the text classifier predicting an offer's
	// higher-level category.
	ClassifierCategory ClassifierType = "category"

	// ClassifierMatching is the binary classifier predicting whether two
	// offers describe the same product.
	ClassifierMatching ClassifierType = "matching"
)

// Valid reports whether t names a known classifier type.
func (t ClassifierType) Valid() bool {
	switch t {
	case ClassifierBrand, ClassifierCategory, ClassifierMatching:
		return true
	}
	return false
}

// LabeledDocument pairs text content with a single label. Documents are
// built from matching records (or shop offers) for one training or
// evaluation pass and discarded afterwards.
type LabeledDocument struct {
	Content string `json:"content"`
	Label   string `json:"label"`
}

// ScoredModel is a trained candidate wrapped with its model-type tag
// and evaluation score, ready for the persistence boundary. The
// payload is opaque to this service; reloading it is the serving
// side's job.
type ScoredModel struct {
	Payload   []byte         `json:"modelByteArray"`
	ModelType string         `json:"modelType"`
	Type      ClassifierType `json:"classifierType"`
	Score     float64        `json:"score"`
}
