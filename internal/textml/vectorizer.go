// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package textml

// EmbeddingLookup is the surface of a trained embedding model: token
// vectors, per-label centroid vectors, and the label order the model
// was fitted with. Implementations come from the external embedding
// trainer.
type EmbeddingLookup interface {
	// Vector returns the embedding of a token and whether the token is
	// in the model's vocabulary.
	Vector(token string) ([]float64, bool)

	// LabelCentroid returns the centroid vector of a label and whether
	// the label was seen during fitting.
	LabelCentroid(label string) ([]float64, bool)

	// Labels returns the model's labels in fitting order.
	Labels() []string

	// Dimension returns the embedding vector length.
	Dimension() int
}

// Vectorizer converts a document into a single embedding vector.
type Vectorizer struct {
	tokenize Tokenizer
}

// NewVectorizer creates a vectorizer with the given tokenizer. A nil
// tokenizer selects DefaultTokenizer.
func NewVectorizer(tokenize Tokenizer) *Vectorizer {
	if tokenize == nil {
		tokenize = DefaultTokenizer
	}
	return &Vectorizer{tokenize: tokenize}
}

// MeanVector returns the arithmetic mean of the embedding vectors of
// the document's recognized tokens. A document with zero recognized
// tokens yields a zero vector of the model's dimension and ok=false;
// it never fails.
func (v *Vectorizer) MeanVector(content string, lookup EmbeddingLookup) (vec []float64, ok bool) {
	mean := make([]float64, lookup.Dimension())
	recognized := 0

	for _, token := range v.tokenize(content) {
		tv, found := lookup.Vector(token)
		if !found || len(tv) != len(mean) {
			continue
		}
		for i, x := range tv {
			mean[i] += x
		}
		recognized++
	}

	if recognized == 0 {
		return mean, false
	}

	n := float64(recognized)
	for i := range mean {
		mean[i] /= n
	}
	return mean, true
}
