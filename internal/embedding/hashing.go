// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package embedding implements the built-in text embedding trainer: a
// deterministic feature-hashing model. Each vocabulary token gets a
// pseudo-random vector derived from its hash, documents are mean
// vectors, and labels are centroids of their documents' vectors. The
// model needs no external weights, serializes compactly, and is fully
// reproducible.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/goccy/go-json"

	"github.com/kevka/modelgen/internal/models"
	"github.com/kevka/modelgen/internal/textml"
)

// DefaultDimension is the embedding vector length.
const DefaultDimension = 64

// ErrNoDocuments reports a fit over an empty document set.
var ErrNoDocuments = errors.New("embedding: no documents to fit")

// Trainer fits and revives hashing models. It implements the
// orchestrator's embedding boundary.
type Trainer struct {
	dimension int
	tokenize  textml.Tokenizer
}

// NewTrainer creates a trainer. Dimension 0 selects DefaultDimension;
// a nil tokenizer selects textml.DefaultTokenizer.
func NewTrainer(dimension int, tokenize textml.Tokenizer) *Trainer {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	if tokenize == nil {
		tokenize = textml.DefaultTokenizer
	}
	return &Trainer{dimension: dimension, tokenize: tokenize}
}

// Fit builds a model from labeled documents: the vocabulary is every
// token seen, and each label's centroid is the mean of its documents'
// mean vectors. Labels keep first-seen order.
func (t *Trainer) Fit(_ context.Context, docs []models.LabeledDocument) (textml.TrainedModel, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	model := &Model{
		dimension: t.dimension,
		vocab:     make(map[string]struct{}),
		centroids: make(map[string][]float64),
	}
	labels := textml.NewLabelIndex(nil)
	counts := make(map[string]int)

	for _, doc := range docs {
		tokens := t.tokenize(doc.Content)
		if len(tokens) == 0 {
			continue
		}

		vec := make([]float64, t.dimension)
		for _, token := range tokens {
			model.vocab[token] = struct{}{}
			tv := tokenVector(token, t.dimension)
			for i, x := range tv {
				vec[i] += x
			}
		}
		n := float64(len(tokens))
		for i := range vec {
			vec[i] /= n
		}

		labels.Add(doc.Label)
		centroid, ok := model.centroids[doc.Label]
		if !ok {
			centroid = make([]float64, t.dimension)
			model.centroids[doc.Label] = centroid
		}
		for i, x := range vec {
			centroid[i] += x
		}
		counts[doc.Label]++
	}

	model.labels = labels.Labels()
	if len(model.labels) == 0 {
		return nil, ErrNoDocuments
	}
	for label, centroid := range model.centroids {
		n := float64(counts[label])
		for i := range centroid {
			centroid[i] /= n
		}
	}

	return model, nil
}

// Load revives a persisted model payload.
func (t *Trainer) Load(payload []byte) (textml.TrainedModel, error) {
	var env modelEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode embedding model: %w", err)
	}
	if env.Dimension <= 0 {
		return nil, fmt.Errorf("embedding model with invalid dimension %d", env.Dimension)
	}

	model := &Model{
		dimension: env.Dimension,
		vocab:     make(map[string]struct{}, len(env.Vocabulary)),
		labels:    env.Labels,
		centroids: env.Centroids,
	}
	for _, token := range env.Vocabulary {
		model.vocab[token] = struct{}{}
	}
	return model, nil
}

// Model is a fitted hashing model. It implements textml.TrainedModel.
type Model struct {
	dimension int
	vocab     map[string]struct{}
	labels    []string
	centroids map[string][]float64
}

// Vector returns the token's hash-derived embedding; tokens outside
// the fitted vocabulary are unknown.
func (m *Model) Vector(token string) ([]float64, bool) {
	if _, ok := m.vocab[token]; !ok {
		return nil, false
	}
	return tokenVector(token, m.dimension), true
}

// LabelCentroid returns the centroid of a fitted label.
func (m *Model) LabelCentroid(label string) ([]float64, bool) {
	centroid, ok := m.centroids[label]
	return centroid, ok
}

// Labels returns the fitted labels in first-seen order.
func (m *Model) Labels() []string {
	return m.labels
}

// Dimension returns the embedding vector length.
func (m *Model) Dimension() int {
	return m.dimension
}

// modelEnvelope is the serialized form. Token vectors are not stored;
// they are rederived from the hash.
type modelEnvelope struct {
	Dimension  int                  `json:"dimension"`
	Vocabulary []string             `json:"vocabulary"`
	Labels     []string             `json:"labels"`
	Centroids  map[string][]float64 `json:"centroids"`
}

// MarshalBinary serializes the model for the persistence boundary.
func (m *Model) MarshalBinary() ([]byte, error) {
	vocab := make([]string, 0, len(m.vocab))
	for token := range m.vocab {
		vocab = append(vocab, token)
	}
	sort.Strings(vocab)

	return json.Marshal(modelEnvelope{
		Dimension:  m.dimension,
		Vocabulary: vocab,
		Labels:     m.labels,
		Centroids:  m.centroids,
	})
}

// tokenVector derives a deterministic pseudo-random vector in [-1, 1)
// per component from the token's FNV-1a hash.
func tokenVector(token string, dimension int) []float64 {
	h := fnv.New64a()
	h.Write([]byte(token)) //nolint:errcheck // fnv never fails
	state := h.Sum64()

	vec := make([]float64, dimension)
	for i := range vec {
		state += 0x9e3779b97f4a7c15
		z := splitmix64(state)
		// Top 53 bits give a uniform float in [0, 1).
		vec[i] = float64(z>>11)/float64(1<<53)*2 - 1
	}
	return vec
}

// splitmix64 is the reference SplitMix64 output function.
func splitmix64(z uint64) uint64 {
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
