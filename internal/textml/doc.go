// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package textml implements the document-to-vector scoring protocol
// shared by training-time evaluation and inference: a document is
// tokenized, its token embeddings are averaged into one vector, and
// that vector is scored by cosine similarity against per-label
// centroid vectors.
//
// The embedding model itself (token vectors, label centroids, label
// order) is an external collaborator exposed through the
// EmbeddingLookup interface; this package never computes embeddings.
package textml
