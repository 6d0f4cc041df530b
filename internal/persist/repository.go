// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package persist stores the winning model artifact per classifier
// type. One artifact per type; a new winner overwrites the old one.
package persist

import (
	"context"

	"github.com/kevka/modelgen/internal/models"
)

// ModelRepository is the persistence boundary for trained models.
type ModelRepository interface {
	// Save stores a scored model under its classifier type, replacing
	// any previous artifact of that type.
	Save(ctx context.Context, model *models.ScoredModel) error

	// Get returns the stored artifact for a classifier type, or
	// (nil, nil) when none has been persisted yet.
	Get(ctx context.Context, t models.ClassifierType) (*models.ScoredModel, error)

	// Exists reports whether an artifact of the given type is stored.
	Exists(ctx context.Context, t models.ClassifierType) (bool, error)
}
