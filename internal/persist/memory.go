// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package persist

import (
	"context"
	"sync"

	"github.com/kevka/modelgen/internal/models"
)

// MemoryModelRepository is an in-process ModelRepository used by tests
// and single-run invocations that do not need durability.
type MemoryModelRepository struct {
	mu     sync.RWMutex
	byType map[models.ClassifierType]*models.ScoredModel
}

// NewMemoryModelRepository creates an empty in-memory repository.
func NewMemoryModelRepository() *MemoryModelRepository {
	return &MemoryModelRepository{
		byType: make(map[models.ClassifierType]*models.ScoredModel),
	}
}

// Save stores a scored model, replacing any previous artifact of the
// same classifier type.
func (r *MemoryModelRepository) Save(ctx context.Context, model *models.ScoredModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *model
	r.byType[model.Type] = &cp
	return nil
}

// Get returns the stored artifact, or (nil, nil) when none exists.
func (r *MemoryModelRepository) Get(ctx context.Context, t models.ClassifierType) (*models.ScoredModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byType[t]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

// Exists reports whether an artifact of the given type is stored.
func (r *MemoryModelRepository) Exists(ctx context.Context, t models.ClassifierType) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byType[t]
	return ok, nil
}
