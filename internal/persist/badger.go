// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/kevka/modelgen/internal/metrics"
	"github.com/kevka/modelgen/internal/models"
)

const modelKeyPrefix = "model:"

// BadgerModelRepository implements ModelRepository on BadgerDB for
// durable storage across restarts.
type BadgerModelRepository struct {
	db *badger.DB
}

// NewBadgerModelRepository creates a repository on an already-open
// BadgerDB handle. The caller owns the handle's lifecycle.
func NewBadgerModelRepository(db *badger.DB) *BadgerModelRepository {
	return &BadgerModelRepository{db: db}
}

// OpenBadger opens the model store at path. An in-memory store is used
// when path is empty.
func OpenBadger(path string) (*badger.DB, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	return db, nil
}

func modelKey(t models.ClassifierType) []byte {
	return []byte(modelKeyPrefix + string(t))
}

// Save stores a scored model, replacing any previous artifact of the
// same classifier type.
func (r *BadgerModelRepository) Save(ctx context.Context, model *models.ScoredModel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !model.Type.Valid() {
		return fmt.Errorf("invalid classifier type %q", model.Type)
	}

	data, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(modelKey(model.Type), data)
	})
	if err != nil {
		return fmt.Errorf("store model %s: %w", model.Type, err)
	}

	metrics.ModelsPersisted.WithLabelValues(string(model.Type)).Inc()
	return nil
}

// Get returns the stored artifact for a classifier type, or (nil, nil)
// when none exists.
func (r *BadgerModelRepository) Get(ctx context.Context, t models.ClassifierType) (*models.ScoredModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var model *models.ScoredModel
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(modelKey(t))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var m models.ScoredModel
			if err := json.Unmarshal(val, &m); err != nil {
				return fmt.Errorf("unmarshal model: %w", err)
			}
			model = &m
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", t, err)
	}
	return model, nil
}

// Exists reports whether an artifact of the given type is stored.
func (r *BadgerModelRepository) Exists(ctx context.Context, t models.ClassifierType) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	found := false
	err := r.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(modelKey(t))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("check model %s: %w", t, err)
	}
	return found, nil
}
