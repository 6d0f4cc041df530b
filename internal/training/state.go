// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package training

import (
	"sync"

	"github.com/kevka/modelgen/internal/models"
)

// RunState is the externally visible state of one classifier's
// training pipeline.
type RunState string

const (
	// StateIdle means no run is in flight for the classifier.
	StateIdle RunState = "idle"

	// StateTraining means a run is in flight; further requests for the
	// same classifier are dropped until it finishes.
	StateTraining RunState = "training"
)

// stateGuard is the single-flight guard: at most one run per
// classifier type. Acquisition is atomic under one mutex so concurrent
// requests for the same type cannot both win.
type stateGuard struct {
	mu   sync.Mutex
	busy map[models.ClassifierType]bool
}

func newStateGuard() *stateGuard {
	return &stateGuard{busy: make(map[models.ClassifierType]bool)}
}

// tryAcquire claims the guard for a classifier type. It returns false
// when a run is already in flight.
func (g *stateGuard) tryAcquire(t models.ClassifierType) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy[t] {
		return false
	}
	g.busy[t] = true
	return true
}

// release returns the guard to idle. Release without a prior acquire
// is a no-op.
func (g *stateGuard) release(t models.ClassifierType) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, t)
}

// anyBusy reports whether any classifier has a run in flight.
func (g *stateGuard) anyBusy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, busy := range g.busy {
		if busy {
			return true
		}
	}
	return false
}

// snapshot returns the current state of every classifier type.
func (g *stateGuard) snapshot() map[models.ClassifierType]RunState {
	g.mu.Lock()
	defer g.mu.Unlock()

	states := make(map[models.ClassifierType]RunState, 3)
	for _, t := range []models.ClassifierType{models.ClassifierCategory, models.ClassifierBrand, models.ClassifierMatching} {
		if g.busy[t] {
			states[t] = StateTraining
		} else {
			states[t] = StateIdle
		}
	}
	return states
}
