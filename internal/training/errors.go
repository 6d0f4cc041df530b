// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package training

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kevka/modelgen/internal/models"
)

// ErrTrainingInProgress reports that the single-flight guard dropped a
// request because a run for the same classifier is in flight.
var ErrTrainingInProgress = errors.New("training: run already in progress")

// ErrUnknownClassifier reports a request for a classifier type this
// service does not train.
var ErrUnknownClassifier = errors.New("training: unknown classifier type")

// PrerequisiteError reports that matching-model training was requested
// before its input classifiers were persisted. The guard is untouched;
// this is a configuration error, not a concurrency conflict.
type PrerequisiteError struct {
	Missing []models.ClassifierType
}

func (e *PrerequisiteError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, t := range e.Missing {
		names = append(names, string(t))
	}
	return fmt.Sprintf("training: missing prerequisite classifiers: %s", strings.Join(names, ", "))
}
