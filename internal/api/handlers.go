// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package api provides the HTTP surface of the model trainer: training
// triggers, state inspection, dataset management, health, and metrics.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kevka/modelgen/internal/models"
	"github.com/kevka/modelgen/internal/training"
)

// Trainer is the orchestration surface the handlers drive.
type Trainer interface {
	RequestTraining(ctx context.Context, t models.ClassifierType) (string, error)
	States() map[models.ClassifierType]training.RunState
	FreeDatasets() error
	RefreshDatasets(ctx context.Context) error
}

// Handler holds the API dependencies.
type Handler struct {
	trainer Trainer
}

// NewHandler creates the API handler set.
func NewHandler(trainer Trainer) *Handler {
	return &Handler{trainer: trainer}
}

// trainAccepted is the response body of an accepted training request.
type trainAccepted struct {
	Status     string `json:"status"`
	RunID      string `json:"runId"`
	Classifier string `json:"classifier"`
}

// Train accepts a training request for the classifier named in the
// URL. A request racing an in-flight run of the same type is dropped
// with 409; a matching request whose input classifiers are missing is
// rejected with 412 without touching the run state.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	classifier := models.ClassifierType(chi.URLParam(r, "classifier"))

	runID, err := h.trainer.RequestTraining(r.Context(), classifier)
	if err != nil {
		h.trainError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, trainAccepted{
		Status:     "accepted",
		RunID:      runID,
		Classifier: string(classifier),
	})
}

func (h *Handler) trainError(w http.ResponseWriter, err error) {
	var prereq *training.PrerequisiteError
	switch {
	case errors.Is(err, training.ErrUnknownClassifier):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, training.ErrTrainingInProgress):
		respondError(w, http.StatusConflict, err.Error())
	case errors.As(err, &prereq):
		respondError(w, http.StatusPreconditionFailed, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// TrainingState reports the per-classifier run state.
func (h *Handler) TrainingState(w http.ResponseWriter, _ *http.Request) {
	states := h.trainer.States()

	body := make(map[string]string, len(states))
	for t, state := range states {
		body[string(t)] = string(state)
	}
	respondJSON(w, http.StatusOK, body)
}

// RefreshDatasets drops the cached train/test split and materializes a
// fresh one. Refused with 409 while any run is in flight.
func (h *Handler) RefreshDatasets(w http.ResponseWriter, r *http.Request) {
	if err := h.trainer.RefreshDatasets(r.Context()); err != nil {
		if errors.Is(err, training.ErrTrainingInProgress) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// FreeDatasets drops the cached train/test split. Refused with 409
// while any run is in flight.
func (h *Handler) FreeDatasets(w http.ResponseWriter, _ *http.Request) {
	if err := h.trainer.FreeDatasets(); err != nil {
		if errors.Is(err, training.ErrTrainingInProgress) {
			respondError(w, http.StatusConflict, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "freed"})
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
