// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/kevka/modelgen/internal/logging"
)

// errorResponse is the wire shape of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write JSON response")
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
