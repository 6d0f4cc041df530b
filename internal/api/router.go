// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the service's HTTP routing table.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/train/{classifier}", handler.Train)
		r.Get("/training/state", handler.TrainingState)
		r.Post("/datasets/refresh", handler.RefreshDatasets)
		r.Delete("/datasets", handler.FreeDatasets)
	})

	return r
}
