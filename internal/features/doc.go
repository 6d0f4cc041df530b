// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package features turns partitioned matching records into
// task-appropriate training examples: labeled title documents for the
// brand and category text classifiers, and engineered attribute
// vectors with synthetic negative pairs for the matching classifier.
//
// Records lacking a usable title or label are dropped silently (and
// counted in metrics); data-quality gaps are never errors here.
package features
