// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package textml

import "encoding"

// TrainedModel is a fitted embedding model that can serialize itself
// for the persistence boundary.
type TrainedModel interface {
	EmbeddingLookup
	encoding.BinaryMarshaler
}
