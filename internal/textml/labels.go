// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

package textml

// LabelIndex is a stable, first-seen ordered list of distinct labels.
// It provides the label<->index mapping used by the confusion matrix.
type LabelIndex struct {
	labels  []string
	indexOf map[string]int
}

// NewLabelIndex builds an index over the given labels, keeping the
// first occurrence of each distinct label in order.
func NewLabelIndex(labels []string) *LabelIndex {
	idx := &LabelIndex{
		labels:  make([]string, 0, len(labels)),
		indexOf: make(map[string]int, len(labels)),
	}
	for _, label := range labels {
		idx.Add(label)
	}
	return idx
}

// Add records a label if it has not been seen, returning its index.
func (x *LabelIndex) Add(label string) int {
	if i, ok := x.indexOf[label]; ok {
		return i
	}
	i := len(x.labels)
	x.labels = append(x.labels, label)
	x.indexOf[label] = i
	return i
}

// IndexOf returns the position of label and whether it is known.
func (x *LabelIndex) IndexOf(label string) (int, bool) {
	i, ok := x.indexOf[label]
	return i, ok
}

// Labels returns the labels in index order. The returned slice is
// shared; callers must not modify it.
func (x *LabelIndex) Labels() []string {
	return x.labels
}

// Len returns the number of distinct labels.
func (x *LabelIndex) Len() int {
	return len(x.labels)
}
