// ModelGen - Offer Matching Model Trainer
// Copyright 2026 Kevin Kessler (kevka)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kevka/modelgen

// Package evaluation computes confusion matrices and the derived
// metrics used to score and select trained classifiers. The numerics
// follow the pipeline's established conventions exactly, including the
// zero-on-zero-denominator guards and the simple-average "weighted"
// aggregates.
package evaluation

// ConfusionMatrix is a square integer matrix indexed by a label index:
// cell (i, j) counts documents whose true label has index i and whose
// predicted label has index j. Below-threshold predictions land in a
// separate not-predicted bucket per true label. A matrix is rebuilt
// fresh for every evaluation pass and never persisted.
type ConfusionMatrix struct {
	labels       []string
	indexOf      map[string]int
	cells        [][]int
	notPredicted []int
}

// NewConfusionMatrix creates a zeroed matrix over the given label
// order (the labels seen during training).
func NewConfusionMatrix(labels []string) *ConfusionMatrix {
	n := len(labels)
	m := &ConfusionMatrix{
		labels:       labels,
		indexOf:      make(map[string]int, n),
		cells:        make([][]int, n),
		notPredicted: make([]int, n),
	}
	for i, label := range labels {
		m.indexOf[label] = i
		m.cells[i] = make([]int, n)
	}
	return m
}

// Add counts one prediction. Unknown labels are ignored; callers must
// filter documents whose true label is outside the trained set before
// scoring them.
func (m *ConfusionMatrix) Add(trueLabel, predictedLabel string) {
	i, ok := m.indexOf[trueLabel]
	if !ok {
		return
	}
	j, ok := m.indexOf[predictedLabel]
	if !ok {
		return
	}
	m.cells[i][j]++
}

// AddNotPredicted counts one below-threshold (or undecidable)
// prediction for the given true label.
func (m *ConfusionMatrix) AddNotPredicted(trueLabel string) {
	if i, ok := m.indexOf[trueLabel]; ok {
		m.notPredicted[i]++
	}
}

// Len returns the matrix dimension.
func (m *ConfusionMatrix) Len() int {
	return len(m.labels)
}

// At returns cell (i, j).
func (m *ConfusionMatrix) At(i, j int) int {
	return m.cells[i][j]
}

// NotPredicted returns the not-predicted count for label index i.
func (m *ConfusionMatrix) NotPredicted(i int) int {
	return m.notPredicted[i]
}

// RowSum returns the total of row i: all predictions for true label i.
func (m *ConfusionMatrix) RowSum(i int) int {
	sum := 0
	for _, c := range m.cells[i] {
		sum += c
	}
	return sum
}

// ColSum returns the total of column j: all documents predicted as
// label j.
func (m *ConfusionMatrix) ColSum(j int) int {
	sum := 0
	for i := range m.cells {
		sum += m.cells[i][j]
	}
	return sum
}

// Trace returns the diagonal sum: all correct predictions.
func (m *ConfusionMatrix) Trace() int {
	sum := 0
	for i := range m.cells {
		sum += m.cells[i][i]
	}
	return sum
}

// Total returns the sum of all cells. Together with the diagonal this
// conserves document mass: Total == rightMatches + wrongMatches for
// any evaluation pass over documents with trained labels.
func (m *ConfusionMatrix) Total() int {
	sum := 0
	for i := range m.cells {
		for _, c := range m.cells[i] {
			sum += c
		}
	}
	return sum
}

// falsePositives returns column i's sum excluding row i.
func (m *ConfusionMatrix) falsePositives(i int) int {
	return m.ColSum(i) - m.cells[i][i]
}

// falseNegatives returns row i's sum excluding column i.
func (m *ConfusionMatrix) falseNegatives(i int) int {
	return m.RowSum(i) - m.cells[i][i]
}

// Recall returns cell(i,i)/rowSum(i), 0 when the row is empty.
func (m *ConfusionMatrix) Recall(i int) float64 {
	row := m.RowSum(i)
	if row == 0 {
		return 0
	}
	return float64(m.cells[i][i]) / float64(row)
}

// Precision returns cell(i,i)/colSum(i), 0 when the column is empty.
func (m *ConfusionMatrix) Precision(i int) float64 {
	col := m.ColSum(i)
	if col == 0 {
		return 0
	}
	return float64(m.cells[i][i]) / float64(col)
}

// Accuracy returns trace/(trace+FP(i)+FN(i)), 0 when the denominator
// is 0.
func (m *ConfusionMatrix) Accuracy(i int) float64 {
	trace := m.Trace()
	denom := trace + m.falsePositives(i) + m.falseNegatives(i)
	if denom == 0 {
		return 0
	}
	return float64(trace) / float64(denom)
}
