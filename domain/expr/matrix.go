package expr

import (
	"fmt"
	"math"

	"diffexpr/domain/core"
)

// Matrix is the canonical data object for all statistical computation:
// a dense numeric expression matrix with rows = features (genes) and
// columns = samples. Dimensions are fixed at construction and downstream
// components treat the data as read-only.
type Matrix struct {
	Data        [][]float64       `json:"data"`
	FeatureKeys []core.FeatureKey `json:"feature_keys,omitempty"`
}

// NewMatrix allocates a zeroed features x samples matrix.
func NewMatrix(features, samples int) *Matrix {
	data := make([][]float64, features)
	for i := range data {
		data[i] = make([]float64, samples)
	}
	return &Matrix{Data: data}
}

// Features returns the number of feature rows.
func (m *Matrix) Features() int {
	return len(m.Data)
}

// Samples returns the number of sample columns.
func (m *Matrix) Samples() int {
	if len(m.Data) == 0 {
		return 0
	}
	return len(m.Data[0])
}

// Row returns the expression values for one feature. The returned slice
// aliases the matrix storage; callers must not mutate it.
func (m *Matrix) Row(i int) []float64 {
	return m.Data[i]
}

// Validate ensures the matrix is internally consistent: non-empty,
// rectangular, and every entry finite.
func (m *Matrix) Validate() error {
	if len(m.Data) == 0 || len(m.Data[0]) == 0 {
		return core.ErrInsufficientData
	}
	samples := len(m.Data[0])
	for i, row := range m.Data {
		if len(row) != samples {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", core.ErrNonRectangular, i, len(row), samples)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: entry (%d,%d)", core.ErrNonFinite, i, j)
			}
		}
	}
	if m.FeatureKeys != nil && len(m.FeatureKeys) != len(m.Data) {
		return core.NewDimensionMismatchError("feature_keys", len(m.FeatureKeys), len(m.Data))
	}
	return nil
}
