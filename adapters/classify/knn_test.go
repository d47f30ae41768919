package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffexpr/domain/core"
	"diffexpr/domain/expr"
)

// Two well-separated clusters: class 0 near the origin, class 1 near (100,100).
func separableSamples() ([][]float64, []int) {
	samples := [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
		{100, 100}, {101, 100}, {100, 101}, {101, 101},
	}
	labels := []int{0, 0, 0, 0, 1, 1, 1, 1}
	return samples, labels
}

func TestKNN_SeparableClusters(t *testing.T) {
	samples, labels := separableSamples()
	clf := NewKNN(3)
	require.NoError(t, clf.Train(samples, labels))

	pred, err := clf.Predict([]float64{0.5, 0.5})
	require.NoError(t, err)
	assert.Equal(t, 0, pred)

	pred, err = clf.Predict([]float64{100.5, 100.5})
	require.NoError(t, err)
	assert.Equal(t, 1, pred)
}

func TestKNN_OneNeighborMemorizes(t *testing.T) {
	samples, labels := separableSamples()
	clf := NewKNN(1)
	require.NoError(t, clf.Train(samples, labels))

	for i, s := range samples {
		pred, err := clf.Predict(s)
		require.NoError(t, err)
		assert.Equal(t, labels[i], pred, "sample %d", i)
	}
}

func TestKNN_TrainValidation(t *testing.T) {
	samples, labels := separableSamples()

	assert.ErrorIs(t, NewKNN(3).Train(nil, nil), core.ErrInsufficientData)
	assert.ErrorIs(t, NewKNN(3).Train(samples, labels[:3]), core.ErrDimensionMismatch)
	assert.ErrorIs(t, NewKNN(0).Train(samples, labels), core.ErrInvalidDesign)
	assert.ErrorIs(t, NewKNN(9).Train(samples, labels), core.ErrInvalidDesign)
}

func TestKNN_PredictValidation(t *testing.T) {
	samples, labels := separableSamples()

	_, err := NewKNN(1).Predict([]float64{0, 0})
	assert.ErrorIs(t, err, core.ErrInsufficientData, "untrained classifier")

	clf := NewKNN(1)
	require.NoError(t, clf.Train(samples, labels))
	_, err = clf.Predict([]float64{0, 0, 0})
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestSamplesFromMatrix_Transposes(t *testing.T) {
	m := &expr.Matrix{Data: [][]float64{
		{1, 2, 3},
		{4, 5, 6},
	}}

	got := SamplesFromMatrix(m)
	assert.Equal(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, got)
}
