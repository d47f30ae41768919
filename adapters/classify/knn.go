// Package classify provides the in-repo classification collaborators for the
// expression-classification workflow: k-nearest-neighbors, top-scoring-pairs,
// and seeded resampling (cross-validation, bootstrap) accuracy estimation.
package classify

import (
	"math"
	"sort"

	"diffexpr/domain/core"
	"diffexpr/domain/expr"
)

// KNN is a k-nearest-neighbors classifier over Euclidean distance.
// Neighbor ties are broken by ascending training index and vote ties by the
// nearest neighbor's label, so predictions are deterministic.
type KNN struct {
	K       int
	samples [][]float64
	labels  []int
}

// NewKNN creates a k-NN classifier.
func NewKNN(k int) *KNN {
	return &KNN{K: k}
}

// Name identifies the classifier in result artifacts.
func (c *KNN) Name() string {
	return "knn"
}

// Train memorizes the training samples.
func (c *KNN) Train(samples [][]float64, labels []int) error {
	if len(samples) == 0 {
		return core.ErrInsufficientData
	}
	if len(labels) != len(samples) {
		return core.NewDimensionMismatchError("labels", len(labels), len(samples))
	}
	if c.K <= 0 || c.K > len(samples) {
		return core.NewInvalidDesignError("k must be in [1, sample count]")
	}
	c.samples = samples
	c.labels = labels
	return nil
}

// Predict votes among the K nearest training samples.
func (c *KNN) Predict(sample []float64) (int, error) {
	if c.samples == nil {
		return 0, core.ErrInsufficientData
	}
	if len(sample) != len(c.samples[0]) {
		return 0, core.NewDimensionMismatchError("sample", len(sample), len(c.samples[0]))
	}

	type neighbor struct {
		index int
		dist  float64
	}
	neighbors := make([]neighbor, len(c.samples))
	for i, s := range c.samples {
		neighbors[i] = neighbor{index: i, dist: euclidean(sample, s)}
	}
	sort.Slice(neighbors, func(a, b int) bool {
		if neighbors[a].dist == neighbors[b].dist {
			return neighbors[a].index < neighbors[b].index
		}
		return neighbors[a].dist < neighbors[b].dist
	})

	votes := map[int]int{}
	for _, n := range neighbors[:c.K] {
		votes[c.labels[n.index]]++
	}
	best, bestVotes := c.labels[neighbors[0].index], -1
	for label, count := range votes {
		if count > bestVotes || (count == bestVotes && label == c.labels[neighbors[0].index]) {
			best, bestVotes = label, count
		}
	}
	return best, nil
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// SamplesFromMatrix transposes a features x samples expression matrix into
// the samples x features layout classifiers train on.
func SamplesFromMatrix(m *expr.Matrix) [][]float64 {
	out := make([][]float64, m.Samples())
	for j := range out {
		row := make([]float64, m.Features())
		for i := 0; i < m.Features(); i++ {
			row[i] = m.Data[i][j]
		}
		out[j] = row
	}
	return out
}
