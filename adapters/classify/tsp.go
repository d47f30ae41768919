package classify

import (
	"diffexpr/domain/core"
)

// TSP is a top-scoring-pairs classifier: training selects the feature pair
// (i, j) whose ordering x_i < x_j best separates the two classes, and
// prediction applies that single comparison. Pair score ties are broken
// lexicographically by (i, j) for determinism.
type TSP struct {
	pairI, pairJ int
	// flipped records which class the ordering x_i < x_j votes for.
	classWhenLess int
	trained       bool
}

// NewTSP creates a top-scoring-pairs classifier.
func NewTSP() *TSP {
	return &TSP{}
}

// Name identifies the classifier in result artifacts.
func (c *TSP) Name() string {
	return "tsp"
}

// Train scans all feature pairs for the largest difference between the two
// classes in P(x_i < x_j).
func (c *TSP) Train(samples [][]float64, labels []int) error {
	if len(samples) == 0 {
		return core.ErrInsufficientData
	}
	if len(labels) != len(samples) {
		return core.NewDimensionMismatchError("labels", len(labels), len(samples))
	}
	features := len(samples[0])
	if features < 2 {
		return core.NewInvalidDesignError("top-scoring-pairs needs at least 2 features")
	}

	n0, n1 := 0, 0
	for _, l := range labels {
		if l == 0 {
			n0++
		} else {
			n1++
		}
	}
	if n0 == 0 || n1 == 0 {
		return core.ErrEmptyGroup
	}

	bestScore := -1.0
	for i := 0; i < features; i++ {
		for j := i + 1; j < features; j++ {
			less0, less1 := 0, 0
			for s, sample := range samples {
				if sample[i] < sample[j] {
					if labels[s] == 0 {
						less0++
					} else {
						less1++
					}
				}
			}
			p0 := float64(less0) / float64(n0)
			p1 := float64(less1) / float64(n1)
			scoreIJ := p0 - p1
			if scoreIJ < 0 {
				scoreIJ = -scoreIJ
			}
			if scoreIJ > bestScore {
				bestScore = scoreIJ
				c.pairI, c.pairJ = i, j
				if p0 >= p1 {
					c.classWhenLess = 0
				} else {
					c.classWhenLess = 1
				}
			}
		}
	}

	c.trained = true
	return nil
}

// Predict applies the selected pair's ordering rule.
func (c *TSP) Predict(sample []float64) (int, error) {
	if !c.trained {
		return 0, core.ErrInsufficientData
	}
	if len(sample) <= c.pairJ {
		return 0, core.NewDimensionMismatchError("sample", len(sample), c.pairJ+1)
	}
	if sample[c.pairI] < sample[c.pairJ] {
		return c.classWhenLess, nil
	}
	return 1 - c.classWhenLess, nil
}
