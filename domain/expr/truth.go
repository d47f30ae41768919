package expr

import (
	"diffexpr/domain/core"
)

// GroundTruth marks which feature rows received a true mean shift at
// generation time, one 0/1 flag per feature. Set once by the generator,
// immutable afterward.
type GroundTruth []int

// Positives returns the number of truly differential features.
func (t GroundTruth) Positives() int {
	n := 0
	for _, v := range t {
		if v != 0 {
			n++
		}
	}
	return n
}

// Negatives returns the number of non-differential features.
func (t GroundTruth) Negatives() int {
	return len(t) - t.Positives()
}

// Validate checks the label sequence against a feature count.
func (t GroundTruth) Validate(features int) error {
	if len(t) != features {
		return core.NewDimensionMismatchError("ground_truth", len(t), features)
	}
	for _, v := range t {
		if v != 0 && v != 1 {
			return core.NewInvalidDesignError("ground truth labels must be 0 or 1")
		}
	}
	return nil
}
