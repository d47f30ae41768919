package score

import (
	"sort"

	"diffexpr/domain/core"
)

// Point is one step of a false-discovery curve: after selecting the top K
// ranked features, FalseCount of them carry a negative ground-truth label.
type Point struct {
	K          int `json:"k"`
	FalseCount int `json:"false_count"`
}

// Curve is the ordered false-discovery sequence for one ranking statistic.
// Immutable once produced; curves for different statistics share the K axis
// and are directly comparable when built against the same ground truth.
type Curve []Point

// FinalFalseCount returns the terminal false-discovery count, which equals
// the total number of negative-label features.
func (c Curve) FinalFalseCount() int {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].FalseCount
}

// Rank returns feature indices ordered by decreasing evidence strength.
// Ties are broken by ascending original index so rankings are deterministic
// across runs.
func Rank(scores []float64, dir Direction) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if scores[i] == scores[j] {
			return i < j
		}
		if dir == StrongerLow {
			return scores[i] < scores[j]
		}
		return scores[i] > scores[j]
	})
	return order
}

// CurveForStatistic builds the false-discovery curve for one statistic over a
// bundle slice, skipping features excluded from ranking. Truth is indexed by
// bundle position; excluded features contribute to neither axis of the curve.
func CurveForStatistic(bundles []FeatureStats, stat Statistic, truth []int) (Curve, error) {
	if len(truth) != len(bundles) {
		return nil, core.NewDimensionMismatchError("ground_truth", len(truth), len(bundles))
	}
	kept := make([]FeatureStats, 0, len(bundles))
	keptTruth := make([]int, 0, len(bundles))
	for i, b := range bundles {
		if b.Excluded {
			continue
		}
		kept = append(kept, b)
		keptTruth = append(keptTruth, truth[i])
	}
	scores, dir, err := Extract(kept, stat)
	if err != nil {
		return nil, err
	}
	return FalseDiscoveryCurve(scores, dir, keptTruth)
}

// FalseDiscoveryCurve ranks features by the given scores and counts, for each
// prefix length k, how many of the top-k features are false positives
// (ground truth 0). This reproduces selection-based counting over a fixed
// ranking, not a calibrated FDR estimate.
func FalseDiscoveryCurve(scores []float64, dir Direction, truth []int) (Curve, error) {
	if len(truth) != len(scores) {
		return nil, core.NewDimensionMismatchError("ground_truth", len(truth), len(scores))
	}
	order := Rank(scores, dir)
	curve := make(Curve, len(order))
	falseCount := 0
	for k, idx := range order {
		if truth[idx] == 0 {
			falseCount++
		}
		curve[k] = Point{K: k + 1, FalseCount: falseCount}
	}
	return curve, nil
}
