package score

import (
	"fmt"

	"diffexpr/domain/core"
)

// FeatureStats is the per-feature statistic bundle assembled for ranking
// comparison. Derived data: recomputed per run, never mutated in place.
type FeatureStats struct {
	Index      int     `json:"index"`
	ClassicalT float64 `json:"classical_t"`
	ModeratedT float64 `json:"moderated_t"`
	LogFC      float64 `json:"log_fc"`
	PValue     float64 `json:"p_value"`
	// Excluded marks a feature dropped from ranking under the exclude
	// degenerate-variance policy. The classical t is zero-valued; the fit
	// statistics remain for reporting.
	Excluded bool `json:"excluded,omitempty"`
}

// Statistic names the competing ranking scores.
type Statistic string

const (
	StatClassicalT Statistic = "classical_t"
	StatModeratedT Statistic = "moderated_t"
	StatLogFC      Statistic = "log_fc"
)

// Direction declares how a score orders evidence.
type Direction int

const (
	// StrongerHigh ranks larger scores first (|t|, |logFC|).
	StrongerHigh Direction = iota
	// StrongerLow ranks smaller scores first (p-values).
	StrongerLow
)

// Extract pulls one statistic's ranking score out of a bundle slice.
// Absolute magnitudes are used for the t and fold-change statistics so the
// three scores share a "stronger evidence first" convention with StrongerHigh.
func Extract(bundles []FeatureStats, stat Statistic) ([]float64, Direction, error) {
	switch stat {
	case StatClassicalT, StatModeratedT, StatLogFC:
	default:
		return nil, StrongerHigh, fmt.Errorf("%w: %s", core.ErrUnknownScore, stat)
	}

	out := make([]float64, len(bundles))
	for i, b := range bundles {
		switch stat {
		case StatClassicalT:
			out[i] = abs(b.ClassicalT)
		case StatModeratedT:
			out[i] = abs(b.ModeratedT)
		case StatLogFC:
			out[i] = abs(b.LogFC)
		}
	}
	return out, StrongerHigh, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
