// Package engine computes the competing per-feature ranking statistics:
// the classical unpooled-variance t-statistic directly from the data matrix,
// and the bundle assembly that joins it with the fitting adapter's moderated
// t and log fold change.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"diffexpr/domain/core"
	"diffexpr/domain/expr"
	"diffexpr/domain/score"
	"diffexpr/ports"
)

// DegeneratePolicy decides what happens when a feature has a zero
// within-group variance. There is no silent default: the engine constructor
// takes the policy explicitly so a NaN can never leak into a ranking.
type DegeneratePolicy string

const (
	// DegenerateFail fails the whole bundle assembly with the feature index.
	DegenerateFail DegeneratePolicy = "fail"
	// DegenerateInfinite treats the statistic as +/- infinity, ranking the
	// feature ahead of every finite score.
	DegenerateInfinite DegeneratePolicy = "infinite"
	// DegenerateExclude drops the feature from every ranking and marks its
	// bundle. The fit statistics stay on the bundle for reporting; only the
	// classical t is undefined.
	DegenerateExclude DegeneratePolicy = "exclude"
)

// Valid reports whether the policy is one of the declared values.
func (p DegeneratePolicy) Valid() bool {
	switch p {
	case DegenerateFail, DegenerateInfinite, DegenerateExclude:
		return true
	}
	return false
}

// StatsEngine provides the statistic comparison computations.
type StatsEngine struct {
	policy DegeneratePolicy
}

// NewStatsEngine creates an engine with an explicit degenerate-variance policy.
func NewStatsEngine(policy DegeneratePolicy) (*StatsEngine, error) {
	if !policy.Valid() {
		return nil, core.NewInvalidDesignError("unknown degenerate-variance policy: " + string(policy))
	}
	return &StatsEngine{policy: policy}, nil
}

// ClassicalT computes the two-sample t-statistic for one feature row with
// unequal variances (Welch's formulation): difference of group means over
// the square root of the summed variance-over-count terms.
func (e *StatsEngine) ClassicalT(row []float64, groups expr.GroupAssignment) (float64, error) {
	if len(groups) != len(row) {
		return 0, core.NewDimensionMismatchError("group_assignment", len(groups), len(row))
	}
	g0, g1 := groups.Split(row)
	if len(g0) < 2 || len(g1) < 2 {
		return 0, core.NewInvalidDesignError("each group needs at least 2 samples")
	}

	mean0, _ := stats.Mean(g0)
	mean1, _ := stats.Mean(g1)
	var0, _ := stats.SampleVariance(g0)
	var1, _ := stats.SampleVariance(g1)

	if var0 == 0 {
		return 0, core.NewDegenerateVarianceError(0)
	}
	if var1 == 0 {
		return 0, core.NewDegenerateVarianceError(1)
	}

	se := math.Sqrt(var0/float64(len(g0)) + var1/float64(len(g1)))
	return (mean1 - mean0) / se, nil
}

// AssembleBundles joins the classical t-statistic (computed here, directly
// from the matrix) with the moderated t, p-value and log fold change from
// the fitting adapter, one bundle per feature. Features are scored in
// parallel; there is no shared mutable state, each feature writes only its
// own output slot.
func (e *StatsEngine) AssembleBundles(ctx context.Context, m *expr.Matrix, groups expr.GroupAssignment, fit *ports.FitResult) ([]score.FeatureStats, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := groups.ValidateForVariance(m.Samples()); err != nil {
		return nil, err
	}
	if fit.Features() != m.Features() {
		return nil, core.NewDimensionMismatchError("fit_result", fit.Features(), m.Features())
	}

	bundles := make([]score.FeatureStats, m.Features())

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < m.Features(); i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := e.scoreFeature(i, m.Row(i), groups, fit)
			if err != nil {
				return err
			}
			bundles[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundles, nil
}

func (e *StatsEngine) scoreFeature(i int, row []float64, groups expr.GroupAssignment, fit *ports.FitResult) (score.FeatureStats, error) {
	t, err := e.ClassicalT(row, groups)
	if err != nil {
		if !errors.Is(err, core.ErrDegenerateVariance) {
			return score.FeatureStats{}, err
		}
		switch e.policy {
		case DegenerateFail:
			return score.FeatureStats{}, fmt.Errorf("feature %d: %w", i, err)
		case DegenerateExclude:
			return score.FeatureStats{
				Index:      i,
				ModeratedT: fit.ModeratedT[i],
				LogFC:      fit.Coef[i],
				PValue:     fit.PValue[i],
				Excluded:   true,
			}, nil
		case DegenerateInfinite:
			t = math.Inf(sign(fit.Coef[i]))
		}
	}

	return score.FeatureStats{
		Index:      i,
		ClassicalT: t,
		ModeratedT: fit.ModeratedT[i],
		LogFC:      fit.Coef[i],
		PValue:     fit.PValue[i],
	}, nil
}

func sign(x float64) int {
	if x < 0 {
		return -1
	}
	return 1
}
