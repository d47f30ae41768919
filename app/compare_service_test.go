package app

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffexpr/adapters/fit"
	"diffexpr/adapters/simulate"
	"diffexpr/adapters/stats/engine"
	"diffexpr/domain/core"
	"diffexpr/domain/score"
	"diffexpr/internal/rng"
)

func newCompareService(t *testing.T) *CompareService {
	t.Helper()
	adapter := rng.NewAdapter()
	svc, err := NewCompareService(simulate.NewGenerator(adapter), fit.NewAdapter(fit.Options{}), engine.DegenerateExclude)
	require.NoError(t, err)
	return svc
}

func smallParams(seed int64) simulate.Params {
	return simulate.Params{
		Features:     100,
		Samples:      6,
		DiffFraction: 0.1,
		FoldChange:   2.0,
		PriorDF:      4.0,
		PriorScale:   0.5,
		Seed:         seed,
	}
}

func TestCompareService_RunShape(t *testing.T) {
	svc := newCompareService(t)

	res, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(42)})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 10, res.TruePositives)
	assert.Len(t, res.Bundles, 100)
	require.Len(t, res.Curves, 3)

	for stat, curve := range res.Curves {
		require.Len(t, curve, 100, "curve for %s", stat)
		prev := 0
		for _, pt := range curve {
			assert.GreaterOrEqual(t, pt.FalseCount, prev, "curve for %s must be non-decreasing", stat)
			assert.LessOrEqual(t, pt.FalseCount, pt.K)
			prev = pt.FalseCount
		}
		assert.Equal(t, 90, curve.FinalFalseCount(), "terminal count equals the negative-label total")
	}
}

func TestCompareService_Deterministic(t *testing.T) {
	svc := newCompareService(t)
	req := CompareRequest{Params: smallParams(42), RunID: core.RunID("fixed")}

	a, err := svc.Run(context.Background(), req)
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, a.Bundles, b.Bundles)
	assert.Equal(t, a.Curves, b.Curves)
	assert.Equal(t, a.Fingerprint, b.Fingerprint)
	assert.Equal(t, core.RunID("fixed"), a.RunID)
}

func TestCompareService_FingerprintTracksParams(t *testing.T) {
	svc := newCompareService(t)

	a, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(42)})
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(43)})
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint, "seed is part of the run identity")
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestCompareService_NoDifferentialFeatures(t *testing.T) {
	svc := newCompareService(t)
	p := smallParams(42)
	p.DiffFraction = 0

	res, err := svc.Run(context.Background(), CompareRequest{Params: p})
	require.NoError(t, err)

	assert.Equal(t, 0, res.TruePositives)
	for stat, curve := range res.Curves {
		for _, pt := range curve {
			assert.Equal(t, pt.K, pt.FalseCount, "every selection is false for %s", stat)
		}
	}
}

func TestCompareService_DifferentialFeaturesSeparateByClassicalT(t *testing.T) {
	svc := newCompareService(t)

	// The injected shift of 2 units should lift the average |t| of the 10
	// differential features above the 90 nulls on every reasonable draw;
	// averaging over seeds keeps the assertion away from single-draw noise.
	var diffSum, nullSum float64
	var diffN, nullN int
	for seed := int64(1); seed <= 10; seed++ {
		res, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(seed)})
		require.NoError(t, err)
		require.Equal(t, 10, res.TruePositives)

		// The generator shifts the first DiffFraction*Features rows.
		for i, b := range res.Bundles {
			if i < 10 {
				diffSum += math.Abs(b.ClassicalT)
				diffN++
			} else {
				nullSum += math.Abs(b.ClassicalT)
				nullN++
			}
		}
	}
	assert.Greater(t, diffSum/float64(diffN), nullSum/float64(nullN),
		"differential features must carry larger classical t on average")
}

func TestNewCompareService_RejectsUnknownPolicy(t *testing.T) {
	adapter := rng.NewAdapter()
	_, err := NewCompareService(simulate.NewGenerator(adapter), fit.NewAdapter(fit.Options{}), "bogus")
	assert.ErrorIs(t, err, core.ErrInvalidDesign)
}

func TestCompareService_RequestPolicyOverride(t *testing.T) {
	svc := newCompareService(t)

	_, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(42), Policy: "bogus"})
	assert.ErrorIs(t, err, core.ErrInvalidDesign)
}

func TestCompareService_FingerprintTracksPolicy(t *testing.T) {
	svc := newCompareService(t)

	a, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(42)})
	require.NoError(t, err)
	b, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(42), Policy: engine.DegenerateInfinite})
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint, "policy is part of the run identity")
}

func TestCompareService_StrongSignalRanksPositivesFirst(t *testing.T) {
	svc := newCompareService(t)
	p := smallParams(42)
	p.FoldChange = 10.0

	res, err := svc.Run(context.Background(), CompareRequest{Params: p})
	require.NoError(t, err)

	// With a shift this large the differential features dominate both t
	// rankings; the top-10 selection is nearly pure.
	for _, stat := range []score.Statistic{score.StatClassicalT, score.StatModeratedT} {
		curve := res.Curves[stat]
		assert.LessOrEqual(t, curve[9].FalseCount, 5, "top 10 by %s", stat)
	}
}

// curveArea sums the false counts over every prefix length, a single number
// summarizing how quickly a ranking admits false positives.
func curveArea(c score.Curve) int {
	area := 0
	for _, pt := range c {
		area += pt.FalseCount
	}
	return area
}

func TestCompareService_FoldChangeRankingDegradesUnderHeteroscedasticity(t *testing.T) {
	svc := newCompareService(t)

	// Ranking by raw |log fold change| ignores the per-feature variance, so
	// high-variance null features crowd out modest true shifts. Aggregated
	// over several seeds the fold-change curve accumulates false positives
	// at least as fast as the variance-aware moderated t.
	areaLFC, areaModT := 0, 0
	for seed := int64(1); seed <= 5; seed++ {
		p := simulate.Params{
			Features:     1000,
			Samples:      6,
			DiffFraction: 0.1,
			FoldChange:   2.0,
			PriorDF:      4.0,
			PriorScale:   0.5,
			Seed:         seed,
		}
		res, err := svc.Run(context.Background(), CompareRequest{Params: p})
		require.NoError(t, err)
		areaLFC += curveArea(res.Curves[score.StatLogFC])
		areaModT += curveArea(res.Curves[score.StatModeratedT])
	}
	assert.GreaterOrEqual(t, areaLFC, areaModT)
}

func TestCompareResult_Artifacts(t *testing.T) {
	svc := newCompareService(t)

	res, err := svc.Run(context.Background(), CompareRequest{Params: smallParams(42)})
	require.NoError(t, err)

	artifacts := res.Artifacts()
	require.Len(t, artifacts, 5)

	assert.Equal(t, core.ArtifactComparison, artifacts[0].Kind)
	assert.Equal(t, core.ID(res.RunID), artifacts[0].ID)
	assert.Equal(t, core.ArtifactFeatureStats, artifacts[1].Kind)
	for _, a := range artifacts[2:] {
		assert.Equal(t, core.ArtifactDiscoveryCurve, a.Kind)
		assert.False(t, a.ID.IsEmpty())
	}
}

func TestCompareService_InvalidParams(t *testing.T) {
	svc := newCompareService(t)
	p := smallParams(42)
	p.Samples = 5

	_, err := svc.Run(context.Background(), CompareRequest{Params: p})
	assert.ErrorIs(t, err, core.ErrOddSampleCount)
}
