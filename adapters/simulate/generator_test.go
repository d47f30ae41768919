package simulate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diffexpr/domain/core"
	"diffexpr/internal/rng"
)

func testParams() Params {
	return Params{
		Features:     100,
		Samples:      6,
		DiffFraction: 0.1,
		FoldChange:   2.0,
		PriorDF:      4.0,
		PriorScale:   0.5,
		Seed:         42,
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	g := NewGenerator(rng.NewAdapter())
	p := testParams()

	m1, groups1, truth1, err := g.Generate(p)
	require.NoError(t, err)
	m2, groups2, truth2, err := g.Generate(p)
	require.NoError(t, err)

	assert.Equal(t, m1.Data, m2.Data, "same seed must reproduce identical matrices")
	assert.Equal(t, groups1, groups2)
	assert.Equal(t, truth1, truth2)
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	g := NewGenerator(rng.NewAdapter())
	p := testParams()

	m1, _, _, err := g.Generate(p)
	require.NoError(t, err)

	p.Seed = 43
	m2, _, _, err := g.Generate(p)
	require.NoError(t, err)

	assert.NotEqual(t, m1.Data, m2.Data)
}

func TestGenerate_LabelCardinality(t *testing.T) {
	g := NewGenerator(rng.NewAdapter())

	tests := []struct {
		features int
		fraction float64
		want     int
	}{
		{100, 0.1, 10},
		{100, 0.0, 0},
		{101, 0.1, 10}, // floor(10.1)
		{100, 1.0, 100},
		{7, 0.5, 3}, // floor(3.5)
	}
	for _, tt := range tests {
		p := testParams()
		p.Features = tt.features
		p.DiffFraction = tt.fraction

		_, _, truth, err := g.Generate(p)
		require.NoError(t, err)
		assert.Equal(t, tt.want, truth.Positives(), "features=%d fraction=%g", tt.features, tt.fraction)

		// Differential rows are the leading block.
		for i, label := range truth {
			if i < tt.want {
				assert.Equal(t, 1, label)
			} else {
				assert.Equal(t, 0, label)
			}
		}
	}
}

func TestGenerate_OutputIsValidAndFinite(t *testing.T) {
	g := NewGenerator(rng.NewAdapter())
	m, groups, truth, err := g.Generate(testParams())
	require.NoError(t, err)

	require.NoError(t, m.Validate())
	require.NoError(t, groups.Validate(m.Samples()))
	require.NoError(t, truth.Validate(m.Features()))
}

func TestGenerate_ShiftAppliedToSecondGroup(t *testing.T) {
	g := NewGenerator(rng.NewAdapter())
	p := testParams()
	p.Features = 200
	p.FoldChange = 50 // dwarf the noise so group means must separate

	m, groups, truth, err := g.Generate(p)
	require.NoError(t, err)

	for i := 0; i < m.Features(); i++ {
		g0, g1 := groups.Split(m.Row(i))
		gap := math.Abs(mean(g1) - mean(g0))
		if truth[i] == 1 {
			assert.Greater(t, gap, 25.0, "feature %d should carry the injected shift", i)
		} else {
			assert.Less(t, gap, 25.0, "feature %d should not carry a shift", i)
		}
	}
}

func TestGenerate_ValidatesParams(t *testing.T) {
	g := NewGenerator(rng.NewAdapter())

	p := testParams()
	p.Features = 0
	_, _, _, err := g.Generate(p)
	assert.ErrorIs(t, err, core.ErrInvalidDesign)

	p = testParams()
	p.Samples = 5
	_, _, _, err = g.Generate(p)
	assert.ErrorIs(t, err, core.ErrOddSampleCount)

	p = testParams()
	p.DiffFraction = 1.5
	_, _, _, err = g.Generate(p)
	assert.ErrorIs(t, err, core.ErrInvalidDesign)

	p = testParams()
	p.PriorDF = 0
	_, _, _, err = g.Generate(p)
	assert.ErrorIs(t, err, core.ErrInvalidDesign)
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
