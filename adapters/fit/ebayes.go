// Package fit is the in-process implementation of ports.ModelFitPort: a
// per-feature least-squares fit against the two-column design (intercept +
// group indicator) followed by empirical-Bayes shrinkage of the residual
// variances toward a common prior. It stands in for an external
// linear-model collaborator behind the same port.
package fit

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"diffexpr/domain/expr"
	"diffexpr/ports"
)

// Options configures the moderation prior. A zero PriorDF requests
// method-of-moments estimation of the prior from the observed residual
// variances; otherwise the supplied (PriorDF, PriorVar) pair is used as-is.
type Options struct {
	PriorDF  float64
	PriorVar float64
}

// Adapter implements ports.ModelFitPort.
type Adapter struct {
	opts Options
}

// NewAdapter creates a fitting adapter.
func NewAdapter(opts Options) *Adapter {
	return &Adapter{opts: opts}
}

// Fit runs the per-feature two-group fit and variance moderation.
// For the intercept + group-indicator design the coefficient is the
// group-mean difference, its unscaled standard error is sqrt(1/n0 + 1/n1),
// and the residual variance is the pooled within-group variance on n-2
// degrees of freedom.
func (a *Adapter) Fit(ctx context.Context, m *expr.Matrix, groups expr.GroupAssignment) (*ports.FitResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := groups.ValidateForVariance(m.Samples()); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n0, n1 := groups.Counts()
	features := m.Features()
	df := float64(n0+n1) - 2
	stdevUnscaled := math.Sqrt(1/float64(n0) + 1/float64(n1))

	result := &ports.FitResult{
		Coef:          make([]float64, features),
		StdevUnscaled: make([]float64, features),
		Sigma2:        make([]float64, features),
		ResidualDF:    df,
		PosteriorVar:  make([]float64, features),
		ModeratedT:    make([]float64, features),
		PValue:        make([]float64, features),
	}

	for i := 0; i < features; i++ {
		g0, g1 := groups.Split(m.Row(i))
		mean0, _ := stats.Mean(g0)
		mean1, _ := stats.Mean(g1)
		var0, _ := stats.SampleVariance(g0)
		var1, _ := stats.SampleVariance(g1)

		result.Coef[i] = mean1 - mean0
		result.StdevUnscaled[i] = stdevUnscaled
		result.Sigma2[i] = (float64(n0-1)*var0 + float64(n1-1)*var1) / df
	}

	priorDF, priorVar := a.opts.PriorDF, a.opts.PriorVar
	if priorDF <= 0 {
		priorDF, priorVar = estimatePrior(result.Sigma2)
	}
	result.PriorDF = priorDF
	result.PriorVar = priorVar
	result.DFTotal = df + priorDF

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: result.DFTotal}
	for i := 0; i < features; i++ {
		// Variance squeeze toward the prior: the posterior is a
		// df-weighted blend of the prior and the observed residual variance.
		post := (priorDF*priorVar + df*result.Sigma2[i]) / (priorDF + df)
		result.PosteriorVar[i] = post
		result.ModeratedT[i] = result.Coef[i] / (stdevUnscaled * math.Sqrt(post))
		result.PValue[i] = 2 * (1 - tDist.CDF(math.Abs(result.ModeratedT[i])))
	}

	return result, nil
}

// estimatePrior fits (d0, s0^2) by matching the first two moments of the
// observed residual variances to a scaled inverse chi-square distribution:
// Var/E^2 = 2/(d0-4), s0^2 = E*(d0-2)/d0. When the variances are nearly
// homogeneous the moment ratio degenerates, so d0 is capped to keep the
// squeeze finite.
func estimatePrior(sigma2 []float64) (priorDF, priorVar float64) {
	const maxPriorDF = 100.0

	mean, _ := stats.Mean(sigma2)
	variance, _ := stats.SampleVariance(sigma2)

	if mean <= 0 {
		return maxPriorDF, math.SmallestNonzeroFloat64
	}
	if variance <= 0 {
		return maxPriorDF, mean
	}

	priorDF = 4 + 2*mean*mean/variance
	if priorDF > maxPriorDF {
		priorDF = maxPriorDF
	}
	priorVar = mean * (priorDF - 2) / priorDF
	return priorDF, priorVar
}
