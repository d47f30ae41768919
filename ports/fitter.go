package ports

import (
	"context"
	"math"

	"diffexpr/domain/expr"
)

// ModelFitPort wraps an external linear-model-plus-variance-shrinkage routine.
// The pipeline supplies only the design encoding (intercept + group indicator)
// and consumes per-feature coefficients, standard errors and moderated
// t-statistics; any library implementing per-row least squares with
// empirical-Bayes residual-variance shrinkage satisfies this contract.
type ModelFitPort interface {
	Fit(ctx context.Context, m *expr.Matrix, groups expr.GroupAssignment) (*FitResult, error)
}

// FitResult holds per-feature linear-model outputs, indexed by feature row.
type FitResult struct {
	// Raw fit outputs
	Coef          []float64 `json:"coef"`           // group-difference coefficient (log fold change)
	StdevUnscaled []float64 `json:"stdev_unscaled"` // SE of Coef per unit residual SD
	Sigma2        []float64 `json:"sigma2"`         // raw residual variance estimate
	ResidualDF    float64   `json:"residual_df"`    // residual degrees of freedom (n - 2)

	// Moderation outputs
	PriorDF      float64   `json:"prior_df"`      // d0: prior degrees of freedom
	PriorVar     float64   `json:"prior_var"`     // s0^2: prior variance
	PosteriorVar []float64 `json:"posterior_var"` // shrunk variance per feature
	ModeratedT   []float64 `json:"moderated_t"`   // t with shrunk variance
	DFTotal      float64   `json:"df_total"`      // residual + prior degrees of freedom
	PValue       []float64 `json:"p_value"`       // two-sided, Student-t on DFTotal
}

// Features returns the number of fitted feature rows.
func (r *FitResult) Features() int {
	return len(r.Coef)
}

// OrdinaryT derives the unmoderated t-statistic for one feature from the raw
// fit outputs: coefficient over (unscaled SE x raw residual SD). Under a
// pooled-variance convention this matches the classical two-sample statistic.
func (r *FitResult) OrdinaryT(i int) float64 {
	return r.Coef[i] / (r.StdevUnscaled[i] * math.Sqrt(r.Sigma2[i]))
}
