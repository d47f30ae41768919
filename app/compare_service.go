package app

import (
	"context"
	"log"
	"time"

	"diffexpr/adapters/simulate"
	"diffexpr/adapters/stats/engine"
	"diffexpr/domain/core"
	"diffexpr/domain/score"
	"diffexpr/internal/errors"
	"diffexpr/ports"
)

// CompareService runs the one-shot simulation-and-evaluation pipeline:
// generate synthetic data with known differential features, fit, assemble
// the competing statistics, and build one false-discovery curve per score.
type CompareService struct {
	generator *simulate.Generator
	fitter    ports.ModelFitPort
	policy    engine.DegeneratePolicy
}

// CompareRequest defines the inputs for a deterministic comparison run.
type CompareRequest struct {
	Params simulate.Params `json:"params"`
	RunID  core.RunID      `json:"run_id,omitempty"` // optional, generated if empty
	// Policy overrides the service's degenerate-variance policy for this run.
	Policy engine.DegeneratePolicy `json:"degenerate_policy,omitempty"`
}

// CompareResult contains the complete output of a comparison run.
type CompareResult struct {
	RunID         core.RunID                      `json:"run_id"`
	Params        simulate.Params                 `json:"params"`
	Fingerprint   core.Hash                       `json:"fingerprint"`
	TruePositives int                             `json:"true_positives"`
	Bundles       []score.FeatureStats            `json:"bundles"`
	Curves        map[score.Statistic]score.Curve `json:"curves"`
	CreatedAt     core.Timestamp                  `json:"created_at"`
	RuntimeMs     int64                           `json:"runtime_ms"`
}

// Artifacts wraps the run output in registry envelopes: the full comparison,
// the bundle slice, and one discovery curve per statistic.
func (r *CompareResult) Artifacts() []core.Artifact {
	out := []core.Artifact{
		{ID: core.ID(r.RunID), Kind: core.ArtifactComparison, Payload: r, CreatedAt: r.CreatedAt},
		{ID: core.NewID(), Kind: core.ArtifactFeatureStats, Payload: r.Bundles, CreatedAt: r.CreatedAt},
	}
	for _, stat := range []score.Statistic{score.StatClassicalT, score.StatModeratedT, score.StatLogFC} {
		out = append(out, core.Artifact{
			ID:        core.NewID(),
			Kind:      core.ArtifactDiscoveryCurve,
			Payload:   map[string]interface{}{"statistic": stat, "curve": r.Curves[stat]},
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}

// NewCompareService creates a comparison service with a default
// degenerate-variance policy; requests may override it per run.
func NewCompareService(generator *simulate.Generator, fitter ports.ModelFitPort, defaultPolicy engine.DegeneratePolicy) (*CompareService, error) {
	if !defaultPolicy.Valid() {
		return nil, core.NewInvalidDesignError("unknown degenerate-variance policy: " + string(defaultPolicy))
	}
	return &CompareService{
		generator: generator,
		fitter:    fitter,
		policy:    defaultPolicy,
	}, nil
}

// Run executes the full pipeline. The result is a pure function of the
// request: the fingerprint over the canonical parameters plus the seed
// identifies reruns of the same computation.
func (s *CompareService) Run(ctx context.Context, req CompareRequest) (*CompareResult, error) {
	startTime := time.Now()

	runID := req.RunID
	if runID == "" {
		runID = core.RunID(core.NewID())
	}

	policy := req.Policy
	if policy == "" {
		policy = s.policy
	}
	eng, err := engine.NewStatsEngine(policy)
	if err != nil {
		return nil, err
	}

	p := req.Params
	m, groups, truth, err := s.generator.Generate(p)
	if err != nil {
		return nil, err
	}

	fit, err := s.fitter.Fit(ctx, m, groups)
	if err != nil {
		return nil, errors.Wrapf(err, "model fit failed for run %s", runID)
	}

	bundles, err := eng.AssembleBundles(ctx, m, groups, fit)
	if err != nil {
		return nil, errors.ComputeFailed("bundle assembly", err)
	}

	curves := make(map[score.Statistic]score.Curve, 3)
	for _, stat := range []score.Statistic{score.StatClassicalT, score.StatModeratedT, score.StatLogFC} {
		curve, err := score.CurveForStatistic(bundles, stat, truth)
		if err != nil {
			return nil, err
		}
		curves[stat] = curve
	}

	runtimeMs := time.Since(startTime).Milliseconds()
	log.Printf("[CompareService] run %s: %d features, %d samples, %d differential in %dms",
		runID, p.Features, p.Samples, truth.Positives(), runtimeMs)

	return &CompareResult{
		RunID:         runID,
		Params:        p,
		Fingerprint:   fingerprint(p, policy),
		TruePositives: truth.Positives(),
		Bundles:       bundles,
		Curves:        curves,
		CreatedAt:     core.Now(),
		RuntimeMs:     runtimeMs,
	}, nil
}

func fingerprint(p simulate.Params, policy engine.DegeneratePolicy) core.Hash {
	return core.ComputeRunFingerprint("compare/v1",
		p.Features, p.Samples, p.DiffFraction, p.FoldChange, p.PriorDF, p.PriorScale, p.Seed, policy)
}
