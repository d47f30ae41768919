package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"diffexpr/adapters/simulate"
	"diffexpr/adapters/stats/engine"
	"diffexpr/app"
	"diffexpr/domain/core"
	"diffexpr/internal/config"
	"diffexpr/internal/errors"
)

// Handler exposes the comparison and classification services over JSON.
type Handler struct {
	compare  *app.CompareService
	classify *app.ClassifyService
	defaults config.SimulateConfig
}

// NewHandler creates an API handler.
func NewHandler(compare *app.CompareService, classify *app.ClassifyService, defaults config.SimulateConfig) *Handler {
	return &Handler{compare: compare, classify: classify, defaults: defaults}
}

// Register mounts the API routes on a gin engine.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.POST("/compare", h.Compare)
	api.POST("/classify", h.Classify)
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// compareParams mirrors simulate.Params with pointer fields so an absent
// field is distinguishable from an explicit zero; diff_fraction 0 and seed 0
// are legitimate requests and must not be rewritten to defaults.
type compareParams struct {
	Features     *int     `json:"features"`
	Samples      *int     `json:"samples"`
	DiffFraction *float64 `json:"diff_fraction"`
	FoldChange   *float64 `json:"fold_change"`
	PriorDF      *float64 `json:"prior_df"`
	PriorScale   *float64 `json:"prior_scale"`
	Seed         *int64   `json:"seed"`
}

type compareRequest struct {
	Params compareParams `json:"params"`
	RunID  string        `json:"run_id"`
	Policy string        `json:"degenerate_policy"`
}

// Compare runs a simulation comparison. Absent request fields fall back to
// the configured defaults so a bare POST runs the standard scenario.
func (h *Handler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.compare.Run(c.Request.Context(), app.CompareRequest{
		Params: h.resolveParams(req.Params),
		RunID:  core.RunID(req.RunID),
		Policy: engine.DegeneratePolicy(req.Policy),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Classify evaluates a classifier on a configured local dataset.
func (h *Handler) Classify(c *gin.Context) {
	var req app.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.classify.Run(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) resolveParams(in compareParams) simulate.Params {
	p := simulate.Params{
		Features:     h.defaults.Features,
		Samples:      h.defaults.Samples,
		DiffFraction: h.defaults.DiffFraction,
		FoldChange:   h.defaults.FoldChange,
		PriorDF:      h.defaults.PriorDF,
		PriorScale:   h.defaults.PriorScale,
		Seed:         h.defaults.Seed,
	}
	if in.Features != nil {
		p.Features = *in.Features
	}
	if in.Samples != nil {
		p.Samples = *in.Samples
	}
	if in.DiffFraction != nil {
		p.DiffFraction = *in.DiffFraction
	}
	if in.FoldChange != nil {
		p.FoldChange = *in.FoldChange
	}
	if in.PriorDF != nil {
		p.PriorDF = *in.PriorDF
	}
	if in.PriorScale != nil {
		p.PriorScale = *in.PriorScale
	}
	if in.Seed != nil {
		p.Seed = *in.Seed
	}
	return p
}

func bindError(c *gin.Context, err error) {
	appErr := errors.InvalidInput("malformed request body: " + err.Error())
	c.JSON(http.StatusBadRequest, gin.H{"error": appErr.Error(), "code": appErr.Code})
}

func serviceError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": codeFor(err)})
}

// statusFor maps domain sentinels and application error codes to HTTP
// statuses: bad request for input-shaped failures, unprocessable for runs
// that were accepted but could not be computed.
func statusFor(err error) int {
	if core.IsDesignError(err) || core.IsDimensionError(err) {
		return http.StatusBadRequest
	}
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeDatasetInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func codeFor(err error) string {
	if core.IsDesignError(err) || core.IsDimensionError(err) {
		return errors.CodeInvalidInput
	}
	if code := errors.GetCode(err); code != "UNKNOWN" {
		return code
	}
	return errors.CodeComputeFailed
}
