package app

import (
	"context"
	"log"
	"time"

	"diffexpr/adapters/classify"
	"diffexpr/domain/core"
	"diffexpr/internal/errors"
	"diffexpr/ports"
)

// ClassifyService evaluates a classifier on an expression dataset by seeded
// resampling. It never searches hyperparameters; callers pick the classifier
// and its settings, the service only estimates accuracy.
type ClassifyService struct {
	reader    ports.DatasetReaderPort
	resampler *classify.Resampler
}

// ResampleMethod selects the accuracy-estimation procedure.
type ResampleMethod string

const (
	MethodCrossValidation ResampleMethod = "cv"
	MethodBootstrap       ResampleMethod = "bootstrap"
)

// ClassifyRequest defines one classifier evaluation.
type ClassifyRequest struct {
	DatasetPath string         `json:"dataset_path"`
	Classifier  string         `json:"classifier"` // "knn" or "tsp"
	Neighbors   int            `json:"neighbors,omitempty"`
	Method      ResampleMethod `json:"method"`
	Folds       int            `json:"folds,omitempty"`
	Rounds      int            `json:"rounds,omitempty"`
	Seed        int64          `json:"seed"`
}

// ClassifyResult is the accuracy artifact for one evaluation.
type ClassifyResult struct {
	RunID      core.RunID     `json:"run_id"`
	Classifier string         `json:"classifier"`
	Method     ResampleMethod `json:"method"`
	Accuracy   float64        `json:"accuracy"`
	Samples    int            `json:"samples"`
	Features   int            `json:"features"`
	CreatedAt  core.Timestamp `json:"created_at"`
	RuntimeMs  int64          `json:"runtime_ms"`
}

// Artifact wraps the result in a registry envelope.
func (r *ClassifyResult) Artifact() core.Artifact {
	return core.Artifact{
		ID:        core.ID(r.RunID),
		Kind:      core.ArtifactAccuracy,
		Payload:   r,
		CreatedAt: r.CreatedAt,
	}
}

// NewClassifyService creates a classification evaluation service.
func NewClassifyService(reader ports.DatasetReaderPort, resampler *classify.Resampler) *ClassifyService {
	return &ClassifyService{reader: reader, resampler: resampler}
}

// Run loads the dataset, builds the requested classifier, and estimates its
// accuracy with the requested resampling method.
func (s *ClassifyService) Run(ctx context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	startTime := time.Now()

	m, labels, err := s.reader.Read(req.DatasetPath)
	if err != nil {
		return nil, errors.DatasetInvalid("failed to load "+req.DatasetPath, err)
	}

	factory, err := classifierFactory(req)
	if err != nil {
		return nil, err
	}

	samples := classify.SamplesFromMatrix(m)

	var accuracy float64
	switch req.Method {
	case MethodCrossValidation:
		folds := req.Folds
		if folds == 0 {
			folds = 5
		}
		accuracy, err = s.resampler.CrossValidate(ctx, factory, samples, labels, folds, req.Seed)
	case MethodBootstrap:
		rounds := req.Rounds
		if rounds == 0 {
			rounds = 100
		}
		accuracy, err = s.resampler.Bootstrap(ctx, factory, samples, labels, rounds, req.Seed)
	default:
		return nil, core.NewInvalidDesignError("unknown resample method: " + string(req.Method))
	}
	if err != nil {
		return nil, err
	}

	runID := core.RunID(core.NewID())
	runtimeMs := time.Since(startTime).Milliseconds()
	log.Printf("[ClassifyService] run %s: %s/%s accuracy %.3f over %d samples in %dms",
		runID, req.Classifier, req.Method, accuracy, len(samples), runtimeMs)

	return &ClassifyResult{
		RunID:      runID,
		Classifier: req.Classifier,
		Method:     req.Method,
		Accuracy:   accuracy,
		Samples:    m.Samples(),
		Features:   m.Features(),
		CreatedAt:  core.Now(),
		RuntimeMs:  runtimeMs,
	}, nil
}

func classifierFactory(req ClassifyRequest) (classify.Factory, error) {
	switch req.Classifier {
	case "knn":
		k := req.Neighbors
		if k == 0 {
			k = 3
		}
		return func() ports.Classifier { return classify.NewKNN(k) }, nil
	case "tsp":
		return func() ports.Classifier { return classify.NewTSP() }, nil
	default:
		return nil, core.NewInvalidDesignError("unknown classifier: " + req.Classifier)
	}
}
