package core

import (
	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID      ID
	FeatureKey ID
	ArtifactID ID
)

// String conversions for domain IDs
func (id RunID) String() string      { return ID(id).String() }
func (id FeatureKey) String() string { return ID(id).String() }
func (id ArtifactID) String() string { return ID(id).String() }

// Artifact represents any output of the system
type Artifact struct {
	ID        ID           `json:"id"`
	Kind      ArtifactKind `json:"kind"`
	Payload   interface{}  `json:"payload"`
	CreatedAt Timestamp    `json:"created_at"`
}

// ArtifactKind defines types of artifacts
type ArtifactKind string

const (
	// ArtifactComparison is the full output of a statistic comparison run
	// (feature bundles plus one false-discovery curve per score).
	ArtifactComparison ArtifactKind = "comparison"
	// ArtifactFeatureStats captures the per-feature statistic bundle slice.
	ArtifactFeatureStats ArtifactKind = "feature_stats"
	// ArtifactDiscoveryCurve captures a single ranked false-discovery curve.
	ArtifactDiscoveryCurve ArtifactKind = "discovery_curve"
	// ArtifactAccuracy is the output of a classifier resampling evaluation.
	ArtifactAccuracy ArtifactKind = "accuracy"
)
