package models

import (
	"fmt"
	"time"
)

// SupportedDimensions lists the embedding widths the domain model accepts.
var SupportedDimensions = []int{384, 768, 1536}

// EmbeddingVector is a dense vector representation of a chunk or query,
// tagged with its dimensionality and the model that produced it.
type EmbeddingVector struct {
	Values     []float32 `json:"values"`
	Dimensions int       `json:"dimensions"`
	ModelName  string    `json:"model_name"`
}

// NewEmbeddingVector builds an EmbeddingVector, rejecting unsupported
// dimensionalities and any disagreement between the declared width and
// the actual value count. The values slice is copied.
func NewEmbeddingVector(values []float32, dimensions int, modelName string) (EmbeddingVector, error) {
	if !dimensionsSupported(dimensions) {
		return EmbeddingVector{}, newValidationError("dimensions",
			"unsupported dimensionality %d, must be one of %v", dimensions, SupportedDimensions)
	}
	if len(values) != dimensions {
		return EmbeddingVector{}, newValidationError("values",
			"expected %d values, got %d", dimensions, len(values))
	}
	if modelName == "" {
		return EmbeddingVector{}, newValidationError("model_name", "must not be empty")
	}
	copied := make([]float32, len(values))
	copy(copied, values)
	return EmbeddingVector{Values: copied, Dimensions: dimensions, ModelName: modelName}, nil
}

func dimensionsSupported(dimensions int) bool {
	for _, d := range SupportedDimensions {
		if d == dimensions {
			return true
		}
	}
	return false
}

// RelevanceScore is a bounded score in [0, 1] representing query relevance.
type RelevanceScore struct {
	Value float64 `json:"value"`
}

// NewRelevanceScore validates the bounds before wrapping the value.
func NewRelevanceScore(value float64) (RelevanceScore, error) {
	if value < 0 || value > 1 {
		return RelevanceScore{}, newValidationError("value",
			"relevance score %g outside [0, 1]", value)
	}
	return RelevanceScore{Value: value}, nil
}

// SourceCitation carries provenance metadata for a recall item.
type SourceCitation struct {
	DocumentID DocumentID `json:"document_id"`
	ChunkID    ChunkID    `json:"chunk_id"`
	DomainID   DomainID   `json:"domain_id"`
	SourcePath string     `json:"source_path"`
	Timestamp  time.Time  `json:"timestamp"`
}

func (c SourceCitation) String() string {
	return fmt.Sprintf("%s (%s)", c.SourcePath, c.ChunkID)
}
