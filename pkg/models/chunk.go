package models

import (
	"time"
)

// Chunk is a segmented, embedded unit of a document and the atomic unit
// of retrieval. DomainID is a denormalized copy of the parent document's
// domain so searches scope without a join. Chunks are ordered by
// Position within their document regardless of insertion order.
type Chunk struct {
	ID         ChunkID         `json:"id"`
	DocumentID DocumentID      `json:"document_id"`
	DomainID   DomainID        `json:"domain_id"`
	Content    string          `json:"content"`
	Embedding  EmbeddingVector `json:"embedding"`
	Position   int             `json:"position"`
	TokenCount int             `json:"token_count"`
	Metadata   map[string]any  `json:"metadata"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Validate checks the chunk invariants, including that the embedding's
// declared dimensionality matches its value count.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return newValidationError("id", "must not be empty")
	}
	if c.DocumentID == "" {
		return newValidationError("document_id", "must not be empty")
	}
	if c.DomainID == "" {
		return newValidationError("domain_id", "must not be empty")
	}
	if c.Content == "" {
		return newValidationError("content", "must not be empty")
	}
	if c.Position < 0 {
		return newValidationError("position", "must not be negative, got %d", c.Position)
	}
	if c.TokenCount <= 0 {
		return newValidationError("token_count", "must be positive, got %d", c.TokenCount)
	}
	if len(c.Embedding.Values) != c.Embedding.Dimensions {
		return newValidationError("embedding",
			"expected %d values, got %d", c.Embedding.Dimensions, len(c.Embedding.Values))
	}
	if c.CreatedAt.IsZero() {
		return newValidationError("created_at", "must be set")
	}
	return nil
}
