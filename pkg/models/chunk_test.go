package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validChunk(t *testing.T) *Chunk {
	t.Helper()
	vec, err := NewEmbeddingVector(make([]float32, 384), 384, "test-model")
	require.NoError(t, err)
	return &Chunk{
		ID:         "chunk-1",
		DocumentID: "doc-1",
		DomainID:   "code",
		Content:    "func main() {}",
		Embedding:  vec,
		Position:   0,
		TokenCount: 6,
		Metadata:   map[string]any{"language": "go"},
		CreatedAt:  time.Now().UTC(),
	}
}

func TestChunkValidate(t *testing.T) {
	assert.NoError(t, validChunk(t).Validate())
}

func TestChunkValidate_Invariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Chunk)
		field  string
	}{
		{"empty id", func(c *Chunk) { c.ID = "" }, "id"},
		{"empty document id", func(c *Chunk) { c.DocumentID = "" }, "document_id"},
		{"empty domain id", func(c *Chunk) { c.DomainID = "" }, "domain_id"},
		{"empty content", func(c *Chunk) { c.Content = "" }, "content"},
		{"negative position", func(c *Chunk) { c.Position = -1 }, "position"},
		{"zero token count", func(c *Chunk) { c.TokenCount = 0 }, "token_count"},
		{"negative token count", func(c *Chunk) { c.TokenCount = -3 }, "token_count"},
		{"truncated embedding", func(c *Chunk) { c.Embedding.Values = c.Embedding.Values[:100] }, "embedding"},
		{"zero created at", func(c *Chunk) { c.CreatedAt = time.Time{} }, "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := validChunk(t)
			tt.mutate(chunk)

			err := chunk.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDocumentValidate(t *testing.T) {
	now := time.Now().UTC()
	doc := &Document{
		ID:              "doc-1",
		DomainID:        "docs",
		SourcePath:      "/repo/README.md",
		Content:         "# Readme",
		ContentHash:     "abc123",
		Metadata:        map[string]any{},
		IngestedAt:      now,
		SourceUpdatedAt: now,
	}
	assert.NoError(t, doc.Validate())

	doc.ContentHash = ""
	err := doc.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "content_hash", verr.Field)
}
