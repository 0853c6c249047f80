package storage

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
	"github.com/stretchr/testify/require"

	"github.com/southpawriter02/nornweave/pkg/models"
)

// newTestConn checks a single connection out of a sqlmock-backed pool,
// the shape repositories see inside Pool.WithConn.
func newTestConn(t *testing.T) (*sqlx.Conn, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "sqlmock")
	conn, err := db.Connx(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		_ = db.Close()
	})
	return conn, mock
}

func testEmbedding(t *testing.T, dims int, first float32) models.EmbeddingVector {
	t.Helper()
	values := make([]float32, dims)
	values[0] = first
	vec, err := models.NewEmbeddingVector(values, dims, "test-model")
	require.NoError(t, err)
	return vec
}

func storeEmbedding(t *testing.T, first float32) models.EmbeddingVector {
	t.Helper()
	return testEmbedding(t, StoreVectorDimensions, first)
}

// vecLiteral renders a vector the way the driver returns the embedding
// column, for use in mocked result rows.
func vecLiteral(values []float32) string {
	return pgvector.NewVector(values).String()
}

func testDocument(id string) *models.Document {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.Document{
		ID:              models.DocumentID(id),
		DomainID:        "code",
		SourcePath:      "/repo/pkg/payments/service.go",
		Content:         "package payments",
		ContentHash:     "h-" + id,
		Metadata:        map[string]any{"language": "go"},
		IngestedAt:      now,
		SourceUpdatedAt: now.Add(-time.Hour),
	}
}

func testChunk(t *testing.T, id string, position int) *models.Chunk {
	t.Helper()
	return &models.Chunk{
		ID:         models.ChunkID(id),
		DocumentID: "doc-1",
		DomainID:   "code",
		Content:    "func Charge() error { return nil }",
		Embedding:  storeEmbedding(t, float32(position)+1),
		Position:   position,
		TokenCount: 9,
		Metadata:   map[string]any{"symbol": "Charge"},
		CreatedAt:  time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}
