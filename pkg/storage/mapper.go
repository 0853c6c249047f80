package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/pgvector/pgvector-go"

	"github.com/southpawriter02/nornweave/pkg/models"
)

// Row types mirror the documents and chunks tables. Mapping is pure in
// both directions; fromRow re-runs the same dimensionality check as
// direct EmbeddingVector construction, so a corrupt row surfaces the
// identical validation failure.

type documentRow struct {
	ID              string         `db:"id"`
	DomainID        string         `db:"domain_id"`
	SourcePath      string         `db:"source_path"`
	Content         string         `db:"content"`
	ContentHash     string         `db:"content_hash"`
	Metadata        types.JSONText `db:"metadata"`
	IngestedAt      time.Time      `db:"ingested_at"`
	SourceUpdatedAt time.Time      `db:"source_updated_at"`
}

type chunkRow struct {
	ID                  string          `db:"id"`
	DocumentID          string          `db:"document_id"`
	DomainID            string          `db:"domain_id"`
	Content             string          `db:"content"`
	Embedding           pgvector.Vector `db:"embedding"`
	EmbeddingDimensions int             `db:"embedding_dimensions"`
	EmbeddingModelName  string          `db:"embedding_model_name"`
	Position            int             `db:"position"`
	TokenCount          int             `db:"token_count"`
	Metadata            types.JSONText  `db:"metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

func documentToRow(doc *models.Document) (*documentRow, error) {
	metadata, err := marshalMetadata(doc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal document %s metadata: %w", doc.ID, err)
	}
	return &documentRow{
		ID:              string(doc.ID),
		DomainID:        string(doc.DomainID),
		SourcePath:      doc.SourcePath,
		Content:         doc.Content,
		ContentHash:     doc.ContentHash,
		Metadata:        metadata,
		IngestedAt:      doc.IngestedAt,
		SourceUpdatedAt: doc.SourceUpdatedAt,
	}, nil
}

func documentFromRow(row *documentRow) (*models.Document, error) {
	metadata, err := unmarshalMetadata(row.Metadata)
	if err != nil {
		return nil, fmt.Errorf("unmarshal document %s metadata: %w", row.ID, err)
	}
	return &models.Document{
		ID:              models.DocumentID(row.ID),
		DomainID:        models.DomainID(row.DomainID),
		SourcePath:      row.SourcePath,
		Content:         row.Content,
		ContentHash:     row.ContentHash,
		Metadata:        metadata,
		IngestedAt:      row.IngestedAt,
		SourceUpdatedAt: row.SourceUpdatedAt,
	}, nil
}

func chunkToRow(chunk *models.Chunk) (*chunkRow, error) {
	metadata, err := marshalMetadata(chunk.Metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal chunk %s metadata: %w", chunk.ID, err)
	}
	return &chunkRow{
		ID:                  string(chunk.ID),
		DocumentID:          string(chunk.DocumentID),
		DomainID:            string(chunk.DomainID),
		Content:             chunk.Content,
		Embedding:           pgvector.NewVector(chunk.Embedding.Values),
		EmbeddingDimensions: chunk.Embedding.Dimensions,
		EmbeddingModelName:  chunk.Embedding.ModelName,
		Position:            chunk.Position,
		TokenCount:          chunk.TokenCount,
		Metadata:            metadata,
		CreatedAt:           chunk.CreatedAt,
	}, nil
}

func chunkFromRow(row *chunkRow) (*models.Chunk, error) {
	embedding, err := models.NewEmbeddingVector(row.Embedding.Slice(), row.EmbeddingDimensions, row.EmbeddingModelName)
	if err != nil {
		return nil, fmt.Errorf("chunk %s embedding: %w", row.ID, err)
	}
	metadata, err := unmarshalMetadata(row.Metadata)
	if err != nil {
		return nil, fmt.Errorf("unmarshal chunk %s metadata: %w", row.ID, err)
	}
	return &models.Chunk{
		ID:         models.ChunkID(row.ID),
		DocumentID: models.DocumentID(row.DocumentID),
		DomainID:   models.DomainID(row.DomainID),
		Content:    row.Content,
		Embedding:  embedding,
		Position:   row.Position,
		TokenCount: row.TokenCount,
		Metadata:   metadata,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func marshalMetadata(metadata map[string]any) (types.JSONText, error) {
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}

func unmarshalMetadata(raw types.JSONText) (map[string]any, error) {
	metadata := map[string]any{}
	if len(raw) == 0 {
		return metadata, nil
	}
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}
