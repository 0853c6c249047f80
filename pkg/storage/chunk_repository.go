package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/southpawriter02/nornweave/pkg/models"
)

const chunkColumns = `id, document_id, domain_id, content, embedding, embedding_dimensions, embedding_model_name, position, token_count, metadata, created_at`

// SearchOptions tune a similarity search. Zero values mean defaults:
// ten results, no similarity floor.
type SearchOptions struct {
	TopK          int
	MinSimilarity float64
}

// DefaultTopK is the result count used when SearchOptions leaves TopK unset.
const DefaultTopK = 10

// SimilarChunk pairs a chunk with its cosine similarity to the query
// vector. Similarity is 1 - cosine distance, so it ranges [-1, 1].
type SimilarChunk struct {
	Chunk      *models.Chunk
	Similarity float64
}

// ChunkRepository persists chunks over one scoped connection. Obtain an
// instance inside Pool.WithConn; do not hold it across scopes.
type ChunkRepository struct {
	conn *sqlx.Conn
}

// NewChunkRepository binds a repository to a checked-out connection.
func NewChunkRepository(conn *sqlx.Conn) *ChunkRepository {
	return &ChunkRepository{conn: conn}
}

// BulkCreate inserts a batch of chunks in one transaction: either the
// whole batch becomes visible or none of it does, and a failure names
// the chunk that caused it. Empty input returns an empty slice without
// touching the store.
func (r *ChunkRepository) BulkCreate(ctx context.Context, chunks []*models.Chunk) ([]*models.Chunk, error) {
	if len(chunks) == 0 {
		return []*models.Chunk{}, nil
	}

	// Reject the whole batch before any SQL: invariants and the store's
	// fixed embedding width are validation failures, not SQL errors.
	for _, chunk := range chunks {
		if err := chunk.Validate(); err != nil {
			return nil, err
		}
		if chunk.Embedding.Dimensions != StoreVectorDimensions {
			return nil, &models.ValidationError{
				Field: "embedding",
				Message: fmt.Sprintf("chunk %s: store requires %d-dimension embeddings, got %d",
					chunk.ID, StoreVectorDimensions, chunk.Embedding.Dimensions),
			}
		}
	}

	tx, err := r.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, &ConnectionError{Op: "begin bulk insert", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO chunks (` + chunkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + chunkColumns

	inserted := make([]*models.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		row, err := chunkToRow(chunk)
		if err != nil {
			return nil, err
		}

		var result chunkRow
		err = tx.GetContext(ctx, &result, query,
			row.ID, row.DocumentID, row.DomainID, row.Content,
			row.Embedding, row.EmbeddingDimensions, row.EmbeddingModelName,
			row.Position, row.TokenCount, row.Metadata, row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert chunk %s: %w", chunk.ID, mapChunkInsertError(err))
		}

		out, err := chunkFromRow(&result)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, out)
	}

	if err := tx.Commit(); err != nil {
		return nil, &ConnectionError{Op: "commit bulk insert", Err: err}
	}
	return inserted, nil
}

// GetByID fetches a chunk by id, failing with a ChunkNotFoundError when
// absent.
func (r *ChunkRepository) GetByID(ctx context.Context, id models.ChunkID) (*models.Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks WHERE id = $1`

	var row chunkRow
	err := r.conn.GetContext(ctx, &row, query, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ChunkNotFoundError{ChunkID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get chunk %s: %w", id, err)
	}
	return chunkFromRow(&row)
}

// GetByDocumentID returns a document's chunks ordered by position
// ascending, regardless of insertion order. A document with no chunks
// yields an empty slice.
func (r *ChunkRepository) GetByDocumentID(ctx context.Context, documentID models.DocumentID) ([]*models.Chunk, error) {
	query := `SELECT ` + chunkColumns + ` FROM chunks
		WHERE document_id = $1 ORDER BY position ASC`

	var rows []chunkRow
	if err := r.conn.SelectContext(ctx, &rows, query, string(documentID)); err != nil {
		return nil, fmt.Errorf("get chunks for document %s: %w", documentID, err)
	}

	chunks := make([]*models.Chunk, 0, len(rows))
	for i := range rows {
		chunk, err := chunkFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// SearchSimilar finds the chunks nearest to the query vector by cosine
// distance, scoped to one domain. Candidates below MinSimilarity are
// excluded; results are ordered by descending similarity and truncated
// to TopK. Ties break by store row order, which callers must not assume
// stable.
func (r *ChunkRepository) SearchSimilar(ctx context.Context, domainID models.DomainID, query models.EmbeddingVector, opts *SearchOptions) ([]SimilarChunk, error) {
	if len(query.Values) != query.Dimensions {
		return nil, &models.ValidationError{
			Field:   "query",
			Message: fmt.Sprintf("expected %d values, got %d", query.Dimensions, len(query.Values)),
		}
	}
	if query.Dimensions != StoreVectorDimensions {
		return nil, &models.ValidationError{
			Field: "query",
			Message: fmt.Sprintf("store requires %d dimensions, got %d",
				StoreVectorDimensions, query.Dimensions),
		}
	}

	topK := DefaultTopK
	minSimilarity := 0.0
	if opts != nil {
		if opts.TopK > 0 {
			topK = opts.TopK
		}
		minSimilarity = opts.MinSimilarity
	}

	// Cosine distance via <=> is in [0, 2]; similarity = 1 - distance.
	sqlQuery := `SELECT ` + chunkColumns + `, 1 - (embedding <=> $1) AS similarity
		FROM chunks
		WHERE domain_id = $2
		  AND 1 - (embedding <=> $1) >= $3
		ORDER BY embedding <=> $1
		LIMIT $4`

	var rows []struct {
		chunkRow
		Similarity float64 `db:"similarity"`
	}
	err := r.conn.SelectContext(ctx, &rows, sqlQuery,
		pgvector.NewVector(query.Values), string(domainID), minSimilarity, topK)
	if err != nil {
		return nil, fmt.Errorf("search chunks in %s: %w", domainID, err)
	}

	results := make([]SimilarChunk, 0, len(rows))
	for i := range rows {
		chunk, err := chunkFromRow(&rows[i].chunkRow)
		if err != nil {
			return nil, err
		}
		results = append(results, SimilarChunk{Chunk: chunk, Similarity: rows[i].Similarity})
	}
	return results, nil
}

// DeleteByDocumentID removes all chunks belonging to a document and
// returns the number deleted; zero is a normal outcome.
func (r *ChunkRepository) DeleteByDocumentID(ctx context.Context, documentID models.DocumentID) (int64, error) {
	result, err := r.conn.ExecContext(ctx,
		`DELETE FROM chunks WHERE document_id = $1`, string(documentID))
	if err != nil {
		return 0, fmt.Errorf("delete chunks for document %s: %w", documentID, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete chunks for document %s: %w", documentID, err)
	}
	return deleted, nil
}

// CountByDomain returns the number of chunks in a domain, zero for
// unknown domains.
func (r *ChunkRepository) CountByDomain(ctx context.Context, domainID models.DomainID) (int64, error) {
	var count int64
	err := r.conn.GetContext(ctx, &count,
		`SELECT count(*) FROM chunks WHERE domain_id = $1`, string(domainID))
	if err != nil {
		return 0, fmt.Errorf("count chunks in %s: %w", domainID, err)
	}
	return count, nil
}
