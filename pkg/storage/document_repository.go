package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/southpawriter02/nornweave/pkg/models"
)

const documentColumns = `id, domain_id, source_path, content, content_hash, metadata, ingested_at, source_updated_at`

// defaultListLimit caps ListByDomain when the caller passes no limit.
const defaultListLimit = 100

// DocumentRepository persists documents over one scoped connection.
// Obtain an instance inside Pool.WithConn; do not hold it across scopes.
type DocumentRepository struct {
	conn *sqlx.Conn
}

// NewDocumentRepository binds a repository to a checked-out connection.
func NewDocumentRepository(conn *sqlx.Conn) *DocumentRepository {
	return &DocumentRepository{conn: conn}
}

// Create inserts a new document. A collision on (domain_id,
// content_hash) fails with a DuplicateDocumentError; existing rows are
// never overwritten.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	row, err := documentToRow(doc)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + documentColumns

	var inserted documentRow
	err = r.conn.GetContext(ctx, &inserted, query,
		row.ID, row.DomainID, row.SourcePath, row.Content,
		row.ContentHash, row.Metadata, row.IngestedAt, row.SourceUpdatedAt,
	)
	if err != nil {
		if mapped := mapDocumentInsertError(err, doc); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("insert document %s: %w", doc.ID, err)
	}
	return documentFromRow(&inserted)
}

// GetByID fetches a document by id, failing with a
// DocumentNotFoundError when absent.
func (r *DocumentRepository) GetByID(ctx context.Context, id models.DocumentID) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	var row documentRow
	err := r.conn.GetContext(ctx, &row, query, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &DocumentNotFoundError{DocumentID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return documentFromRow(&row)
}

// GetByContentHash looks a document up by its dedup key. Absence is a
// normal outcome and returns (nil, nil).
func (r *DocumentRepository) GetByContentHash(ctx context.Context, domainID models.DomainID, contentHash string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE domain_id = $1 AND content_hash = $2`

	var row documentRow
	err := r.conn.GetContext(ctx, &row, query, string(domainID), contentHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document by content hash in %s: %w", domainID, err)
	}
	return documentFromRow(&row)
}

// ListByDomain returns documents in a domain ordered by ingestion time,
// most recent first. An empty domain yields an empty slice.
func (r *DocumentRepository) ListByDomain(ctx context.Context, domainID models.DomainID, limit, offset int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + documentColumns + ` FROM documents
		WHERE domain_id = $1 ORDER BY ingested_at DESC LIMIT $2 OFFSET $3`

	var rows []documentRow
	if err := r.conn.SelectContext(ctx, &rows, query, string(domainID), limit, offset); err != nil {
		return nil, fmt.Errorf("list documents in %s: %w", domainID, err)
	}

	docs := make([]*models.Document, 0, len(rows))
	for i := range rows {
		doc, err := documentFromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// Update performs a full-row replace by id, failing with a
// DocumentNotFoundError when the id does not exist. Field-level partial
// updates are not supported at this layer.
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) (*models.Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	row, err := documentToRow(doc)
	if err != nil {
		return nil, err
	}

	query := `UPDATE documents SET
			domain_id = $2, source_path = $3, content = $4, content_hash = $5,
			metadata = $6, ingested_at = $7, source_updated_at = $8
		WHERE id = $1
		RETURNING ` + documentColumns

	var updated documentRow
	err = r.conn.GetContext(ctx, &updated, query,
		row.ID, row.DomainID, row.SourcePath, row.Content,
		row.ContentHash, row.Metadata, row.IngestedAt, row.SourceUpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &DocumentNotFoundError{DocumentID: doc.ID}
	}
	if err != nil {
		if mapped := mapDocumentInsertError(err, doc); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("update document %s: %w", doc.ID, err)
	}
	return documentFromRow(&updated)
}

// Delete removes a document; the store's ON DELETE CASCADE removes its
// chunks atomically. Fails with a DocumentNotFoundError when absent.
func (r *DocumentRepository) Delete(ctx context.Context, id models.DocumentID) error {
	var deleted string
	err := r.conn.GetContext(ctx, &deleted,
		`DELETE FROM documents WHERE id = $1 RETURNING id`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return &DocumentNotFoundError{DocumentID: id}
	}
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// CountByDomain returns the number of documents in a domain, zero for
// unknown domains.
func (r *DocumentRepository) CountByDomain(ctx context.Context, domainID models.DomainID) (int64, error) {
	var count int64
	err := r.conn.GetContext(ctx, &count,
		`SELECT count(*) FROM documents WHERE domain_id = $1`, string(domainID))
	if err != nil {
		return 0, fmt.Errorf("count documents in %s: %w", domainID, err)
	}
	return count, nil
}

// LastIngestedAt returns the most recent ingestion time in a domain, or
// nil when the domain holds no documents.
func (r *DocumentRepository) LastIngestedAt(ctx context.Context, domainID models.DomainID) (*time.Time, error) {
	var last sql.NullTime
	err := r.conn.GetContext(ctx, &last,
		`SELECT max(ingested_at) FROM documents WHERE domain_id = $1`, string(domainID))
	if err != nil {
		return nil, fmt.Errorf("last ingestion time in %s: %w", domainID, err)
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.Time, nil
}
