package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/southpawriter02/nornweave/pkg/models"
)

var documentRowColumns = []string{
	"id", "domain_id", "source_path", "content", "content_hash",
	"metadata", "ingested_at", "source_updated_at",
}

func documentRowValues(doc *models.Document) []driver.Value {
	return []driver.Value{
		string(doc.ID), string(doc.DomainID), doc.SourcePath, doc.Content,
		doc.ContentHash, []byte(`{"language":"go"}`), doc.IngestedAt, doc.SourceUpdatedAt,
	}
}

func TestDocumentRepository_Create(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)
	doc := testDocument("doc-1")

	mock.ExpectQuery(`INSERT INTO documents`).
		WithArgs(
			"doc-1", "code", doc.SourcePath, doc.Content, doc.ContentHash,
			[]byte(`{"language":"go"}`), doc.IngestedAt, doc.SourceUpdatedAt,
		).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).AddRow(documentRowValues(doc)...))

	created, err := repo.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, doc, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_Create_Duplicate(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)
	doc := testDocument("doc-1")

	mock.ExpectQuery(`INSERT INTO documents`).
		WillReturnError(&pq.Error{
			Code:       "23505",
			Constraint: "documents_domain_id_content_hash_key",
		})

	_, err := repo.Create(context.Background(), doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	var dup *DuplicateDocumentError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, models.DomainID("code"), dup.DomainID)
	assert.Equal(t, doc.ContentHash, dup.ContentHash)
}

func TestDocumentRepository_Create_OtherIntegrity(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`INSERT INTO documents`).
		WillReturnError(&pq.Error{Code: "23502", Column: "content"})

	_, err := repo.Create(context.Background(), testDocument("doc-1"))
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.NotErrorIs(t, err, ErrDuplicate)
}

func TestDocumentRepository_Create_InvalidDocument(t *testing.T) {
	conn, _ := newTestConn(t)
	repo := NewDocumentRepository(conn)

	doc := testDocument("doc-1")
	doc.DomainID = ""

	_, err := repo.Create(context.Background(), doc)
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDocumentRepository_GetByID_NotFound(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`SELECT (.+) FROM documents WHERE id`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var nf *DocumentNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, models.DocumentID("missing"), nf.DocumentID)
}

func TestDocumentRepository_GetByContentHash_Absent(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`SELECT (.+) FROM documents\s+WHERE domain_id = \$1 AND content_hash = \$2`).
		WithArgs("code", "h-unknown").
		WillReturnError(sql.ErrNoRows)

	doc, err := repo.GetByContentHash(context.Background(), "code", "h-unknown")
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestDocumentRepository_ListByDomain(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	newer := testDocument("doc-2")
	older := testDocument("doc-1")
	older.IngestedAt = newer.IngestedAt.Add(-time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM documents\s+WHERE domain_id = \$1 ORDER BY ingested_at DESC LIMIT \$2 OFFSET \$3`).
		WithArgs("code", 100, 0).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow(documentRowValues(newer)...).
			AddRow(documentRowValues(older)...))

	docs, err := repo.ListByDomain(context.Background(), "code", 0, 0)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, models.DocumentID("doc-2"), docs[0].ID)
	assert.Equal(t, models.DocumentID("doc-1"), docs[1].ID)
}

func TestDocumentRepository_ListByDomain_Empty(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`SELECT (.+) FROM documents`).
		WithArgs("empty-domain", 25, 50).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))

	docs, err := repo.ListByDomain(context.Background(), "empty-domain", 25, 50)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentRepository_Update_NotFound(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`UPDATE documents SET`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), testDocument("doc-gone"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentRepository_Update(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)
	doc := testDocument("doc-1")

	mock.ExpectQuery(`UPDATE documents SET`).
		WithArgs(
			"doc-1", "code", doc.SourcePath, doc.Content, doc.ContentHash,
			[]byte(`{"language":"go"}`), doc.IngestedAt, doc.SourceUpdatedAt,
		).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).AddRow(documentRowValues(doc)...))

	updated, err := repo.Update(context.Background(), doc)
	require.NoError(t, err)
	assert.Equal(t, doc, updated)
}

func TestDocumentRepository_Delete(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`DELETE FROM documents WHERE id = \$1 RETURNING id`).
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1"))

	assert.NoError(t, repo.Delete(context.Background(), "doc-1"))
}

func TestDocumentRepository_Delete_NotFound(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`DELETE FROM documents WHERE id = \$1 RETURNING id`).
		WithArgs("doc-gone").
		WillReturnError(sql.ErrNoRows)

	err := repo.Delete(context.Background(), "doc-gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDocumentRepository_CountByDomain(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`SELECT count\(\*\) FROM documents WHERE domain_id = \$1`).
		WithArgs("code").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountByDomain(context.Background(), "code")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestDocumentRepository_LastIngestedAt_EmptyDomain(t *testing.T) {
	conn, mock := newTestConn(t)
	repo := NewDocumentRepository(conn)

	mock.ExpectQuery(`SELECT max\(ingested_at\) FROM documents WHERE domain_id = \$1`).
		WithArgs("empty-domain").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	last, err := repo.LastIngestedAt(context.Background(), "empty-domain")
	require.NoError(t, err)
	assert.Nil(t, last)
}
