package storage

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/southpawriter02/nornweave/pkg/models"
)

// Sentinel errors for errors.Is matching. The typed errors below carry
// the identifiers callers need to act on a failure.
var (
	// ErrNotFound matches any by-id lookup miss.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate matches a (domain_id, content_hash) collision.
	ErrDuplicate = errors.New("duplicate record")

	// ErrIntegrity matches any other constraint violation.
	ErrIntegrity = errors.New("integrity constraint violation")

	// ErrConnection matches connectivity and timeout failures.
	ErrConnection = errors.New("storage connection failure")

	// ErrPoolNotOpen is returned when the pool is used before Open or
	// after Close.
	ErrPoolNotOpen = errors.New("connection pool is not open")

	// ErrPoolAlreadyOpen is returned when Open is called twice.
	ErrPoolAlreadyOpen = errors.New("connection pool is already open")

	errPgVectorNotInstalled = errors.New("pgvector extension is not installed")
)

// DocumentNotFoundError reports a missing document for a by-id lookup.
type DocumentNotFoundError struct {
	DocumentID models.DocumentID
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool { return target == ErrNotFound }

// ChunkNotFoundError reports a missing chunk for a by-id lookup.
type ChunkNotFoundError struct {
	ChunkID models.ChunkID
}

func (e *ChunkNotFoundError) Error() string {
	return fmt.Sprintf("chunk not found: %s", e.ChunkID)
}

func (e *ChunkNotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateDocumentError reports an insert that collided with an already
// ingested document. Callers treat this as "already ingested" rather
// than a system fault.
type DuplicateDocumentError struct {
	DomainID    models.DomainID
	ContentHash string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("duplicate document in domain %q with hash %q", e.DomainID, e.ContentHash)
}

func (e *DuplicateDocumentError) Is(target error) bool { return target == ErrDuplicate }

// IntegrityError reports a constraint violation other than the dedup
// uniqueness rule. Fatal to the operation, never retried here.
type IntegrityError struct {
	Constraint string
	Err        error
}

func (e *IntegrityError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("integrity violation on constraint %q: %v", e.Constraint, e.Err)
	}
	return fmt.Sprintf("integrity violation: %v", e.Err)
}

func (e *IntegrityError) Is(target error) bool { return target == ErrIntegrity }

func (e *IntegrityError) Unwrap() error { return e.Err }

// ConnectionError reports a failure to reach the store. Callers own the
// retry/backoff policy; the storage layer never retries internally.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("storage connection failure during %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

func (e *ConnectionError) Unwrap() error { return e.Err }

// PostgreSQL error codes relevant to the constraint mapping.
const (
	pqUniqueViolation       = "23505"
	pqIntegrityClass        = "23"
	documentDedupConstraint = "documents_domain_id_content_hash_key"
)

// mapDocumentInsertError classifies a document insert/update failure.
// A unique violation on the dedup key becomes a DuplicateDocumentError;
// any other constraint of the integrity class becomes an IntegrityError.
func mapDocumentInsertError(err error, doc *models.Document) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Code == pqUniqueViolation && pqErr.Constraint == documentDedupConstraint {
			return &DuplicateDocumentError{DomainID: doc.DomainID, ContentHash: doc.ContentHash}
		}
		if pqErr.Code.Class() == pqIntegrityClass {
			return &IntegrityError{Constraint: pqErr.Constraint, Err: err}
		}
	}
	return err
}

// mapChunkInsertError classifies a chunk insert failure. Chunk id
// collisions and missing parent documents are both integrity faults.
func mapChunkInsertError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == pqIntegrityClass {
		return &IntegrityError{Constraint: pqErr.Constraint, Err: err}
	}
	return err
}
