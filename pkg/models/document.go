package models

import (
	"time"
)

// Document is a source artifact as ingested by a memory agent, before
// segmentation. The (DomainID, ContentHash) pair is unique within the
// store; identical content ingested twice into the same domain is
// rejected as a duplicate, never overwritten.
type Document struct {
	ID              DocumentID     `json:"id"`
	DomainID        DomainID       `json:"domain_id"`
	SourcePath      string         `json:"source_path"`
	Content         string         `json:"content"`
	ContentHash     string         `json:"content_hash"`
	Metadata        map[string]any `json:"metadata"`
	IngestedAt      time.Time      `json:"ingested_at"`
	SourceUpdatedAt time.Time      `json:"source_updated_at"`
}

// Validate checks the invariants the storage layer relies on. Identity
// fields are assigned upstream; the engine only refuses to persist
// records it could never retrieve consistently.
func (d *Document) Validate() error {
	if d.ID == "" {
		return newValidationError("id", "must not be empty")
	}
	if d.DomainID == "" {
		return newValidationError("domain_id", "must not be empty")
	}
	if d.ContentHash == "" {
		return newValidationError("content_hash", "must not be empty")
	}
	if d.IngestedAt.IsZero() {
		return newValidationError("ingested_at", "must be set")
	}
	if d.SourceUpdatedAt.IsZero() {
		return newValidationError("source_updated_at", "must be set")
	}
	return nil
}
