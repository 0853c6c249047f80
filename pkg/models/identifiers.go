package models

import (
	"github.com/google/uuid"
)

// Typed identifiers for the mesh. Each kind is a distinct nominal type so
// the compiler rejects a DocumentID where a ChunkID is expected; at the
// storage boundary they collapse to plain strings.

// DomainID names a partition of the knowledge space (e.g. "code", "docs").
type DomainID string

// DocumentID identifies a source document within the store.
type DocumentID string

// ChunkID identifies a single retrievable chunk.
type ChunkID string

// AgentID identifies a memory agent in the mesh registry.
type AgentID string

// QueryID identifies one retrieval query as it fans out across domains.
type QueryID string

// TraceID correlates events belonging to one logical operation.
type TraceID string

// NewDocumentID generates a random document identifier. Callers that
// assign their own identifiers upstream may ignore this and hand the
// storage layer any opaque string.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.New().String())
}

// NewChunkID generates a random chunk identifier.
func NewChunkID() ChunkID {
	return ChunkID(uuid.New().String())
}

// NewQueryID generates a random query identifier.
func NewQueryID() QueryID {
	return QueryID(uuid.New().String())
}

// NewTraceID generates a random trace identifier.
func NewTraceID() TraceID {
	return TraceID(uuid.New().String())
}

func (id DomainID) String() string   { return string(id) }
func (id DocumentID) String() string { return string(id) }
func (id ChunkID) String() string    { return string(id) }
func (id AgentID) String() string    { return string(id) }
func (id QueryID) String() string    { return string(id) }
func (id TraceID) String() string    { return string(id) }
