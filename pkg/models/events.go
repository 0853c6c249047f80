package models

import (
	"time"
)

// IngestionEvent is published by a memory agent after successfully
// indexing new documents, so sibling agents can react to fresh content.
type IngestionEvent struct {
	AgentID       AgentID      `json:"agent_id"`
	DomainID      DomainID     `json:"domain_id"`
	DocumentIDs   []DocumentID `json:"document_ids"`
	ChunksCreated int          `json:"chunks_created"`
	Timestamp     time.Time    `json:"timestamp"`
	TraceID       TraceID      `json:"trace_id"`
}

// NewIngestionEvent builds an IngestionEvent, enforcing that it names at
// least one document and a positive chunk count.
func NewIngestionEvent(agentID AgentID, domainID DomainID, documentIDs []DocumentID, chunksCreated int, traceID TraceID) (IngestionEvent, error) {
	if len(documentIDs) == 0 {
		return IngestionEvent{}, newValidationError("document_ids", "must name at least one document")
	}
	if chunksCreated <= 0 {
		return IngestionEvent{}, newValidationError("chunks_created", "must be positive, got %d", chunksCreated)
	}
	return IngestionEvent{
		AgentID:       agentID,
		DomainID:      domainID,
		DocumentIDs:   documentIDs,
		ChunksCreated: chunksCreated,
		Timestamp:     time.Now().UTC(),
		TraceID:       traceID,
	}, nil
}

// AgentLifecycleEvent is published when an agent's status changes.
type AgentLifecycleEvent struct {
	AgentID   AgentID     `json:"agent_id"`
	OldStatus AgentStatus `json:"old_status"`
	NewStatus AgentStatus `json:"new_status"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewAgentLifecycleEvent builds a lifecycle event for a status change.
func NewAgentLifecycleEvent(agentID AgentID, oldStatus, newStatus AgentStatus) (AgentLifecycleEvent, error) {
	if err := oldStatus.Validate(); err != nil {
		return AgentLifecycleEvent{}, newValidationError("old_status", "%v", err)
	}
	if err := newStatus.Validate(); err != nil {
		return AgentLifecycleEvent{}, newValidationError("new_status", "%v", err)
	}
	return AgentLifecycleEvent{
		AgentID:   agentID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Timestamp: time.Now().UTC(),
	}, nil
}
