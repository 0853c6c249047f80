package models

import "fmt"

// DomainType categorizes the default knowledge partitions.
type DomainType string

const (
	DomainTypeCode          DomainType = "CODE"
	DomainTypeDocumentation DomainType = "DOCUMENTATION"
	DomainTypeConversations DomainType = "CONVERSATIONS"
	DomainTypeResearch      DomainType = "RESEARCH"
)

// Validate checks that the domain type is a known value.
func (t DomainType) Validate() error {
	switch t {
	case DomainTypeCode, DomainTypeDocumentation, DomainTypeConversations, DomainTypeResearch:
		return nil
	}
	return fmt.Errorf("invalid domain type: %s", t)
}

// AgentStatus represents the lifecycle state of a registered memory agent.
type AgentStatus string

const (
	AgentStatusStarting AgentStatus = "STARTING"
	AgentStatusReady    AgentStatus = "READY"
	AgentStatusDegraded AgentStatus = "DEGRADED"
	AgentStatusDraining AgentStatus = "DRAINING"
	AgentStatusOffline  AgentStatus = "OFFLINE"
)

// Validate checks that the status is a known value.
func (s AgentStatus) Validate() error {
	switch s {
	case AgentStatusStarting, AgentStatusReady, AgentStatusDegraded, AgentStatusDraining, AgentStatusOffline:
		return nil
	}
	return fmt.Errorf("invalid agent status: %s", s)
}

// ChunkingStrategy describes how a memory agent segments documents.
type ChunkingStrategy string

const (
	ChunkingSyntaxAware          ChunkingStrategy = "SYNTAX_AWARE"
	ChunkingHierarchicalSections ChunkingStrategy = "HIERARCHICAL_SECTIONS"
	ChunkingMessageBoundary      ChunkingStrategy = "MESSAGE_BOUNDARY"
	ChunkingRecursiveCharacter   ChunkingStrategy = "RECURSIVE_CHARACTER"
)

// Validate checks that the strategy is a known value.
func (s ChunkingStrategy) Validate() error {
	switch s {
	case ChunkingSyntaxAware, ChunkingHierarchicalSections, ChunkingMessageBoundary, ChunkingRecursiveCharacter:
		return nil
	}
	return fmt.Errorf("invalid chunking strategy: %s", s)
}

// IngestStatus is the outcome of a document ingestion attempt.
type IngestStatus string

const (
	IngestAccepted IngestStatus = "ACCEPTED"
	IngestIndexed  IngestStatus = "INDEXED"
	IngestRejected IngestStatus = "REJECTED"
	IngestFailed   IngestStatus = "FAILED"
)

// ConflictStrategy is how the fusion layer resolves contradictions
// between agents. Stored here so registry records can carry it; the
// fusion algorithm itself lives outside this module.
type ConflictStrategy string

const (
	ConflictRecency         ConflictStrategy = "RECENCY"
	ConflictSourceAuthority ConflictStrategy = "SOURCE_AUTHORITY"
	ConflictConfidence      ConflictStrategy = "CONFIDENCE"
	ConflictFlag            ConflictStrategy = "FLAG"
	ConflictRecencyThenFlag ConflictStrategy = "RECENCY_THEN_FLAG"
)
