package models

import (
	"time"
)

// DomainDescriptor is a machine-readable description of a registered
// knowledge domain, including the storage-side counts assembled by the
// persistence layer.
type DomainDescriptor struct {
	DomainID            DomainID         `json:"domain_id"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	ChunkingStrategy    ChunkingStrategy `json:"chunking_strategy"`
	EmbeddingModel      string           `json:"embedding_model"`
	EmbeddingDimensions int              `json:"embedding_dimensions"`
	DocumentCount       int64            `json:"document_count"`
	ChunkCount          int64            `json:"chunk_count"`
	LastIngestionAt     *time.Time       `json:"last_ingestion_at,omitempty"`
}

// AgentRegistration records a memory agent in the mesh service registry.
type AgentRegistration struct {
	AgentID         AgentID          `json:"agent_id"`
	Domain          DomainDescriptor `json:"domain"`
	BaseURL         string           `json:"base_url"`
	Status          AgentStatus      `json:"status"`
	RegisteredAt    time.Time        `json:"registered_at"`
	LastHeartbeatAt time.Time        `json:"last_heartbeat_at"`
	HealthPort      int              `json:"health_port"`
}

// Validate checks the registration invariants.
func (r *AgentRegistration) Validate() error {
	if r.AgentID == "" {
		return newValidationError("agent_id", "must not be empty")
	}
	if r.BaseURL == "" {
		return newValidationError("base_url", "must not be empty")
	}
	if err := r.Status.Validate(); err != nil {
		return newValidationError("status", "%v", err)
	}
	if r.HealthPort <= 0 || r.HealthPort >= 65536 {
		return newValidationError("health_port", "must be a valid port, got %d", r.HealthPort)
	}
	return nil
}
