package storage

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/southpawriter02/nornweave/pkg/models"
)

// DomainSnapshot is the storage-side input for a mesh DomainDescriptor:
// the counts and recency the registry reports for one domain.
type DomainSnapshot struct {
	DomainID        models.DomainID `json:"domain_id"`
	DocumentCount   int64           `json:"document_count"`
	ChunkCount      int64           `json:"chunk_count"`
	LastIngestionAt *time.Time      `json:"last_ingestion_at,omitempty"`
}

// DomainStats assembles a snapshot of one domain from both tables
// within a single connection scope.
func (p *Pool) DomainStats(ctx context.Context, domainID models.DomainID) (*DomainSnapshot, error) {
	snapshot := &DomainSnapshot{DomainID: domainID}

	err := p.WithConn(ctx, func(ctx context.Context, conn *sqlx.Conn) error {
		documents := NewDocumentRepository(conn)
		chunks := NewChunkRepository(conn)

		var err error
		if snapshot.DocumentCount, err = documents.CountByDomain(ctx, domainID); err != nil {
			return err
		}
		if snapshot.ChunkCount, err = chunks.CountByDomain(ctx, domainID); err != nil {
			return err
		}
		if snapshot.LastIngestionAt, err = documents.LastIngestedAt(ctx, domainID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
