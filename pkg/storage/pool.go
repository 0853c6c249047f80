package storage

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"

	// PostgreSQL driver
	_ "github.com/lib/pq"

	"github.com/southpawriter02/nornweave/pkg/observability"
)

// StoreVectorDimensions is the width of the chunks.embedding column.
// The domain model accepts 384/768/1536 so other deployments can
// migrate a different width; this store persists exactly one.
const StoreVectorDimensions = 768

// Pool owns a bounded set of reusable PostgreSQL connections with
// explicit open/close lifecycle. Repositories are bound to a single
// connection for the duration of one WithConn scope, never longer.
type Pool struct {
	cfg    *Config
	logger observability.Logger

	mu sync.RWMutex
	db *sqlx.DB
}

// NewPool creates an unopened pool. A nil logger falls back to the
// standard logger.
func NewPool(cfg *Config, logger observability.Logger) *Pool {
	if cfg == nil {
		cfg = NewConfig()
	}
	if logger == nil {
		logger = observability.NewStandardLogger("storage.pool")
	}
	return &Pool{cfg: cfg, logger: logger}
}

// Open establishes the pool and verifies the pgvector extension is
// installed, the driver-level counterpart of registering the vector
// column codec. Calling Open on an open pool fails with
// ErrPoolAlreadyOpen. Connectivity failures are surfaced, never
// retried; callers own the retry policy.
func (p *Pool) Open(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return ErrPoolAlreadyOpen
	}

	if _, ok := ctx.Deadline(); !ok && p.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.ConnectTimeout)
		defer cancel()
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", p.cfg.DSN())
	if err != nil {
		return &ConnectionError{Op: "open", Err: err}
	}

	db.SetMaxOpenConns(p.cfg.MaxPoolSize)
	db.SetMaxIdleConns(p.cfg.MinPoolSize)
	db.SetConnMaxLifetime(p.cfg.ConnMaxLifetime)

	if err := verifyVectorExtension(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	p.db = db
	p.logger.Info("connection pool opened", map[string]interface{}{
		"dsn":           p.cfg.RedactedDSN(),
		"min_pool_size": p.cfg.MinPoolSize,
		"max_pool_size": p.cfg.MaxPoolSize,
	})
	return nil
}

// Close drains and releases all connections. Subsequent use of the pool
// fails with ErrPoolNotOpen.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return ErrPoolNotOpen
	}

	err := p.db.Close()
	p.db = nil
	p.logger.Info("connection pool closed", nil)
	if err != nil {
		return &ConnectionError{Op: "close", Err: err}
	}
	return nil
}

// WithConn hands fn exclusive use of one pooled connection and returns
// it on every exit path. Acquisition honors the caller's context; when
// the context carries no deadline the configured pool timeout applies.
func (p *Pool) WithConn(ctx context.Context, fn func(ctx context.Context, conn *sqlx.Conn) error) error {
	p.mu.RLock()
	db := p.db
	p.mu.RUnlock()

	if db == nil {
		return ErrPoolNotOpen
	}

	if _, ok := ctx.Deadline(); !ok && p.cfg.PoolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.PoolTimeout)
		defer cancel()
	}

	conn, err := db.Connx(ctx)
	if err != nil {
		return &ConnectionError{Op: "acquire", Err: err}
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			p.logger.Warn("failed to return connection to pool", map[string]interface{}{
				"error": cerr.Error(),
			})
		}
	}()

	return fn(ctx, conn)
}

func verifyVectorExtension(ctx context.Context, db *sqlx.DB) error {
	var exists bool
	err := db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_extension WHERE extname = 'vector')",
	).Scan(&exists)
	if err != nil {
		return &ConnectionError{Op: "open", Err: err}
	}
	if !exists {
		return &ConnectionError{Op: "open", Err: errPgVectorNotInstalled}
	}
	return nil
}
