// Package sqlite implements the SQLite storage backend for arbor trees.
// SQLite is the query engine; the JSONL files in DataDir are the source of
// truth and are rewritten atomically after every change.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// DBFileName is the SQLite file created in DataDir.
const DBFileName = "arbor.db"

var _ types.Store = (*Backend)(nil)

// Backend implements types.Store on SQLite.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	log      *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for backend diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{log: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.Named("sqlite")
	return b
}

// Attach creates DataDir if needed, builds a fresh SQLite database, and
// loads the JSONL files into it.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	if config.DataDir == "" {
		config.DataDir = "."
	}
	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	// The database is a cache of the JSONL files; start from scratch.
	dbPath := filepath.Join(config.DataDir, DBFileName)
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dbPath, err)
	}
	// One connection keeps per-connection pragmas in force.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return err
	}
	if err := ensureJSONLFiles(config.DataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, config.DataDir, b.log); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true
	b.log.Debug("attached", zap.String("data_dir", config.DataDir))
	return nil
}

// initSchema enables foreign keys and creates every table and index.
func initSchema(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Detach closes the SQLite connection. Idempotent.
// After Detach every operation returns ErrStoreDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
	}
	b.log.Debug("detached", zap.String("data_dir", b.config.DataDir))
	return nil
}
