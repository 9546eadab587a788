// Package sqlite exposes the SQLite tree store to programs outside this
// module while keeping its implementation internal.
package sqlite

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/arbor/internal/sqlite"
	"github.com/mesh-intelligence/arbor/pkg/types"
)

// NewStore creates a SQLite-backed Store. It is not attached; call Attach
// with a Config to open it. A nil logger disables backend logging.
//
// Example:
//
//	store := sqlite.NewStore(nil)
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".arbor-db",
//	})
//	defer store.Detach()
func NewStore(log *zap.Logger) types.Store {
	return sqlite.NewBackend(sqlite.WithLogger(log))
}
