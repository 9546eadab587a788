package types

import "errors"

// Store persists named composition trees behind a backend-agnostic API.
// Callers attach to a backend, work with trees, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent.
	// After Detach, every other operation returns ErrStoreDetached.
	Detach() error

	// CreateTree stores root under a new tree ID and returns the ID.
	// Returns ErrInvalidName for an empty name, ErrDuplicateName if another
	// tree already uses it, and ErrInvalidNode for a nil root.
	CreateTree(name string, root Node) (string, error)

	// SaveTree replaces the stored nodes of an existing tree with the
	// current shape of tree.Root. Returns ErrNotFound for an unknown TreeID.
	SaveTree(tree *Tree) error

	// GetTree loads a tree by ID or, failing that, by name.
	// Returns ErrNotFound if neither matches.
	GetTree(idOrName string) (*Tree, error)

	// ListTrees returns a summary of every stored tree, oldest first.
	ListTrees() ([]*TreeInfo, error)

	// DeleteTree removes a tree and all its nodes.
	// Returns ErrNotFound if no tree has that ID.
	DeleteTree(id string) error
}

// Standard table names.
const (
	TreesTable = "trees"
	NodesTable = "nodes"
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store operation errors.
var (
	ErrNotFound      = errors.New("tree not found")
	ErrInvalidID     = errors.New("invalid tree ID")
	ErrInvalidName   = errors.New("invalid name")
	ErrDuplicateName = errors.New("duplicate name")
)
