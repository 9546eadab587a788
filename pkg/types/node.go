package types

import (
	"errors"

	"github.com/google/uuid"
)

// Kind discriminates the two node variants. Callers that need to report a
// node's variant use Kind rather than inspecting the dynamic type.
type Kind int

// Node kinds.
const (
	KindLeaf Kind = iota + 1
	KindBranch
)

// Kind names as stored and printed.
const (
	KindLeafName   = "leaf"
	KindBranchName = "branch"
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return KindLeafName
	case KindBranch:
		return KindBranchName
	default:
		return "unknown"
	}
}

// ParseKind returns the Kind for a stored name.
// Returns ErrInvalidKind for anything other than "leaf" or "branch".
func ParseKind(s string) (Kind, error) {
	switch s {
	case KindLeafName:
		return KindLeaf, nil
	case KindBranchName:
		return KindBranch, nil
	default:
		return 0, ErrInvalidKind
	}
}

// Node is the uniform contract satisfied by every element of a composition
// tree. The interface is sealed: only Leaf and Branch implement it.
type Node interface {
	// ID returns the node's identifier, a UUID v7 unless one was supplied.
	ID() string

	// Kind reports whether the node is a leaf or a branch.
	Kind() Kind

	// Label returns the node's own label ("Leaf", "Branch", or caller-supplied).
	Label() string

	// Contribute returns the textual contribution of the node's subtree.
	// It only reads the subtree and is deterministic.
	Contribute() string

	// Attach appends child to this node's children and sets child's parent.
	// Leaves return ErrUnsupportedOperation.
	Attach(child Node) error

	// Detach removes child from this node's children and clears its parent.
	// Detaching a node that is not a current child is a no-op.
	// Leaves return ErrUnsupportedOperation.
	Detach(child Node) error

	// IsBranch reports whether Attach and Detach are supported.
	IsBranch() bool

	// Parent returns the owning branch, or nil for a root or detached node.
	Parent() *Branch

	// Children returns a copy of the child sequence; nil for a leaf.
	Children() []Node

	setParent(p *Branch)
}

// Tree structure errors.
var (
	ErrUnsupportedOperation = errors.New("operation not supported on a leaf")
	ErrCycleDetected        = errors.New("attach would create a cycle")
	ErrInvalidNode          = errors.New("invalid node")
	ErrHasParent            = errors.New("node already has a parent")
	ErrInvalidKind          = errors.New("invalid node kind")
	ErrInvalidRecord        = errors.New("invalid node record")
	ErrNodeNotFound         = errors.New("node not found")
)

// newNodeID generates a UUID v7 for a new node, falling back to v4.
func newNodeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
