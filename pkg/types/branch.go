package types

import (
	"strings"
	"weak"
)

// DefaultBranchLabel prefixes the contribution of every branch built with
// NewBranch.
const DefaultBranchLabel = "Branch"

// Contribution delimiters.
const (
	contributionOpen  = "("
	contributionClose = ")"
	contributionSep   = "+"
)

var _ Node = (*Branch)(nil)

// Branch is an internal node that owns an ordered sequence of children.
// Its contribution is its label followed by its children's contributions,
// joined with "+" and enclosed in parentheses.
type Branch struct {
	id       string
	label    string
	children []Node
	parent   weak.Pointer[Branch]
}

// NewBranch creates an empty, parentless branch.
func NewBranch() *Branch {
	return NewBranchWithID(newNodeID(), DefaultBranchLabel)
}

// NewNamedBranch creates an empty branch whose contribution uses label in
// place of "Branch". An empty label becomes DefaultBranchLabel.
func NewNamedBranch(label string) *Branch {
	return NewBranchWithID(newNodeID(), label)
}

// NewBranchWithID creates an empty branch with a known ID.
func NewBranchWithID(id, label string) *Branch {
	if label == "" {
		label = DefaultBranchLabel
	}
	return &Branch{id: id, label: label}
}

func (b *Branch) ID() string     { return b.id }
func (b *Branch) Kind() Kind     { return KindBranch }
func (b *Branch) Label() string  { return b.label }
func (b *Branch) IsBranch() bool { return true }

// Len returns the number of direct children.
func (b *Branch) Len() int { return len(b.children) }

func (b *Branch) Children() []Node {
	out := make([]Node, len(b.children))
	copy(out, b.children)
	return out
}

// Contribute folds the children's contributions in order, writing the
// separator before every element but the first.
func (b *Branch) Contribute() string {
	var sb strings.Builder
	sb.WriteString(b.label)
	sb.WriteString(contributionOpen)
	for i, c := range b.children {
		if i > 0 {
			sb.WriteString(contributionSep)
		}
		sb.WriteString(c.Contribute())
	}
	sb.WriteString(contributionClose)
	return sb.String()
}

// Attach appends child and makes b its parent.
// Returns ErrInvalidNode for a nil child, ErrCycleDetected if child is b or
// one of b's ancestors, and ErrHasParent if child is otherwise already owned.
// On error neither node changes.
func (b *Branch) Attach(child Node) error {
	if isNil(child) {
		return ErrInvalidNode
	}
	if cb, ok := child.(*Branch); ok {
		for a := b; a != nil; a = a.Parent() {
			if a == cb {
				return ErrCycleDetected
			}
		}
	}
	if child.Parent() != nil {
		return ErrHasParent
	}
	b.children = append(b.children, child)
	child.setParent(b)
	return nil
}

// Detach removes the first occurrence of child (by identity) and clears its
// parent. A node that is not a current child is left alone and nil is
// returned.
func (b *Branch) Detach(child Node) error {
	if isNil(child) {
		return ErrInvalidNode
	}
	for i, c := range b.children {
		if c != child {
			continue
		}
		b.children = append(b.children[:i:i], b.children[i+1:]...)
		child.setParent(nil)
		return nil
	}
	return nil
}

// Release detaches every descendant of b, depth first, clearing each
// back-reference. b itself is detached from its parent if it has one.
// Nodes the caller still holds remain valid as standalone nodes.
func (b *Branch) Release() {
	if p := b.Parent(); p != nil {
		_ = p.Detach(b)
	}
	b.releaseChildren()
}

func (b *Branch) releaseChildren() {
	for _, c := range b.children {
		if cb, ok := c.(*Branch); ok {
			cb.releaseChildren()
		}
		c.setParent(nil)
	}
	b.children = nil
}

func (b *Branch) Parent() *Branch { return b.parent.Value() }

func (b *Branch) setParent(p *Branch) { b.parent = weak.Make(p) }

// isNil reports whether n is nil or a typed nil pointer.
func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Leaf:
		return v == nil
	case *Branch:
		return v == nil
	default:
		return false
	}
}
