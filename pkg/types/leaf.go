package types

import "weak"

// DefaultLeafLabel is the contribution of a leaf created without a label.
const DefaultLeafLabel = "Leaf"

var _ Node = (*Leaf)(nil)

// Leaf is a terminal node. Its contribution is its label.
type Leaf struct {
	id     string
	label  string
	parent weak.Pointer[Branch]
}

// NewLeaf creates a parentless leaf. An empty label becomes DefaultLeafLabel.
func NewLeaf(label string) *Leaf {
	return NewLeafWithID(newNodeID(), label)
}

// NewLeafWithID creates a parentless leaf with a known ID, as when a tree is
// rebuilt from storage.
func NewLeafWithID(id, label string) *Leaf {
	if label == "" {
		label = DefaultLeafLabel
	}
	return &Leaf{id: id, label: label}
}

func (l *Leaf) ID() string         { return l.id }
func (l *Leaf) Kind() Kind         { return KindLeaf }
func (l *Leaf) Label() string      { return l.label }
func (l *Leaf) IsBranch() bool     { return false }
func (l *Leaf) Children() []Node   { return nil }
func (l *Leaf) Contribute() string { return l.label }

// Attach always fails: a leaf has no children.
func (l *Leaf) Attach(Node) error { return ErrUnsupportedOperation }

// Detach always fails: a leaf has no children.
func (l *Leaf) Detach(Node) error { return ErrUnsupportedOperation }

func (l *Leaf) Parent() *Branch { return l.parent.Value() }

func (l *Leaf) setParent(p *Branch) { l.parent = weak.Make(p) }
