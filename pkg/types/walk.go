package types

import (
	"errors"
	"fmt"
	"strings"
)

// WalkFunc is called for every node visited by Walk. depth is 0 for the
// node Walk started from.
type WalkFunc func(n Node, depth int) error

// SkipChildren may be returned by a WalkFunc to skip a branch's subtree
// without stopping the walk.
var SkipChildren = errors.New("skip children")

// Walk visits root and its descendants depth first, parents before
// children, children in order. The first error other than SkipChildren
// stops the walk and is returned.
func Walk(root Node, fn WalkFunc) error {
	if isNil(root) {
		return nil
	}
	err := walk(root, 0, fn)
	if errors.Is(err, SkipChildren) {
		return nil
	}
	return err
}

func walk(n Node, depth int, fn WalkFunc) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	b, ok := n.(*Branch)
	if !ok {
		return nil
	}
	for _, c := range b.children {
		err := walk(c, depth+1, fn)
		if errors.Is(err, SkipChildren) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Root returns the topmost ancestor of n (n itself when parentless).
func Root(n Node) Node {
	if isNil(n) {
		return nil
	}
	var top Node = n
	for p := n.Parent(); p != nil; p = p.Parent() {
		top = p
	}
	return top
}

// Depth returns the number of ancestors of n, or 0 for nil.
func Depth(n Node) int {
	if isNil(n) {
		return 0
	}
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

// Size returns the number of nodes in the subtree rooted at root.
func Size(root Node) int {
	count := 0
	_ = Walk(root, func(Node, int) error {
		count++
		return nil
	})
	return count
}

// Find returns the node with the given ID in root's subtree, or nil.
func Find(root Node, id string) Node {
	var found Node
	_ = Walk(root, func(n Node, _ int) error {
		if n.ID() == id {
			found = n
			return errStopWalk
		}
		return nil
	})
	return found
}

var errStopWalk = errors.New("stop walk")

// Render returns an indented outline of root's subtree, one node per line:
// kind, label, and ID in brackets. Children are indented two spaces per level.
func Render(root Node) string {
	var sb strings.Builder
	_ = Walk(root, func(n Node, depth int) error {
		sb.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&sb, "%s %s [%s]\n", n.Kind(), n.Label(), n.ID())
		return nil
	})
	return sb.String()
}
