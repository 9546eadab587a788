// Package types defines the composition tree (Node, Leaf, Branch), the Store
// interface for persisting trees, and the standard error values shared by
// every backend.
//
// A tree is a rooted, ordered structure where every node, leaf or branch,
// satisfies the same Node contract. Branches own their children; a child
// holds a weak, query-only reference back to its parent. The package does no
// locking: a tree has a single writer, and readers must not overlap with
// mutation.
package types
