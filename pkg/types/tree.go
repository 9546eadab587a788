package types

import "time"

// Tree is a named, stored composition tree.
type Tree struct {
	TreeID    string    `json:"tree_id"`
	Name      string    `json:"name"`
	Root      Node      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contribute returns the root's contribution, or "" for a tree with no root.
func (t *Tree) Contribute() string {
	if isNil(t.Root) {
		return ""
	}
	return t.Root.Contribute()
}

// TreeInfo summarises a stored tree without loading its nodes.
type TreeInfo struct {
	TreeID    string    `json:"tree_id"`
	Name      string    `json:"name"`
	RootID    string    `json:"root_id"`
	NodeCount int       `json:"node_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
