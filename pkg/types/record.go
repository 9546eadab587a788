package types

import "sort"

// Record is the flat form of one node: enough to rebuild the tree without
// any pointers. The root has an empty ParentID. Ordinal is the node's
// position among its siblings.
type Record struct {
	NodeID   string `json:"node_id"`
	Kind     string `json:"kind"`
	Label    string `json:"label"`
	ParentID string `json:"parent_id,omitempty"`
	Ordinal  int    `json:"ordinal"`
}

// Flatten returns one Record per node of root's subtree in Walk order.
// root is recorded without a parent even if it is attached elsewhere.
func Flatten(root Node) []Record {
	var records []Record
	ordinals := map[string]int{}
	_ = Walk(root, func(n Node, depth int) error {
		rec := Record{
			NodeID: n.ID(),
			Kind:   n.Kind().String(),
			Label:  n.Label(),
		}
		if depth > 0 {
			pid := n.Parent().ID()
			rec.ParentID = pid
			rec.Ordinal = ordinals[pid]
			ordinals[pid]++
		}
		records = append(records, rec)
		return nil
	})
	return records
}

// Rebuild reconstructs a tree from records in any order and returns its root.
// Siblings are attached in Ordinal order. Returns ErrInvalidRecord when the
// records do not describe exactly one well-formed tree: a missing or
// repeated root, duplicate IDs, unknown kinds, parents that are missing or
// are leaves, or nodes unreachable from the root.
func Rebuild(records []Record) (Node, error) {
	if len(records) == 0 {
		return nil, ErrInvalidRecord
	}

	nodes := make(map[string]Node, len(records))
	var rootID string
	for _, rec := range records {
		if rec.NodeID == "" {
			return nil, ErrInvalidRecord
		}
		if _, dup := nodes[rec.NodeID]; dup {
			return nil, ErrInvalidRecord
		}
		kind, err := ParseKind(rec.Kind)
		if err != nil {
			return nil, ErrInvalidRecord
		}
		switch kind {
		case KindLeaf:
			nodes[rec.NodeID] = NewLeafWithID(rec.NodeID, rec.Label)
		case KindBranch:
			nodes[rec.NodeID] = NewBranchWithID(rec.NodeID, rec.Label)
		}
		if rec.ParentID == "" {
			if rootID != "" {
				return nil, ErrInvalidRecord
			}
			rootID = rec.NodeID
		}
	}
	if rootID == "" {
		return nil, ErrInvalidRecord
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ordinal < sorted[j].Ordinal
	})

	for _, rec := range sorted {
		if rec.ParentID == "" {
			continue
		}
		parent, ok := nodes[rec.ParentID]
		if !ok {
			return nil, ErrInvalidRecord
		}
		if err := parent.Attach(nodes[rec.NodeID]); err != nil {
			return nil, ErrInvalidRecord
		}
	}

	root := nodes[rootID]
	if Size(root) != len(nodes) {
		return nil, ErrInvalidRecord
	}
	return root, nil
}
