package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	root, b1, b2, l1, l2, l3 := buildSample(t)

	got := Flatten(root)
	want := []Record{
		{NodeID: root.ID(), Kind: "branch", Label: "Branch"},
		{NodeID: b1.ID(), Kind: "branch", Label: "Branch", ParentID: root.ID(), Ordinal: 0},
		{NodeID: l1.ID(), Kind: "leaf", Label: "Leaf", ParentID: b1.ID(), Ordinal: 0},
		{NodeID: l2.ID(), Kind: "leaf", Label: "Leaf", ParentID: b1.ID(), Ordinal: 1},
		{NodeID: b2.ID(), Kind: "branch", Label: "Branch", ParentID: root.ID(), Ordinal: 1},
		{NodeID: l3.ID(), Kind: "leaf", Label: "Leaf", ParentID: b2.ID(), Ordinal: 0},
	}
	assert.Equal(t, want, got)
}

func TestFlattenSubtreeHasNoParent(t *testing.T) {
	_, b1, _, _, _, _ := buildSample(t)
	recs := Flatten(b1)
	require.Len(t, recs, 3)
	assert.Empty(t, recs[0].ParentID)
}

func TestRebuildPreservesShape(t *testing.T) {
	root, _, _, _, _, _ := buildSample(t)
	recs := Flatten(root)

	// Reverse so Rebuild cannot rely on input order.
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}

	got, err := Rebuild(recs)
	require.NoError(t, err)
	assert.Equal(t, root.ID(), got.ID())
	assert.Equal(t, root.Contribute(), got.Contribute())
	assert.Equal(t, Render(root), Render(got))
	assert.Nil(t, got.Parent())
}

func TestRebuildSingleLeaf(t *testing.T) {
	got, err := Rebuild([]Record{{NodeID: "a", Kind: "leaf", Label: "solo"}})
	require.NoError(t, err)
	assert.Equal(t, "solo", got.Contribute())
	assert.False(t, got.IsBranch())
}

func TestRebuildRejects(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
	}{
		{name: "empty", records: nil},
		{
			name:    "no root",
			records: []Record{{NodeID: "a", Kind: "branch", ParentID: "b"}, {NodeID: "b", Kind: "branch", ParentID: "a"}},
		},
		{
			name:    "two roots",
			records: []Record{{NodeID: "a", Kind: "branch"}, {NodeID: "b", Kind: "branch"}},
		},
		{
			name:    "duplicate id",
			records: []Record{{NodeID: "a", Kind: "branch"}, {NodeID: "a", Kind: "leaf", ParentID: "a"}},
		},
		{
			name:    "empty id",
			records: []Record{{NodeID: "", Kind: "branch"}},
		},
		{
			name:    "unknown kind",
			records: []Record{{NodeID: "a", Kind: "twig"}},
		},
		{
			name:    "missing parent",
			records: []Record{{NodeID: "a", Kind: "branch"}, {NodeID: "b", Kind: "leaf", ParentID: "zz"}},
		},
		{
			name:    "child of a leaf",
			records: []Record{{NodeID: "a", Kind: "leaf"}, {NodeID: "b", Kind: "leaf", ParentID: "a"}},
		},
		{
			name: "detached cycle",
			records: []Record{
				{NodeID: "r", Kind: "branch"},
				{NodeID: "a", Kind: "branch", ParentID: "b"},
				{NodeID: "b", Kind: "branch", ParentID: "a"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Rebuild(tt.records)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestRebuildOrdersSiblingsByOrdinal(t *testing.T) {
	recs := []Record{
		{NodeID: "r", Kind: "branch"},
		{NodeID: "c", Kind: "leaf", Label: "c", ParentID: "r", Ordinal: 2},
		{NodeID: "a", Kind: "leaf", Label: "a", ParentID: "r", Ordinal: 0},
		{NodeID: "b", Kind: "leaf", Label: "b", ParentID: "r", Ordinal: 1},
	}
	got, err := Rebuild(recs)
	require.NoError(t, err)
	assert.Equal(t, "Branch(a+b+c)", got.Contribute())
}

func TestTreeContribute(t *testing.T) {
	root, _, _, _, _, _ := buildSample(t)
	tr := &Tree{TreeID: "t", Name: "sample", Root: root}
	assert.Equal(t, root.Contribute(), tr.Contribute())
	assert.Equal(t, "", (&Tree{}).Contribute())
}
