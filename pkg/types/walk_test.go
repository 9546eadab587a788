package types

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkOrder(t *testing.T) {
	root, b1, b2, l1, l2, l3 := buildSample(t)

	var visited []Node
	var depths []int
	err := Walk(root, func(n Node, depth int) error {
		visited = append(visited, n)
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Node{root, b1, l1, l2, b2, l3}, visited)
	assert.Equal(t, []int{0, 1, 2, 2, 1, 2}, depths)
}

func TestWalkSkipChildren(t *testing.T) {
	root, b1, b2, _, _, l3 := buildSample(t)

	var visited []Node
	err := Walk(root, func(n Node, _ int) error {
		visited = append(visited, n)
		if n == b1 {
			return SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []Node{root, b1, b2, l3}, visited)
}

func TestWalkStopsOnError(t *testing.T) {
	root, _, _, l1, _, _ := buildSample(t)
	boom := errors.New("boom")

	count := 0
	err := Walk(root, func(n Node, _ int) error {
		count++
		if n == l1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, count)
}

func TestWalkNil(t *testing.T) {
	called := false
	require.NoError(t, Walk(nil, func(Node, int) error {
		called = true
		return nil
	}))
	assert.False(t, called)
}

func TestRootDepthSize(t *testing.T) {
	root, b1, _, l1, _, l3 := buildSample(t)

	assert.Same(t, root, Root(l1))
	assert.Same(t, root, Root(root))
	assert.Nil(t, Root(nil))

	assert.Equal(t, 0, Depth(root))
	assert.Equal(t, 1, Depth(b1))
	assert.Equal(t, 2, Depth(l3))
	assert.Equal(t, 0, Depth(nil))
	var typed *Branch
	assert.Equal(t, 0, Depth(typed))

	assert.Equal(t, 6, Size(root))
	assert.Equal(t, 3, Size(b1))
	assert.Equal(t, 1, Size(l1))
	assert.Equal(t, 0, Size(nil))
}

func TestFind(t *testing.T) {
	root, _, b2, _, _, l3 := buildSample(t)

	assert.Same(t, l3, Find(root, l3.ID()))
	assert.Same(t, b2, Find(root, b2.ID()))
	assert.Nil(t, Find(root, "missing"))
	assert.Nil(t, Find(b2, root.ID()))
}

func TestRender(t *testing.T) {
	root := NewBranchWithID("r", "")
	b := NewBranchWithID("b", "")
	require.NoError(t, b.Attach(NewLeafWithID("l1", "")))
	require.NoError(t, root.Attach(b))
	require.NoError(t, root.Attach(NewLeafWithID("l2", "x")))

	want := strings.Join([]string{
		"branch Branch [r]",
		"  branch Branch [b]",
		"    leaf Leaf [l1]",
		"  leaf x [l2]",
		"",
	}, "\n")
	assert.Equal(t, want, Render(root))
}
