package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolib/superrec/tree"
)

// (X,(Y,Z)YZ)XYZ — the smallest non-trivial species topology.
func buildSpecies(t *testing.T) *tree.Tree {
	t.Helper()
	sp, err := tree.Build(tree.Node("XYZ",
		tree.Leaf("X"),
		tree.Node("YZ", tree.Leaf("Y"), tree.Leaf("Z")),
	))
	require.NoError(t, err)
	return sp
}

func TestBuild_PreorderLayout(t *testing.T) {
	sp := buildSpecies(t)

	require.Equal(t, 5, sp.Len())
	assert.Equal(t, 0, sp.Root())
	assert.Equal(t, "XYZ", sp.Name(0))
	assert.Equal(t, "X", sp.Name(1))
	assert.Equal(t, "YZ", sp.Name(2))
	assert.Equal(t, "Y", sp.Name(3))
	assert.Equal(t, "Z", sp.Name(4))

	assert.Equal(t, tree.NoParent, sp.Parent(0))
	assert.Equal(t, 0, sp.Parent(1))
	assert.Equal(t, 2, sp.Parent(3))
	assert.Equal(t, []int{1, 2}, sp.Children(0))
	assert.True(t, sp.IsLeaf(4))
	assert.False(t, sp.IsLeaf(2))
}

func TestBuild_Errors(t *testing.T) {
	_, err := tree.Build(nil)
	assert.ErrorIs(t, err, tree.ErrMalformedTree)

	// single-child internal node
	_, err = tree.Build(tree.Node("r", tree.Leaf("a")))
	assert.ErrorIs(t, err, tree.ErrMalformedTree)

	// unnamed leaf
	_, err = tree.Build(tree.Node("r", tree.Leaf(""), tree.Leaf("b")))
	assert.ErrorIs(t, err, tree.ErrMalformedTree)

	// duplicate names
	_, err = tree.Build(tree.Node("r", tree.Leaf("a"), tree.Leaf("a")))
	assert.ErrorIs(t, err, tree.ErrMalformedTree)
}

func TestLookupAndOrders(t *testing.T) {
	sp := buildSpecies(t)

	y, err := sp.ByName("Y")
	require.NoError(t, err)
	assert.Equal(t, 3, y)
	_, err = sp.ByName("W")
	assert.ErrorIs(t, err, tree.ErrNodeNotFound)
	assert.Equal(t, 2, sp.MustByName("YZ"))
	assert.Panics(t, func() { sp.MustByName("W") })

	assert.Equal(t, []int{0, 1, 2, 3, 4}, sp.Preorder())
	post := sp.Postorder()
	require.Len(t, post, 5)
	assert.Equal(t, 0, post[4], "root comes last in post-order")
	assert.Equal(t, []int{1, 3, 4}, sp.Leaves())
}

func TestLCAAndAncestry(t *testing.T) {
	sp := buildSpecies(t)
	x, y, z, yz, xyz := 1, 3, 4, 2, 0

	assert.Equal(t, yz, sp.LCA(y, z))
	assert.Equal(t, xyz, sp.LCA(x, z))
	assert.Equal(t, yz, sp.LCA(yz, z))
	assert.Equal(t, y, sp.LCA(y))
	assert.Equal(t, xyz, sp.LCA(x, y, z))

	assert.True(t, sp.IsAncestorOf(yz, yz))
	assert.True(t, sp.IsAncestorOf(xyz, z))
	assert.False(t, sp.IsAncestorOf(yz, x))
	assert.True(t, sp.IsStrictAncestorOf(yz, y))
	assert.False(t, sp.IsStrictAncestorOf(y, y))
	assert.True(t, sp.IsComparable(xyz, z))
	assert.False(t, sp.IsComparable(x, yz))

	assert.Equal(t, 0, sp.Distance(y, y))
	assert.Equal(t, 2, sp.Distance(xyz, y))
	assert.Equal(t, 1, sp.Distance(yz, z))
}

func TestSpecRoundTrip(t *testing.T) {
	sp := buildSpecies(t)

	spec := sp.Spec(sp.Root())
	rebuilt, err := tree.Build(spec)
	require.NoError(t, err)
	assert.Equal(t, sp.Len(), rebuilt.Len())
	for v := 0; v < sp.Len(); v++ {
		assert.Equal(t, sp.Name(v), rebuilt.Name(v))
		assert.Equal(t, sp.Parent(v), rebuilt.Parent(v))
	}

	// Subtree extraction yields an independent tree.
	sub, err := tree.Build(sp.Spec(sp.MustByName("YZ")))
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Len())
	assert.Equal(t, "YZ", sub.Name(sub.Root()))
}
