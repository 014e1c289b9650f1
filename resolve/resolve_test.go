package resolve_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolib/superrec/newick"
	"github.com/evolib/superrec/resolve"
	"github.com/evolib/superrec/tree"
)

func parse(t *testing.T, s string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(s)
	require.NoError(t, err)
	return tr
}

func collect(t *testing.T, en *resolve.Enumerator) []string {
	t.Helper()
	var out []string
	for bt, ok := en.Next(); ok; bt, ok = en.Next() {
		for v := 0; v < bt.Len(); v++ {
			if n := len(bt.Children(v)); n != 0 && n != 2 {
				t.Fatalf("refinement is not binary at node %d", v)
			}
		}
		out = append(out, newick.Format(bt))
	}
	return out
}

func TestNew_BinaryIdentity(t *testing.T) {
	src := parse(t, "((a,b)ab,c)r;")
	en, err := resolve.New(src, resolve.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(1), en.Count())

	all := collect(t, en)
	require.Len(t, all, 1)
	assert.Equal(t, newick.Format(src), all[0])
}

func TestNext_Trifurcation(t *testing.T) {
	en, err := resolve.New(parse(t, "(a,b,c)r;"), resolve.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(3), en.Count())

	all := collect(t, en)
	require.Len(t, all, 3)

	// All three topologies over {a,b,c}, each exactly once.
	sort.Strings(all)
	assert.Equal(t, []string{"((a,b),c)r;", "((a,c),b)r;", "(a,(b,c))r;"}, all)
}

func TestNext_FourWay(t *testing.T) {
	en, err := resolve.New(parse(t, "(a,b,c,d)r;"), resolve.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(15), en.Count())

	all := collect(t, en)
	require.Len(t, all, 15)
	seen := map[string]bool{}
	for _, s := range all {
		assert.False(t, seen[s], "duplicate refinement %s", s)
		seen[s] = true
	}
}

func TestNext_TwoMultifurcations(t *testing.T) {
	en, err := resolve.New(parse(t, "((a,b,c)x,(d,e,f)y)r;"), resolve.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(9), en.Count())
	assert.Len(t, collect(t, en), 9)
}

func TestNext_KeepsNamesAndLeaves(t *testing.T) {
	en, err := resolve.New(parse(t, "(a,b,(c,d)cd,e)r;"), resolve.DefaultOptions())
	require.NoError(t, err)

	for bt, ok := en.Next(); ok; bt, ok = en.Next() {
		var leaves []string
		for _, v := range bt.Leaves() {
			leaves = append(leaves, bt.Name(v))
		}
		sort.Strings(leaves)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, leaves)
		assert.Equal(t, "r", bt.Name(bt.Root()))
		assert.NotPanics(t, func() { bt.MustByName("cd") })
	}
}

func TestReset_Restarts(t *testing.T) {
	en, err := resolve.New(parse(t, "(a,b,c,d)r;"), resolve.DefaultOptions())
	require.NoError(t, err)

	first := collect(t, en)
	en.Reset()
	second := collect(t, en)
	assert.Equal(t, first, second)
}

func TestNew_Ceiling(t *testing.T) {
	_, err := resolve.New(parse(t, "(a,b,c,d)r;"), resolve.Options{MaxResolutions: 14})
	require.ErrorIs(t, err, resolve.ErrTooManyResolutions)

	en, err := resolve.New(parse(t, "(a,b,c,d)r;"), resolve.Options{MaxResolutions: 15})
	require.NoError(t, err)
	assert.Equal(t, int64(15), en.Count())
}
