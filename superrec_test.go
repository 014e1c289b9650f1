package superrec_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolib/superrec"
	"github.com/evolib/superrec/newick"
	"github.com/evolib/superrec/recon"
	"github.com/evolib/superrec/resolve"
	"github.com/evolib/superrec/tree"
)

func mustTree(t *testing.T, s string) *tree.Tree {
	t.Helper()
	tr, err := newick.Parse(s)
	require.NoError(t, err)
	return tr
}

// referenceProblem is the plain-reconciliation instance used throughout the
// recon tests: two optimal mappings of cost 2 under unit costs.
func referenceProblem(t *testing.T) superrec.Problem {
	t.Helper()
	return superrec.Problem{
		Object:  mustTree(t, "((x_1,(x_2,(y_1,z_1)5)4)3,(y_2,z_2)2)1;"),
		Species: mustTree(t, "(X,(Y,Z)YZ)XYZ;"),
		LeafSpecies: map[string]string{
			"x_1": "X", "x_2": "X", "y_1": "Y", "z_1": "Z", "y_2": "Y", "z_2": "Z",
		},
		Costs: recon.DefaultCosts(),
	}
}

func mappingByName(s *superrec.Solution) map[string]string {
	sp := s.Rec.Input().Species
	out := make(map[string]string, s.Object.Len())
	for v := 0; v < s.Object.Len(); v++ {
		out[s.Object.Name(v)] = sp.Name(s.Rec.Mapping[v])
	}
	return out
}

func TestSolve_PlainReconciliation(t *testing.T) {
	p := referenceProblem(t)

	sols, err := superrec.Solve(context.Background(), p, superrec.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, 2.0, sols[0].Cost)
	assert.Nil(t, sols[0].Labeling)
	assert.True(t, sols[0].Rec.Valid())
	assert.Equal(t, recon.Leaf, sols[0].Events()[sols[0].Object.MustByName("x_1")])
}

func TestSolve_AllIsDeterministic(t *testing.T) {
	p := referenceProblem(t)

	want := []map[string]string{
		{
			"1": "XYZ", "2": "YZ", "3": "X", "4": "X", "5": "YZ",
			"x_1": "X", "x_2": "X", "y_1": "Y", "z_1": "Z", "y_2": "Y", "z_2": "Z",
		},
		{
			"1": "XYZ", "2": "YZ", "3": "X", "4": "YZ", "5": "YZ",
			"x_1": "X", "x_2": "X", "y_1": "Y", "z_1": "Z", "y_2": "Y", "z_2": "Z",
		},
	}

	var prev []map[string]string
	for _, workers := range []int{1, 4} {
		opts := superrec.Options{All: true, Ordered: true, Workers: workers}
		sols, err := superrec.Solve(context.Background(), p, opts)
		require.NoError(t, err)
		require.Len(t, sols, 2)

		var got []map[string]string
		for _, s := range sols {
			assert.Equal(t, 2.0, s.Cost)
			got = append(got, mappingByName(s))
		}
		assert.ElementsMatch(t, want, got)
		if prev != nil {
			assert.Equal(t, prev, got, "solve order must not depend on worker count")
		}
		prev = got
	}
}

func TestSolve_ResolvesMultifurcation(t *testing.T) {
	// Only the grouping (0_0,(1_1,0_2)) is feasible with duplications
	// forbidden; it costs one transfer plus one full and one segmental loss.
	p := superrec.Problem{
		Object:      mustTree(t, "(0_0,1_1,0_2)r;"),
		Species:     mustTree(t, "(0,1)s;"),
		LeafSpecies: map[string]string{"0_0": "0", "1_1": "1", "0_2": "0"},
		Contents:    map[string][]string{"0_0": {"a"}, "1_1": {"a"}, "0_2": {"a", "b"}},
		Costs: recon.CostVector{
			Duplication: math.Inf(1), Transfer: 1, FullLoss: 1, SegmentalLoss: 1,
		},
	}

	sols, err := superrec.Solve(context.Background(), p, superrec.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, sols, 1)

	s := sols[0]
	assert.Equal(t, 3.0, s.Cost)
	require.NotNil(t, s.Labeling)
	assert.True(t, s.Labeling.Ordered)
	for _, v := range s.Object.Preorder() {
		if !s.Object.IsLeaf(v) {
			assert.Len(t, s.Object.Children(v), 2)
		}
	}
	// The inner node groups 1_1 with 0_2.
	inner := s.Object.LCA(s.Object.MustByName("1_1"), s.Object.MustByName("0_2"))
	assert.NotEqual(t, s.Object.Root(), inner)
}

func TestSolve_UnorderedContents(t *testing.T) {
	p := superrec.Problem{
		Object:      mustTree(t, "(0_0,(1_1,0_2)v)r;"),
		Species:     mustTree(t, "(0,1)s;"),
		LeafSpecies: map[string]string{"0_0": "0", "1_1": "1", "0_2": "0"},
		Contents:    map[string][]string{"0_0": {"a"}, "1_1": {"a"}, "0_2": {"a", "b"}},
		Costs: recon.CostVector{
			Duplication: math.Inf(1), Transfer: 1, FullLoss: 1, SegmentalLoss: 1,
		},
	}

	sols, err := superrec.Solve(context.Background(), p, superrec.Options{})
	require.NoError(t, err)
	require.Len(t, sols, 1)
	assert.Equal(t, 1.0, sols[0].Cost)
	assert.False(t, sols[0].Labeling.Ordered)
}

func TestSolve_NoSolution(t *testing.T) {
	p := superrec.Problem{
		Object:      mustTree(t, "(a_1,a_2)r;"),
		Species:     mustTree(t, "(X,Y)s;"),
		LeafSpecies: map[string]string{"a_1": "X", "a_2": "X"},
		Costs: recon.CostVector{
			Duplication: math.Inf(1), Transfer: math.Inf(1), FullLoss: 1, SegmentalLoss: 1,
		},
	}

	_, err := superrec.Solve(context.Background(), p, superrec.DefaultOptions())
	assert.ErrorIs(t, err, superrec.ErrNoSolution)
}

func TestSolve_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := superrec.Solve(ctx, referenceProblem(t), superrec.DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_ResolutionCeiling(t *testing.T) {
	p := superrec.Problem{
		Object:      mustTree(t, "(a_1,b_1,c_1,d_1)r;"),
		Species:     mustTree(t, "(A,(B,(C,D)))s;"),
		LeafSpecies: map[string]string{"a_1": "A", "b_1": "B", "c_1": "C", "d_1": "D"},
		Costs:       recon.DefaultCosts(),
	}

	_, err := superrec.Solve(context.Background(), p,
		superrec.Options{Ordered: true, MaxResolutions: 2})
	assert.ErrorIs(t, err, resolve.ErrTooManyResolutions)

	sols, err := superrec.Solve(context.Background(), p, superrec.DefaultOptions())
	require.NoError(t, err)
	assert.Len(t, sols, 1)
}
