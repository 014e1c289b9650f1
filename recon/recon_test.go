package recon_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolib/superrec/newick"
	"github.com/evolib/superrec/recon"
)

// The classic instance used throughout: two gene copies sampled in each of
// three species, with one subtree cheaply explained by a transfer.
const (
	refGeneTree    = "((x_1,(x_2,(y_1,z_1)5)4)3,(y_2,z_2)2)1;"
	refSpeciesTree = "(X,(Y,Z)YZ)XYZ;"
)

func refInput(t *testing.T, costs recon.CostVector) *recon.Input {
	t.Helper()
	ob, err := newick.Parse(refGeneTree)
	require.NoError(t, err)
	sp, err := newick.Parse(refSpeciesTree)
	require.NoError(t, err)

	mapping := map[string]string{
		"x_1": "X", "x_2": "X",
		"y_1": "Y", "y_2": "Y",
		"z_1": "Z", "z_2": "Z",
	}
	in, err := recon.NewInput(ob, sp, mapping, costs)
	require.NoError(t, err)
	return in
}

// mappingByName flattens a reconciliation into name pairs for comparison.
func mappingByName(rec *recon.Reconciliation) map[string]string {
	ob, sp := rec.Input().Object, rec.Input().Species
	m := make(map[string]string, len(rec.Mapping))
	for v, s := range rec.Mapping {
		m[ob.Name(v)] = sp.Name(s)
	}
	return m
}

func TestExhaustive_ReferenceCount(t *testing.T) {
	in := refInput(t, recon.DefaultCosts())
	all := recon.Exhaustive(in)
	require.Len(t, all, 199)
	for _, rec := range all {
		assert.True(t, rec.Valid())
	}
}

func TestReconcileLCA_Reference(t *testing.T) {
	costs := recon.DefaultCosts()
	costs.Transfer = math.Inf(1)
	in := refInput(t, costs)

	rec := recon.ReconcileLCA(in)
	require.True(t, rec.Valid())
	assert.Equal(t, map[string]string{
		"x_1": "X", "x_2": "X", "y_1": "Y", "y_2": "Y", "z_1": "Z", "z_2": "Z",
		"1": "XYZ", "2": "YZ", "3": "XYZ", "4": "XYZ", "5": "YZ",
	}, mappingByName(rec))
	assert.Equal(t, 4.0, rec.Cost())

	// With transfers forbidden, the LCA mapping is the unique optimum.
	for _, other := range recon.Exhaustive(in) {
		cost := other.Cost()
		assert.GreaterOrEqual(t, cost, 4.0)
		if cost == 4.0 {
			assert.Equal(t, rec.Mapping, other.Mapping)
		}
	}
}

func TestReconcileAll_Reference(t *testing.T) {
	in := refInput(t, recon.DefaultCosts())

	sols, err := recon.ReconcileAll(in)
	require.NoError(t, err)
	assert.Equal(t, 2.0, sols.MinCost())

	var got []map[string]string
	for rec, ok := sols.Next(); ok; rec, ok = sols.Next() {
		require.True(t, rec.Valid())
		assert.Equal(t, 2.0, rec.Cost())
		got = append(got, mappingByName(rec))
	}
	require.Len(t, got, 2)

	leaves := map[string]string{
		"x_1": "X", "x_2": "X", "y_1": "Y", "y_2": "Y", "z_1": "Z", "z_2": "Z",
	}
	want1 := map[string]string{"1": "XYZ", "2": "YZ", "3": "X", "4": "X", "5": "YZ"}
	want2 := map[string]string{"1": "XYZ", "2": "YZ", "3": "X", "4": "YZ", "5": "YZ"}
	for k, v := range leaves {
		want1[k] = v
		want2[k] = v
	}
	assert.Contains(t, got, want1)
	assert.Contains(t, got, want2)

	// The optimum is certified against brute force.
	for _, other := range recon.Exhaustive(in) {
		cost := other.Cost()
		assert.GreaterOrEqual(t, cost, 2.0)
		if cost == 2.0 {
			assert.Contains(t, got, mappingByName(other))
		}
	}
}

func TestReconcileAny_FirstOfAll(t *testing.T) {
	in := refInput(t, recon.DefaultCosts())

	any1, err := recon.ReconcileAny(in)
	require.NoError(t, err)
	any2, err := recon.ReconcileAny(in)
	require.NoError(t, err)
	assert.Equal(t, any1.Mapping, any2.Mapping, "ReconcileAny must be deterministic")

	sols, err := recon.ReconcileAll(in)
	require.NoError(t, err)
	first, ok := sols.Next()
	require.True(t, ok)
	assert.Equal(t, first.Mapping, any1.Mapping)
}

func TestSolutions_Reset(t *testing.T) {
	in := refInput(t, recon.DefaultCosts())
	sols, err := recon.ReconcileAll(in)
	require.NoError(t, err)

	var pass1 [][]int
	for rec, ok := sols.Next(); ok; rec, ok = sols.Next() {
		pass1 = append(pass1, rec.Mapping)
	}
	sols.Reset()
	var pass2 [][]int
	for rec, ok := sols.Next(); ok; rec, ok = sols.Next() {
		pass2 = append(pass2, rec.Mapping)
	}
	assert.Equal(t, pass1, pass2)
}

func TestReconcile_Infeasible(t *testing.T) {
	// Two leaves of the same species under one root: the root must be a
	// duplication or transfer; forbid both.
	ob, err := newick.Parse("(a_1,a_2)r;")
	require.NoError(t, err)
	sp, err := newick.Parse("(A,B)AB;")
	require.NoError(t, err)

	costs := recon.DefaultCosts()
	costs.Duplication = math.Inf(1)
	costs.Transfer = math.Inf(1)
	in, err := recon.NewInput(ob, sp, map[string]string{"a_1": "A", "a_2": "A"}, costs)
	require.NoError(t, err)

	_, err = recon.ReconcileAny(in)
	require.ErrorIs(t, err, recon.ErrInfeasible)
}

func TestNewInput_Validation(t *testing.T) {
	bin, err := newick.Parse("(a_1,b_1)r;")
	require.NoError(t, err)
	sp, err := newick.Parse("(A,B)AB;")
	require.NoError(t, err)
	multi, err := newick.Parse("(a_1,b_1,c_1)r;")
	require.NoError(t, err)

	_, err = recon.NewInput(multi, sp, map[string]string{"a_1": "A", "b_1": "B", "c_1": "A"}, recon.DefaultCosts())
	assert.ErrorIs(t, err, recon.ErrNotBinary)

	_, err = recon.NewInput(bin, sp, map[string]string{"a_1": "A"}, recon.DefaultCosts())
	assert.ErrorIs(t, err, recon.ErrBadLeafMapping)

	_, err = recon.NewInput(bin, sp, map[string]string{"a_1": "A", "b_1": "nope"}, recon.DefaultCosts())
	assert.ErrorIs(t, err, recon.ErrBadLeafMapping)

	_, err = recon.NewInput(bin, sp, map[string]string{"a_1": "A", "b_1": "AB"}, recon.DefaultCosts())
	assert.ErrorIs(t, err, recon.ErrBadLeafMapping)

	bad := recon.DefaultCosts()
	bad.FullLoss = -1
	_, err = recon.NewInput(bin, sp, map[string]string{"a_1": "A", "b_1": "B"}, bad)
	assert.ErrorIs(t, err, recon.ErrBadCost)
}

func TestEvent_Derivation(t *testing.T) {
	in := refInput(t, recon.DefaultCosts())
	ob := in.Object

	rec := recon.ReconcileLCA(in)
	assert.Equal(t, recon.Duplication, rec.Event(ob.MustByName("1")))
	assert.Equal(t, recon.Speciation, rec.Event(ob.MustByName("2")))
	assert.Equal(t, recon.Duplication, rec.Event(ob.MustByName("3")))
	assert.Equal(t, recon.Speciation, rec.Event(ob.MustByName("4")))
	assert.Equal(t, recon.Speciation, rec.Event(ob.MustByName("5")))
	assert.Equal(t, recon.Leaf, rec.Event(ob.MustByName("x_1")))
	assert.Equal(t, 2, rec.LossCount())
}

func TestCostVector_Of(t *testing.T) {
	c := recon.DefaultCosts()
	assert.Equal(t, 0.0, c.Of(recon.Leaf))
	assert.Equal(t, 0.0, c.Of(recon.Speciation))
	assert.Equal(t, 1.0, c.Of(recon.Duplication))
	assert.True(t, math.IsInf(c.Of(recon.Invalid), 1))
}
