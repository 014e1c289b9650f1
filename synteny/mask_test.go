package synteny_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evolib/superrec/synteny"
)

func families(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "")
}

func TestComplete(t *testing.T) {
	assert.Equal(t, synteny.Mask(0), synteny.Complete(0))
	assert.Equal(t, synteny.Mask(1), synteny.Complete(1))
	assert.Equal(t, synteny.Mask(0b1111), synteny.Complete(4))
	assert.Equal(t, ^synteny.Mask(0), synteny.Complete(64))
}

func TestMaskOf(t *testing.T) {
	order := families("abcdefghijkl")

	m, err := synteny.MaskOf(families("bcfijl"), order)
	require.NoError(t, err)
	assert.Equal(t, synteny.Mask(0b1011_0010_0110), m)

	m, err = synteny.MaskOf(nil, order)
	require.NoError(t, err)
	assert.Equal(t, synteny.Mask(0), m)

	m, err = synteny.MaskOf(order, order)
	require.NoError(t, err)
	assert.Equal(t, synteny.Complete(12), m)

	// Wrong relative order is not a subsequence.
	_, err = synteny.MaskOf(families("cb"), order)
	assert.ErrorIs(t, err, synteny.ErrNotSubsequence)
	_, err = synteny.MaskOf(families("az"), order)
	assert.ErrorIs(t, err, synteny.ErrNotSubsequence)
}

func TestFromMask(t *testing.T) {
	order := families("abcdefghijkl")
	assert.Equal(t, families("bcfijl"), synteny.FromMask(0b1011_0010_0110, order))
	assert.Empty(t, synteny.FromMask(0, order))
	assert.Equal(t, order, synteny.FromMask(synteny.Complete(12), order))
}

func TestSegmentDist(t *testing.T) {
	cases := []struct {
		child, parent synteny.Mask
		edges         bool
		want          int
	}{
		{0b1111_0111, 0b1111_1111, true, 1},
		{0b1111_0111, 0b1111_1111, false, 1},
		{0b1110_0011, 0b1111_0111, true, 1},
		{0b1110_0011, 0b1111_0111, false, 1},
		{0b1100_0010, 0b1110_0011, true, 2},
		{0b1100_0010, 0b1110_0011, false, 1},
		{0b0100_0010, 0b1100_0010, true, 1},
		{0b0100_0010, 0b1100_0010, false, 0},
		{0b1010_1010, 0b0101_0101, true, -1},
		{0b1010_1010, 0b0101_0101, false, -1},
		{0b111, 0b110, true, -1},
		{0b111, 0b110, false, -1},
		{0, 0b111, true, 1},
		{0b111, 0b111, true, 0},
		{0b111, 0b111, false, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, synteny.SegmentDist(c.child, c.parent, c.edges),
			"SegmentDist(%b, %b, %v)", c.child, c.parent, c.edges)
	}

	// 64-bit-wide masks.
	all := ^synteny.Mask(0)
	s1 := all &^ (1 << 52) &^ (1 << 53)
	assert.Equal(t, 1, synteny.SegmentDist(s1, all, true))
	assert.Equal(t, 1, synteny.SegmentDist(s1, all, false))

	s2 := s1 &^ (1 << 63) &^ 1
	assert.Equal(t, 2, synteny.SegmentDist(s2, s1, true))
	assert.Equal(t, 0, synteny.SegmentDist(s2, s1, false))
}

func TestRootOrderings(t *testing.T) {
	// Consecutive pairs constrain the order: a<c and b<c.
	orders, err := synteny.RootOrderings([][]string{{"b", "c"}, {"a", "c"}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"b", "a", "c"}, {"a", "b", "c"}}, orders)

	// A fully constrained input has exactly one order.
	orders, err = synteny.RootOrderings([][]string{{"a", "b"}, {"b", "c"}})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}}, orders)

	// Contradictory constraints admit none.
	_, err = synteny.RootOrderings([][]string{{"a", "b"}, {"b", "a"}})
	assert.ErrorIs(t, err, synteny.ErrOrderConflict)
}
