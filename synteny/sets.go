package synteny

import (
	"math/bits"

	"github.com/evolib/superrec/tree"
)

// GainSets attributes each family to the object node where it first
// appeared: the LCA of all leaves whose contents include it. leafMasks is
// indexed by object node, with zero masks for internal nodes.
func GainSets(ob *tree.Tree, leafMasks []Mask) []Mask {
	gains := make([]Mask, ob.Len())

	var carriers [][]int
	for _, v := range ob.Leaves() {
		for rest := leafMasks[v]; rest != 0; rest &= rest - 1 {
			f := trailingBit(rest)
			for len(carriers) <= f {
				carriers = append(carriers, nil)
			}
			carriers[f] = append(carriers[f], v)
		}
	}
	for f, leaves := range carriers {
		if len(leaves) > 0 {
			gains[ob.LCA(leaves...)] |= 1 << f
		}
	}
	return gains
}

// LCASets computes, for each object node, the minimal family set its
// synteny must contain: the union of the children's minimal sets minus
// what the children gained on their own.
func LCASets(ob *tree.Tree, leafMasks, gains []Mask) []Mask {
	sets := make([]Mask, ob.Len())
	for _, v := range ob.Postorder() {
		if ob.IsLeaf(v) {
			sets[v] = leafMasks[v]
			continue
		}
		var union, gained Mask
		for _, c := range ob.Children(v) {
			union |= sets[c]
			gained |= gains[c]
		}
		sets[v] = union &^ gained
	}
	return sets
}

func trailingBit(m Mask) int { return bits.TrailingZeros64(uint64(m)) }
