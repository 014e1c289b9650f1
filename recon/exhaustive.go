package recon

import "github.com/evolib/superrec/tree"

// Exhaustive materializes every valid reconciliation of the instance,
// regardless of cost. Intended for small instances: the result grows
// exponentially with tree size. Used to certify solver optimality.
func Exhaustive(in *Input) []*Reconciliation {
	ob, sp := in.Object, in.Species
	n := ob.Len()

	// partials[v] holds one complete-length mapping slice per valid
	// assignment of the subtree rooted at v; entries outside the subtree
	// stay at tree.NoParent.
	partials := make([][][]int, n)
	for _, v := range ob.Postorder() {
		if ob.IsLeaf(v) {
			m := blank(n)
			m[v] = in.LeafSpecies[v]
			partials[v] = [][]int{m}
			continue
		}
		ch := ob.Children(v)
		var out [][]int
		for _, a := range partials[ch[0]] {
			for _, b := range partials[ch[1]] {
				sl, sr := a[ch[0]], b[ch[1]]
				for s := 0; s < sp.Len(); s++ {
					if !validAt(sp, s, sl, sr) {
						continue
					}
					m := blank(n)
					for i := 0; i < n; i++ {
						if a[i] != tree.NoParent {
							m[i] = a[i]
						}
						if b[i] != tree.NoParent {
							m[i] = b[i]
						}
					}
					m[v] = s
					out = append(out, m)
				}
			}
		}
		partials[v] = out
		partials[ch[0]], partials[ch[1]] = nil, nil
	}

	recs := make([]*Reconciliation, len(partials[ob.Root()]))
	for i, m := range partials[ob.Root()] {
		recs[i] = &Reconciliation{in: in, Mapping: m}
	}
	return recs
}

// validAt reports whether assigning a node to s is event-consistent with
// children at sl and sr.
func validAt(sp *tree.Tree, s, sl, sr int) bool {
	lIn := sp.IsAncestorOf(s, sl)
	rIn := sp.IsAncestorOf(s, sr)
	switch {
	case lIn && rIn:
		return true
	case lIn:
		return !sp.IsComparable(s, sr)
	case rIn:
		return !sp.IsComparable(s, sl)
	default:
		return false
	}
}

func blank(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = tree.NoParent
	}
	return m
}
