// Package resolve enumerates the binary refinements of a tree that
// contains multifurcations (nodes with three or more children).
//
// A node with k children admits (2k−3)!! distinct binary local shapes;
// the total number of refinements is the product over all multifurcating
// nodes. The Enumerator walks this product space with a mixed-radix
// counter, yielding each refinement exactly once in a fixed order, so
// enumeration is deterministic and restartable.
//
// ⚙️ Usage:
//
//	en, err := resolve.New(t, resolve.DefaultOptions())
//	if err != nil { ... } // resolve.ErrTooManyResolutions past the ceiling
//	for bt, ok := en.Next(); ok; bt, ok = en.Next() {
//	    // bt is a binary tree over the same leaves
//	}
//
// Refined trees keep every original node name; internal nodes introduced
// by a refinement are unnamed. A tree that is already binary yields a
// single refinement equal to itself.
//
// Complexity: O(V) per yielded refinement, O(1) extra memory beyond the
// counter.
package resolve
