// Package recon computes minimum-cost reconciliations between a binary
// object tree (genes or syntenies) and a binary species tree, allowing
// speciation, duplication, horizontal transfer and loss events.
//
// 🚀 What is a reconciliation?
//
//	An assignment of every object-tree node to a species-tree node (its
//	locus). Comparing a node's locus with its children's loci determines
//	the evolutionary event at that node; skipped species-tree edges on
//	the way down are charged as losses. The solver finds assignments of
//	minimum total event cost for a configurable cost vector.
//
// ✨ Key features:
//   - bottom-up dynamic programming over dense (object × species)
//     tables indexed by pre-order node ids
//   - single deterministic optimum (ReconcileAny) or an exhaustive,
//     lazily enumerated set of all optima (ReconcileAll)
//   - fixed, documented tie-break order: Speciation < Duplication <
//     Transfer, then smaller left, then smaller right species index
//   - classical LCA reconciliation (ReconcileLCA) for the
//     duplication-loss model
//   - brute-force enumeration of every valid reconciliation
//     (Exhaustive), used to certify optimality in tests
//
// ⚙️ Usage:
//
//	in, err := recon.NewInput(objectTree, speciesTree, leafSpecies, recon.DefaultCosts())
//	if err != nil { ... }
//	rec, err := recon.ReconcileAny(in)
//	if err != nil { ... } // recon.ErrInfeasible when no finite assignment exists
//	fmt.Println(rec.Cost(), rec.Event(someNode))
//
// Complexity:
//
//   - Time:   O(V_o · V_s²) for the DP fill
//   - Memory: O(V_o · V_s) plus the retained optimal back-pointers
//
// Cost semantics follow the transfer-duplication-loss model: speciation
// charges losses for skipped edges on both descent paths (distance − 1
// per side), duplication charges every descent edge on both sides, and
// horizontal transfer charges descent edges on the conserved side only.
package recon
