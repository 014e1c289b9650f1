// Package superrec computes minimum-cost (super-)reconciliations of a
// gene/synteny tree against a species tree under speciation, duplication,
// horizontal transfer and loss events.
//
// 🚀 What is superrec?
//
//	A pure-Go solver suite that brings together:
//		• Tree model: immutable rooted trees with O(1) LCA/ancestry queries
//		• Newick parsing & formatting for tree descriptions
//		• Reconciliation: the event DP, LCA mapping, exhaustive enumeration
//		• Multifurcation resolution: lazy (2k−3)!! binary refinements
//		• Synteny: ordered/unordered content propagation over a fixed mapping
//		• Super-reconciliation: joint mapping+content optimization
//
// ✨ Why choose superrec?
//
//   - Exact – dynamic programs with certified minimum costs, never heuristics
//   - Deterministic – enumeration order is fixed; reruns agree byte-for-byte
//   - Lazy – optimal-solution sets and tree refinements stream on demand
//   - Concurrent – candidate resolutions are scored on a bounded worker pool
//
// Everything is organized under focused subpackages:
//
//	tree/    — rooted tree model, Euler-tour LCA, pre/post orders
//	newick/  — Newick subset parser and formatter
//	recon/   — cost model, reconciliation DP, solution iterator
//	resolve/ — multifurcation-to-binary refinement enumerator
//	synteny/ — content masks, root orderings, fixed-mapping propagation
//	srec/    — joint super-reconciliation DP (ordered and unordered)
//
// This root package is the orchestration facade: describe an instance as a
// Problem, pick Options, and Solve scores every binary refinement of the
// object tree, returning the globally cheapest solution(s).
//
// Quick example:
//
//	p := superrec.Problem{
//		Object:      object,  // may contain multifurcations
//		Species:     species, // binary
//		LeafSpecies: map[string]string{"x_1": "X", ...},
//		Contents:    map[string][]string{"x_1": {"a", "b"}, ...},
//		Costs:       recon.DefaultCosts(),
//	}
//	sols, err := superrec.Solve(ctx, p, superrec.DefaultOptions())
//
// Complexity: O(R · V_o · V_s² · 2^F) for R candidate refinements, object
// and species trees of V_o and V_s nodes and F gene families (2^F drops to
// a constant without contents or in unordered mode).
package superrec
