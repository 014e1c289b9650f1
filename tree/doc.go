// Package tree provides an immutable rooted-tree model with fast
// ancestry queries, used for both species trees and object/synteny trees.
//
// 🚀 What does it offer?
//
//	A Tree is built once and never mutated afterwards. Nodes are addressed
//	by dense pre-order integer indices (the root is always index 0), so
//	algorithm packages can keep per-node state in plain slices instead of
//	maps keyed by node identity.
//
// ✨ Key features:
//   - construction-time validation: malformed input fails immediately
//     with ErrMalformedTree, never during later queries
//   - O(1) lowest common ancestor of any node set, backed by an Euler
//     tour and a sparse-table range-minimum query (O(V·log V) to build)
//   - O(1) ancestry, comparability, depth and path-distance queries
//   - pre-order and post-order index sequences for traversal
//
// ⚙️ Usage:
//
//	t, err := tree.Build(tree.Node("XYZ",
//	    tree.Leaf("X"),
//	    tree.Node("YZ", tree.Leaf("Y"), tree.Leaf("Z")),
//	))
//	if err != nil { ... }
//	lca := t.LCA(t.ByName("X"), t.ByName("Z")) // == t.Root()
//
// Performance:
//
//   - Build: O(V·log V) time, O(V·log V) memory (sparse table)
//   - LCA / IsAncestorOf / Distance / Depth: O(1)
//
// See the newick package for parsing textual tree descriptions.
package tree
