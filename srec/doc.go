// Package srec solves the super-reconciliation problem: it jointly picks a
// species mapping and ancestral contents for a binary object tree whose
// leaves carry gene contents, minimizing event, full-loss and
// segmental-loss costs together.
//
// Joint optimization matters: a mapping that is optimal for events and
// full losses alone can force expensive content losses, so the DP ranges
// over (object node × species node × content) states. Contents are either
// subsequences of a root family order (ordered mode, SolveOrdered) or
// family sets tracked through the two canonical assignments — the node's
// own minimal set, or that set plus everything inherited from its parent
// (unordered mode, SolveUnordered).
//
// When the root order is not pinned by a root content, ordered mode tries
// every order compatible with the leaf contents and keeps the global
// minimum.
//
// Extraction mirrors package recon: AnyOrdered/AnyUnordered return one
// deterministic optimum, SolveOrdered/SolveUnordered return a restartable
// iterator over all optima. Loss charging follows the event semantics of
// package synteny: conserved children pay boundary segments, duplicated
// segments and transferred contents do not.
package srec
