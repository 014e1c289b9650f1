// Package synteny models gene contents of reconciled objects and assigns
// minimum-cost contents to ancestral nodes once a species mapping is fixed.
//
// Contents come in two flavors:
//
//   - ordered: a synteny is a subsequence of a total order over gene
//     families, encoded as a bitmask (Mask) over that order. Losing a
//     contiguous run of families costs one segmental loss; SegmentDist
//     counts lost segments between nested subsequences.
//   - unordered: a synteny is a set of families. A child that dropped any
//     families relative to its parent costs one segmental loss.
//
// When the root order is not pinned, RootOrderings enumerates every total
// order compatible with the leaf orders (all topological sorts of the
// precedence graph).
//
// PropagateOrdered and PropagateUnordered label every internal node of a
// reconciled object tree with contents of minimum segmental-loss cost,
// keeping the species mapping fixed. Loss charging depends on the event at
// each node: speciation conserves both children (boundary segments count),
// duplication lets one copy keep a boundary-free segment, and a transfer
// charges the conserved side only.
//
// At most 64 gene families are supported (ErrTooManyFamilies); the ordered
// propagation table additionally grows as 2^families.
package synteny
