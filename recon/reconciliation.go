package recon

import "math"

// Reconciliation is a full assignment of object-tree nodes to species-tree
// nodes. Events and costs are views derived from the mapping; the mapping
// itself is the single source of truth.
type Reconciliation struct {
	in *Input

	// Mapping holds, for every object node (pre-order index), the species
	// node it is assigned to.
	Mapping []int
}

// NewReconciliation wraps an explicit mapping for the given instance. The
// mapping is not validated; use Valid to check it.
func NewReconciliation(in *Input, mapping []int) *Reconciliation {
	return &Reconciliation{in: in, Mapping: mapping}
}

// Input returns the instance this reconciliation was built for.
func (r *Reconciliation) Input() *Input { return r.in }

// Event derives the event at object node v from the mapping.
func (r *Reconciliation) Event(v int) Event {
	ob, sp := r.in.Object, r.in.Species
	s := r.Mapping[v]

	if ob.IsLeaf(v) {
		if s == r.in.LeafSpecies[v] {
			return Leaf
		}
		return Invalid
	}

	ch := ob.Children(v)
	sl, sr := r.Mapping[ch[0]], r.Mapping[ch[1]]
	if sp.IsStrictAncestorOf(sl, s) || sp.IsStrictAncestorOf(sr, s) {
		return Invalid
	}

	lIn := sp.IsAncestorOf(s, sl)
	rIn := sp.IsAncestorOf(s, sr)
	switch {
	case lIn && rIn:
		if s == sp.LCA(sl, sr) && !sp.IsComparable(sl, sr) {
			return Speciation
		}
		return Duplication
	case lIn || rIn:
		return Transfer
	default:
		return Invalid
	}
}

// Valid reports whether every node's derived event is legal.
func (r *Reconciliation) Valid() bool {
	for v := 0; v < r.in.Object.Len(); v++ {
		if r.Event(v) == Invalid {
			return false
		}
	}
	return true
}

// Cost sums event and full-loss charges over the whole mapping. Invalid
// assignments cost +Inf.
func (r *Reconciliation) Cost() float64 {
	total := 0.0
	for v := 0; v < r.in.Object.Len(); v++ {
		c := r.nodeCost(v)
		if math.IsInf(c, 1) {
			return c
		}
		total += c
	}
	return total
}

// LossCount returns the number of full-loss edges implied by the mapping,
// ignoring event weights. Invalid mappings yield -1.
func (r *Reconciliation) LossCount() int {
	ob, sp := r.in.Object, r.in.Species
	n := 0
	for v := 0; v < ob.Len(); v++ {
		e := r.Event(v)
		if e == Invalid {
			return -1
		}
		if e == Leaf {
			continue
		}
		ch := ob.Children(v)
		dl := sp.Distance(r.Mapping[v], r.Mapping[ch[0]])
		dr := sp.Distance(r.Mapping[v], r.Mapping[ch[1]])
		switch e {
		case Speciation:
			n += dl + dr - 2
		case Duplication:
			n += dl + dr
		case Transfer:
			// Only the conserved side descends within the subtree.
			if sp.IsAncestorOf(r.Mapping[v], r.Mapping[ch[0]]) {
				n += dl
			} else {
				n += dr
			}
		}
	}
	return n
}

// nodeCost charges the event at v plus its induced full losses.
func (r *Reconciliation) nodeCost(v int) float64 {
	e := r.Event(v)
	switch e {
	case Leaf:
		return 0
	case Invalid:
		return math.Inf(1)
	}

	ob, sp := r.in.Object, r.in.Species
	c := r.in.Costs
	ch := ob.Children(v)
	dl := sp.Distance(r.Mapping[v], r.Mapping[ch[0]])
	dr := sp.Distance(r.Mapping[v], r.Mapping[ch[1]])

	switch e {
	case Speciation:
		return c.Speciation + lossCharge(c.FullLoss, dl-1) + lossCharge(c.FullLoss, dr-1)
	case Duplication:
		return c.Duplication + lossCharge(c.FullLoss, dl) + lossCharge(c.FullLoss, dr)
	default: // Transfer
		d := dr
		if sp.IsAncestorOf(r.Mapping[v], r.Mapping[ch[0]]) {
			d = dl
		}
		return c.Transfer + lossCharge(c.FullLoss, d)
	}
}

// lossCharge multiplies without producing NaN when the weight is +Inf and
// the edge count is zero.
func lossCharge(w float64, edges int) float64 {
	if edges <= 0 {
		return 0
	}
	return w * float64(edges)
}

// ReconcileLCA maps every object node to the LCA of its leaves' species,
// the unique minimum under the duplication-loss model (transfers forbidden).
//
// Errors: those of NewInput's validation are assumed already handled; the
// construction itself cannot fail.
func ReconcileLCA(in *Input) *Reconciliation {
	ob := in.Object
	m := make([]int, ob.Len())
	for _, v := range ob.Postorder() {
		if ob.IsLeaf(v) {
			m[v] = in.LeafSpecies[v]
			continue
		}
		ch := ob.Children(v)
		m[v] = in.Species.LCA(m[ch[0]], m[ch[1]])
	}
	return &Reconciliation{in: in, Mapping: m}
}
