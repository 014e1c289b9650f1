package recon

import (
	"math"
	"slices"
)

// placement is a back-pointer: the event chosen at a cell plus the species
// assigned to the left and right object children.
type placement struct {
	event       Event
	left, right int32
}

// cell holds the minimum subtree cost of rooting an object node at a
// species node, plus every optimal placement in tie-break order.
type cell struct {
	cost  float64
	picks []placement
}

// entry is the restriction of a child's cost row to one species region:
// the best achievable value and every species index achieving it.
type entry struct {
	cost  float64
	picks []int32
}

type tables struct {
	in    *Input
	cells [][]cell
}

// solve fills the (object × species) table bottom-up. cells[v][s].cost is
// the cheapest reconciliation of the subtree rooted at v when v is assigned
// to species s.
func solve(in *Input) *tables {
	ob, sp := in.Object, in.Species
	nS := sp.Len()
	cells := make([][]cell, ob.Len())

	for _, v := range ob.Postorder() {
		row := make([]cell, nS)
		if ob.IsLeaf(v) {
			for s := range row {
				row[s].cost = math.Inf(1)
			}
			row[in.LeafSpecies[v]].cost = 0
			cells[v] = row
			continue
		}
		ch := ob.Children(v)
		lRow := costsOf(cells[ch[0]])
		rRow := costsOf(cells[ch[1]])
		for s := 0; s < nS; s++ {
			row[s] = fillCell(in, s, lRow, rRow)
		}
		cells[v] = row
	}
	return &tables{in: in, cells: cells}
}

func costsOf(row []cell) []float64 {
	cs := make([]float64, len(row))
	for i := range row {
		cs[i] = row[i].cost
	}
	return cs
}

// fillCell scores every event at species s and keeps the optimal
// placements. Events are merged in tie-break order (Speciation <
// Duplication < Transfer) so equal-cost picks stay sorted.
func fillCell(in *Input, s int, lRow, rRow []float64) cell {
	sp := in.Species
	c := in.Costs
	best := cell{cost: math.Inf(1)}

	merge := func(cost float64, pairs []placement) {
		if math.IsInf(cost, 1) {
			return
		}
		switch {
		case cost < best.cost:
			best.cost = cost
			best.picks = append(best.picks[:0], pairs...)
		case cost == best.cost:
			best.picks = append(best.picks, pairs...)
		}
	}

	// Speciation: the children descend into the two distinct species
	// subtrees, each charged loss edges past the first.
	if sch := sp.Children(s); len(sch) == 2 {
		merge(combine(Speciation, c.Speciation, []pairing{
			{inBest(in, sch[0], lRow), inBest(in, sch[1], rRow)},
			{inBest(in, sch[1], lRow), inBest(in, sch[0], rRow)},
		}))
	}

	lIn := inBest(in, s, lRow)
	rIn := inBest(in, s, rRow)

	// Duplication: both children stay below s, every descent edge charged.
	merge(combine(Duplication, c.Duplication, []pairing{{lIn, rIn}}))

	// Transfer: one child conserved below s, the other jumps to an
	// incomparable species with no loss charge on the jump.
	merge(combine(Transfer, c.Transfer, []pairing{
		{lIn, outBest(in, s, rRow)},
		{outBest(in, s, lRow), rIn},
	}))

	return best
}

type pairing struct{ l, r entry }

// combine picks the cheapest pairing(s) for one event and expands them into
// sorted placement pairs.
func combine(ev Event, base float64, variants []pairing) (float64, []placement) {
	cost := math.Inf(1)
	for _, p := range variants {
		if v := p.l.cost + p.r.cost; v < cost {
			cost = v
		}
	}
	if math.IsInf(cost, 1) || math.IsInf(base, 1) {
		return math.Inf(1), nil
	}

	var pairs []placement
	for _, p := range variants {
		if p.l.cost+p.r.cost != cost {
			continue
		}
		for _, xl := range p.l.picks {
			for _, xr := range p.r.picks {
				pairs = append(pairs, placement{event: ev, left: xl, right: xr})
			}
		}
	}
	slices.SortFunc(pairs, func(a, b placement) int {
		if a.left != b.left {
			return int(a.left) - int(b.left)
		}
		return int(a.right) - int(b.right)
	})
	return base + cost, pairs
}

// inBest scans the species subtree rooted at t for the cheapest child
// placement, charging one full loss per edge between t and the placement.
func inBest(in *Input, t int, row []float64) entry {
	sp := in.Species
	e := entry{cost: math.Inf(1)}
	for x := 0; x < sp.Len(); x++ {
		if !sp.IsAncestorOf(t, x) {
			continue
		}
		cand := row[x] + lossCharge(in.Costs.FullLoss, sp.Distance(t, x))
		switch {
		case math.IsInf(cand, 1):
		case cand < e.cost:
			e.cost = cand
			e.picks = append(e.picks[:0], int32(x))
		case cand == e.cost:
			e.picks = append(e.picks, int32(x))
		}
	}
	return e
}

// outBest scans species incomparable with s for the cheapest (loss-free)
// transfer target.
func outBest(in *Input, s int, row []float64) entry {
	sp := in.Species
	e := entry{cost: math.Inf(1)}
	for x := 0; x < sp.Len(); x++ {
		if sp.IsComparable(s, x) {
			continue
		}
		switch cand := row[x]; {
		case math.IsInf(cand, 1):
		case cand < e.cost:
			e.cost = cand
			e.picks = append(e.picks[:0], int32(x))
		case cand == e.cost:
			e.picks = append(e.picks, int32(x))
		}
	}
	return e
}
