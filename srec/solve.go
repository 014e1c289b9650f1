package srec

import (
	"fmt"
	"math"
	"slices"

	"github.com/evolib/superrec/synteny"
)

// childAssign places one child at a species and a content state (an ordered
// content mask, or an unordered assignment kind).
type childAssign struct {
	x  int32
	ct uint64
}

// pick is a back-pointer: the assignments of both children.
type pick struct {
	l, r childAssign
}

// cell holds the minimum cost of rooting an object subtree at one (species,
// content) state, plus every optimal pick in deterministic order.
type cell struct {
	cost  float64
	picks []pick
}

// jentry accumulates the optimal assignments of one child over one region
// of the state space.
type jentry struct {
	cost  float64
	picks []childAssign
}

func (e *jentry) update(cost float64, a childAssign) {
	switch {
	case math.IsInf(cost, 1) || math.IsNaN(cost):
	case cost < e.cost:
		e.cost = cost
		e.picks = append(e.picks[:0], a)
	case cost == e.cost:
		e.picks = append(e.picks, a)
	}
}

// Per-child regions entering the event combinations.
const (
	rLeft = iota // below the left species child, conserved content
	rRight
	rConserved // below the current species, conserved content
	rSegment   // below the current species, segment content
	rSeparate  // incomparable species, segment content
	regions
)

type jpair struct{ l, r *jentry }

// combineJ merges the cheapest pairings of one event into sorted picks,
// mirroring the plain reconciliation combiner.
func combineJ(base float64, variants []jpair) (float64, []pick) {
	cost := math.Inf(1)
	for _, p := range variants {
		if v := p.l.cost + p.r.cost; v < cost {
			cost = v
		}
	}
	if math.IsInf(cost, 1) || math.IsInf(base, 1) {
		return math.Inf(1), nil
	}

	var pairs []pick
	for _, p := range variants {
		if p.l.cost+p.r.cost != cost {
			continue
		}
		for _, la := range p.l.picks {
			for _, ra := range p.r.picks {
				pairs = append(pairs, pick{l: la, r: ra})
			}
		}
	}
	slices.SortFunc(pairs, func(a, b pick) int {
		switch {
		case a.l.x != b.l.x:
			return int(a.l.x) - int(b.l.x)
		case a.l.ct != b.l.ct:
			return int(a.l.ct) - int(b.l.ct)
		case a.r.x != b.r.x:
			return int(a.r.x) - int(b.r.x)
		default:
			return int(a.r.ct) - int(b.r.ct)
		}
	})
	return base + cost, pairs
}

func mergeCell(dst *cell, cost float64, pairs []pick) {
	switch {
	case math.IsInf(cost, 1):
	case cost < dst.cost:
		dst.cost = cost
		dst.picks = append(dst.picks[:0], pairs...)
	case cost == dst.cost:
		dst.picks = append(dst.picks, pairs...)
	}
}

func charge(w float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return w * float64(n)
}

// run is a fully solved table: one per candidate root ordering in ordered
// mode, exactly one in unordered mode.
type run struct {
	order  []string
	stride int    // content states per species
	rootCt uint64 // content state required at the object root
	cells  [][]cell

	// species achieving the run's optimum at the root, ascending
	rootPicks []int32

	// unordered decode data
	gains, lcaSets []synteny.Mask
}

// rootScan collects the run's optimal root species for the required root
// content state.
func (r *run) rootScan(root, nS int) float64 {
	best := math.Inf(1)
	r.rootPicks = r.rootPicks[:0]
	for s := 0; s < nS; s++ {
		switch c := r.cells[root][s*r.stride+int(r.rootCt)].cost; {
		case math.IsInf(c, 1):
		case c < best:
			best = c
			r.rootPicks = append(r.rootPicks[:0], int32(s))
		case c == best:
			r.rootPicks = append(r.rootPicks, int32(s))
		}
	}
	return best
}

// fillOrdered solves the (object × species × mask) table for one root
// order.
func fillOrdered(in *Input, order []string) ([][]cell, error) {
	ob, sp := in.Rec.Object, in.Rec.Species
	n := len(order)
	size := 1 << n
	nS := sp.Len()

	cells := make([][]cell, ob.Len())
	for _, v := range ob.Postorder() {
		row := make([]cell, nS*size)
		for i := range row {
			row[i].cost = math.Inf(1)
		}
		if ob.IsLeaf(v) {
			mask, err := synteny.MaskOf(in.Contents[ob.Name(v)], order)
			if err != nil {
				return nil, err
			}
			row[in.Rec.LeafSpecies[v]*size+int(mask)].cost = 0
			cells[v] = row
			continue
		}

		ch := ob.Children(v)
		for s := 0; s < nS; s++ {
			for mi := 0; mi < size; mi++ {
				row[s*size+mi] = fillOrderedCell(in, cells[ch[0]], cells[ch[1]], s, synteny.Mask(mi), size)
			}
		}
		cells[v] = row
	}
	return cells, nil
}

// fillOrderedCell scores all events for one (species, parent mask) state.
func fillOrderedCell(in *Input, lCells, rCells []cell, s int, m synteny.Mask, size int) cell {
	sp := in.Rec.Species
	costs := in.Rec.Costs
	sloss := costs.SegmentalLoss
	floss := costs.FullLoss
	sch := sp.Children(s)

	var sub [2][regions]jentry
	for ci, row := range [2][]cell{lCells, rCells} {
		for k := range sub[ci] {
			sub[ci][k].cost = math.Inf(1)
		}
		for x := 0; x < sp.Len(); x++ {
			anc := sp.IsAncestorOf(s, x)
			if !anc && sp.IsAncestorOf(x, s) {
				continue
			}

			for cm := synteny.Mask(0); ; cm = (cm - m) & m {
				base := row[x*size+int(cm)].cost
				if !math.IsInf(base, 1) {
					conservD := synteny.SegmentDist(cm, m, true)
					segD := synteny.SegmentDist(cm, m, false)
					a := childAssign{x: int32(x), ct: uint64(cm)}

					if anc {
						above := charge(floss, sp.Distance(s, x))
						sub[ci][rConserved].update(above+base+charge(sloss, conservD), a)
						if segD >= 0 {
							sub[ci][rSegment].update(above+base+charge(sloss, segD), a)
						}
						if len(sch) == 2 {
							below := charge(floss, sp.Distance(s, x)-1)
							if sp.IsAncestorOf(sch[0], x) {
								sub[ci][rLeft].update(below+base+charge(sloss, conservD), a)
							} else if sp.IsAncestorOf(sch[1], x) {
								sub[ci][rRight].update(below+base+charge(sloss, conservD), a)
							}
						}
					} else if segD >= 0 {
						sub[ci][rSeparate].update(base+charge(sloss, segD), a)
					}
				}
				if cm == m {
					break
				}
			}
		}
	}

	return combineRegions(costs.Speciation, costs.Duplication, costs.Transfer, &sub)
}

// combineRegions applies the event alternatives in tie-break order:
// speciation splits the children across the species subtrees, duplication
// keeps one conserved and one segment copy, transfer keeps one conserved
// copy and sends a segment to an incomparable species.
func combineRegions(cSpec, cDup, cHgt float64, sub *[2][regions]jentry) cell {
	best := cell{cost: math.Inf(1)}
	c, p := combineJ(cSpec, []jpair{
		{&sub[0][rLeft], &sub[1][rRight]},
		{&sub[0][rRight], &sub[1][rLeft]},
	})
	mergeCell(&best, c, p)
	c, p = combineJ(cDup, []jpair{
		{&sub[0][rConserved], &sub[1][rSegment]},
		{&sub[0][rSegment], &sub[1][rConserved]},
	})
	mergeCell(&best, c, p)
	c, p = combineJ(cHgt, []jpair{
		{&sub[0][rConserved], &sub[1][rSeparate]},
		{&sub[0][rSeparate], &sub[1][rConserved]},
	})
	mergeCell(&best, c, p)
	return best
}

// Unordered content states.
const (
	kindLCA = iota
	kindInherit
	kinds
)

// fillUnordered solves the (object × species × kind) table over family
// sets.
func fillUnordered(in *Input, lcaSets []synteny.Mask) [][]cell {
	ob, sp := in.Rec.Object, in.Rec.Species
	nS := sp.Len()

	cells := make([][]cell, ob.Len())
	for _, v := range ob.Postorder() {
		row := make([]cell, nS*kinds)
		for i := range row {
			row[i].cost = math.Inf(1)
		}
		if ob.IsLeaf(v) {
			row[in.Rec.LeafSpecies[v]*kinds+kindLCA].cost = 0
			cells[v] = row
			continue
		}

		ch := ob.Children(v)
		for s := 0; s < nS; s++ {
			for k := 0; k < kinds; k++ {
				row[s*kinds+k] = fillUnorderedCell(in, cells[ch[0]], cells[ch[1]], lcaSets, v, s, k)
			}
		}
		cells[v] = row
	}
	return cells
}

// fillUnorderedCell scores all events for one (species, kind) state. The
// kind decides what losing families costs on each child edge: a node that
// inherits extra content can only shed it against a segmental loss, while
// the LCA set is free exactly when the child keeps every needed family.
func fillUnorderedCell(in *Input, lCells, rCells []cell, lcaSets []synteny.Mask, v, s, k int) cell {
	ob, sp := in.Rec.Object, in.Rec.Species
	costs := in.Rec.Costs
	sloss := costs.SegmentalLoss
	floss := costs.FullLoss
	sch := sp.Children(s)
	ch := ob.Children(v)

	var sub [2][regions]jentry
	for ci, row := range [2][]cell{lCells, rCells} {
		for r := range sub[ci] {
			sub[ci][r].cost = math.Inf(1)
		}

		lcaLca, lcaInh := 0.0, math.Inf(1)
		if lcaSets[v]&^lcaSets[ch[ci]] != 0 {
			lcaLca, lcaInh = sloss, 0
		}

		for x := 0; x < sp.Len(); x++ {
			anc := sp.IsAncestorOf(s, x)
			if !anc && sp.IsAncestorOf(x, s) {
				continue
			}

			lcaCost := row[x*kinds+kindLCA].cost
			inhCost := row[x*kinds+kindInherit].cost
			lcaPick := childAssign{x: int32(x), ct: kindLCA}
			inhPick := childAssign{x: int32(x), ct: kindInherit}

			// Conserved framing: shrinking below the parent content is
			// charged. Segment framing: the copy restarts from its own set.
			var consLCA, consInh, segLCA, segInh float64
			if k == kindInherit {
				consLCA, consInh = lcaCost+sloss, inhCost
				segLCA, segInh = lcaCost, inhCost
			} else {
				consLCA, consInh = lcaCost+lcaLca, inhCost+lcaInh
				segLCA, segInh = lcaCost, inhCost+lcaInh
			}

			if anc {
				above := charge(floss, sp.Distance(s, x))
				sub[ci][rConserved].update(above+consLCA, lcaPick)
				sub[ci][rConserved].update(above+consInh, inhPick)
				sub[ci][rSegment].update(above+segLCA, lcaPick)
				sub[ci][rSegment].update(above+segInh, inhPick)
				if len(sch) == 2 {
					below := charge(floss, sp.Distance(s, x)-1)
					side := -1
					if sp.IsAncestorOf(sch[0], x) {
						side = rLeft
					} else if sp.IsAncestorOf(sch[1], x) {
						side = rRight
					}
					if side >= 0 {
						sub[ci][side].update(below+consLCA, lcaPick)
						sub[ci][side].update(below+consInh, inhPick)
					}
				}
			} else {
				sub[ci][rSeparate].update(segLCA, lcaPick)
				sub[ci][rSeparate].update(segInh, inhPick)
			}
		}
	}

	return combineRegions(costs.Speciation, costs.Duplication, costs.Transfer, &sub)
}

// SolveOrdered computes all minimum-cost ordered super-reconciliations.
//
// Errors: ErrInfeasible, plus synteny's content errors.
func SolveOrdered(in *Input) (*Solutions, error) {
	orderings, err := synteny.CandidateOrderings(in.Rec.Object, in.Contents)
	if err != nil {
		return nil, err
	}

	minCost := math.Inf(1)
	var runs []*run
	for _, order := range orderings {
		if len(order) > synteny.MaxOrderedFamilies {
			return nil, fmt.Errorf("%w: ordered solving is limited to %d families",
				synteny.ErrTooManyFamilies, synteny.MaxOrderedFamilies)
		}
		cells, err := fillOrdered(in, order)
		if err != nil {
			return nil, err
		}
		r := &run{
			order:  order,
			stride: 1 << len(order),
			rootCt: uint64(synteny.Complete(len(order))),
			cells:  cells,
		}
		switch c := r.rootScan(in.Rec.Object.Root(), in.Rec.Species.Len()); {
		case math.IsInf(c, 1):
		case c < minCost:
			minCost = c
			runs = append(runs[:0], r)
		case c == minCost:
			runs = append(runs, r)
		}
	}
	if math.IsInf(minCost, 1) {
		return nil, ErrInfeasible
	}
	return newSolutions(in, true, minCost, runs), nil
}

// SolveUnordered computes all minimum-cost unordered super-reconciliations.
//
// Errors: ErrInfeasible, plus synteny's content errors.
func SolveUnordered(in *Input) (*Solutions, error) {
	families, leafMasks, err := synteny.SortedFamilies(in.Rec.Object, in.Contents)
	if err != nil {
		return nil, err
	}
	gains := synteny.GainSets(in.Rec.Object, leafMasks)
	lcaSets := synteny.LCASets(in.Rec.Object, leafMasks, gains)

	r := &run{
		order:   families,
		stride:  kinds,
		rootCt:  kindLCA,
		cells:   fillUnordered(in, lcaSets),
		gains:   gains,
		lcaSets: lcaSets,
	}
	minCost := r.rootScan(in.Rec.Object.Root(), in.Rec.Species.Len())
	if math.IsInf(minCost, 1) {
		return nil, ErrInfeasible
	}
	return newSolutions(in, false, minCost, []*run{r}), nil
}
