package synteny

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/evolib/superrec/recon"
	"github.com/evolib/superrec/tree"
)

var (
	// ErrMissingContent is returned when an object leaf has no content.
	ErrMissingContent = errors.New("synteny: missing leaf content")

	// ErrBadMapping is returned when the reconciliation to propagate over
	// contains an invalid assignment.
	ErrBadMapping = errors.New("synteny: invalid reconciliation")

	// ErrInfeasible is returned when no finite-cost labeling exists.
	ErrInfeasible = errors.New("synteny: no finite-cost labeling")
)

// MaxOrderedFamilies bounds the ordered DP tables, which hold one row per
// subsequence of the root order.
const MaxOrderedFamilies = 24

// Labeling assigns contents to every node of a reconciled object tree.
type Labeling struct {
	// Rec is the fixed reconciliation the labeling was computed for.
	Rec *recon.Reconciliation

	// Ordered tells whether contents are subsequences of Families or
	// plain sets (listed in Families order).
	Ordered bool

	// Families is the root ordering (ordered mode) or the sorted family
	// universe (unordered mode).
	Families []string

	// Contents holds the content of every object node.
	Contents [][]string

	// SegmentalCost is the summed segmental-loss charge of the labeling;
	// TotalCost adds the reconciliation's event and full-loss cost.
	SegmentalCost float64
	TotalCost     float64
}

// Transferred returns the content that jumped to a foreign species at a
// transfer node, or nil for any other event.
func (l *Labeling) Transferred(v int) []string {
	if l.Rec.Event(v) != recon.Transfer {
		return nil
	}
	in := l.Rec.Input()
	for _, c := range in.Object.Children(v) {
		if !in.Species.IsComparable(l.Rec.Mapping[v], l.Rec.Mapping[c]) {
			return l.Contents[c]
		}
	}
	return nil
}

// PropagateOrdered labels the reconciled object tree with ordered contents
// of minimum segmental-loss cost, keeping the species mapping of rec fixed.
// The root content is the full family order: contents[root name], when
// present, pins it; otherwise every order compatible with the leaf contents
// is tried and the cheapest kept (first such order on ties).
//
// Errors: ErrMissingContent, ErrBadMapping, ErrNotSubsequence (content
// incompatible with a pinned root order), ErrOrderConflict,
// ErrTooManyFamilies, ErrInfeasible.
func PropagateOrdered(rec *recon.Reconciliation, contents map[string][]string) (*Labeling, error) {
	in := rec.Input()
	ob := in.Object
	if !rec.Valid() {
		return nil, ErrBadMapping
	}

	orderings, err := CandidateOrderings(ob, contents)
	if err != nil {
		return nil, err
	}

	best := &Labeling{SegmentalCost: math.Inf(1)}
	for _, order := range orderings {
		if len(order) > MaxOrderedFamilies {
			return nil, fmt.Errorf("%w: ordered propagation is limited to %d families",
				ErrTooManyFamilies, MaxOrderedFamilies)
		}
		lab, err := propagateOneOrder(rec, contents, order)
		if err != nil {
			return nil, err
		}
		if lab != nil && lab.SegmentalCost < best.SegmentalCost {
			best = lab
		}
	}
	if math.IsInf(best.SegmentalCost, 1) {
		return nil, ErrInfeasible
	}
	best.TotalCost = rec.Cost() + best.SegmentalCost
	return best, nil
}

// CandidateOrderings resolves the candidate root orders of an instance:
// the pinned root content when contents has an entry under the root's
// name, every total order compatible with the leaf contents otherwise.
//
// Errors: ErrMissingContent, ErrOrderConflict, ErrTooManyFamilies.
func CandidateOrderings(ob *tree.Tree, contents map[string][]string) ([][]string, error) {
	if rootName := ob.Name(ob.Root()); rootName != "" {
		if order, pinned := contents[rootName]; pinned && !ob.IsLeaf(ob.Root()) {
			return [][]string{order}, nil
		}
	}
	var leafContents [][]string
	for _, v := range ob.Leaves() {
		content, ok := contents[ob.Name(v)]
		if !ok {
			return nil, fmt.Errorf("%w: leaf %q", ErrMissingContent, ob.Name(v))
		}
		leafContents = append(leafContents, content)
	}
	return RootOrderings(leafContents)
}

// propagateOneOrder runs the mask DP for one root order. A nil labeling
// means no finite assignment exists under this order.
func propagateOneOrder(rec *recon.Reconciliation, contents map[string][]string, order []string) (*Labeling, error) {
	in := rec.Input()
	ob, sp := in.Object, in.Species
	sloss := in.Costs.SegmentalLoss
	n := len(order)
	size := 1 << n

	cost := make([][]float64, ob.Len())
	pick := make([][][2]Mask, ob.Len())

	for _, v := range ob.Postorder() {
		cost[v] = make([]float64, size)
		if ob.IsLeaf(v) {
			content, ok := contents[ob.Name(v)]
			if !ok {
				return nil, fmt.Errorf("%w: leaf %q", ErrMissingContent, ob.Name(v))
			}
			leafMask, err := MaskOf(content, order)
			if err != nil {
				return nil, err
			}
			for m := range cost[v] {
				cost[v][m] = math.Inf(1)
			}
			cost[v][leafMask] = 0
			continue
		}

		pick[v] = make([][2]Mask, size)
		ch := ob.Children(v)
		conservedL := sp.IsAncestorOf(rec.Mapping[v], rec.Mapping[ch[0]])

		for mi := 0; mi < size; mi++ {
			m := Mask(mi)
			var total float64
			var chosen [2]Mask

			switch rec.Event(v) {
			case recon.Speciation:
				lc, lm := childBest(cost[ch[0]], m, sloss, true)
				rc, rm := childBest(cost[ch[1]], m, sloss, true)
				total, chosen = lc+rc, [2]Mask{lm, rm}

			case recon.Duplication:
				// One copy keeps its flanks, the other is a free-standing
				// segment; try both assignments.
				lc1, lm1 := childBest(cost[ch[0]], m, sloss, true)
				rc1, rm1 := childBest(cost[ch[1]], m, sloss, false)
				lc2, lm2 := childBest(cost[ch[0]], m, sloss, false)
				rc2, rm2 := childBest(cost[ch[1]], m, sloss, true)
				if lc1+rc1 <= lc2+rc2 {
					total, chosen = lc1+rc1, [2]Mask{lm1, rm1}
				} else {
					total, chosen = lc2+rc2, [2]Mask{lm2, rm2}
				}

			case recon.Transfer:
				le, re := true, false
				if !conservedL {
					le, re = false, true
				}
				lc, lm := childBest(cost[ch[0]], m, sloss, le)
				rc, rm := childBest(cost[ch[1]], m, sloss, re)
				total, chosen = lc+rc, [2]Mask{lm, rm}
			}

			cost[v][mi] = total
			pick[v][mi] = chosen
		}
	}

	root := ob.Root()
	complete := Complete(n)
	segCost := cost[root][complete]
	if math.IsInf(segCost, 1) {
		return nil, nil
	}

	// Decode the chosen masks top-down.
	masks := make([]Mask, ob.Len())
	masks[root] = complete
	result := make([][]string, ob.Len())
	for _, v := range ob.Preorder() {
		result[v] = FromMask(masks[v], order)
		if ob.IsLeaf(v) {
			continue
		}
		ch := ob.Children(v)
		p := pick[v][masks[v]]
		masks[ch[0]], masks[ch[1]] = p[0], p[1]
	}

	return &Labeling{
		Rec:           rec,
		Ordered:       true,
		Families:      order,
		Contents:      result,
		SegmentalCost: segCost,
	}, nil
}

// childBest finds the cheapest content for one child under a given parent
// mask: the child's subtree cost plus the segmental charge for what was
// dropped, with or without boundary segments. Ties keep the numerically
// smallest mask.
func childBest(row []float64, parent Mask, sloss float64, edges bool) (float64, Mask) {
	best := math.Inf(1)
	var bestMask Mask
	sub := Mask(0)
	for {
		if c := row[sub]; !math.IsInf(c, 1) {
			if d := SegmentDist(sub, parent, edges); d >= 0 {
				if total := c + segCharge(sloss, d); total < best {
					best = total
					bestMask = sub
				}
			}
		}
		if sub == parent {
			break
		}
		sub = (sub - parent) & parent
	}
	return best, bestMask
}

func segCharge(w float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return w * float64(n)
}

// kinds of unordered content assignments: exactly the families that must be
// present (the LCA set), or that set plus everything inherited from above.
const (
	kindLCA = iota
	kindInherit
)

// PropagateUnordered labels the reconciled object tree with family sets of
// minimum segmental-loss cost, keeping the species mapping of rec fixed.
// Contents are emitted in sorted family order.
//
// Errors: ErrMissingContent, ErrBadMapping, ErrTooManyFamilies,
// ErrInfeasible.
func PropagateUnordered(rec *recon.Reconciliation, contents map[string][]string) (*Labeling, error) {
	in := rec.Input()
	ob, sp := in.Object, in.Species
	if !rec.Valid() {
		return nil, ErrBadMapping
	}
	sloss := in.Costs.SegmentalLoss

	families, leafMasks, err := SortedFamilies(ob, contents)
	if err != nil {
		return nil, err
	}
	gains := GainSets(ob, leafMasks)
	lcaSets := LCASets(ob, leafMasks, gains)

	cost := make([][2]float64, ob.Len())
	pick := make([][2][2]uint8, ob.Len())

	for _, v := range ob.Postorder() {
		if ob.IsLeaf(v) {
			cost[v] = [2]float64{0, math.Inf(1)}
			continue
		}
		ch := ob.Children(v)
		conservedL := sp.IsAncestorOf(rec.Mapping[v], rec.Mapping[ch[0]])

		for k := 0; k < 2; k++ {
			childTerm := func(c int, conserved bool) (float64, uint8) {
				lcaLca, lcaInh := 0.0, math.Inf(1)
				if lcaSets[v]&^lcaSets[c] != 0 {
					// The parent set is not preserved below: keeping the
					// LCA content drops families, inheriting does not.
					lcaLca, lcaInh = sloss, 0
				}
				var viaLCA, viaInh float64
				if conserved {
					if k == kindInherit {
						viaLCA, viaInh = cost[c][kindLCA]+sloss, cost[c][kindInherit]
					} else {
						viaLCA, viaInh = cost[c][kindLCA]+lcaLca, cost[c][kindInherit]+lcaInh
					}
				} else {
					viaLCA = cost[c][kindLCA]
					viaInh = cost[c][kindInherit]
					if k == kindLCA {
						viaInh += lcaInh
					}
				}
				if viaLCA <= viaInh {
					return viaLCA, kindLCA
				}
				return viaInh, kindInherit
			}

			var total float64
			var kinds [2]uint8
			switch rec.Event(v) {
			case recon.Speciation:
				lc, lk := childTerm(ch[0], true)
				rc, rk := childTerm(ch[1], true)
				total, kinds = lc+rc, [2]uint8{lk, rk}
			case recon.Duplication:
				lc1, lk1 := childTerm(ch[0], true)
				rc1, rk1 := childTerm(ch[1], false)
				lc2, lk2 := childTerm(ch[0], false)
				rc2, rk2 := childTerm(ch[1], true)
				if lc1+rc1 <= lc2+rc2 {
					total, kinds = lc1+rc1, [2]uint8{lk1, rk1}
				} else {
					total, kinds = lc2+rc2, [2]uint8{lk2, rk2}
				}
			case recon.Transfer:
				lc, lk := childTerm(ch[0], conservedL)
				rc, rk := childTerm(ch[1], !conservedL)
				total, kinds = lc+rc, [2]uint8{lk, rk}
			}
			cost[v][k] = total
			pick[v][k] = kinds
		}
	}

	root := ob.Root()
	segCost := cost[root][kindLCA]
	if math.IsInf(segCost, 1) {
		return nil, ErrInfeasible
	}

	// Decode kinds top-down and materialize the sets.
	kinds := make([]uint8, ob.Len())
	sets := make([]Mask, ob.Len())
	sets[root] = lcaSets[root]
	result := make([][]string, ob.Len())
	for _, v := range ob.Preorder() {
		result[v] = FromMask(sets[v], families)
		if ob.IsLeaf(v) {
			continue
		}
		ch := ob.Children(v)
		p := pick[v][kinds[v]]
		for i, c := range ch {
			kinds[c] = p[i]
			if p[i] == kindLCA {
				sets[c] = lcaSets[c]
			} else {
				sets[c] = sets[v] | gains[c]
			}
		}
	}

	return &Labeling{
		Rec:           rec,
		Ordered:       false,
		Families:      families,
		Contents:      result,
		SegmentalCost: segCost,
		TotalCost:     rec.Cost() + segCost,
	}, nil
}

// SortedFamilies collects the family universe of the leaf contents in
// sorted order and encodes each leaf as a set mask over it.
//
// Errors: ErrMissingContent, ErrTooManyFamilies.
func SortedFamilies(ob *tree.Tree, contents map[string][]string) ([]string, []Mask, error) {
	seen := make(map[string]bool)
	var families []string
	for _, v := range ob.Leaves() {
		content, ok := contents[ob.Name(v)]
		if !ok {
			return nil, nil, fmt.Errorf("%w: leaf %q", ErrMissingContent, ob.Name(v))
		}
		for _, f := range content {
			if !seen[f] {
				seen[f] = true
				families = append(families, f)
			}
		}
	}
	if len(families) > MaxFamilies {
		return nil, nil, fmt.Errorf("%w: %d families", ErrTooManyFamilies, len(families))
	}
	sort.Strings(families)

	index := make(map[string]int, len(families))
	for i, f := range families {
		index[f] = i
	}
	masks := make([]Mask, ob.Len())
	for _, v := range ob.Leaves() {
		for _, f := range contents[ob.Name(v)] {
			masks[v] |= 1 << index[f]
		}
	}
	return families, masks, nil
}
