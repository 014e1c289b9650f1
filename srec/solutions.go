package srec

import (
	"github.com/evolib/superrec/recon"
	"github.com/evolib/superrec/synteny"
)

// Solutions enumerates every minimum-cost super-reconciliation lazily, in a
// fixed deterministic order: by candidate root ordering, then by root
// species, then by the back-pointer order at each internal object node in
// pre-order.
type Solutions struct {
	in      *Input
	ordered bool
	minCost float64
	runs    []*run

	runIdx   int
	inner    []int // internal object nodes, pre-order
	digits   []int // [0] root species choice, then one per inner node
	lens     []int
	spAssign []int
	ctAssign []uint64
	started  bool
	done     bool
}

func newSolutions(in *Input, ordered bool, minCost float64, runs []*run) *Solutions {
	ob := in.Rec.Object
	var inner []int
	for _, v := range ob.Preorder() {
		if !ob.IsLeaf(v) {
			inner = append(inner, v)
		}
	}
	return &Solutions{
		in:       in,
		ordered:  ordered,
		minCost:  minCost,
		runs:     runs,
		inner:    inner,
		digits:   make([]int, len(inner)+1),
		lens:     make([]int, len(inner)+1),
		spAssign: make([]int, ob.Len()),
		ctAssign: make([]uint64, ob.Len()),
	}
}

// MinCost returns the optimal total cost shared by every solution.
func (s *Solutions) MinCost() float64 { return s.minCost }

// Next yields the next optimal labeling, or ok=false when the set is
// exhausted.
func (s *Solutions) Next() (*synteny.Labeling, bool) {
	if s.done {
		return nil, false
	}
	if !s.started {
		s.started = true
		s.sweep(0)
		return s.current(), true
	}
	for j := len(s.digits) - 1; j >= 0; j-- {
		if s.digits[j]+1 < s.lens[j] {
			s.digits[j]++
			for k := j + 1; k < len(s.digits); k++ {
				s.digits[k] = 0
			}
			s.sweep(j)
			return s.current(), true
		}
	}
	if s.runIdx+1 < len(s.runs) {
		s.runIdx++
		for k := range s.digits {
			s.digits[k] = 0
		}
		s.sweep(0)
		return s.current(), true
	}
	s.done = true
	return nil, false
}

// Reset rewinds the iterator to the first solution.
func (s *Solutions) Reset() {
	s.runIdx = 0
	for i := range s.digits {
		s.digits[i] = 0
	}
	s.started = false
	s.done = false
}

// sweep recomputes assignments from digit index from onward within the
// current run.
func (s *Solutions) sweep(from int) {
	ob := s.in.Rec.Object
	r := s.runs[s.runIdx]
	if from == 0 {
		s.lens[0] = len(r.rootPicks)
		s.spAssign[ob.Root()] = int(r.rootPicks[s.digits[0]])
		s.ctAssign[ob.Root()] = r.rootCt
		from = 1
	}
	for i := from; i <= len(s.inner); i++ {
		v := s.inner[i-1]
		picks := r.cells[v][s.spAssign[v]*r.stride+int(s.ctAssign[v])].picks
		s.lens[i] = len(picks)
		p := picks[s.digits[i]]
		ch := ob.Children(v)
		s.spAssign[ch[0]], s.ctAssign[ch[0]] = int(p.l.x), p.l.ct
		s.spAssign[ch[1]], s.ctAssign[ch[1]] = int(p.r.x), p.r.ct
	}
}

// current materializes the labeling for the present assignment.
func (s *Solutions) current() *synteny.Labeling {
	ob := s.in.Rec.Object
	r := s.runs[s.runIdx]

	mapping := make([]int, ob.Len())
	copy(mapping, s.spAssign)
	rec := recon.NewReconciliation(s.in.Rec, mapping)

	contents := make([][]string, ob.Len())
	if s.ordered {
		for v := 0; v < ob.Len(); v++ {
			contents[v] = synteny.FromMask(synteny.Mask(s.ctAssign[v]), r.order)
		}
	} else {
		// Materialize the family sets top-down: inheriting nodes extend
		// their parent's set with their own gains.
		sets := make([]synteny.Mask, ob.Len())
		for _, v := range ob.Preorder() {
			if s.ctAssign[v] == kindLCA || v == ob.Root() {
				sets[v] = r.lcaSets[v]
			} else {
				sets[v] = sets[ob.Parent(v)] | r.gains[v]
			}
			contents[v] = synteny.FromMask(sets[v], r.order)
		}
	}

	return &synteny.Labeling{
		Rec:           rec,
		Ordered:       s.ordered,
		Families:      r.order,
		Contents:      contents,
		SegmentalCost: s.minCost - rec.Cost(),
		TotalCost:     s.minCost,
	}
}

// AnyOrdered returns the single deterministic ordered optimum.
func AnyOrdered(in *Input) (*synteny.Labeling, error) {
	sols, err := SolveOrdered(in)
	if err != nil {
		return nil, err
	}
	lab, _ := sols.Next()
	return lab, nil
}

// AnyUnordered returns the single deterministic unordered optimum.
func AnyUnordered(in *Input) (*synteny.Labeling, error) {
	sols, err := SolveUnordered(in)
	if err != nil {
		return nil, err
	}
	lab, _ := sols.Next()
	return lab, nil
}
