package recon

import "math"

// Solutions enumerates every minimum-cost reconciliation lazily, in a fixed
// deterministic order: first by the root's species index, then by the
// back-pointer tie-break order at each internal object node in pre-order.
//
// The zero value is not usable; obtain one from ReconcileAll.
type Solutions struct {
	t         *tables
	rootPicks []int32
	minCost   float64

	inner   []int // internal object nodes, pre-order
	digits  []int // [0] root choice, then one pick index per inner node
	lens    []int
	assign  []int
	started bool
	done    bool
}

// ReconcileAll solves the instance and returns an iterator over all optimal
// reconciliations.
//
// Errors: ErrInfeasible when no finite-cost mapping exists.
func ReconcileAll(in *Input) (*Solutions, error) {
	t := solve(in)
	root := in.Object.Root()

	minCost := math.Inf(1)
	var rootPicks []int32
	for s := 0; s < in.Species.Len(); s++ {
		switch c := t.cells[root][s].cost; {
		case math.IsInf(c, 1):
		case c < minCost:
			minCost = c
			rootPicks = append(rootPicks[:0], int32(s))
		case c == minCost:
			rootPicks = append(rootPicks, int32(s))
		}
	}
	if math.IsInf(minCost, 1) {
		return nil, ErrInfeasible
	}

	var inner []int
	for _, v := range in.Object.Preorder() {
		if !in.Object.IsLeaf(v) {
			inner = append(inner, v)
		}
	}

	return &Solutions{
		t:         t,
		rootPicks: rootPicks,
		minCost:   minCost,
		inner:     inner,
		digits:    make([]int, len(inner)+1),
		lens:      make([]int, len(inner)+1),
		assign:    make([]int, in.Object.Len()),
	}, nil
}

// ReconcileAny returns the single deterministic optimum (the first solution
// ReconcileAll would yield).
//
// Errors: ErrInfeasible when no finite-cost mapping exists.
func ReconcileAny(in *Input) (*Reconciliation, error) {
	sols, err := ReconcileAll(in)
	if err != nil {
		return nil, err
	}
	rec, _ := sols.Next()
	return rec, nil
}

// MinCost returns the optimal total cost shared by every solution.
func (s *Solutions) MinCost() float64 { return s.minCost }

// Next yields the next optimal reconciliation, or ok=false when the set is
// exhausted. Each returned value owns its mapping slice.
func (s *Solutions) Next() (rec *Reconciliation, ok bool) {
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
	s.done = true
	return nil, false
}

// Reset rewinds the iterator to the first solution.
func (s *Solutions) Reset() {
	for i := range s.digits {
		s.digits[i] = 0
	}
	s.started = false
	s.done = false
}

// sweep recomputes species assignments from digit index from onward. Digits
// before from keep their assignments, so only the changed suffix is redone.
func (s *Solutions) sweep(from int) {
	ob := s.t.in.Object
	if from == 0 {
		s.lens[0] = len(s.rootPicks)
		s.assign[ob.Root()] = int(s.rootPicks[s.digits[0]])
		from = 1
	}
	for i := from; i <= len(s.inner); i++ {
		v := s.inner[i-1]
		picks := s.t.cells[v][s.assign[v]].picks
		s.lens[i] = len(picks)
		p := picks[s.digits[i]]
		ch := ob.Children(v)
		s.assign[ch[0]] = int(p.left)
		s.assign[ch[1]] = int(p.right)
	}
}

func (s *Solutions) current() *Reconciliation {
	m := make([]int, len(s.assign))
	copy(m, s.assign)
	return &Reconciliation{in: s.t.in, Mapping: m}
}
