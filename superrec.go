package superrec

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/evolib/superrec/recon"
	"github.com/evolib/superrec/resolve"
	"github.com/evolib/superrec/srec"
	"github.com/evolib/superrec/synteny"
	"github.com/evolib/superrec/tree"
)

// ErrNoSolution is returned when no binary refinement of the object tree
// admits a finite-cost solution.
var ErrNoSolution = errors.New("superrec: no feasible candidate")

// Problem is a full solver instance. Leaf species and contents are keyed by
// leaf name; Contents left nil requests a plain reconciliation without
// synteny labeling.
type Problem struct {
	// Object is the gene/synteny tree; multifurcations are allowed and
	// resolved into every binary refinement.
	Object *tree.Tree

	// Species is the binary species tree.
	Species *tree.Tree

	// LeafSpecies maps every object leaf name to a species leaf name.
	LeafSpecies map[string]string

	// Contents maps object leaf names to gene contents. An entry under the
	// object root's name pins the ancestral family order.
	Contents map[string][]string

	Costs recon.CostVector
}

// Options tunes Solve.
type Options struct {
	// All requests every optimal solution instead of the first one.
	All bool

	// Ordered selects the ordered content model (subsequence semantics);
	// unset, contents are treated as unordered family sets. Ignored when
	// the problem has no contents.
	Ordered bool

	// MaxResolutions bounds the number of binary refinements enumerated
	// per multifurcating object tree; 0 means resolve.DefaultMaxResolutions.
	MaxResolutions int64

	// Workers caps the scoring goroutines; 0 means runtime.NumCPU.
	Workers int
}

// DefaultOptions returns the recommended settings: a single solution under
// the ordered content model.
func DefaultOptions() Options {
	return Options{Ordered: true}
}

// Solution is one optimal outcome: a binary object tree, its species
// mapping, and (for synteny problems) the content labeling.
type Solution struct {
	// Object is the resolved binary object tree the solution lives on.
	Object *tree.Tree

	// Rec maps every object node to a species node.
	Rec *recon.Reconciliation

	// Labeling carries ancestral contents; nil for plain reconciliations.
	Labeling *synteny.Labeling

	// Cost is the total event, full-loss and segmental-loss cost.
	Cost float64
}

// Events returns the derived event of every object node, indexed like the
// tree's pre-order.
func (s *Solution) Events() []recon.Event {
	out := make([]recon.Event, s.Object.Len())
	for v := range out {
		out[v] = s.Rec.Event(v)
	}
	return out
}

// scored is the outcome of one candidate refinement. At most one of the two
// iterators is set; both are nil when the candidate was pruned or failed.
type scored struct {
	cost     float64
	recSols  *recon.Solutions
	srecSols *srec.Solutions
	err      error
}

// Solve enumerates the binary refinements of the object tree, scores each
// with the reconciliation DP (or the joint super-reconciliation DP when
// contents are present), and returns the solutions of global minimum cost:
// the first one, or all of them under Options.All, reduced in a fixed
// candidate order so the result is independent of scheduling.
//
// Errors: ErrNoSolution when every candidate is infeasible, ctx.Err() on
// cancellation, resolve.ErrTooManyResolutions, and the validation errors of
// recon.NewInput, srec.NewInput and recon.CostVector.Validate.
func Solve(ctx context.Context, p Problem, opts Options) ([]*Solution, error) {
	if err := p.Costs.Validate(); err != nil {
		return nil, err
	}
	enum, err := resolve.New(p.Object, resolve.Options{MaxResolutions: opts.MaxResolutions})
	if err != nil {
		return nil, err
	}
	var cands []*tree.Tree
	for t, ok := enum.Next(); ok; t, ok = enum.Next() {
		cands = append(cands, t)
	}

	results := make([]scored, len(cands))
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(cands) {
		workers = len(cands)
	}

	// Workers pull candidate indices from a shared counter and keep a
	// monotonically improving cost bound; a stale read only costs a missed
	// discard, never a wrong answer.
	var next atomic.Int64
	var best atomic.Uint64
	best.Store(math.Float64bits(math.Inf(1)))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1)) - 1
				if i >= len(cands) || ctx.Err() != nil {
					return
				}
				results[i] = score(p, opts, cands[i], &best)
			}
		}()
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return reduce(cands, results, opts.All)
}

// score runs the per-candidate DP and drops the solution iterator when the
// candidate cannot attain the global minimum anymore.
func score(p Problem, opts Options, cand *tree.Tree, best *atomic.Uint64) scored {
	sc := scored{cost: math.Inf(1)}
	if p.Contents == nil {
		in, err := recon.NewInput(cand, p.Species, p.LeafSpecies, p.Costs)
		if err != nil {
			sc.err = err
			return sc
		}
		sols, err := recon.ReconcileAll(in)
		if err != nil {
			sc.err = err
			return sc
		}
		sc.cost, sc.recSols = sols.MinCost(), sols
	} else {
		in, err := srec.NewInput(cand, p.Species, p.LeafSpecies, p.Contents, p.Costs)
		if err != nil {
			sc.err = err
			return sc
		}
		var sols *srec.Solutions
		if opts.Ordered {
			sols, err = srec.SolveOrdered(in)
		} else {
			sols, err = srec.SolveUnordered(in)
		}
		if err != nil {
			sc.err = err
			return sc
		}
		sc.cost, sc.srecSols = sols.MinCost(), sols
	}

	improve(best, sc.cost)
	if sc.cost > math.Float64frombits(best.Load()) {
		sc.recSols, sc.srecSols = nil, nil
	}
	return sc
}

// improve lowers the shared bound to c if c is smaller. Costs are
// non-negative, so the float bit patterns order like the values.
func improve(best *atomic.Uint64, c float64) {
	for {
		cur := best.Load()
		if math.Float64frombits(cur) <= c {
			return
		}
		if best.CompareAndSwap(cur, math.Float64bits(c)) {
			return
		}
	}
}

// reduce folds the per-candidate outcomes in index order.
func reduce(cands []*tree.Tree, results []scored, all bool) ([]*Solution, error) {
	minCost := math.Inf(1)
	for _, r := range results {
		if r.err != nil {
			if errors.Is(r.err, recon.ErrInfeasible) || errors.Is(r.err, srec.ErrInfeasible) {
				continue
			}
			return nil, r.err
		}
		if r.cost < minCost {
			minCost = r.cost
		}
	}
	if math.IsInf(minCost, 1) {
		return nil, ErrNoSolution
	}

	var out []*Solution
	for i, r := range results {
		if r.err != nil || r.cost != minCost {
			continue
		}
		switch {
		case r.recSols != nil:
			for rec, ok := r.recSols.Next(); ok; rec, ok = r.recSols.Next() {
				out = append(out, &Solution{Object: cands[i], Rec: rec, Cost: r.cost})
				if !all {
					return out, nil
				}
			}
		case r.srecSols != nil:
			for lab, ok := r.srecSols.Next(); ok; lab, ok = r.srecSols.Next() {
				out = append(out, &Solution{
					Object:   cands[i],
					Rec:      lab.Rec,
					Labeling: lab,
					Cost:     lab.TotalCost,
				})
				if !all {
					return out, nil
				}
			}
		}
	}
	return out, nil
}
