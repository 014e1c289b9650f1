package resolve

import (
	"errors"
	"fmt"

	"github.com/evolib/superrec/tree"
)

// ErrTooManyResolutions is returned by New when the number of binary
// refinements exceeds Options.MaxResolutions.
var ErrTooManyResolutions = errors.New("resolve: too many resolutions")

// Options bounds the enumeration.
type Options struct {
	// MaxResolutions caps the total number of refinements; New fails fast
	// when the (cheaply precomputed) count exceeds it. Zero or negative
	// means DefaultMaxResolutions.
	MaxResolutions int64
}

// DefaultMaxResolutions bounds enumeration to a size that stays tractable
// for downstream per-candidate solving.
const DefaultMaxResolutions = 100_000

// DefaultOptions returns the default enumeration bounds.
func DefaultOptions() Options {
	return Options{MaxResolutions: DefaultMaxResolutions}
}

// digit is one position of the mixed-radix counter: the grafting edge
// chosen when inserting one extra child into one multifurcation's shape.
type digit struct {
	radix int
	value int
}

// Enumerator yields every binary refinement of a tree, one per Next call.
type Enumerator struct {
	src    *tree.Tree
	digits []digit
	// digitAt[v] is the offset of node v's first digit, -1 for nodes that
	// are not multifurcations.
	digitAt []int
	count   int64
	done    bool
}

// New validates the refinement count against opts and positions the
// counter at the first refinement.
//
// Errors: ErrTooManyResolutions.
func New(t *tree.Tree, opts Options) (*Enumerator, error) {
	maxN := opts.MaxResolutions
	if maxN <= 0 {
		maxN = DefaultMaxResolutions
	}

	e := &Enumerator{src: t, digitAt: make([]int, t.Len()), count: 1}
	for v := 0; v < t.Len(); v++ {
		e.digitAt[v] = -1
		k := len(t.Children(v))
		if k <= 2 {
			continue
		}
		e.digitAt[v] = len(e.digits)
		// Child j (0-based, j ≥ 2) grafts onto any of 2j−1 edges of the
		// shape built from the first j children.
		for j := 2; j < k; j++ {
			r := 2*j - 1
			e.digits = append(e.digits, digit{radix: r})
			if e.count > maxN/int64(r) {
				return nil, fmt.Errorf("%w: more than %d binary refinements", ErrTooManyResolutions, maxN)
			}
			e.count *= int64(r)
		}
	}
	return e, nil
}

// Count returns the total number of refinements this enumerator yields.
func (e *Enumerator) Count() int64 { return e.count }

// Next returns the next refinement, or ok=false once all have been
// yielded. Every returned tree is independent of previous ones.
func (e *Enumerator) Next() (*tree.Tree, bool) {
	if e.done {
		return nil, false
	}

	spec := e.refine(e.src.Root())
	out, err := tree.Build(spec)
	if err != nil {
		// The source tree was valid and refinement preserves names, so
		// Build cannot reject the spec.
		panic(fmt.Sprintf("resolve: refinement rejected: %v", err))
	}

	// Advance the counter; mark done on wrap-around.
	e.done = true
	for i := len(e.digits) - 1; i >= 0; i-- {
		if e.digits[i].value+1 < e.digits[i].radix {
			e.digits[i].value++
			e.done = false
			break
		}
		e.digits[i].value = 0
	}
	return out, true
}

// Reset rewinds the enumerator to the first refinement.
func (e *Enumerator) Reset() {
	for i := range e.digits {
		e.digits[i].value = 0
	}
	e.done = false
}

// refine converts the subtree at v to a Spec, replacing multifurcations by
// the local binary shape selected by the current counter digits.
func (e *Enumerator) refine(v int) *tree.Spec {
	ch := e.src.Children(v)
	if len(ch) == 0 {
		return tree.Leaf(e.src.Name(v))
	}

	subs := make([]*tree.Spec, len(ch))
	for i, c := range ch {
		subs[i] = e.refine(c)
	}
	if len(subs) == 2 {
		return tree.Node(e.src.Name(v), subs...)
	}

	s := buildShape(subs, e.digits[e.digitAt[v]:e.digitAt[v]+len(subs)-2])
	spec := s.materialize(subs)
	spec.Name = e.src.Name(v)
	return spec
}

// shape is a binary topology over placeholder leaves; leaf indexes the
// child subtree it stands for.
type shape struct {
	leaf int
	l, r *shape
}

// buildShape grows the local topology by grafting one child at a time onto
// the edge selected by the matching digit. Edge 0 is the edge above the
// current root; the rest follow in pre-order.
func buildShape(subs []*tree.Spec, digits []digit) *shape {
	root := &shape{l: &shape{leaf: 0}, r: &shape{leaf: 1}}
	for j := 2; j < len(subs); j++ {
		edge := digits[j-2].value
		next := &shape{leaf: j}
		if edge == 0 {
			root = &shape{l: root, r: next}
			continue
		}
		slot := edgeSlot(root, &edge)
		*slot = &shape{l: *slot, r: next}
	}
	return root
}

// edgeSlot locates the n-th pre-order edge of the shape (1-based; edge 0 is
// handled by the caller) and returns the parent's child pointer for it.
func edgeSlot(n *shape, remaining *int) **shape {
	if n.l == nil {
		return nil
	}
	for _, slot := range []**shape{&n.l, &n.r} {
		*remaining--
		if *remaining == 0 {
			return slot
		}
		if s := edgeSlot(*slot, remaining); s != nil {
			return s
		}
	}
	return nil
}

// materialize turns a shape into a Spec over the actual child subtrees.
func (s *shape) materialize(subs []*tree.Spec) *tree.Spec {
	if s.l == nil {
		return subs[s.leaf]
	}
	return tree.Node("", s.l.materialize(subs), s.r.materialize(subs))
}
