package recon

import (
	"errors"
	"fmt"
	"math"

	"github.com/evolib/superrec/tree"
)

var (
	// ErrNotBinary is returned when the object or species tree contains an
	// internal node whose child count differs from two.
	ErrNotBinary = errors.New("recon: tree is not binary")

	// ErrBadLeafMapping is returned when an object leaf is not mapped to a
	// species leaf, or is mapped to a name absent from the species tree.
	ErrBadLeafMapping = errors.New("recon: bad leaf mapping")

	// ErrBadCost is returned when a cost vector contains a negative or NaN
	// weight. Use math.Inf(1) to forbid an event kind.
	ErrBadCost = errors.New("recon: bad cost vector")

	// ErrInfeasible is returned when every assignment of the object root has
	// infinite cost under the given cost vector.
	ErrInfeasible = errors.New("recon: no finite-cost reconciliation")
)

// Event identifies what happened at an object-tree node, derived from the
// node's species assignment relative to its children's assignments.
type Event uint8

const (
	// Leaf marks an extant object mapped to its sampled species.
	Leaf Event = iota
	// Invalid marks an assignment that violates the descent constraints.
	Invalid
	// Speciation: the node sits at the LCA of its children's species, which
	// lie in different child subtrees.
	Speciation
	// Duplication: both children remain inside the node's species subtree,
	// but the configuration is not a speciation.
	Duplication
	// Transfer: exactly one child stays in the node's species subtree; the
	// other jumps to an incomparable species.
	Transfer
	// FullLoss charges a skipped species-tree edge where a whole object
	// lineage disappeared. Derived, never assigned to a node.
	FullLoss
	// SegmentalLoss charges families missing from a child synteny relative
	// to its parent. Derived by the synteny layers, never by this package.
	SegmentalLoss
)

// String implements fmt.Stringer.
func (e Event) String() string {
	switch e {
	case Leaf:
		return "leaf"
	case Invalid:
		return "invalid"
	case Speciation:
		return "speciation"
	case Duplication:
		return "duplication"
	case Transfer:
		return "transfer"
	case FullLoss:
		return "full-loss"
	case SegmentalLoss:
		return "segmental-loss"
	default:
		return fmt.Sprintf("event(%d)", uint8(e))
	}
}

// CostVector holds per-event weights. Weights must be non-negative;
// math.Inf(1) forbids the event outright.
type CostVector struct {
	Speciation    float64
	Duplication   float64
	Transfer      float64
	FullLoss      float64
	SegmentalLoss float64
}

// DefaultCosts returns the conventional weighting: free speciations, unit
// cost for duplications, transfers and losses of either kind.
func DefaultCosts() CostVector {
	return CostVector{
		Speciation:    0,
		Duplication:   1,
		Transfer:      1,
		FullLoss:      1,
		SegmentalLoss: 1,
	}
}

// Validate reports ErrBadCost when any weight is negative or NaN.
func (c CostVector) Validate() error {
	for _, w := range [...]float64{c.Speciation, c.Duplication, c.Transfer, c.FullLoss, c.SegmentalLoss} {
		if w < 0 || math.IsNaN(w) {
			return fmt.Errorf("%w: weights must be non-negative, got %v", ErrBadCost, w)
		}
	}
	return nil
}

// Of returns the weight for event e. Leaf costs nothing; Invalid is
// infinitely expensive.
func (c CostVector) Of(e Event) float64 {
	switch e {
	case Leaf:
		return 0
	case Speciation:
		return c.Speciation
	case Duplication:
		return c.Duplication
	case Transfer:
		return c.Transfer
	case FullLoss:
		return c.FullLoss
	case SegmentalLoss:
		return c.SegmentalLoss
	default:
		return math.Inf(1)
	}
}

// Input bundles a validated reconciliation instance: both trees, the
// object-leaf to species-leaf assignment, and the cost vector.
type Input struct {
	Object  *tree.Tree
	Species *tree.Tree
	Costs   CostVector

	// LeafSpecies maps object-node index to species-node index for object
	// leaves, and holds tree.NoParent for internal object nodes.
	LeafSpecies []int
}

// NewInput validates the instance and resolves the name-level leaf mapping
// into node indices. Both trees must be binary; every object leaf must map
// to a species leaf.
//
// Errors: ErrNotBinary, ErrBadLeafMapping, ErrBadCost.
func NewInput(object, species *tree.Tree, leafSpecies map[string]string, costs CostVector) (*Input, error) {
	if err := costs.Validate(); err != nil {
		return nil, err
	}
	if err := checkBinary(object); err != nil {
		return nil, fmt.Errorf("%w (object tree)", err)
	}
	if err := checkBinary(species); err != nil {
		return nil, fmt.Errorf("%w (species tree)", err)
	}

	ls := make([]int, object.Len())
	for v := 0; v < object.Len(); v++ {
		ls[v] = tree.NoParent
		if !object.IsLeaf(v) {
			continue
		}
		name, ok := leafSpecies[object.Name(v)]
		if !ok {
			return nil, fmt.Errorf("%w: object leaf %q has no species", ErrBadLeafMapping, object.Name(v))
		}
		s, err := species.ByName(name)
		if err != nil {
			return nil, fmt.Errorf("%w: object leaf %q maps to unknown species %q", ErrBadLeafMapping, object.Name(v), name)
		}
		if !species.IsLeaf(s) {
			return nil, fmt.Errorf("%w: object leaf %q maps to internal species %q", ErrBadLeafMapping, object.Name(v), name)
		}
		ls[v] = s
	}

	return &Input{Object: object, Species: species, Costs: costs, LeafSpecies: ls}, nil
}

func checkBinary(t *tree.Tree) error {
	for v := 0; v < t.Len(); v++ {
		if n := len(t.Children(v)); n != 0 && n != 2 {
			return fmt.Errorf("%w: node %q has %d children", ErrNotBinary, t.Name(v), n)
		}
	}
	return nil
}
