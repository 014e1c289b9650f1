// Package tree declares the Tree type, its construction specs, and
// sentinel errors.
//
// Errors:
//
//	ErrMalformedTree  - structural invariant violated at construction.
//	ErrNodeNotFound   - a name lookup did not match any node.
package tree

import "errors"

// Sentinel errors for tree construction and lookups.
var (
	// ErrMalformedTree indicates that a structural input invariant was
	// violated: a nil spec, an internal node with fewer than two subtree
	// anchors, or duplicate/empty leaf names. It is raised at
	// construction time, never by later queries.
	ErrMalformedTree = errors.New("tree: malformed tree")

	// ErrNodeNotFound indicates that a name passed to ByName does not
	// label any node of the tree.
	ErrNodeNotFound = errors.New("tree: node not found")
)

// NoParent is the parent index of the root node.
const NoParent = -1

// Spec is a transient description of a node used to build a Tree.
// Create values with the Leaf and Node helpers; a Spec owns its
// children and must not be shared between Build calls.
type Spec struct {
	// Name labels the node. Leaves must carry unique non-empty names;
	// internal nodes may be anonymous.
	Name string

	// Children are the node's ordered subtrees; empty for a leaf.
	Children []*Spec
}

// Leaf creates a leaf spec with the given name.
func Leaf(name string) *Spec {
	return &Spec{Name: name}
}

// Node creates an internal node spec with the given (possibly empty)
// name and ordered children. Multifurcations (more than two children)
// are allowed; binarity is enforced by the consumers that need it.
func Node(name string, children ...*Spec) *Spec {
	return &Spec{Name: name, Children: children}
}

// Tree is an immutable rooted tree. Nodes are addressed by their
// pre-order index: the root is 0 and every node's index is smaller than
// the indices of all its descendants.
type Tree struct {
	names    []string
	parents  []int
	children [][]int
	byName   map[string]int

	// Euler-tour machinery for O(1) LCA queries.
	depths    []int // depth per node
	tour      []int // node index per tour position
	firstTour []int // first tour position per node
	sparse    [][]int32
	logTable  []int

	postorder []int
}
