package tree

import "fmt"

// Build constructs an immutable Tree from a Spec.
//
// Validation performed here, and only here:
//   - the spec and every referenced child must be non-nil;
//   - internal nodes must have at least two children (unary chains
//     cannot be produced by the supported inputs and have no meaning
//     for reconciliation);
//   - leaf names must be non-empty and unique across the whole tree.
//
// Any violation returns an error wrapping ErrMalformedTree. A Tree
// returned without error never fails a query.
//
// Complexity: O(V·log V) time and memory, dominated by the LCA sparse
// table.
func Build(root *Spec) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil spec", ErrMalformedTree)
	}

	t := &Tree{byName: make(map[string]int)}

	// Assign pre-order indices with an explicit stack so deep trees do
	// not hit recursion limits.
	type frame struct {
		spec   *Spec
		parent int
	}
	stack := []frame{{root, NoParent}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.spec == nil {
			return nil, fmt.Errorf("%w: nil child spec", ErrMalformedTree)
		}
		if len(f.spec.Children) == 1 {
			return nil, fmt.Errorf("%w: node %q has a single child", ErrMalformedTree, f.spec.Name)
		}

		id := len(t.names)
		t.names = append(t.names, f.spec.Name)
		t.parents = append(t.parents, f.parent)
		t.children = append(t.children, nil)
		if f.parent != NoParent {
			t.children[f.parent] = append(t.children[f.parent], id)
		}

		if len(f.spec.Children) == 0 {
			if f.spec.Name == "" {
				return nil, fmt.Errorf("%w: unnamed leaf", ErrMalformedTree)
			}
		}
		if f.spec.Name != "" {
			if _, dup := t.byName[f.spec.Name]; dup {
				return nil, fmt.Errorf("%w: duplicate node name %q", ErrMalformedTree, f.spec.Name)
			}
			t.byName[f.spec.Name] = id
		}

		// Push children in reverse so they are visited left-to-right.
		for i := len(f.spec.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{f.spec.Children[i], id})
		}
	}

	t.index()

	return t, nil
}

// index precomputes the Euler tour, the sparse RMQ table and the
// post-order sequence. Called exactly once, from Build.
func (t *Tree) index() {
	n := len(t.names)
	t.depths = make([]int, n)
	t.firstTour = make([]int, n)
	for i := range t.firstTour {
		t.firstTour[i] = -1
	}
	t.tour = make([]int, 0, 2*n)

	// Iterative Euler tour: visit a node once per child boundary.
	type visit struct {
		node  int
		child int // next child slot to descend into
	}
	stack := []visit{{0, 0}}
	t.depths[0] = 0
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		// A node enters the tour once on first visit and once more
		// after each child returns, giving the usual 2V-1 entries.
		if t.firstTour[top.node] == -1 {
			t.firstTour[top.node] = len(t.tour)
		}
		t.tour = append(t.tour, top.node)
		if top.child < len(t.children[top.node]) {
			child := t.children[top.node][top.child]
			top.child++
			t.depths[child] = t.depths[top.node] + 1
			stack = append(stack, visit{child, 0})
			continue
		}
		stack = stack[:len(stack)-1]
	}

	// Sparse table over tour positions, minimizing node depth.
	m := len(t.tour)
	t.logTable = make([]int, m+1)
	for i := 2; i <= m; i++ {
		t.logTable[i] = t.logTable[i/2] + 1
	}
	levels := t.logTable[m] + 1
	t.sparse = make([][]int32, levels)
	t.sparse[0] = make([]int32, m)
	for i, node := range t.tour {
		t.sparse[0][i] = int32(node)
	}
	for k := 1; k < levels; k++ {
		span := 1 << k
		row := make([]int32, m-span+1)
		prev := t.sparse[k-1]
		half := span / 2
		for i := range row {
			a, b := prev[i], prev[i+half]
			if t.depths[a] <= t.depths[b] {
				row[i] = a
			} else {
				row[i] = b
			}
		}
		t.sparse[k] = row
	}

	// Post-order: children before parents, siblings left-to-right.
	t.postorder = make([]int, 0, n)
	type pframe struct {
		node    int
		visited bool
	}
	pstack := []pframe{{0, false}}
	for len(pstack) > 0 {
		f := pstack[len(pstack)-1]
		pstack = pstack[:len(pstack)-1]
		if f.visited {
			t.postorder = append(t.postorder, f.node)
			continue
		}
		pstack = append(pstack, pframe{f.node, true})
		for i := len(t.children[f.node]) - 1; i >= 0; i-- {
			pstack = append(pstack, pframe{t.children[f.node][i], false})
		}
	}
}

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.names) }

// Root returns the root index, which is always 0.
func (t *Tree) Root() int { return 0 }

// Name returns the label of node v, possibly empty for internal nodes.
func (t *Tree) Name(v int) string { return t.names[v] }

// Parent returns the parent index of v, or NoParent for the root.
func (t *Tree) Parent(v int) int { return t.parents[v] }

// Children returns the ordered child indices of v. The returned slice
// is owned by the tree and must not be modified.
func (t *Tree) Children(v int) []int { return t.children[v] }

// IsLeaf reports whether v has no children.
func (t *Tree) IsLeaf(v int) bool { return len(t.children[v]) == 0 }

// ByName returns the index of the node labeled name.
func (t *Tree) ByName(name string) (int, error) {
	if v, ok := t.byName[name]; ok {
		return v, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrNodeNotFound, name)
}

// MustByName is ByName for names known to exist; it panics otherwise.
// Intended for tests and literals, not for validating external input.
func (t *Tree) MustByName(name string) int {
	v, err := t.ByName(name)
	if err != nil {
		panic(err)
	}

	return v
}

// Depth returns the number of edges between v and the root.
func (t *Tree) Depth(v int) int { return t.depths[v] }

// Postorder returns the node indices in post-order (children before
// parents). The returned slice is owned by the tree.
func (t *Tree) Postorder() []int { return t.postorder }

// Preorder returns the node indices in pre-order, which by construction
// is simply 0..Len()-1.
func (t *Tree) Preorder() []int {
	order := make([]int, len(t.names))
	for i := range order {
		order[i] = i
	}

	return order
}

// rangeMin returns the shallowest node over tour positions [lo, hi].
func (t *Tree) rangeMin(lo, hi int) int {
	k := t.logTable[hi-lo+1]
	a := t.sparse[k][lo]
	b := t.sparse[k][hi-(1<<k)+1]
	if t.depths[a] <= t.depths[b] {
		return int(a)
	}

	return int(b)
}

// LCA returns the lowest common ancestor of the given nodes.
// With a single argument it returns that node; it panics when called
// with no arguments. Complexity: O(len(nodes)).
func (t *Tree) LCA(nodes ...int) int {
	if len(nodes) == 0 {
		panic("tree: LCA of an empty node set")
	}
	result := nodes[0]
	for _, v := range nodes[1:] {
		lo, hi := t.firstTour[result], t.firstTour[v]
		if lo > hi {
			lo, hi = hi, lo
		}
		result = t.rangeMin(lo, hi)
	}

	return result
}

// IsAncestorOf reports whether a is an ancestor of b (a node is an
// ancestor of itself). Complexity: O(1).
func (t *Tree) IsAncestorOf(a, b int) bool { return t.LCA(a, b) == a }

// IsStrictAncestorOf reports whether a is a proper ancestor of b.
func (t *Tree) IsStrictAncestorOf(a, b int) bool { return a != b && t.IsAncestorOf(a, b) }

// IsComparable reports whether a and b lie on a common root-to-leaf
// path, i.e. one is an ancestor of the other.
func (t *Tree) IsComparable(a, b int) bool {
	return t.IsAncestorOf(a, b) || t.IsAncestorOf(b, a)
}

// Distance returns the number of edges on the path between a and b.
// Complexity: O(1).
func (t *Tree) Distance(a, b int) int {
	return t.depths[a] + t.depths[b] - 2*t.depths[t.LCA(a, b)]
}

// Leaves returns the indices of all leaves in pre-order.
func (t *Tree) Leaves() []int {
	var leaves []int
	for v := range t.names {
		if t.IsLeaf(v) {
			leaves = append(leaves, v)
		}
	}

	return leaves
}

// Spec reconstructs a Spec describing the subtree rooted at v. The
// result is independent of the tree and may be modified freely; it is
// the building block for derived trees such as binary refinements.
func (t *Tree) Spec(v int) *Spec {
	spec := &Spec{Name: t.names[v]}
	for _, c := range t.children[v] {
		spec.Children = append(spec.Children, t.Spec(c))
	}

	return spec
}
