package synteny

import "fmt"

// RootOrderings enumerates every total order over the gene families that is
// compatible with each of the given ordered contents, i.e. all topological
// sorts of the precedence graph built from consecutive family pairs.
//
// Families are indexed by first appearance across contents, and ties are
// explored in that order, so the enumeration is deterministic.
//
// Errors: ErrOrderConflict when the contents are contradictory,
// ErrTooManyFamilies past MaxFamilies.
func RootOrderings(contents [][]string) ([][]string, error) {
	families, index, err := familyIndex(contents)
	if err != nil {
		return nil, err
	}
	n := len(families)

	succ := make([][]bool, n)
	indeg := make([]int, n)
	for i := range succ {
		succ[i] = make([]bool, n)
	}
	for _, content := range contents {
		for i := 0; i+1 < len(content); i++ {
			a, b := index[content[i]], index[content[i+1]]
			if !succ[a][b] {
				succ[a][b] = true
				indeg[b]++
			}
		}
	}

	var (
		out     [][]string
		current = make([]int, 0, n)
		ready   = make([]bool, n)
	)
	for f := 0; f < n; f++ {
		ready[f] = indeg[f] == 0
	}

	// Backtracking over sources: pick each currently ready family in index
	// order, recurse on the reduced graph.
	var visit func()
	visit = func() {
		if len(current) == n {
			order := make([]string, n)
			for i, f := range current {
				order[i] = families[f]
			}
			out = append(out, order)
			return
		}
		for f := 0; f < n; f++ {
			if !ready[f] {
				continue
			}
			ready[f] = false
			current = append(current, f)
			for g := 0; g < n; g++ {
				if succ[f][g] {
					if indeg[g]--; indeg[g] == 0 {
						ready[g] = true
					}
				}
			}

			visit()

			for g := 0; g < n; g++ {
				if succ[f][g] {
					if indeg[g]++; indeg[g] == 1 {
						ready[g] = false
					}
				}
			}
			current = current[:len(current)-1]
			ready[f] = true
		}
	}
	visit()

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no common order over %v", ErrOrderConflict, families)
	}
	return out, nil
}

// familyIndex collects the family universe in first-appearance order.
func familyIndex(contents [][]string) ([]string, map[string]int, error) {
	var families []string
	index := make(map[string]int)
	for _, content := range contents {
		for _, f := range content {
			if _, seen := index[f]; !seen {
				index[f] = len(families)
				families = append(families, f)
			}
		}
	}
	if len(families) > MaxFamilies {
		return nil, nil, fmt.Errorf("%w: %d families", ErrTooManyFamilies, len(families))
	}
	return families, index, nil
}
