// Package newick parses and formats trees in Newick notation.
//
// The supported subset matches what the reconciliation front-end needs:
// nested parentheses, node labels on leaves and internal nodes, optional
// branch lengths (accepted and discarded), and an optional trailing
// semicolon. Comments and quoted labels are not supported.
//
// ⚙️ Usage:
//
//	t, err := newick.Parse("((X,Y)XY,Z)XYZ;")
//	if err != nil { ... }
//	fmt.Println(newick.Format(t)) // ((X,Y)XY,Z)XYZ;
//
// Parsing is strictly a boundary concern: the solver packages only ever
// consume *tree.Tree values.
package newick
