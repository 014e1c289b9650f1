package main

import (
	"encoding/json"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/evolib/superrec"
	"github.com/evolib/superrec/newick"
	"github.com/evolib/superrec/tree"
)

var (
	reconcileInput     string
	reconcileAll       bool
	reconcileUnordered bool
	reconcileWorkers   int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Solve a (super-)reconciliation instance from a TOML problem file",
	Long: `Reads a TOML problem file, scores every binary refinement of the
object tree, and prints the optimal solution(s) as JSON on stdout.

Examples:
  superrec reconcile --input problem.toml            # first optimum
  superrec reconcile -i problem.toml --all           # every optimum
  superrec reconcile -i problem.toml --unordered     # set-like syntenies
  superrec reconcile -i problem.toml --workers 4     # bound concurrency`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileInput, "input", "i", "",
		"TOML problem file (required)")
	reconcileCmd.Flags().BoolVar(&reconcileAll, "all", false,
		"emit every optimal solution instead of the first")
	reconcileCmd.Flags().BoolVar(&reconcileUnordered, "unordered", false,
		"treat syntenies as unordered family sets")
	reconcileCmd.Flags().IntVar(&reconcileWorkers, "workers", 0,
		"candidate-scoring goroutines (0 = all CPUs)")
	_ = reconcileCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(reconcileCmd)
}

// solutionOut is the JSON rendering of one solution.
type solutionOut struct {
	Tree     string              `json:"tree"`
	Cost     float64             `json:"cost"`
	Mapping  map[string]string   `json:"mapping"`
	Events   map[string]string   `json:"events"`
	Families []string            `json:"families,omitempty"`
	Contents map[string][]string `json:"contents,omitempty"`
}

func runReconcile(cmd *cobra.Command, args []string) error {
	p, err := loadProblem(reconcileInput)
	if err != nil {
		return err
	}
	opts := superrec.Options{
		All:     reconcileAll,
		Ordered: !reconcileUnordered,
		Workers: reconcileWorkers,
	}
	slog.Debug("instance loaded",
		"leaves", len(p.LeafSpecies),
		"syntenies", len(p.Contents),
		"all", opts.All,
		"ordered", opts.Ordered)

	start := time.Now()
	sols, err := superrec.Solve(cmd.Context(), p, opts)
	if err != nil {
		return err
	}
	slog.Info("solved",
		"solutions", len(sols),
		"cost", sols[0].Cost,
		"elapsed", time.Since(start))

	out := make([]solutionOut, len(sols))
	for i, s := range sols {
		out[i] = render(s)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func render(s *superrec.Solution) solutionOut {
	sp := s.Rec.Input().Species
	o := solutionOut{
		Tree:    newick.Format(s.Object),
		Cost:    s.Cost,
		Mapping: make(map[string]string, s.Object.Len()),
		Events:  make(map[string]string, s.Object.Len()),
	}
	events := s.Events()
	for v := 0; v < s.Object.Len(); v++ {
		key := nodeKey(s.Object, v)
		o.Mapping[key] = nodeKey(sp, s.Rec.Mapping[v])
		o.Events[key] = events[v].String()
	}
	if s.Labeling != nil {
		o.Families = s.Labeling.Families
		o.Contents = make(map[string][]string, s.Object.Len())
		for v := 0; v < s.Object.Len(); v++ {
			o.Contents[nodeKey(s.Object, v)] = s.Labeling.Contents[v]
		}
	}
	return o
}

// nodeKey names a node for output; nodes synthesized during multifurcation
// resolution carry no name and are keyed by pre-order index instead.
func nodeKey(t *tree.Tree, v int) string {
	if name := t.Name(v); name != "" {
		return name
	}
	return "#" + strconv.Itoa(v)
}
