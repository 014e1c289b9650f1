package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "superrec",
	Short: "Minimum-cost phylogenetic (super-)reconciliation",
	Long: `superrec maps a gene/synteny tree onto a species tree under
speciation, duplication, horizontal transfer and loss events, minimizing
the total event cost. With leaf syntenies it additionally infers ancestral
gene contents (super-reconciliation).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: level})))
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "superrec:", err)
		os.Exit(1)
	}
}
