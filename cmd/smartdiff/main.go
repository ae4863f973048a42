// Command smartdiff compares two versions of a codebase at function
// granularity instead of diffing lines: it matches renamed, moved, split,
// and merged functions and classifies what changed inside each match.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Best-effort: a missing .env is not an error, it just means every
	// tunable falls back to its LoadConfig default.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, wrapCLIError("smartdiff failed", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartdiff",
		Short: "Structural, semantics-aware diffing between two source trees",
		Long: "smartdiff compares two versions of a codebase at function granularity,\n" +
			"matching renamed, moved, split, and merged functions via tree edit\n" +
			"distance and optimal assignment instead of diffing lines.",
		SilenceUsage: true,
	}

	root.AddCommand(newCompareCmd())
	return root
}
