// Command catseqc is a demonstrator CLI over the catseq algebraic core. It
// builds the specification's own literal example trees, compiles them
// through the library's public API, and prints or serves the result. It is
// a debug/demo harness, not the excluded front-end DSL: it has no operator
// overloading, no parser, and no user-facing sequence-authoring surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catseqc",
		Short:         "Demonstrator CLI for the catseq algebraic compilation core",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "enable verbose structured logging")
	root.AddCommand(newDemoCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newServeMetricsCmd())
	return root
}
