// Command yamlcore exercises the scanner, parser, and emitter packages
// directly from the command line: scan dumps tokens, parse dumps events
// in test-suite event syntax, emit runs that syntax back through the
// Emitter, and roundtrip checks that a document survives load+dump+emit
// unchanged modulo style.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// app carries the flags and state shared across subcommands.
type app struct {
	verbose bool
}

func (a *app) logf(format string, args ...interface{}) {
	if a.verbose {
		fmt.Fprintf(os.Stderr, "yamlcore: "+format+"\n", args...)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "yamlcore",
		Short:         "Inspect and re-emit YAML through the scanner/parser/emitter pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log diagnostic detail to stderr")
	root.AddCommand(
		newScanCmd(a),
		newParseCmd(a),
		newEmitCmd(a),
		newRoundtripCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "yamlcore:", err)
		os.Exit(1)
	}
}
