package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhinav/yamlcore/internal/emitter"
	"github.com/abhinav/yamlcore/internal/evsyntax"
)

func newEmitCmd(a *app) *cobra.Command {
	var canonical, unicode bool
	var indent, width int

	cmd := &cobra.Command{
		Use:   "emit <file>",
		Short: "Re-emit YAML text from test-suite event syntax",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			events, err := evsyntax.ReadAll(f)
			if err != nil {
				return err
			}
			a.logf("emitting %d events read from %s", len(events), args[0])

			e := emitter.New(os.Stdout)
			e.SetCanonical(canonical)
			e.SetUnicode(unicode)
			e.SetIndent(indent)
			e.SetWidth(width)

			for i, ev := range events {
				if err := e.Emit(ev, i == len(events)-1); err != nil {
					return err
				}
			}
			return e.Flush()
		},
	}

	bindEmitFlags(cmd.Flags(), &canonical, &unicode, &indent, &width)

	return cmd
}

func bindEmitFlags(flags *pflag.FlagSet, canonical, unicode *bool, indent, width *int) {
	flags.BoolVar(canonical, "canonical", false, "force every collection into flow style and every scalar into double-quoted")
	flags.BoolVar(unicode, "unicode", false, "emit non-ASCII characters directly as UTF-8 instead of hex-escaping them")
	flags.IntVar(indent, "indent", 2, "indentation width in spaces (2-9)")
	flags.IntVar(width, "width", 80, "preferred output line width, -1 for unlimited")
}
