package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/abhinav/yamlcore/internal/core"
	"github.com/abhinav/yamlcore/internal/evsyntax"
	"github.com/abhinav/yamlcore/parser"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Dump the event stream in test-suite event syntax (+STR/-STR/+DOC/...)",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a.logf("parsing %s", args[0])
			out := colorable.NewColorableStdout()
			p := parser.New(f)
			for {
				ev, err := p.Parse()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				line, err := evsyntax.Format(ev)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, eventColor(ev.Type)(line))
			}
		},
	}
}

func eventColor(t core.EventType) func(...interface{}) string {
	switch t {
	case core.EventStreamStart, core.EventStreamEnd:
		return color.New(color.FgHiWhite, color.Bold).SprintFunc()
	case core.EventDocumentStart, core.EventDocumentEnd:
		return color.New(color.FgHiBlue).SprintFunc()
	case core.EventSequenceStart, core.EventSequenceEnd,
		core.EventMappingStart, core.EventMappingEnd:
		return color.New(color.FgHiCyan).SprintFunc()
	case core.EventScalar:
		return color.New(color.FgHiGreen).SprintFunc()
	case core.EventAlias:
		return color.New(color.FgHiYellow).SprintFunc()
	default:
		return color.New(color.Reset).SprintFunc()
	}
}
