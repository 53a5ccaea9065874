package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"

	"github.com/abhinav/yamlcore/internal/core"
	"github.com/abhinav/yamlcore/scanner"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <file>",
		Short: "Dump the token stream, one token per line",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a.logf("scanning %s", args[0])
			out := colorable.NewColorableStdout()
			sc := scanner.New(f)
			for {
				tok, err := sc.Scan()
				if err == io.EOF {
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(out, formatToken(tok))
			}
		},
	}
}

func formatToken(tok *core.Token) string {
	paint := tokenColor(tok.Type)
	if len(tok.Value) > 0 {
		return fmt.Sprintf("%s %q", paint(tok.Type.String()), tok.Value)
	}
	return paint(tok.Type.String())
}

func tokenColor(t core.TokenType) func(...interface{}) string {
	switch t {
	case core.TokenStreamStart, core.TokenStreamEnd:
		return color.New(color.FgHiWhite, color.Bold).SprintFunc()
	case core.TokenScalar:
		return color.New(color.FgHiGreen).SprintFunc()
	case core.TokenAnchor, core.TokenAlias:
		return color.New(color.FgHiYellow).SprintFunc()
	case core.TokenTag, core.TokenTagDirective, core.TokenVersionDirective:
		return color.New(color.FgHiMagenta).SprintFunc()
	case core.TokenBlockSequenceStart, core.TokenBlockMappingStart, core.TokenBlockEnd,
		core.TokenFlowSequenceStart, core.TokenFlowSequenceEnd,
		core.TokenFlowMappingStart, core.TokenFlowMappingEnd,
		core.TokenBlockEntry, core.TokenFlowEntry, core.TokenKey, core.TokenValue:
		return color.New(color.FgHiCyan).SprintFunc()
	default:
		return color.New(color.Reset).SprintFunc()
	}
}
