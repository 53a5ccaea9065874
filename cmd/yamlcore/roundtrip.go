package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	yaml "github.com/abhinav/yamlcore"
	"github.com/abhinav/yamlcore/parser"
)

func newRoundtripCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "roundtrip <file>",
		Short: "Parse, load, dump, and re-emit a document, diffing the result against itself",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			var node yaml.Node
			if err := yaml.Unmarshal(src, &node); err != nil {
				return fmt.Errorf("load: %w", err)
			}

			out, err := yaml.Marshal(&node)
			if err != nil {
				return fmt.Errorf("dump+emit: %w", err)
			}
			a.logf("re-emitted %d bytes from %d byte input", len(out), len(src))

			before, err := normalizedEvents(bytes.NewReader(src))
			if err != nil {
				return fmt.Errorf("parse original: %w", err)
			}
			after, err := normalizedEvents(bytes.NewReader(out))
			if err != nil {
				return fmt.Errorf("parse re-emitted output: %w", err)
			}

			if diff := cmp.Diff(before, after); diff != "" {
				return fmt.Errorf("event stream changed across roundtrip (-before +after):\n%s", diff)
			}

			_, err = os.Stdout.Write(out)
			return err
		},
	}
}

// normEvent strips everything style-related (scalar style, quoting,
// explicit vs. implicit document markers) from an event, leaving the
// structural shape and content that a roundtrip must preserve exactly.
type normEvent struct {
	Type   string
	Anchor string
	Value  string
}

func normalizedEvents(r io.Reader) ([]normEvent, error) {
	p := parser.New(r)
	var events []normEvent
	for {
		ev, err := p.Parse()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return nil, err
		}
		events = append(events, normEvent{
			Type:   ev.Type.String(),
			Anchor: string(ev.Anchor),
			Value:  string(ev.Value),
		})
	}
}
