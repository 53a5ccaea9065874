// Package evsyntax implements the single-line-per-event text syntax used
// by the YAML test suite (+STR/-STR/+DOC/-DOC/+MAP/-MAP/+SEQ/-SEQ/=VAL/=ALI)
// and by the yamlcore parse/emit subcommands that trade events in it.
package evsyntax

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/abhinav/yamlcore/internal/core"
)

// Format renders ev as one line of event syntax, without a trailing
// newline. It returns an error for event types that have no textual
// representation (e.g. a tail comment event).
func Format(ev *core.Event) (string, error) {
	switch ev.Type {
	case core.EventStreamStart:
		return "+STR", nil
	case core.EventStreamEnd:
		return "-STR", nil
	case core.EventDocumentStart:
		if !ev.Implicit {
			return "+DOC ---", nil
		}
		return "+DOC", nil
	case core.EventDocumentEnd:
		if !ev.Implicit {
			return "-DOC ...", nil
		}
		return "-DOC", nil
	case core.EventSequenceStart:
		return "+SEQ" + markers(ev.Anchor, ev.Tag), nil
	case core.EventSequenceEnd:
		return "-SEQ", nil
	case core.EventMappingStart:
		return "+MAP" + markers(ev.Anchor, ev.Tag), nil
	case core.EventMappingEnd:
		return "-MAP", nil
	case core.EventScalar:
		ch, err := styleChar(ev.ScalarStyle())
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("=VAL%s %s%s", markers(ev.Anchor, ev.Tag), string(ch), escape(ev.Value)), nil
	case core.EventAlias:
		return "=ALI *" + string(ev.Anchor), nil
	}
	return "", fmt.Errorf("evsyntax: event type %v has no line representation", ev.Type)
}

// Parse decodes a single line of event syntax, stripped of any trailing
// newline by the caller's choosing (ReadAll handles that for you).
func Parse(line string) (*core.Event, error) {
	line = strings.TrimRight(line, "\r\n")
	kind, rest, _ := strings.Cut(line, " ")

	switch kind {
	case "+STR":
		return &core.Event{Type: core.EventStreamStart, Encoding: core.EncodingUTF8}, nil
	case "-STR":
		return &core.Event{Type: core.EventStreamEnd}, nil
	case "+DOC":
		return &core.Event{Type: core.EventDocumentStart, Implicit: rest != "---"}, nil
	case "-DOC":
		return &core.Event{Type: core.EventDocumentEnd, Implicit: rest != "..."}, nil
	case "+SEQ":
		anchor, tag, err := parseMarkers(strings.Fields(rest))
		if err != nil {
			return nil, fmt.Errorf("evsyntax: %q: %w", line, err)
		}
		return &core.Event{
			Type:     core.EventSequenceStart, Anchor: anchor, Tag: tag,
			Implicit: len(tag) == 0, Style: core.Style(core.SequenceStyleBlock),
		}, nil
	case "-SEQ":
		return &core.Event{Type: core.EventSequenceEnd}, nil
	case "+MAP":
		anchor, tag, err := parseMarkers(strings.Fields(rest))
		if err != nil {
			return nil, fmt.Errorf("evsyntax: %q: %w", line, err)
		}
		return &core.Event{
			Type:     core.EventMappingStart, Anchor: anchor, Tag: tag,
			Implicit: len(tag) == 0, Style: core.Style(core.MappingStyleBlock),
		}, nil
	case "-MAP":
		return &core.Event{Type: core.EventMappingEnd}, nil
	case "=VAL":
		ev, err := parseScalar(rest)
		if err != nil {
			return nil, fmt.Errorf("evsyntax: %q: %w", line, err)
		}
		return ev, nil
	case "=ALI":
		anchor, ok := strings.CutPrefix(rest, "*")
		if !ok {
			return nil, fmt.Errorf("evsyntax: %q: malformed =ALI line", line)
		}
		return &core.Event{Type: core.EventAlias, Anchor: []byte(anchor)}, nil
	}
	return nil, fmt.Errorf("evsyntax: %q: unrecognized event line", line)
}

// ReadAll decodes every non-blank line read from r as one event, in
// order. Blank lines are skipped; the first unparsable line stops the read
// with an error.
func ReadAll(r io.Reader) ([]*core.Event, error) {
	var events []*core.Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		ev, err := Parse(line)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func parseScalar(rest string) (*core.Event, error) {
	var anchor, tag []byte
	for {
		switch {
		case strings.HasPrefix(rest, "&"):
			name, tail, ok := strings.Cut(rest, " ")
			if !ok {
				return nil, fmt.Errorf("missing scalar style after anchor")
			}
			anchor = []byte(name[1:])
			rest = tail
		case strings.HasPrefix(rest, "<"):
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return nil, fmt.Errorf("unterminated tag marker")
			}
			tag = []byte(rest[1:end])
			rest = strings.TrimPrefix(rest[end+1:], " ")
		default:
			goto styleAndValue
		}
	}
styleAndValue:
	if rest == "" {
		return nil, fmt.Errorf("missing scalar style indicator")
	}
	var style core.ScalarStyle
	switch rest[0] {
	case ':':
		style = core.ScalarStylePlain
	case '\'':
		style = core.ScalarStyleSingleQuoted
	case '"':
		style = core.ScalarStyleDoubleQuoted
	case '|':
		style = core.ScalarStyleLiteral
	case '>':
		style = core.ScalarStyleFolded
	default:
		return nil, fmt.Errorf("unknown scalar style indicator %q", rest[0])
	}
	return &core.Event{
		Type:           core.EventScalar,
		Anchor:         anchor,
		Tag:            tag,
		Value:          []byte(unescape(rest[1:])),
		Implicit:       style == core.ScalarStylePlain && len(tag) == 0,
		QuotedImplicit: style != core.ScalarStylePlain && len(tag) == 0,
		Style:          core.Style(style),
	}, nil
}

func parseMarkers(fields []string) (anchor, tag []byte, err error) {
	for _, f := range fields {
		switch {
		case strings.HasPrefix(f, "&"):
			anchor = []byte(f[1:])
		case strings.HasPrefix(f, "<") && strings.HasSuffix(f, ">"):
			tag = []byte(f[1 : len(f)-1])
		default:
			return nil, nil, fmt.Errorf("unrecognized marker %q", f)
		}
	}
	return anchor, tag, nil
}

func markers(anchor, tag []byte) string {
	var b strings.Builder
	if len(anchor) > 0 {
		b.WriteString(" &")
		b.Write(anchor)
	}
	if len(tag) > 0 {
		b.WriteString(" <")
		b.Write(tag)
		b.WriteByte('>')
	}
	return b.String()
}

func styleChar(style core.ScalarStyle) (byte, error) {
	switch style {
	case core.ScalarStylePlain, core.ScalarStyleAny:
		return ':', nil
	case core.ScalarStyleSingleQuoted:
		return '\'', nil
	case core.ScalarStyleDoubleQuoted:
		return '"', nil
	case core.ScalarStyleLiteral:
		return '|', nil
	case core.ScalarStyleFolded:
		return '>', nil
	}
	return 0, fmt.Errorf("evsyntax: unknown scalar style %v", style)
}

// escape renders value the way =VAL lines require it: backslash and the
// C0 controls the grammar calls out, literally everything else (including
// non-ASCII text) passed through unchanged.
func escape(value []byte) string {
	var b strings.Builder
	for _, r := range string(value) {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case 0:
			b.WriteString(`\0`)
		case '\b':
			b.WriteString(`\b`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '0':
			b.WriteByte(0)
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
