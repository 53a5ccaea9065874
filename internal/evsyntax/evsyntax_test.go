package evsyntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinav/yamlcore/internal/core"
)

func TestFormatScalar(t *testing.T) {
	tests := []struct {
		name  string
		event *core.Event
		want  string
	}{
		{
			name:  "plain",
			event: &core.Event{Type: core.EventScalar, Value: []byte("hello"), Style: core.Style(core.ScalarStylePlain)},
			want:  "=VAL :hello",
		},
		{
			name:  "double quoted with escapes",
			event: &core.Event{Type: core.EventScalar, Value: []byte("a\tb\nc"), Style: core.Style(core.ScalarStyleDoubleQuoted)},
			want:  `=VAL "a\tb\nc`,
		},
		{
			name:  "anchored with explicit tag",
			event: &core.Event{Type: core.EventScalar, Anchor: []byte("x"), Tag: []byte("tag:yaml.org,2002:int"), Value: []byte("1"), Style: core.Style(core.ScalarStylePlain)},
			want:  "=VAL &x <tag:yaml.org,2002:int> :1",
		},
		{
			name:  "literal block",
			event: &core.Event{Type: core.EventScalar, Value: []byte("line1\nline2\n"), Style: core.Style(core.ScalarStyleLiteral)},
			want:  "=VAL |line1\\nline2\\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatStructural(t *testing.T) {
	tests := []struct {
		name  string
		event *core.Event
		want  string
	}{
		{"stream start", &core.Event{Type: core.EventStreamStart}, "+STR"},
		{"stream end", &core.Event{Type: core.EventStreamEnd}, "-STR"},
		{"implicit doc start", &core.Event{Type: core.EventDocumentStart, Implicit: true}, "+DOC"},
		{"explicit doc start", &core.Event{Type: core.EventDocumentStart, Implicit: false}, "+DOC ---"},
		{"implicit doc end", &core.Event{Type: core.EventDocumentEnd, Implicit: true}, "-DOC"},
		{"explicit doc end", &core.Event{Type: core.EventDocumentEnd, Implicit: false}, "-DOC ..."},
		{"seq start", &core.Event{Type: core.EventSequenceStart}, "+SEQ"},
		{"seq start anchored", &core.Event{Type: core.EventSequenceStart, Anchor: []byte("a")}, "+SEQ &a"},
		{"seq end", &core.Event{Type: core.EventSequenceEnd}, "-SEQ"},
		{"map start", &core.Event{Type: core.EventMappingStart}, "+MAP"},
		{"map end", &core.Event{Type: core.EventMappingEnd}, "-MAP"},
		{"alias", &core.Event{Type: core.EventAlias, Anchor: []byte("x")}, "=ALI *x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRoundTripsFormat(t *testing.T) {
	lines := []string{
		"+STR",
		"+DOC ---",
		"+MAP &m1 <tag:yaml.org,2002:map>",
		"=VAL :a",
		"+SEQ",
		"=VAL :1",
		"=VAL \"tab\\there",
		"-SEQ",
		"=ALI *m1",
		"-MAP",
		"-DOC ...",
		"-STR",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			ev, err := Parse(line)
			require.NoError(t, err)
			got, err := Format(ev)
			require.NoError(t, err)
			assert.Equal(t, line, got)
		})
	}
}

func TestParseScalarValueWithSpaces(t *testing.T) {
	ev, err := Parse(`=VAL :hello there friend`)
	require.NoError(t, err)
	assert.Equal(t, "hello there friend", string(ev.Value))
}

func TestParseRejectsUnknownLine(t *testing.T) {
	_, err := Parse("?!? nonsense")
	require.Error(t, err)
}

func TestReadAllSkipsBlankLines(t *testing.T) {
	src := "+STR\n\n+DOC\n=VAL :x\n-DOC\n-STR\n"
	events, err := ReadAll(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, core.EventStreamStart, events[0].Type)
	assert.Equal(t, core.EventScalar, events[2].Type)
	assert.Equal(t, core.EventStreamEnd, events[4].Type)
}
