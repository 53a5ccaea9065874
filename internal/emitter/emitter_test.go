package emitter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhinav/yamlcore/internal/core"
	"github.com/abhinav/yamlcore/internal/emitter"
)

func scalarDoc(value string, style core.ScalarStyle) []core.Event {
	return []core.Event{
		{Type: core.EventStreamStart, Encoding: core.EncodingUTF8},
		{Type: core.EventDocumentStart, Implicit: true},
		{
			Type:           core.EventScalar,
			Value:          []byte(value),
			Implicit:       true,
			QuotedImplicit: true,
			Style:          core.Style(style),
		},
		{Type: core.EventDocumentEnd, Implicit: true},
		{Type: core.EventStreamEnd},
	}
}

func emitAll(t *testing.T, e *emitter.Emitter, evs []core.Event) {
	t.Helper()
	for i := range evs {
		final := evs[i].Type == core.EventStreamEnd
		require.NoError(t, e.Emit(&evs[i], final))
	}
	require.NoError(t, e.Flush())
}

func TestPlainScalarOutput(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	emitAll(t, e, scalarDoc("hello", core.ScalarStylePlain))
	require.Equal(t, "hello\n", buf.String())
}

func TestDoubleQuotedEscapesNonASCII(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	emitAll(t, e, scalarDoc("a\tbé", core.ScalarStyleDoubleQuoted))
	require.Equal(t, "\"a\\tb\\xE9\"\n", buf.String())
}

func TestUnicodePassthrough(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	e.SetUnicode(true)
	emitAll(t, e, scalarDoc("a\tbé", core.ScalarStyleDoubleQuoted))
	require.Equal(t, "\"a\\tbé\"\n", buf.String())
}

func TestSingleQuotedOutput(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	emitAll(t, e, scalarDoc("it's", core.ScalarStyleSingleQuoted))
	require.Equal(t, "'it''s'\n", buf.String())
}

func TestLiteralScalarOutput(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	e.SetIndent(2)
	emitAll(t, e, scalarDoc("line 1\nline 2\n", core.ScalarStyleLiteral))
	require.Equal(t, "|\n  line 1\n  line 2\n", buf.String())
}

func TestFlowSequenceOutput(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	evs := []core.Event{
		{Type: core.EventStreamStart, Encoding: core.EncodingUTF8},
		{Type: core.EventDocumentStart, Implicit: true},
		{Type: core.EventSequenceStart, Implicit: true, Style: core.Style(core.SequenceStyleFlow)},
		{Type: core.EventScalar, Value: []byte("1"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventScalar, Value: []byte("2"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventSequenceEnd},
		{Type: core.EventDocumentEnd, Implicit: true},
		{Type: core.EventStreamEnd},
	}
	emitAll(t, e, evs)
	require.Equal(t, "[1, 2]\n", buf.String())
}

func TestBlockMappingOutput(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	e.SetIndent(2)
	evs := []core.Event{
		{Type: core.EventStreamStart, Encoding: core.EncodingUTF8},
		{Type: core.EventDocumentStart, Implicit: true},
		{Type: core.EventMappingStart, Implicit: true, Style: core.Style(core.MappingStyleBlock)},
		{Type: core.EventScalar, Value: []byte("a"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventSequenceStart, Implicit: true, Style: core.Style(core.SequenceStyleBlock)},
		{Type: core.EventScalar, Value: []byte("1"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventScalar, Value: []byte("2"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventSequenceEnd},
		{Type: core.EventScalar, Value: []byte("b"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventScalar, Value: []byte("c"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventMappingEnd},
		{Type: core.EventDocumentEnd, Implicit: true},
		{Type: core.EventStreamEnd},
	}
	emitAll(t, e, evs)
	require.Equal(t, "a:\n  - 1\n  - 2\nb: c\n", buf.String())
}

func TestMissingTagAndImplicitFlags(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	evs := []core.Event{
		{Type: core.EventStreamStart, Encoding: core.EncodingUTF8},
		{Type: core.EventDocumentStart, Implicit: true},
	}
	for i := range evs {
		require.NoError(t, e.Emit(&evs[i], false))
	}
	bad := core.Event{Type: core.EventScalar, Value: []byte("x")}
	err := e.Emit(&bad, false)
	require.ErrorContains(t, err, "neither tag nor implicit flags are specified")
}

func TestInvalidEventSequence(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	ev := core.Event{Type: core.EventScalar, Value: []byte("x"), Implicit: true, QuotedImplicit: true}
	err := e.Emit(&ev, false)
	require.ErrorContains(t, err, "expected STREAM-START")
}

func TestExplicitDocumentMarkers(t *testing.T) {
	var buf bytes.Buffer
	e := emitter.New(&buf)
	evs := []core.Event{
		{Type: core.EventStreamStart, Encoding: core.EncodingUTF8},
		{Type: core.EventDocumentStart},
		{Type: core.EventScalar, Value: []byte("foo"), Implicit: true, QuotedImplicit: true},
		{Type: core.EventDocumentEnd},
		{Type: core.EventStreamEnd},
	}
	emitAll(t, e, evs)
	require.Equal(t, "--- foo\n...\n", buf.String())
}
