package core

import "fmt"

// EventType enumerates the SAX-style events the parser produces and the
// emitter consumes.
type EventType int8

const (
	EventNone EventType = iota

	EventStreamStart
	EventStreamEnd
	EventDocumentStart
	EventDocumentEnd
	EventAlias
	EventScalar
	EventSequenceStart
	EventSequenceEnd
	EventMappingStart
	EventMappingEnd
	EventTailComment
)

var eventNames = [...]string{
	EventNone:          "none",
	EventStreamStart:   "stream start",
	EventStreamEnd:     "stream end",
	EventDocumentStart: "document start",
	EventDocumentEnd:   "document end",
	EventAlias:         "alias",
	EventScalar:        "scalar",
	EventSequenceStart: "sequence start",
	EventSequenceEnd:   "sequence end",
	EventMappingStart:  "mapping start",
	EventMappingEnd:    "mapping end",
	EventTailComment:   "tail comment",
}

func (e EventType) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("unknown event %d", e)
	}
	return eventNames[e]
}

// Event is one item of the parser's output stream / the emitter's input
// stream. Like Token, it's a single struct standing in for a tagged union:
// only the fields documented for a given Type are meaningful.
type Event struct {
	Type EventType

	StartMark, EndMark Mark

	// Encoding carries the stream's byte encoding; set only on
	// EventStreamStart.
	Encoding Encoding

	// VersionDirective and TagDirectives carry a document's declared
	// `%YAML`/`%TAG` directives; set only on EventDocumentStart.
	VersionDirective *VersionDirective
	TagDirectives    []TagDirective

	// HeadComment, LineComment, FootComment, and TailComment carry
	// comment text associated with this event by position, independent
	// of Type (comments are not part of the core YAML grammar but are
	// threaded through so a loader/dumper pair can round-trip them).
	HeadComment []byte
	LineComment []byte
	FootComment []byte
	TailComment []byte

	// Anchor names this node; set on EventScalar, EventSequenceStart,
	// EventMappingStart, and EventAlias (where it names the target).
	Anchor []byte

	// Tag is the node's resolved tag URI; set on EventScalar,
	// EventSequenceStart, EventMappingStart.
	Tag []byte

	// Value is the scalar's decoded text; set only on EventScalar.
	Value []byte

	// Implicit means: the document start/end indicator was omitted, or
	// the node's Tag was inferred rather than written explicitly.
	Implicit bool

	// QuotedImplicit means the Tag may still be omitted even though the
	// scalar's style is non-plain; set only on EventScalar.
	QuotedImplicit bool

	// Style holds the node's surface style, narrowed via ScalarStyle/
	// SequenceStyle/MappingStyle according to Type.
	Style Style
}

// ScalarStyle narrows Style for a EventScalar.
func (e *Event) ScalarStyle() ScalarStyle { return ScalarStyle(e.Style) }

// SequenceStyle narrows Style for a EventSequenceStart.
func (e *Event) SequenceStyle() SequenceStyle { return SequenceStyle(e.Style) }

// MappingStyle narrows Style for a EventMappingStart.
func (e *Event) MappingStyle() MappingStyle { return MappingStyle(e.Style) }
