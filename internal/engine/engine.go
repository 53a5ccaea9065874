package engine

import (
	"github.com/abhinav/yamlcore/internal/core"
	"io"
)

// ParserState names a node in the parser's pushdown automaton: what the
// next token is expected to start. Parse dispatches on State, and most
// productions push a continuation onto States before descending into a
// nested construct and pop it back off on the way out.
type ParserState int

const (
	StateStreamStart ParserState = iota

	// StateImplicitDocumentStart expects the start of a document with no
	// explicit "---" marker.
	StateImplicitDocumentStart
	StateDocumentStart   // expects "---", a directive, or stream end.
	StateDocumentContent // expects the root node of a document.
	StateDocumentEnd     // expects "...", another "---", or stream end.

	StateBlockNode                     // expects a block-style node.
	StateBlockNodeOrIndentlessSequence // expects a block node, or a "-" starting an indentless sequence.
	StateFlowNode                      // expects a flow-style node.

	StateBlockSequenceFirstEntry // expects the first "-" entry of a block sequence.
	StateBlockSequenceEntry      // expects a later "-" entry of a block sequence.
	StateIndentlessSequenceEntry // expects an entry of a sequence with no indent of its own.

	StateBlockMappingFirstKey // expects the first key of a block mapping.
	StateBlockMappingKey      // expects a later key of a block mapping.
	StateBlockMappingValue    // expects the value after a block mapping key.

	StateFlowSequenceFirstEntry // expects the first entry of a "[...]" sequence.
	StateFlowSequenceEntry      // expects a later entry of a "[...]" sequence.

	// The next three states handle a "key: value" pair appearing as one
	// entry of a flow sequence, e.g. "[a: b, c]".
	StateFlowSequenceEntryMappingKey
	StateFlowSequenceEntryMappingValue
	StateFlowSequenceEntryMappingEnd

	StateFlowMappingFirstKey   // expects the first key of a "{...}" mapping.
	StateFlowMappingKey        // expects a later key of a "{...}" mapping.
	StateFlowMappingValue      // expects the value after a flow mapping key.
	StateFlowMappingEmptyValue // expects the (absent) value of a "? key" with no ": value".

	StateEnd // the document stream is exhausted; Parse returns io.EOF.
)

var parserStateNames = map[ParserState]string{
	StateStreamStart:                   "StateStreamStart",
	StateImplicitDocumentStart:         "StateImplicitDocumentStart",
	StateDocumentStart:                 "StateDocumentStart",
	StateDocumentContent:               "StateDocumentContent",
	StateDocumentEnd:                   "StateDocumentEnd",
	StateBlockNode:                     "StateBlockNode",
	StateBlockNodeOrIndentlessSequence: "StateBlockNodeOrIndentlessSequence",
	StateFlowNode:                      "StateFlowNode",
	StateBlockSequenceFirstEntry:       "StateBlockSequenceFirstEntry",
	StateBlockSequenceEntry:            "StateBlockSequenceEntry",
	StateIndentlessSequenceEntry:       "StateIndentlessSequenceEntry",
	StateBlockMappingFirstKey:          "StateBlockMappingFirstKey",
	StateBlockMappingKey:               "StateBlockMappingKey",
	StateBlockMappingValue:             "StateBlockMappingValue",
	StateFlowSequenceFirstEntry:        "StateFlowSequenceFirstEntry",
	StateFlowSequenceEntry:             "StateFlowSequenceEntry",
	StateFlowSequenceEntryMappingKey:   "StateFlowSequenceEntryMappingKey",
	StateFlowSequenceEntryMappingValue: "StateFlowSequenceEntryMappingValue",
	StateFlowSequenceEntryMappingEnd:   "StateFlowSequenceEntryMappingEnd",
	StateFlowMappingFirstKey:           "StateFlowMappingFirstKey",
	StateFlowMappingKey:                "StateFlowMappingKey",
	StateFlowMappingValue:              "StateFlowMappingValue",
	StateFlowMappingEmptyValue:         "StateFlowMappingEmptyValue",
	StateEnd:                           "StateEnd",
}

func (ps ParserState) String() string {
	if name, ok := parserStateNames[ps]; ok {
		return name
	}
	return "<unknown parser state>"
}

// Engine carries the full read-side pipeline state: the byte reader and its
// decode buffers, the scanner's token queue and indentation/simple-key
// bookkeeping, and the parser's pushdown stacks. One Engine handles exactly
// one stream; it is not reusable and not safe for concurrent use.
type Engine struct {
	// Reader state.

	Reader   io.Reader // source of raw bytes, nil when Input is set directly
	Input    []byte    // in-memory source, used when Reader is nil
	InputPos int

	Eof bool

	Buffer    []byte // decoded UTF-8 code points the scanner looks at
	BufferPos int

	Unread int // code points in Buffer at or after BufferPos

	Newlines int // consecutive line breaks since the last non-blank character

	RawBuffer    []byte // undecoded bytes as read from Reader
	RawBufferPos int

	Encoding core.Encoding // sniffed from the BOM unless preset by the caller

	Offset int       // byte offset of the current position
	Mark   core.Mark // line/column of the current position

	// Comment text folded around the token currently being scanned.

	HeadComment []byte
	LineComment []byte
	FootComment []byte
	TailComment []byte // foot comment at the end of a block
	StemComment []byte // comment on an item that precedes its nested structure

	Comments     []core.Comment // folded comments for all parsed tokens
	CommentsHead int

	// Scanner state.

	StreamStartProduced bool
	StreamEndProduced   bool

	FlowLevel int // unclosed '[' and '{' indicators

	Tokens         []core.Token // the token queue; inserts may land mid-queue
	TokensHead     int
	TokensParsed   int  // tokens dequeued over the stream's lifetime
	TokenAvailable bool // the head of the queue is stable and may be handed out

	Indent  int   // current block indentation column, -1 at top level
	Indents []int // enclosing indentation columns, strictly increasing

	SimpleKeyAllowed bool             // may the next token open an implicit mapping key?
	SimpleKeys       []core.SimpleKey // one candidate slot per flow level
	SimpleKeysByTok  map[int]int      // SimpleKeys index by token number

	// Parser state.

	State         ParserState
	States        []ParserState // continuations pushed while descending into nested nodes
	Marks         []core.Mark
	TagDirectives []core.TagDirective
}

// New returns an Engine that will scan and parse the stream read from r.
// Scanning begins lazily on the first Scan or Parse call.
func New(reader io.Reader) *Engine {
	return &Engine{
		RawBuffer: make([]byte, 0, core.RawBufferSize),
		Buffer:    make([]byte, 0, core.InputBufferSize),
		Reader:    reader,
	}
}
