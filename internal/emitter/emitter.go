package emitter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"github.com/abhinav/yamlcore/internal/core"
	"io"
)

// outputBufferSize is the size of the buffered writer every Emitter wraps
// its destination in. Flushes happen whenever a pending write wouldn't fit
// in the remaining space, so in practice this is the largest amount of
// unflushed output an Emit call can leave behind.
const outputBufferSize = 16 * 1024

// minFlushSpace is the free-space threshold below which put/write proactively
// flush rather than let bufio.Writer's own full-buffer flush trigger.
const minFlushSpace = 5

type emitterState int

// The emitter states.
const (
	emitStreamStartState emitterState = iota

	emitFirstDocumentStartState      // expect the first DOCUMENT-START or STREAM-END.
	emitDocumentStartState           // expect DOCUMENT-START or STREAM-END.
	emitDocumentContentState         // expect the content of a document.
	emitDocumentEndState             // expect DOCUMENT-END.
	emitFlowSequenceFirstItemState   // expect the first item of a flow sequence.
	emitFlowSequenceTrailItemState   // expect the next item of a flow sequence, with the comma already written out
	emitFlowSequenceItemState        // expect an item of a flow sequence.
	emitFlowMappingFirstKeyState     // expect the first key of a flow mapping.
	emitFlowMappingTrailKeyState     // expect the next key of a flow mapping, with the comma already written out
	emitFlowMappingKeyState          // expect a key of a flow mapping.
	emitFlowMappingSimpleValueState  // expect a value for a simple key of a flow mapping.
	emitFlowMappingValueState        // expect a value of a flow mapping.
	emitBlockSequenceFirstItemState  // expect the first item of a block sequence.
	emitBlockSequenceItemState       // expect an item of a block sequence.
	emitBlockMappingFirstKeyState    // expect the first key of a block mapping.
	emitBlockMappingKeyState         // expect the key of a block mapping.
	emitBlockMappingSimpleValueState // expect a value for a simple key of a block mapping.
	emitBlockMappingValueState       // expect a value of a block mapping.
	emitEndState                     // expect nothing.
)

type Emitter struct {

	// Writer stuff
	writer *bufio.Writer

	encoding  core.Encoding // The stream Encoding.
	lineBreak core.Break    // The line break style.

	// Emitter stuff

	indent    int  // The number of indentation spaces.
	width     int  // The preferred width of the output lines.
	canonical bool // Force every collection into flow style and every scalar into double-quoted.
	unicode   bool // Emit non-ASCII characters directly instead of hex-escaping them.

	state  emitterState   // The current emitter State.
	states []emitterState // The stack of States.

	queue []core.Event // The event queue.
	queueHead  int     // The head of the event queue.

	indentStack []int // The stack of indentation levels.

	tagDirectives []core.TagDirective // The list of tag directives.

	indentLevel int // The current indentation level.

	flowLevel int // The current flow level.

	rootContext      bool // Is it the document root context?
	simpleKeyContext bool // Is it a simple mapping key context?

	line              int   // The current Line.
	column            int   // The current Column.
	lastCharWhitespace bool // If the last character was a Whitespace?
	lastCharIndent    bool  // If the last character was an indentation character (' ', '-', '?', ':')?
	openEnded         bool  // If an explicit document end is required?

	footIndent int // The Indent used to write the foot comment above, or -1 if none.

	// Anchor analysis.
	anchorInfo struct {
		Anchor []byte // The anchor value.
		Alias  bool   // Is it an alias?
	}

	// Tag analysis.
	tagInfo struct {
		Handle []byte // The tag handle.
		Suffix []byte // The tag suffix.
	}

	// Scalar analysis.
	analysis struct {
		value               []byte           // The scalar value.
		multiline           bool             // Does the scalar contain Line breaks?
		flowPlainAllowed    bool             // Can the scalar be expressed in the flow plain style?
		blockPlainAllowed   bool             // Can the scalar be expressed in the block plain style?
		singleQuotedAllowed bool             // Can the scalar be expressed in the single quoted style?
		blockAllowed        bool             // Can the scalar be expressed in the literal or folded styles?
		style               core.ScalarStyle // The output style.
	}

	// Comments
	headComment    []byte
	lineComment    []byte
	footComment    []byte
	tailComment    []byte
	keyLineComment []byte
}

func New(w io.Writer) *Emitter {
	return &Emitter{
		writer: bufio.NewWriterSize(w, outputBufferSize),
		states: make([]emitterState, 0, core.InitialStackSize),
		queue:  make([]core.Event, 0, core.InitialQueueSize),
		width:  -1,
		indent: 4,
	}
}

// Flush writes any buffered output to the underlying writer. Callers that
// care whether all output reached the destination (as opposed to just the
// in-process buffer) must call Flush once they're done emitting.
func (e *Emitter) Flush() error {
	if err := e.writer.Flush(); err != nil {
		return fmt.Errorf("yaml: write error: %v", err)
	}
	return nil
}

// flushIfLow flushes the buffer when it doesn't have at least minFlushSpace
// bytes of free space left, so a single put/write/writeAll call never has
// to grow the buffer to hold its own output.
func (e *Emitter) flushIfLow() error {
	if e.writer.Available() < minFlushSpace {
		return e.writer.Flush()
	}
	return nil
}

// Emit an event.
func (e *Emitter) Emit(event *core.Event, final bool) error {
	if final {
		e.openEnded = false
	}
	e.queue = append(e.queue, *event)
	for e.readyToEmit() {
		err := e.analyzeEvent(&e.queue[e.queueHead])
		if err != nil {
			return err
		}
		err = e.stateMachine(&e.queue[e.queueHead])
		if err != nil {
			return err
		}
		e.queueHead++
	}
	return nil
}

func (e *Emitter) SetIndent(spaces int) {
	if spaces < 0 {
		panic("yaml: cannot indent to a negative number of spaces")
	}
	e.indent = spaces
}

// SetWidth sets the preferred output line width. A negative value means
// unlimited; emitStreamStart clamps it to 80 if it's too small relative to
// the indent, matching the same clamp the original defaults apply.
func (e *Emitter) SetWidth(width int) {
	e.width = width
}

// SetCanonical forces every collection into flow style, every scalar into
// the double-quoted style, and a newline before every flow collection
// entry, regardless of what would otherwise be chosen.
func (e *Emitter) SetCanonical(canonical bool) {
	e.canonical = canonical
}

// SetUnicode controls whether non-ASCII printable characters are written
// directly as UTF-8 (true) or hex-escaped as \xXX/\uXXXX/\UXXXXXXXX (false,
// the default).
func (e *Emitter) SetUnicode(unicode bool) {
	e.unicode = unicode
}

// SetEncoding overrides the stream encoding that would otherwise be taken
// from the STREAM-START event.
func (e *Emitter) SetEncoding(encoding core.Encoding) {
	e.encoding = encoding
}

// SetLineBreak overrides the line break style used when writing breaks.
func (e *Emitter) SetLineBreak(b core.Break) {
	e.lineBreak = b
}

// put a byte on the output buffer.
func (e *Emitter) put(value byte) error {
	if err := e.flushIfLow(); err != nil {
		return fmt.Errorf("yaml: write error: %v", err)
	}
	_, err := e.writer.Write([]byte{value})
	if err != nil {
		return fmt.Errorf("yaml: write error: %v", err)
	}
	e.column++
	return nil
}

// putBreak puts a line break to the output buffer, honoring the
// configured line break style (default LN).
func (e *Emitter) putBreak() error {
	var b []byte
	switch e.lineBreak {
	case core.BreakCR:
		b = []byte{'\r'}
	case core.BreakCRLN:
		b = []byte{'\r', '\n'}
	default:
		b = []byte{'\n'}
	}
	if err := e.flushIfLow(); err != nil {
		return fmt.Errorf("yaml: write error: %v", err)
	}
	_, err := e.writer.Write(b)
	if err != nil {
		return fmt.Errorf("yaml: write error: %v", err)
	}
	e.column = 0
	e.line++
	e.lastCharIndent = true
	return nil
}

// write a character from b onto the buffer. Returns the number of bytes read from b.
func (e *Emitter) write(b []byte) (int, error) {
	w := core.RuneWidth(b[0])
	if err := e.flushIfLow(); err != nil {
		return 0, fmt.Errorf("yaml: write error: %v", err)
	}
	_, err := io.CopyN(e.writer, bytes.NewReader(b), int64(w))
	if err != nil {
		return 0, fmt.Errorf("yaml: write error: %v", err)
	}
	e.column++
	return w, nil
}

// writeAll writes b to the output buffer.
func (e *Emitter) writeAll(b []byte) error {
	e.column += len([]rune(string(b)))
	for len(b) > 0 {
		if err := e.flushIfLow(); err != nil {
			return fmt.Errorf("yaml: write error: %v", err)
		}
		n, err := e.writer.Write(b)
		if err != nil {
			return fmt.Errorf("yaml: write error: %v", err)
		}
		b = b[n:]
	}
	return nil
}

// writeBreak writes a line break from b[0] to the output buffer with special handling for \n.
// Returns number of bytes read from b.
func (e *Emitter) writeBreak(b []byte) (int, error) {
	if b[0] == '\n' {
		err := e.putBreak()
		if err != nil {
			return 0, err
		}
		return 1, nil
	}
	n, err := e.write(b)
	if err != nil {
		return 0, err
	}
	e.column = 0
	e.line++
	e.lastCharIndent = true
	return n, nil
}

// readyToEmit - Check if we need to accumulate more events before emitting.
//
// We accumulate extra
//   - 1 event for DOCUMENT-START
//   - 2 events for SEQUENCE-START
//   - 3 events for MAPPING-START
func (e *Emitter) readyToEmit() bool {
	if e.queueHead == len(e.queue) {
		return false
	}
	var accumulate int
	switch e.queue[e.queueHead].Type {
	case core.EventDocumentStart:
		accumulate = 1
	case core.EventSequenceStart:
		accumulate = 2
	case core.EventMappingStart:
		accumulate = 3
	default:
		return true
	}
	if len(e.queue)-e.queueHead > accumulate {
		return true
	}
	var level int
	for i := e.queueHead; i < len(e.queue); i++ {
		switch e.queue[i].Type {
		case core.EventStreamStart, core.EventDocumentStart, core.EventSequenceStart, core.EventMappingStart:
			level++
		case core.EventStreamEnd, core.EventDocumentEnd, core.EventSequenceEnd, core.EventMappingEnd:
			level--
		}
		if level == 0 {
			return true
		}
	}
	return false
}

func (e *Emitter) increaseIndent(flow, indentless bool) {
	e.indentStack = append(e.indentStack, e.indentLevel)
	if e.indentLevel < 0 {
		if flow {
			e.indentLevel = e.indent
		} else {
			e.indentLevel = 0
		}
		return
	}
	if !indentless {
		if e.states[len(e.states)-1] == emitBlockSequenceItemState {
			// The first indent inside a sequence will just skip the "- " indicator.
			e.indentLevel += 2
		} else {
			// Everything else aligns to the chosen indentation.
			e.indentLevel = e.indent * ((e.indentLevel + e.indent) / e.indent)
		}
	}
}

// appendTagDirective - Append a directive to the directives stack.
func (e *Emitter) appendTagDirective(value *core.TagDirective, allowDuplicates bool) error {
	for i := 0; i < len(e.tagDirectives); i++ {
		if bytes.Equal(value.Handle, e.tagDirectives[i].Handle) {
			if allowDuplicates {
				return nil
			}
			return errors.New("duplicate %TAG directive")
		}
	}

	// Copy the directive so the emitter's copy can't alias caller-owned
	// byte slices that may be reused.
	tagCopy := core.TagDirective{
		Handle: make([]byte, len(value.Handle)),
		Prefix: make([]byte, len(value.Prefix)),
	}
	copy(tagCopy.Handle, value.Handle)
	copy(tagCopy.Prefix, value.Prefix)
	e.tagDirectives = append(e.tagDirectives, tagCopy)
	return nil
}
