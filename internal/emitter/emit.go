package emitter

import (
	"fmt"

	"github.com/abhinav/yamlcore/internal/common"
	"github.com/abhinav/yamlcore/internal/core"
)

// pushState saves the state to return to after the node about to be
// emitted; popState resumes it.
func (e *Emitter) pushState(s emitterState) {
	e.states = append(e.states, s)
}

func (e *Emitter) popState() {
	e.state = e.states[len(e.states)-1]
	e.states = e.states[:len(e.states)-1]
}

// popIndent restores the indentation of the enclosing node.
func (e *Emitter) popIndent() {
	e.indentLevel = e.indentStack[len(e.indentStack)-1]
	e.indentStack = e.indentStack[:len(e.indentStack)-1]
}

// pendingComment reports whether any comment text is waiting to be
// written after the current node.
func (e *Emitter) pendingComment() bool {
	return len(e.lineComment)+len(e.footComment)+len(e.tailComment) > 0
}

// emitStep maps each emitter state to its handler. States that differ
// only by a first/trailing flag share a handler, with the flag bound
// here.
var emitStep = map[emitterState]func(*Emitter, *core.Event) error{
	emitStreamStartState:             (*Emitter).emitStreamStart,
	emitFirstDocumentStartState:      func(e *Emitter, ev *core.Event) error { return e.emitDocumentStart(ev, true) },
	emitDocumentStartState:           func(e *Emitter, ev *core.Event) error { return e.emitDocumentStart(ev, false) },
	emitDocumentContentState:         (*Emitter).emitDocumentContent,
	emitDocumentEndState:             (*Emitter).emitDocumentEnd,
	emitFlowSequenceFirstItemState:   func(e *Emitter, ev *core.Event) error { return e.emitFlowSequenceItem(ev, true, false) },
	emitFlowSequenceTrailItemState:   func(e *Emitter, ev *core.Event) error { return e.emitFlowSequenceItem(ev, false, true) },
	emitFlowSequenceItemState:        func(e *Emitter, ev *core.Event) error { return e.emitFlowSequenceItem(ev, false, false) },
	emitFlowMappingFirstKeyState:     func(e *Emitter, ev *core.Event) error { return e.emitFlowMappingKey(ev, true, false) },
	emitFlowMappingTrailKeyState:     func(e *Emitter, ev *core.Event) error { return e.emitFlowMappingKey(ev, false, true) },
	emitFlowMappingKeyState:          func(e *Emitter, ev *core.Event) error { return e.emitFlowMappingKey(ev, false, false) },
	emitFlowMappingSimpleValueState:  func(e *Emitter, ev *core.Event) error { return e.emitFlowMappingValue(ev, true) },
	emitFlowMappingValueState:        func(e *Emitter, ev *core.Event) error { return e.emitFlowMappingValue(ev, false) },
	emitBlockSequenceFirstItemState:  func(e *Emitter, ev *core.Event) error { return e.emitBlockSequenceItem(ev, true) },
	emitBlockSequenceItemState:       func(e *Emitter, ev *core.Event) error { return e.emitBlockSequenceItem(ev, false) },
	emitBlockMappingFirstKeyState:    func(e *Emitter, ev *core.Event) error { return e.emitBlockMappingKey(ev, true) },
	emitBlockMappingKeyState:         func(e *Emitter, ev *core.Event) error { return e.emitBlockMappingKey(ev, false) },
	emitBlockMappingSimpleValueState: func(e *Emitter, ev *core.Event) error { return e.emitBlockMappingValue(ev, true) },
	emitBlockMappingValueState:       func(e *Emitter, ev *core.Event) error { return e.emitBlockMappingValue(ev, false) },
}

func (e *Emitter) stateMachine(event *core.Event) error {
	if e.state == emitEndState {
		return fmt.Errorf("expected nothing after STREAM-END")
	}
	step, ok := emitStep[e.state]
	if !ok {
		panic("invalid emitter state")
	}
	return step(e, event)
}

// expect STREAM-START.
func (e *Emitter) emitStreamStart(event *core.Event) error {
	if event.Type != core.EventStreamStart {
		return fmt.Errorf("expected STREAM-START")
	}
	if e.encoding == core.EncodingAny {
		e.encoding = event.Encoding
		if e.encoding == core.EncodingAny {
			e.encoding = core.EncodingUTF8
		}
	}
	if e.indent < 2 || e.indent > 9 {
		e.indent = 2
	}
	if e.width >= 0 && e.width <= e.indent*2 {
		e.width = 80
	}
	if e.width < 0 {
		e.width = 1<<31 - 1
	}

	e.indentLevel = -1
	e.line = 0
	e.column = 0
	e.lastCharWhitespace = true
	e.lastCharIndent = true
	e.footIndent = -1

	if e.encoding != core.EncodingUTF8 {
		if err := e.writeBom(); err != nil {
			return err
		}
	}
	e.state = emitFirstDocumentStartState
	return nil
}

// expect DOCUMENT-START or STREAM-END.
func (e *Emitter) emitDocumentStart(event *core.Event, first bool) error {
	switch event.Type {
	case core.EventDocumentStart:
		return e.emitDocumentStartEvent(event, first)
	case core.EventStreamEnd:
		if e.openEnded {
			if err := e.writeMarkerLine("..."); err != nil {
				return err
			}
		}
		e.state = emitEndState
		return nil
	}
	return fmt.Errorf("expected DOCUMENT-START or STREAM-END")
}

// writeMarkerLine writes a "---"/"..." style marker on its own line.
func (e *Emitter) writeMarkerLine(marker string) error {
	if err := e.writeIndicator(marker, true, false, false); err != nil {
		return err
	}
	return e.writeIndent()
}

func (e *Emitter) emitDocumentStartEvent(event *core.Event, first bool) error {
	if event.VersionDirective != nil {
		if err := analyzeVersionDirective(event.VersionDirective); err != nil {
			return err
		}
	}
	for i := range event.TagDirectives {
		if err := analyzeTagDirective(&event.TagDirectives[i]); err != nil {
			return err
		}
		if err := e.appendTagDirective(&event.TagDirectives[i], false); err != nil {
			return err
		}
	}
	for i := range common.DefaultTagDirectives {
		if err := e.appendTagDirective(&common.DefaultTagDirectives[i], true); err != nil {
			return err
		}
	}

	explicit := !event.Implicit || !first

	// A previous document with no "..." needs one now if directives
	// follow, so they can't be misread as its content.
	if e.openEnded && (event.VersionDirective != nil || len(event.TagDirectives) > 0) {
		if err := e.writeMarkerLine("..."); err != nil {
			return err
		}
	}

	if event.VersionDirective != nil {
		explicit = true
		if err := e.writeMarkerLine("%YAML 1.1"); err != nil {
			return err
		}
	}
	if len(event.TagDirectives) > 0 {
		explicit = true
		for i := range event.TagDirectives {
			tagDirective := &event.TagDirectives[i]
			if err := e.writeIndicator("%TAG", true, false, false); err != nil {
				return err
			}
			if err := e.writeTagHandle(tagDirective.Handle); err != nil {
				return err
			}
			if err := e.writeTagContent(tagDirective.Prefix, true); err != nil {
				return err
			}
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
	}

	if explicit {
		if err := e.writeIndent(); err != nil {
			return err
		}
		if err := e.writeIndicator("---", true, false, false); err != nil {
			return err
		}
		if e.canonical {
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
	}

	if len(e.headComment) > 0 {
		if err := e.processHeadComment(); err != nil {
			return err
		}
		if err := e.putBreak(); err != nil {
			return err
		}
	}

	e.state = emitDocumentContentState
	return nil
}

// expect the root node.
func (e *Emitter) emitDocumentContent(event *core.Event) error {
	e.pushState(emitDocumentEndState)
	if err := e.processHeadComment(); err != nil {
		return err
	}
	if err := e.emitNode(event, true, false); err != nil {
		return err
	}
	if err := e.processLineComment(); err != nil {
		return err
	}
	return e.processFootComment()
}

// expect DOCUMENT-END.
func (e *Emitter) emitDocumentEnd(event *core.Event) error {
	if event.Type != core.EventDocumentEnd {
		return fmt.Errorf("expected DOCUMENT-END")
	}
	// Force document foot separation.
	e.footIndent = 0
	if err := e.processFootComment(); err != nil {
		return err
	}
	e.footIndent = -1
	if err := e.writeIndent(); err != nil {
		return err
	}
	if !event.Implicit {
		if err := e.writeMarkerLine("..."); err != nil {
			return err
		}
	}
	e.state = emitDocumentStartState
	e.tagDirectives = e.tagDirectives[:0]
	return nil
}

// flowEntryPrefix writes the separator before a flow item or key: the
// comma (unless this is the first entry, or a trailing comma was already
// written with the previous entry's comments), any head comment, and a
// fresh line in canonical mode or when past the preferred width.
func (e *Emitter) flowEntryPrefix(first, trail bool) error {
	if !first && !trail {
		if err := e.writeIndicator(",", false, false, false); err != nil {
			return err
		}
	}
	if err := e.processHeadComment(); err != nil {
		return err
	}
	if e.column == 0 {
		if err := e.writeIndent(); err != nil {
			return err
		}
	}
	if e.canonical || e.column > e.width {
		if err := e.writeIndent(); err != nil {
			return err
		}
	}
	return nil
}

// finishFlowEntry writes a node's trailing comma (needed early when
// comments follow it) and its pending comments.
func (e *Emitter) finishFlowEntry() error {
	if e.pendingComment() {
		if err := e.writeIndicator(",", false, false, false); err != nil {
			return err
		}
	}
	if err := e.processLineComment(); err != nil {
		return err
	}
	return e.processFootComment()
}

// expect a flow item node.
func (e *Emitter) emitFlowSequenceItem(event *core.Event, first, trail bool) error {
	if first {
		if err := e.writeIndicator("[", true, true, false); err != nil {
			return err
		}
		e.increaseIndent(true, false)
		e.flowLevel++
	}

	if event.Type == core.EventSequenceEnd {
		e.flowLevel--
		e.popIndent()
		if e.column == 0 {
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if err := e.writeIndicator("]", false, false, false); err != nil {
			return err
		}
		if err := e.processLineComment(); err != nil {
			return err
		}
		if err := e.processFootComment(); err != nil {
			return err
		}
		e.popState()
		return nil
	}

	if err := e.flowEntryPrefix(first, trail); err != nil {
		return err
	}
	if e.pendingComment() {
		e.pushState(emitFlowSequenceTrailItemState)
	} else {
		e.pushState(emitFlowSequenceItemState)
	}
	if err := e.emitNode(event, false, false); err != nil {
		return err
	}
	return e.finishFlowEntry()
}

// expect a flow key node.
func (e *Emitter) emitFlowMappingKey(event *core.Event, first, trail bool) error {
	if first {
		if err := e.writeIndicator("{", true, true, false); err != nil {
			return err
		}
		e.increaseIndent(true, false)
		e.flowLevel++
	}

	if event.Type == core.EventMappingEnd {
		if len(e.headComment)+len(e.footComment)+len(e.tailComment) > 0 && !first && !trail {
			if err := e.writeIndicator(",", false, false, false); err != nil {
				return err
			}
		}
		if err := e.processHeadComment(); err != nil {
			return err
		}
		e.flowLevel--
		e.popIndent()
		if err := e.writeIndicator("}", false, false, false); err != nil {
			return err
		}
		if err := e.processLineComment(); err != nil {
			return err
		}
		if err := e.processFootComment(); err != nil {
			return err
		}
		e.popState()
		return nil
	}

	if err := e.flowEntryPrefix(first, trail); err != nil {
		return err
	}

	if e.checkSimpleKey() {
		e.pushState(emitFlowMappingSimpleValueState)
		return e.emitNode(event, false, true)
	}
	if err := e.writeIndicator("?", true, false, false); err != nil {
		return err
	}
	e.pushState(emitFlowMappingValueState)
	return e.emitNode(event, false, false)
}

// expect a flow value node.
func (e *Emitter) emitFlowMappingValue(event *core.Event, simple bool) error {
	if simple {
		if err := e.writeIndicator(":", false, false, false); err != nil {
			return err
		}
	} else {
		if e.canonical || e.column > e.width {
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if err := e.writeIndicator(":", true, false, false); err != nil {
			return err
		}
	}
	if e.pendingComment() {
		e.pushState(emitFlowMappingTrailKeyState)
	} else {
		e.pushState(emitFlowMappingKeyState)
	}
	if err := e.emitNode(event, false, false); err != nil {
		return err
	}
	return e.finishFlowEntry()
}

// expect a block item node.
func (e *Emitter) emitBlockSequenceItem(event *core.Event, first bool) error {
	if first {
		e.increaseIndent(false, false)
	}
	if event.Type == core.EventSequenceEnd {
		e.popIndent()
		e.popState()
		return nil
	}
	if err := e.processHeadComment(); err != nil {
		return err
	}
	if err := e.writeIndent(); err != nil {
		return err
	}
	if err := e.writeIndicator("-", true, false, true); err != nil {
		return err
	}
	e.pushState(emitBlockSequenceItemState)
	if err := e.emitNode(event, false, false); err != nil {
		return err
	}
	if err := e.processLineComment(); err != nil {
		return err
	}
	return e.processFootComment()
}

// expect a block key node.
func (e *Emitter) emitBlockMappingKey(event *core.Event, first bool) error {
	if first {
		e.increaseIndent(false, false)
	}
	if err := e.processHeadComment(); err != nil {
		return err
	}
	if event.Type == core.EventMappingEnd {
		e.popIndent()
		e.popState()
		return nil
	}
	if err := e.writeIndent(); err != nil {
		return err
	}
	if len(e.lineComment) > 0 {
		// A line comment arrived with the key. Unusual (the scanner
		// associates line comments with values); park it until the value
		// decides how to render it.
		e.keyLineComment = e.lineComment
		e.lineComment = nil
	}
	if e.checkSimpleKey() {
		e.pushState(emitBlockMappingSimpleValueState)
		return e.emitNode(event, false, true)
	}
	if err := e.writeIndicator("?", true, false, true); err != nil {
		return err
	}
	e.pushState(emitBlockMappingValueState)
	return e.emitNode(event, false, false)
}

// expect a block value node.
func (e *Emitter) emitBlockMappingValue(event *core.Event, simple bool) error {
	if simple {
		if err := e.writeIndicator(":", false, false, false); err != nil {
			return err
		}
	} else {
		if err := e.writeIndent(); err != nil {
			return err
		}
		if err := e.writeIndicator(":", true, false, true); err != nil {
			return err
		}
	}
	if len(e.keyLineComment) > 0 {
		// A line comment was parked with the key because no value shared
		// its line.
		if event.Type == core.EventScalar {
			if len(e.lineComment) == 0 {
				// Let the scalar carry it as its own line comment. If the
				// scalar brought one too, only one can survive and the
				// key's is dropped.
				e.lineComment = e.keyLineComment
				e.keyLineComment = nil
			}
		} else if event.SequenceStyle() != core.SequenceStyleFlow && (event.Type == core.EventMappingStart || event.Type == core.EventSequenceStart) {
			// An indented block follows; the comment must be written now,
			// before the block opens.
			e.lineComment, e.keyLineComment = e.keyLineComment, e.lineComment
			if err := e.processLineComment(); err != nil {
				return err
			}
			e.lineComment, e.keyLineComment = e.keyLineComment, e.lineComment
		}
	}
	e.pushState(emitBlockMappingKeyState)
	if err := e.emitNode(event, false, false); err != nil {
		return err
	}
	if err := e.processLineComment(); err != nil {
		return err
	}
	return e.processFootComment()
}

// emitNode dispatches on the node kind; root and simpleKey describe the
// position being written into, which style selection consults.
func (e *Emitter) emitNode(event *core.Event, root, simpleKey bool) error {
	e.rootContext = root
	e.simpleKeyContext = simpleKey

	switch event.Type {
	case core.EventAlias:
		return e.emitAlias(event)
	case core.EventScalar:
		return e.emitScalar(event)
	case core.EventSequenceStart:
		return e.emitSequenceStart(event)
	case core.EventMappingStart:
		return e.emitMappingStart(event)
	}
	return fmt.Errorf("expected SCALAR, SEQUENCE-START, MAPPING-START, or ALIAS, but got %v", event.Type)
}

func (e *Emitter) emitAlias(event *core.Event) error {
	if err := e.processAnchor(); err != nil {
		return err
	}
	e.popState()
	return nil
}

func (e *Emitter) emitScalar(event *core.Event) error {
	if err := e.selectScalarStyle(event); err != nil {
		return err
	}
	if err := e.processAnchor(); err != nil {
		return err
	}
	if err := e.processTag(); err != nil {
		return err
	}
	e.increaseIndent(true, false)
	if err := e.processScalar(); err != nil {
		return err
	}
	e.popIndent()
	e.popState()
	return nil
}

// emitSequenceStart and emitMappingStart choose between flow and block
// layout: flow wherever flow is already open, in canonical mode, when the
// event asks for it, or when the collection is empty (an empty block
// collection has no representation).
func (e *Emitter) emitSequenceStart(event *core.Event) error {
	if err := e.processAnchor(); err != nil {
		return err
	}
	if err := e.processTag(); err != nil {
		return err
	}
	if e.flowLevel > 0 || e.canonical || event.SequenceStyle() == core.SequenceStyleFlow ||
		e.checkEmptySequence() {
		e.state = emitFlowSequenceFirstItemState
	} else {
		e.state = emitBlockSequenceFirstItemState
	}
	return nil
}

func (e *Emitter) emitMappingStart(event *core.Event) error {
	if err := e.processAnchor(); err != nil {
		return err
	}
	if err := e.processTag(); err != nil {
		return err
	}
	if e.flowLevel > 0 || e.canonical || event.MappingStyle() == core.MappingStyleFlow ||
		e.checkEmptyMapping() {
		e.state = emitFlowMappingFirstKeyState
	} else {
		e.state = emitBlockMappingFirstKeyState
	}
	return nil
}

// selectScalarStyle settles the style a scalar will actually be written
// in, downgrading the requested style until one is legal here: plain
// falls back to single-quoted, single-quoted to double-quoted, and the
// block styles to double-quoted wherever flow context or a simple-key
// position forbids them.
func (e *Emitter) selectScalarStyle(event *core.Event) error {
	noTag := len(e.tagInfo.Handle) == 0 && len(e.tagInfo.Suffix) == 0
	if noTag && !event.Implicit && !event.QuotedImplicit {
		return fmt.Errorf("neither tag nor implicit flags are specified")
	}

	style := event.ScalarStyle()
	if style == core.ScalarStyleAny {
		style = core.ScalarStylePlain
	}
	if e.canonical {
		style = core.ScalarStyleDoubleQuoted
	}
	if e.simpleKeyContext && e.analysis.multiline {
		style = core.ScalarStyleDoubleQuoted
	}

	if style == core.ScalarStylePlain {
		if e.flowLevel > 0 && !e.analysis.flowPlainAllowed ||
			e.flowLevel == 0 && !e.analysis.blockPlainAllowed {
			style = core.ScalarStyleSingleQuoted
		}
		if len(e.analysis.value) == 0 && (e.flowLevel > 0 || e.simpleKeyContext) {
			style = core.ScalarStyleSingleQuoted
		}
		if noTag && !event.Implicit {
			style = core.ScalarStyleSingleQuoted
		}
	}
	if style == core.ScalarStyleSingleQuoted && !e.analysis.singleQuotedAllowed {
		style = core.ScalarStyleDoubleQuoted
	}
	if style == core.ScalarStyleLiteral || style == core.ScalarStyleFolded {
		if !e.analysis.blockAllowed || e.flowLevel > 0 || e.simpleKeyContext {
			style = core.ScalarStyleDoubleQuoted
		}
	}

	// A non-plain style with no tag and quoted-implicit off must carry
	// the explicit "!" marker to round-trip.
	if noTag && !event.QuotedImplicit && style != core.ScalarStylePlain {
		e.tagInfo.Handle = []byte{'!'}
	}
	e.analysis.style = style
	return nil
}
