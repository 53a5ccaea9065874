//
// Copyright (c) 2011-2019 Canonical Ltd
// Copyright (c) 2006-2010 Kirill Simonov
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package engine

import (
	"bytes"
	"fmt"
	"github.com/abhinav/yamlcore/internal/common"
	"github.com/abhinav/yamlcore/internal/core"
	"strconv"
)

// The parser implements the following grammar:
//
// stream               ::= STREAM-START implicitDocument? explicitDocument* STREAM-END
// implicitDocument    ::= blockNode DOCUMENT-END*
// explicitDocument    ::= DIRECTIVE* DOCUMENT-START blockNode? DOCUMENT-END*
// blockNodeOrIndentlessSequence    ::=
//                          ALIAS
//                          | properties (blockContent | indentlessBlockSequence)?
//                          | blockContent
//                          | indentlessBlockSequence
// blockNode           ::= ALIAS
//                          | properties blockContent?
//                          | blockContent
// flowNode            ::= ALIAS
//                          | properties flowContent?
//                          | flowContent
// properties           ::= TAG ANCHOR? | ANCHOR TAG?
// blockContent        ::= blockCollection | flowCollection | SCALAR
// flowContent         ::= flowCollection | SCALAR
// blockCollection     ::= blockSequence | blockMapping
// flowCollection      ::= flowSequence | flowMapping
// blockSequence       ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY blockNode?)* BLOCK-END
// indentlessSequence  ::= (BLOCK-ENTRY blockNode?)+
// blockMapping        ::= BLOCK-MAPPINGSTART
//                          ((KEY blockNodeOrIndentlessSequence?)?
//                          (VALUE blockNodeOrIndentlessSequence?)?)*
//                          BLOCK-END
// flowSequence        ::= FLOW-SEQUENCE-START
//                          (flowSequenceEntry FLOW-ENTRY)*
//                          flowSequenceEntry?
//                          FLOW-SEQUENCE-END
// flowSequenceEntry  ::= flowNode | KEY flowNode? (VALUE flowNode?)?
// flowMapping         ::= FLOW-MAPPING-START
//                          (flowMappingEntry FLOW-ENTRY)*
//                          flowMappingEntry?
//                          FLOW-MAPPING-END
// flowMappingEntry   ::= flowNode | KEY flowNode? (VALUE flowNode?)?

// Parse drives parser to its next event. Once the stream has produced its
// STREAM-END event, further calls return a zero Event rather than an error;
// callers normally stop after seeing parser.State == StateEnd.
func (p *Engine) Parse() (*core.Event, error) {
	if p.StreamEndProduced || p.State == StateEnd {
		return &core.Event{}, nil
	}
	return p.stateMachine()
}

// peekToken returns the next token in the queue without consuming it,
// fetching more from the scanner if the queue is currently empty.
func (p *Engine) peekToken() (*core.Token, error) {
	if !p.TokenAvailable {
		err := p.fetchMoreTokens()
		if err != nil {
			return nil, err
		}
	}
	token := &p.Tokens[p.TokensHead]
	p.unfoldComments(token)
	return token, nil
}

// unfoldComments walks through the comments queue and joins all
// comments behind the position of the provided token into the respective
// top-level comment slices in the parser.
func (p *Engine) unfoldComments(token *core.Token) {
	for p.CommentsHead < len(p.Comments) && token.StartMark.Index >= p.Comments[p.CommentsHead].TokenMark.Index {
		comment := &p.Comments[p.CommentsHead]
		if len(comment.Head) > 0 {
			if token.Type == core.TokenBlockEnd {
				// No heads on ends, so keep comment.head for a follow up token.
				break
			}
			if len(p.HeadComment) > 0 {
				p.HeadComment = append(p.HeadComment, '\n')
			}
			p.HeadComment = append(p.HeadComment, comment.Head...)
		}
		if len(comment.Foot) > 0 {
			if len(p.FootComment) > 0 {
				p.FootComment = append(p.FootComment, '\n')
			}
			p.FootComment = append(p.FootComment, comment.Foot...)
		}
		if len(comment.Line) > 0 {
			if len(p.LineComment) > 0 {
				p.LineComment = append(p.LineComment, '\n')
			}
			p.LineComment = append(p.LineComment, comment.Line...)
		}
		*comment = core.Comment{}
		p.CommentsHead++
	}
}

// Remove the next token from the queue (must be called after peekToken).
func (p *Engine) skipToken() {
	p.TokenAvailable = false
	p.TokensParsed++
	p.StreamEndProduced = p.Tokens[p.TokensHead].Type == core.TokenStreamEnd
	p.TokensHead++
}

// pushState saves a continuation to come back to once the nested construct
// about to be parsed is finished.
func (p *Engine) pushState(s ParserState) {
	p.States = append(p.States, s)
}

// popState resumes the most recently saved continuation.
func (p *Engine) popState() {
	p.State = p.States[len(p.States)-1]
	p.States = p.States[:len(p.States)-1]
}

// pushMark records where the construct being parsed began, for error
// context; popMark retrieves it on the way out.
func (p *Engine) pushMark(m core.Mark) {
	p.Marks = append(p.Marks, m)
}

func (p *Engine) popMark() core.Mark {
	m := p.Marks[len(p.Marks)-1]
	p.Marks = p.Marks[:len(p.Marks)-1]
	return m
}

func buildParserError(errType core.ErrorType, problem string, problemLine, contextLine int) error {
	if errType == core.ErrorNone {
		return nil
	}
	var where string
	line := contextLine
	if line == 0 {
		line = problemLine
	}
	if line != 0 {
		// Scanner errors don't iterate line before returning error
		if errType == core.ErrorScanner {
			line++
		}
		where = "line " + strconv.Itoa(line) + ": "
	}
	if problem == "" {
		problem = "unknown problem parsing YAML content"
	}
	return fmt.Errorf("yaml: %s%s", where, problem)
}

// parseStep maps each parser state to the production that handles it.
// States that differ only by a "first entry" or "indentless" flag share a
// production, with the flag bound here.
var parseStep = map[ParserState]func(*Engine) (*core.Event, error){
	StateStreamStart:                   (*Engine).parseStreamStart,
	StateImplicitDocumentStart:         func(p *Engine) (*core.Event, error) { return p.parseDocumentStart(true) },
	StateDocumentStart:                 func(p *Engine) (*core.Event, error) { return p.parseDocumentStart(false) },
	StateDocumentContent:               (*Engine).parseDocumentContent,
	StateDocumentEnd:                   (*Engine).parseDocumentEnd,
	StateBlockNode:                     func(p *Engine) (*core.Event, error) { return p.parseNode(true, false) },
	StateBlockNodeOrIndentlessSequence: func(p *Engine) (*core.Event, error) { return p.parseNode(true, true) },
	StateFlowNode:                      func(p *Engine) (*core.Event, error) { return p.parseNode(false, false) },
	StateBlockSequenceFirstEntry:       func(p *Engine) (*core.Event, error) { return p.parseBlockSequenceEntry(true) },
	StateBlockSequenceEntry:            func(p *Engine) (*core.Event, error) { return p.parseBlockSequenceEntry(false) },
	StateIndentlessSequenceEntry:       (*Engine).parseIndentlessSequenceEntry,
	StateBlockMappingFirstKey:          func(p *Engine) (*core.Event, error) { return p.parseBlockMappingKey(true) },
	StateBlockMappingKey:               func(p *Engine) (*core.Event, error) { return p.parseBlockMappingKey(false) },
	StateBlockMappingValue:             (*Engine).parseBlockMappingValue,
	StateFlowSequenceFirstEntry:        func(p *Engine) (*core.Event, error) { return p.parseFlowSequenceEntry(true) },
	StateFlowSequenceEntry:             func(p *Engine) (*core.Event, error) { return p.parseFlowSequenceEntry(false) },
	StateFlowSequenceEntryMappingKey:   (*Engine).parseFlowSequenceEntryMappingKey,
	StateFlowSequenceEntryMappingValue: (*Engine).parseFlowSequenceEntryMappingValue,
	StateFlowSequenceEntryMappingEnd:   (*Engine).parseFlowSequenceEntryMappingEnd,
	StateFlowMappingFirstKey:           func(p *Engine) (*core.Event, error) { return p.parseFlowMappingKey(true) },
	StateFlowMappingKey:                func(p *Engine) (*core.Event, error) { return p.parseFlowMappingKey(false) },
	StateFlowMappingValue:              func(p *Engine) (*core.Event, error) { return p.parseFlowMappingValue(false) },
	StateFlowMappingEmptyValue:         func(p *Engine) (*core.Event, error) { return p.parseFlowMappingValue(true) },
}

func (p *Engine) stateMachine() (*core.Event, error) {
	step, ok := parseStep[p.State]
	if !ok {
		panic("invalid parser state")
	}
	return step(p)
}

// stream ::= STREAM-START implicitDocument? explicitDocument* STREAM-END
func (p *Engine) parseStreamStart() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if token.Type != core.TokenStreamStart {
		return nil, buildParserError(core.ErrorParser, "did not find expected <stream-start>", token.StartMark.Line, 0)
	}
	p.State = StateImplicitDocumentStart
	event := &core.Event{
		Type:      core.EventStreamStart,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
		Encoding:  token.Encoding,
	}
	p.skipToken()
	return event, nil
}

// parseDocumentStart dispatches between the three things that can follow a
// document boundary: an implicit document (content with no marker), an
// explicit one (directives and "---"), or the end of the stream.
//
// implicitDocument ::= blockNode DOCUMENT-END*
// explicitDocument ::= DIRECTIVE* DOCUMENT-START blockNode? DOCUMENT-END*
func (p *Engine) parseDocumentStart(implicit bool) (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	if !implicit {
		// Swallow any stray "..." markers left over from the previous
		// document.
		for token.Type == core.TokenDocumentEnd {
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return nil, err
			}
		}
	}

	if implicit && !tokenIn(token.Type,
		core.TokenVersionDirective, core.TokenTagDirective,
		core.TokenDocumentStart, core.TokenStreamEnd) {
		return p.parseImplicitDocument(token)
	}
	if token.Type != core.TokenStreamEnd {
		return p.parseExplicitDocument(token)
	}

	p.State = StateEnd
	event := &core.Event{
		Type:      core.EventStreamEnd,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
	p.skipToken()
	return event, nil
}

// parseImplicitDocument opens a document that begins directly with its
// content. Only the built-in tag directives are in effect.
func (p *Engine) parseImplicitDocument(token *core.Token) (*core.Event, error) {
	if err := p.processDirectives(nil, nil); err != nil {
		return nil, err
	}
	p.pushState(StateDocumentEnd)
	p.State = StateBlockNode

	return &core.Event{
		Type:        core.EventDocumentStart,
		StartMark:   token.StartMark,
		EndMark:     token.EndMark,
		HeadComment: p.splitDocumentComment(),
	}, nil
}

// splitDocumentComment breaks an accumulated head comment at its last
// blank line: the part above it belongs to the document header, the rest
// stays pending for the first content event.
func (p *Engine) splitDocumentComment() []byte {
	for i := len(p.HeadComment) - 1; i > 0; i-- {
		if p.HeadComment[i] != '\n' {
			continue
		}
		if i == len(p.HeadComment)-1 {
			head := p.HeadComment[:i]
			p.HeadComment = p.HeadComment[i+1:]
			return head
		}
		if p.HeadComment[i-1] == '\n' {
			head := p.HeadComment[:i-1]
			p.HeadComment = p.HeadComment[i+1:]
			return head
		}
	}
	return nil
}

// parseExplicitDocument consumes the directives and the "---" marker.
func (p *Engine) parseExplicitDocument(token *core.Token) (*core.Event, error) {
	startMark := token.StartMark

	var versionDirective *core.VersionDirective
	var tagDirectives []core.TagDirective
	if err := p.processDirectives(&versionDirective, &tagDirectives); err != nil {
		return nil, err
	}
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if token.Type != core.TokenDocumentStart {
		return nil, buildParserError(core.ErrorParser, "did not find expected <document start>", token.StartMark.Line, 0)
	}
	p.pushState(StateDocumentEnd)
	p.State = StateDocumentContent

	event := &core.Event{
		Type:             core.EventDocumentStart,
		StartMark:        startMark,
		EndMark:          token.EndMark,
		VersionDirective: versionDirective,
		TagDirectives:    tagDirectives,
	}
	p.skipToken()
	return event, nil
}

// Parse the productions:
// explicitDocument    ::= DIRECTIVE* DOCUMENT-START blockNode? DOCUMENT-END*
//
//	***********
func (p *Engine) parseDocumentContent() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	if token.Type == core.TokenVersionDirective ||
		token.Type == core.TokenTagDirective ||
		token.Type == core.TokenDocumentStart ||
		token.Type == core.TokenDocumentEnd ||
		token.Type == core.TokenStreamEnd {
		p.popState()
		return emptyScalar(token.StartMark), nil

	}
	return p.parseNode(true, false)
}

// Parse the productions:
// implicitDocument    ::= blockNode DOCUMENT-END*
//
//	*************
//
// explicitDocument    ::= DIRECTIVE* DOCUMENT-START blockNode? DOCUMENT-END*
func (p *Engine) parseDocumentEnd() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	startMark := token.StartMark
	endMark := token.StartMark

	implicit := true
	if token.Type == core.TokenDocumentEnd {
		endMark = token.EndMark
		p.skipToken()
		implicit = false
	}

	p.TagDirectives = p.TagDirectives[:0]

	p.State = StateDocumentStart
	event := core.Event{
		Type:      core.EventDocumentEnd,
		StartMark: startMark,
		EndMark:   endMark,
		Implicit:  implicit,
	}
	p.setEventComments(&event)
	if len(event.HeadComment) > 0 && len(event.FootComment) == 0 {
		event.FootComment = event.HeadComment
		event.HeadComment = nil
	}
	return &event, nil
}

func (p *Engine) setEventComments(event *core.Event) {
	event.HeadComment = p.HeadComment
	event.LineComment = p.LineComment
	event.FootComment = p.FootComment
	p.HeadComment = nil
	p.LineComment = nil
	p.FootComment = nil
	p.TailComment = nil
	p.StemComment = nil
}

// nodeProps is the optional "properties" production in front of a node:
// an anchor and a resolved tag, in either order, plus the marks spanning
// whatever was consumed.
type nodeProps struct {
	anchor     []byte
	tag        []byte
	start, end core.Mark
}

// scanNodeProperties consumes an optional ANCHOR and TAG token (at most
// one of each, in either order), resolving tag shorthand against the
// active %TAG directives, and returns the first token after them.
func (p *Engine) scanNodeProperties(token *core.Token) (*core.Token, nodeProps, error) {
	props := nodeProps{start: token.StartMark, end: token.StartMark}

	var handle, suffix []byte
	var sawTag bool
	var tagMark core.Mark
	for {
		if token.Type == core.TokenAnchor && props.anchor == nil {
			props.anchor = token.Value
		} else if token.Type == core.TokenTag && !sawTag {
			sawTag = true
			handle, suffix = token.Value, token.Suffix
			tagMark = token.StartMark
		} else {
			break
		}
		props.end = token.EndMark
		p.skipToken()
		var err error
		if token, err = p.peekToken(); err != nil {
			return nil, props, err
		}
	}

	if sawTag {
		tag, err := p.resolveShorthand(handle, suffix, tagMark, props.start)
		if err != nil {
			return nil, props, err
		}
		props.tag = tag
	}
	return token, props, nil
}

// resolveShorthand expands a tag's handle against the document's %TAG
// directives. A tag with no handle was written verbatim and is returned
// as-is.
func (p *Engine) resolveShorthand(handle, suffix []byte, tagMark, nodeMark core.Mark) ([]byte, error) {
	if len(handle) == 0 {
		return suffix, nil
	}
	for i := range p.TagDirectives {
		if bytes.Equal(p.TagDirectives[i].Handle, handle) {
			tag := append([]byte(nil), p.TagDirectives[i].Prefix...)
			return append(tag, suffix...), nil
		}
	}
	return nil, buildParserError(core.ErrorParser, "found undefined tag handle", tagMark.Line, nodeMark.Line)
}

// takeStemComment moves a pending stem comment onto the event opening the
// nested block collection it belongs to.
func (p *Engine) takeStemComment(event *core.Event) {
	if p.StemComment != nil {
		event.HeadComment = p.StemComment
		p.StemComment = nil
	}
}

// parseNode handles the node productions: an alias, optional properties
// followed by a scalar or a collection start, or, when the properties
// stand alone, an implicit empty scalar. In block context collections may
// be block-styled; with indentlessSequence a bare "-" may also open a
// sequence at the parent's own indent.
func (p *Engine) parseNode(block, indentlessSequence bool) (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	if token.Type == core.TokenAlias {
		p.popState()
		event := &core.Event{
			Type:      core.EventAlias,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
			Anchor:    token.Value,
		}
		p.setEventComments(event)
		p.skipToken()
		return event, nil
	}

	token, props, err := p.scanNodeProperties(token)
	if err != nil {
		return nil, err
	}
	implicit := len(props.tag) == 0

	// collectionStart builds the start event shared by the four collection
	// shapes; each case sets the follow-up state before calling it.
	collectionStart := func(t core.EventType, style core.Style) *core.Event {
		return &core.Event{
			Type:      t,
			StartMark: props.start,
			EndMark:   token.EndMark,
			Anchor:    props.anchor,
			Tag:       props.tag,
			Implicit:  implicit,
			Style:     style,
		}
	}

	switch {
	case indentlessSequence && token.Type == core.TokenBlockEntry:
		p.State = StateIndentlessSequenceEntry
		return collectionStart(core.EventSequenceStart, core.Style(core.SequenceStyleBlock)), nil

	case token.Type == core.TokenScalar:
		var plainImplicit, quotedImplicit bool
		switch {
		case len(props.tag) == 0 && token.Style == core.ScalarStylePlain,
			len(props.tag) == 1 && props.tag[0] == '!':
			plainImplicit = true
		case len(props.tag) == 0:
			quotedImplicit = true
		}
		p.popState()
		event := &core.Event{
			Type:           core.EventScalar,
			StartMark:      props.start,
			EndMark:        token.EndMark,
			Anchor:         props.anchor,
			Tag:            props.tag,
			Value:          token.Value,
			Implicit:       plainImplicit,
			QuotedImplicit: quotedImplicit,
			Style:          core.Style(token.Style),
		}
		p.setEventComments(event)
		p.skipToken()
		return event, nil

	case token.Type == core.TokenFlowSequenceStart:
		p.State = StateFlowSequenceFirstEntry
		event := collectionStart(core.EventSequenceStart, core.Style(core.SequenceStyleFlow))
		p.setEventComments(event)
		return event, nil

	case token.Type == core.TokenFlowMappingStart:
		p.State = StateFlowMappingFirstKey
		event := collectionStart(core.EventMappingStart, core.Style(core.MappingStyleFlow))
		p.setEventComments(event)
		return event, nil

	case block && token.Type == core.TokenBlockSequenceStart:
		p.State = StateBlockSequenceFirstEntry
		event := collectionStart(core.EventSequenceStart, core.Style(core.SequenceStyleBlock))
		p.takeStemComment(event)
		return event, nil

	case block && token.Type == core.TokenBlockMappingStart:
		p.State = StateBlockMappingFirstKey
		event := collectionStart(core.EventMappingStart, core.Style(core.MappingStyleBlock))
		p.takeStemComment(event)
		return event, nil

	case len(props.anchor) > 0 || len(props.tag) > 0:
		// Properties followed by nothing that can start a node decorate an
		// implicit empty scalar.
		p.popState()
		return &core.Event{
			Type:      core.EventScalar,
			StartMark: props.start,
			EndMark:   props.end,
			Anchor:    props.anchor,
			Tag:       props.tag,
			Implicit:  implicit,
			Style:     core.Style(core.ScalarStylePlain),
		}, nil
	}

	return nil, buildParserError(core.ErrorParser, "did not find expected node content", token.StartMark.Line, props.start.Line)
}

// Helpers shared by the entry parsers below.

// tokenIn reports whether typ is one of the given kinds.
func tokenIn(typ core.TokenType, kinds ...core.TokenType) bool {
	for _, k := range kinds {
		if typ == k {
			return true
		}
	}
	return false
}

// emptyScalar synthesizes the implicit empty plain scalar the grammar
// demands when an entry, key, or value has no written body.
func emptyScalar(mark core.Mark) *core.Event {
	return &core.Event{
		Type:      core.EventScalar,
		StartMark: mark,
		EndMark:   mark,
		Implicit:  true,
		Style:     core.Style(core.ScalarStylePlain),
	}
}

// openCollection notes where a block or flow collection began, for error
// context, and consumes its start token.
func (p *Engine) openCollection() error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	p.pushMark(token.StartMark)
	p.skipToken()
	return nil
}

// endCollection pops the saved continuation and context mark and produces
// the end event spanning the current token.
func (p *Engine) endCollection(t core.EventType, token *core.Token, comments bool) *core.Event {
	p.popState()
	p.popMark()
	event := &core.Event{
		Type:      t,
		StartMark: token.StartMark,
		EndMark:   token.EndMark,
	}
	if comments {
		p.setEventComments(event)
	}
	p.skipToken()
	return event
}

// nodeOrEmpty descends into a block node unless the next token is one of
// the given terminators, in which case the entry's body is an implicit
// empty scalar at mark. Either way the parser resumes at next afterwards.
func (p *Engine) nodeOrEmpty(mark core.Mark, next ParserState, indentless bool, terminators ...core.TokenType) (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if !tokenIn(token.Type, terminators...) {
		p.pushState(next)
		return p.parseNode(true, indentless)
	}
	p.State = next
	return emptyScalar(mark), nil
}

// blockSequence ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY blockNode?)* BLOCK-END
func (p *Engine) parseBlockSequenceEntry(first bool) (*core.Event, error) {
	if first {
		if err := p.openCollection(); err != nil {
			return nil, err
		}
	}
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	switch token.Type {
	case core.TokenBlockEntry:
		mark := token.EndMark
		priorHeadLen := len(p.HeadComment)
		p.skipToken()
		if err := p.splitStemComment(priorHeadLen); err != nil {
			return nil, err
		}
		return p.nodeOrEmpty(mark, StateBlockSequenceEntry, false,
			core.TokenBlockEntry, core.TokenBlockEnd)
	case core.TokenBlockEnd:
		return p.endCollection(core.EventSequenceEnd, token, false), nil
	}
	contextMark := p.popMark()
	return nil, buildParserError(core.ErrorParser, "did not find expected '-' indicator", token.StartMark.Line, contextMark.Line)
}

// indentlessSequence ::= (BLOCK-ENTRY blockNode?)+
func (p *Engine) parseIndentlessSequenceEntry() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if token.Type != core.TokenBlockEntry {
		// An indentless sequence has no BLOCK-END of its own; it ends at
		// whatever ends the enclosing mapping entry.
		p.popState()
		return &core.Event{
			Type:      core.EventSequenceEnd,
			StartMark: token.StartMark,
			EndMark:   token.StartMark,
		}, nil
	}
	mark := token.EndMark
	priorHeadLen := len(p.HeadComment)
	p.skipToken()
	if err := p.splitStemComment(priorHeadLen); err != nil {
		return nil, err
	}
	return p.nodeOrEmpty(mark, StateIndentlessSequenceEntry, false,
		core.TokenBlockEntry, core.TokenKey, core.TokenValue, core.TokenBlockEnd)
}

// splitStemComment moves a head comment aside when a sequence or mapping
// opens under a sequence entry: the comment belongs to the nested
// collection as a whole, not to its first entry.
func (p *Engine) splitStemComment(stemLen int) error {
	if stemLen == 0 {
		return nil
	}
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	if token.Type != core.TokenBlockSequenceStart && token.Type != core.TokenBlockMappingStart {
		return nil
	}

	p.StemComment = p.HeadComment[:stemLen]
	if len(p.HeadComment) == stemLen {
		p.HeadComment = nil
	} else {
		// Copy the suffix so appends to the stem slice can never scribble
		// over it.
		p.HeadComment = append([]byte(nil), p.HeadComment[stemLen+1:]...)
	}
	return nil
}

// blockMapping ::= BLOCK-MAPPING-START
//                  ((KEY blockNodeOrIndentlessSequence?)?
//                  (VALUE blockNodeOrIndentlessSequence?)?)*
//                  BLOCK-END
func (p *Engine) parseBlockMappingKey(first bool) (*core.Event, error) {
	if first {
		if err := p.openCollection(); err != nil {
			return nil, err
		}
	}
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}

	// A tail comment left over from the prior value surfaces as its own
	// marker event, so that it stays with that value rather than being
	// folded into the key that follows.
	if len(p.TailComment) > 0 {
		p.TailComment = nil
		return &core.Event{
			Type:      core.EventTailComment,
			StartMark: token.StartMark,
			EndMark:   token.EndMark,
		}, nil
	}

	switch token.Type {
	case core.TokenKey:
		mark := token.EndMark
		p.skipToken()
		return p.nodeOrEmpty(mark, StateBlockMappingValue, true,
			core.TokenKey, core.TokenValue, core.TokenBlockEnd)
	case core.TokenBlockEnd:
		return p.endCollection(core.EventMappingEnd, token, true), nil
	}
	contextMark := p.popMark()
	return nil, buildParserError(core.ErrorParser, "did not find expected key", token.StartMark.Line, contextMark.Line)
}

func (p *Engine) parseBlockMappingValue() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if token.Type != core.TokenValue {
		p.State = StateBlockMappingKey
		return emptyScalar(token.StartMark), nil
	}
	mark := token.EndMark
	p.skipToken()
	return p.nodeOrEmpty(mark, StateBlockMappingKey, true,
		core.TokenKey, core.TokenValue, core.TokenBlockEnd)
}

// flowSequence ::= FLOW-SEQUENCE-START
//                  (flowSequenceEntry FLOW-ENTRY)* flowSequenceEntry?
//                  FLOW-SEQUENCE-END
func (p *Engine) parseFlowSequenceEntry(first bool) (*core.Event, error) {
	if first {
		if err := p.openCollection(); err != nil {
			return nil, err
		}
	}
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if token.Type != core.TokenFlowSequenceEnd {
		if !first {
			if token.Type != core.TokenFlowEntry {
				contextMark := p.popMark()
				return nil, buildParserError(core.ErrorParser, "did not find expected ',' or ']'", token.StartMark.Line, contextMark.Line)
			}
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return nil, err
			}
		}

		if token.Type == core.TokenKey {
			// "key: value" directly inside a flow sequence becomes a
			// single-pair mapping.
			p.State = StateFlowSequenceEntryMappingKey
			event := &core.Event{
				Type:      core.EventMappingStart,
				StartMark: token.StartMark,
				EndMark:   token.EndMark,
				Implicit:  true,
				Style:     core.Style(core.MappingStyleFlow),
			}
			p.skipToken()
			return event, nil
		}
		if token.Type != core.TokenFlowSequenceEnd {
			p.pushState(StateFlowSequenceEntry)
			return p.parseNode(false, false)
		}
	}
	return p.endCollection(core.EventSequenceEnd, token, true), nil
}

// flowSequenceEntry ::= flowNode | KEY flowNode? (VALUE flowNode?)?
func (p *Engine) parseFlowSequenceEntryMappingKey() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if tokenIn(token.Type, core.TokenValue, core.TokenFlowEntry, core.TokenFlowSequenceEnd) {
		mark := token.EndMark
		p.skipToken()
		p.State = StateFlowSequenceEntryMappingValue
		return emptyScalar(mark), nil
	}
	p.pushState(StateFlowSequenceEntryMappingValue)
	return p.parseNode(false, false)
}

func (p *Engine) parseFlowSequenceEntryMappingValue() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if token.Type == core.TokenValue {
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return nil, err
		}
		if !tokenIn(token.Type, core.TokenFlowEntry, core.TokenFlowSequenceEnd) {
			p.pushState(StateFlowSequenceEntryMappingEnd)
			return p.parseNode(false, false)
		}
	}
	p.State = StateFlowSequenceEntryMappingEnd
	return emptyScalar(token.StartMark), nil
}

func (p *Engine) parseFlowSequenceEntryMappingEnd() (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	p.State = StateFlowSequenceEntry
	return &core.Event{
		Type:      core.EventMappingEnd,
		StartMark: token.StartMark,
		EndMark:   token.StartMark,
	}, nil
}

// flowMapping ::= FLOW-MAPPING-START
//                 (flowMappingEntry FLOW-ENTRY)* flowMappingEntry?
//                 FLOW-MAPPING-END
func (p *Engine) parseFlowMappingKey(first bool) (*core.Event, error) {
	if first {
		if err := p.openCollection(); err != nil {
			return nil, err
		}
	}
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if token.Type != core.TokenFlowMappingEnd {
		if !first {
			if token.Type != core.TokenFlowEntry {
				contextMark := p.popMark()
				return nil, buildParserError(core.ErrorParser, "did not find expected ',' or '}'", token.StartMark.Line, contextMark.Line)
			}
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return nil, err
			}
		}

		if token.Type == core.TokenKey {
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return nil, err
			}
			if !tokenIn(token.Type, core.TokenValue, core.TokenFlowEntry, core.TokenFlowMappingEnd) {
				p.pushState(StateFlowMappingValue)
				return p.parseNode(false, false)
			}
			p.State = StateFlowMappingValue
			return emptyScalar(token.StartMark), nil
		}
		if token.Type != core.TokenFlowMappingEnd {
			p.pushState(StateFlowMappingEmptyValue)
			return p.parseNode(false, false)
		}
	}
	return p.endCollection(core.EventMappingEnd, token, true), nil
}

func (p *Engine) parseFlowMappingValue(empty bool) (*core.Event, error) {
	token, err := p.peekToken()
	if err != nil {
		return nil, err
	}
	if empty {
		p.State = StateFlowMappingKey
		return emptyScalar(token.StartMark), nil
	}
	if token.Type == core.TokenValue {
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return nil, err
		}
		if !tokenIn(token.Type, core.TokenFlowEntry, core.TokenFlowMappingEnd) {
			p.pushState(StateFlowMappingKey)
			return p.parseNode(false, false)
		}
	}
	p.State = StateFlowMappingKey
	return emptyScalar(token.StartMark), nil
}

// processDirectives consumes the %YAML and %TAG directives ahead of a
// document and installs the two built-in tag handles afterwards, so a
// document's own %TAG for "!" or "!!" wins over the defaults. The refs,
// when non-nil, receive what the document itself declared.
func (p *Engine) processDirectives(
	versionDirectiveRef **core.VersionDirective,
	tagDirectivesRef *[]core.TagDirective) error {

	var versionDirective *core.VersionDirective
	var tagDirectives []core.TagDirective

	token, err := p.peekToken()
	if err != nil {
		return err
	}

	for tokenIn(token.Type, core.TokenVersionDirective, core.TokenTagDirective) {
		switch token.Type {
		case core.TokenVersionDirective:
			if versionDirective != nil {
				return buildParserError(core.ErrorParser, "found duplicate %YAML directive", token.StartMark.Line, 0)
			}
			if token.Major != 1 || (token.Minor != 1 && token.Minor != 2) {
				return buildParserError(core.ErrorParser, "found incompatible YAML document", token.StartMark.Line, 0)
			}
			versionDirective = &core.VersionDirective{Major: token.Major, Minor: token.Minor}

		case core.TokenTagDirective:
			value := core.TagDirective{Handle: token.Value, Prefix: token.Prefix}
			if err := p.appendTagDirective(value, false, token.StartMark); err != nil {
				return err
			}
			tagDirectives = append(tagDirectives, value)
		}

		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
	}

	for i := range common.DefaultTagDirectives {
		if err := p.appendTagDirective(common.DefaultTagDirectives[i], true, token.StartMark); err != nil {
			return err
		}
	}

	if versionDirectiveRef != nil {
		*versionDirectiveRef = versionDirective
	}
	if tagDirectivesRef != nil {
		*tagDirectivesRef = tagDirectives
	}
	return nil
}

// appendTagDirective registers a %TAG handle, rejecting redefinition of a
// handle the document already declared (the built-in defaults pass
// allowDuplicates and silently lose instead).
func (p *Engine) appendTagDirective(value core.TagDirective, allowDuplicates bool, mark core.Mark) error {
	for i := range p.TagDirectives {
		if bytes.Equal(value.Handle, p.TagDirectives[i].Handle) {
			if allowDuplicates {
				return nil
			}
			return buildParserError(core.ErrorParser, "found duplicate %TAG directive", mark.Line, 0)
		}
	}

	// Keep a private copy; the token's byte slices belong to the scanner's
	// buffers and may be overwritten by later fetches.
	p.TagDirectives = append(p.TagDirectives, core.TagDirective{
		Handle: append([]byte(nil), value.Handle...),
		Prefix: append([]byte(nil), value.Prefix...),
	})
	return nil
}

// PeekToken exposes peekToken to other packages in this module.
func (p *Engine) PeekToken() (*core.Token, error) {
	return p.peekToken()
}

// SkipToken exposes skipToken to other packages in this module.
func (p *Engine) SkipToken() {
	p.skipToken()
}
