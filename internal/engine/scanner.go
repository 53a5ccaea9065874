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

import "github.com/abhinav/yamlcore/internal/core"

// The scanner turns the decoded character stream into tokens. Most of it
// is a straightforward hand-written lexer; the two places where it has to
// be clever are block collection starts and simple keys, and both are
// handled by mutating the token queue after the fact rather than by
// lookahead in the usual sense.
//
// Block collections have no opening indicator. The scanner infers them
// from indentation: when a token starts at a column deeper than the
// current indent, a BLOCK-SEQUENCE-START or BLOCK-MAPPING-START is
// inserted into the queue at the position where the collection's first
// token already sits, and the new column is pushed on the indent stack
// (rollIndent). When a line starts at or above a shallower stacked
// indent, one BLOCK-END is appended per popped level (unrollIndent).
// Flow context suspends all of this: inside '['/'{' the indicators carry
// the structure and indentation is not tracked.
//
// An indentless sequence is the one wrinkle: a '-' entry directly under a
// mapping key at the same column is valid YAML, and no
// BLOCK-SEQUENCE-START is produced for it; the entries belong to the
// enclosing mapping's indent level.
//
// Simple keys are mapping keys written without '?'. The grammar only
// reveals that a scalar was a key when the ':' after it is reached, so at
// every position where a key could begin the scanner records a candidate
// (token index + mark) per flow level. If a ':' arrives while the
// candidate is live, a KEY token is inserted retroactively at the
// recorded index, and outside flow context rollIndent opens the block
// mapping at the candidate's column. Candidates expire after 1024
// characters or once the line ends, at any flow level; an expired candidate that the
// grammar required is a scan error. This is why fetchMoreTokens cannot
// hand out the queue head while any candidate at or before it is still
// open: a later ':' could still splice a KEY in front of it.
//
// Tokens therefore leave the queue in stream order even though they are
// not produced in stream order. The parser sees:
//
//	STREAM-START STREAM-END
//	VERSION-DIRECTIVE(major,minor) TAG-DIRECTIVE(handle,prefix)
//	DOCUMENT-START DOCUMENT-END
//	BLOCK-SEQUENCE-START BLOCK-MAPPING-START BLOCK-END
//	FLOW-SEQUENCE-START FLOW-SEQUENCE-END FLOW-MAPPING-START FLOW-MAPPING-END
//	BLOCK-ENTRY FLOW-ENTRY KEY VALUE
//	ALIAS(name) ANCHOR(name) TAG(handle,suffix) SCALAR(value,style)
//
// against the indentation rules above, with scalars delivered whole
// (plain, quoted, and block scalars are each scanned by their own routine
// below, including folding and chomping, so the parser never sees partial
// scalar text).

func (p *Engine) insertToken(pos int, token *core.Token) {
	// Check if we can move the queue at the beginning of the buffer.
	if p.TokensHead > 0 && len(p.Tokens) == cap(p.Tokens) {
		if p.TokensHead != len(p.Tokens) {
			copy(p.Tokens, p.Tokens[p.TokensHead:])
		}
		p.Tokens = p.Tokens[:len(p.Tokens)-p.TokensHead]
		p.TokensHead = 0
	}
	p.Tokens = append(p.Tokens, *token)
	if pos < 0 {
		return
	}
	copy(p.Tokens[p.TokensHead+pos+1:], p.Tokens[p.TokensHead+pos:])
	p.Tokens[p.TokensHead+pos] = *token
}

// Advance the buffer pointer.
func (p *Engine) skip() {
	if !core.IsBlankAt(p.Buffer, p.BufferPos) {
		p.Newlines = 0
	}
	p.Mark.Index++
	p.Mark.Column++
	p.Unread--
	p.BufferPos += core.RuneWidth(p.Buffer[p.BufferPos])
}

func (p *Engine) skipLine() {
	if core.IsCRLFAt(p.Buffer, p.BufferPos) {
		p.Mark.Index += 2
		p.Mark.Column = 0
		p.Mark.Line++
		p.Unread -= 2
		p.BufferPos += 2
		p.Newlines++
	} else if core.IsBreakAt(p.Buffer, p.BufferPos) {
		p.Mark.Index++
		p.Mark.Column = 0
		p.Mark.Line++
		p.Unread--
		p.BufferPos += core.RuneWidth(p.Buffer[p.BufferPos])
		p.Newlines++
	}
}

// Copy a character to a string buffer and advance pointers.
func (p *Engine) read(s []byte) []byte {
	if !core.IsBlankAt(p.Buffer, p.BufferPos) {
		p.Newlines = 0
	}
	w := core.RuneWidth(p.Buffer[p.BufferPos])
	if w == 0 {
		panic("invalid character sequence")
	}
	if len(s) == 0 {
		s = make([]byte, 0, 32)
	}
	if w == 1 && len(s)+w <= cap(s) {
		s = s[:len(s)+1]
		s[len(s)-1] = p.Buffer[p.BufferPos]
		p.BufferPos++
	} else {
		s = append(s, p.Buffer[p.BufferPos:p.BufferPos+w]...)
		p.BufferPos += w
	}
	p.Mark.Index++
	p.Mark.Column++
	p.Unread--
	return s
}

// Copy a line break character to a string buffer and advance pointers.
func (p *Engine) readLine(s []byte) []byte {
	buf := p.Buffer
	pos := p.BufferPos
	switch {
	case buf[pos] == '\r' && buf[pos+1] == '\n':
		// CR LF . LF
		s = append(s, '\n')
		p.BufferPos += 2
		p.Mark.Index++
		p.Unread--
	case buf[pos] == '\r' || buf[pos] == '\n':
		// CR|LF . LF
		s = append(s, '\n')
		p.BufferPos += 1
	case buf[pos] == '\xC2' && buf[pos+1] == '\x85':
		// NEL . LF
		s = append(s, '\n')
		p.BufferPos += 2
	case buf[pos] == '\xE2' && buf[pos+1] == '\x80' && (buf[pos+2] == '\xA8' || buf[pos+2] == '\xA9'):
		// LS|PS . LS|PS
		s = append(s, buf[p.BufferPos:pos+3]...)
		p.BufferPos += 3
	default:
		return s
	}
	p.Mark.Index++
	p.Mark.Column = 0
	p.Mark.Line++
	p.Unread--
	p.Newlines++
	return s
}

// Set the scanner error and return the error.
func (p *Engine) newScannerError(contextMark core.Mark, problem string) error {
	return buildParserError(core.ErrorScanner, problem, p.Mark.Line, contextMark.Line)
}

// Ensure that the tokens queue contains at least one token which can be
// returned to the parser.
func (p *Engine) fetchMoreTokens() error {
	// While we need more tokens to fetch, do it.
	for {
		// The comment parsing logic requires a lookahead of two tokens
		// so that foot comments may be parsed in time of associating them
		// with the tokens that are parsed before them, and also for line
		// comments to be transformed into head comments in some edge cases.
		if p.TokensHead < len(p.Tokens)-2 {
			// If a potential simple key is at the head position, we need to fetch
			// the next token to disambiguate it.
			headTokIdx, ok := p.SimpleKeysByTok[p.TokensParsed]
			if !ok {
				break
			}
			valid, err := p.simpleKeyIsValid(&p.SimpleKeys[headTokIdx])
			if err != nil {
				return err
			}
			if !valid {
				break
			}
		}
		// Fetch the next token.
		err := p.fetchNextToken()
		if err != nil {
			return err
		}
	}

	p.TokenAvailable = true
	return nil
}

// fetchNextToken scans exactly one more token, possibly inserting
// retroactive tokens along the way, and appends it to the queue.
func (p *Engine) fetchNextToken() (errOut error) {
	if err := p.ensure(1); err != nil {
		return err
	}

	if !p.StreamStartProduced {
		p.fetchStreamStart()
		return nil
	}

	scanMark := p.Mark
	if err := p.scanToNextToken(); err != nil {
		return err
	}

	// Close any block collections that the new, shallower column has ended.
	p.unrollIndent(p.Mark.Column, scanMark)

	// Four characters covers the longest indicators, "--- " and "... ".
	if err := p.ensure(4); err != nil {
		return err
	}
	if core.IsZeroAt(p.Buffer, p.BufferPos) {
		return p.fetchStreamEnd()
	}

	c := p.Buffer[p.BufferPos]

	if p.Mark.Column == 0 {
		if c == '%' {
			return p.fetchDirective()
		}
		if p.atDocumentIndicator() {
			typ := core.TokenDocumentStart
			if c == '.' {
				typ = core.TokenDocumentEnd
			}
			return p.fetchDocumentIndicator(typ)
		}
	}

	// A comment after ':' (block) or ',' (flow) belongs to the token
	// before it, not to whatever starts the next line.
	commentMark := p.Mark
	if len(p.Tokens) > 0 && (p.FlowLevel == 0 && c == ':' || p.FlowLevel > 0 && c == ',') {
		commentMark = p.Tokens[len(p.Tokens)-1].StartMark
	}
	defer func() {
		if errOut != nil {
			return
		}
		if len(p.Tokens) > 0 && p.Tokens[len(p.Tokens)-1].Type == core.TokenBlockEntry {
			// A bare sequence indicator takes no line comment; the text
			// becomes a head comment for whatever follows.
			return
		}
		errOut = p.scanLineComment(commentMark)
	}()

	switch c {
	case '[':
		return p.fetchFlowCollectionStart(core.TokenFlowSequenceStart)
	case '{':
		return p.fetchFlowCollectionStart(core.TokenFlowMappingStart)
	case ']':
		return p.fetchFlowCollectionEnd(core.TokenFlowSequenceEnd)
	case '}':
		return p.fetchFlowCollectionEnd(core.TokenFlowMappingEnd)
	case ',':
		return p.fetchFlowEntry()
	case '*':
		return p.fetchAnchor(core.TokenAlias)
	case '&':
		return p.fetchAnchor(core.TokenAnchor)
	case '!':
		return p.fetchTag()
	case '\'':
		return p.fetchFlowScalar(true)
	case '"':
		return p.fetchFlowScalar(false)
	case '-':
		if core.IsBlankOrZeroAt(p.Buffer, p.BufferPos+1) {
			return p.fetchBlockEntry()
		}
	case '?':
		if p.FlowLevel > 0 || core.IsBlankOrZeroAt(p.Buffer, p.BufferPos+1) {
			return p.fetchKey()
		}
	case ':':
		if p.FlowLevel > 0 || core.IsBlankOrZeroAt(p.Buffer, p.BufferPos+1) {
			return p.fetchValue()
		}
	case '|':
		if p.FlowLevel == 0 {
			return p.fetchBlockScalar(true)
		}
	case '>':
		if p.FlowLevel == 0 {
			return p.fetchBlockScalar(false)
		}
	}

	if p.canStartPlainScalar(c) {
		return p.fetchPlainScalar()
	}
	return p.newScannerError(p.Mark, "found character that cannot start any token")
}

// canStartPlainScalar reports whether c may begin a plain scalar at the
// cursor. Indicator characters cannot, except that '-' may when not
// followed by a blank, and '?' and ':' may in block context when glued to
// the text after them.
func (p *Engine) canStartPlainScalar(c byte) bool {
	switch c {
	case '-':
		return !core.IsBlankAt(p.Buffer, p.BufferPos+1)
	case '?', ':':
		return p.FlowLevel == 0 && !core.IsBlankOrZeroAt(p.Buffer, p.BufferPos+1)
	case ',', '[', ']', '{', '}', '#', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
		return false
	}
	return !core.IsBlankOrZeroAt(p.Buffer, p.BufferPos)
}
