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

// Scanning '#' comments and folding them onto the tokens they attach to.

import "github.com/abhinav/yamlcore/internal/core"

// consumeCommentLine advances the cursor to the end of the current line,
// copying the bytes at or after the seen index into text. When startMark
// is non-nil it records where the copied text began.
func (p *Engine) consumeCommentLine(seen int, text []byte, startMark *core.Mark) ([]byte, error) {
	for {
		if err := p.ensure(1); err != nil {
			return nil, err
		}
		if core.IsBreakOrZeroAt(p.Buffer, p.BufferPos) {
			if p.Mark.Index >= seen {
				return text, nil
			}
			if err := p.ensure(2); err != nil {
				return nil, err
			}
			p.skipLine()
		} else if p.Mark.Index >= seen {
			if startMark != nil && len(text) == 0 {
				*startMark = p.Mark
			}
			text = p.read(text)
		} else {
			p.skip()
		}
	}
}

// scanLineComment captures a comment sitting on the same line as the
// token at tokenMark.
func (p *Engine) scanLineComment(tokenMark core.Mark) error {
	if p.Newlines > 0 {
		return nil
	}

	var startMark core.Mark
	var text []byte

	for peek := 0; peek < 512; peek++ {
		if err := p.ensure(peek + 1); err != nil {
			return err
		}
		if core.IsBlankAt(p.Buffer, p.BufferPos+peek) {
			continue
		}
		if p.Buffer[p.BufferPos+peek] == '#' {
			var err error
			text, err = p.consumeCommentLine(p.Mark.Index+peek, text, &startMark)
			if err != nil {
				return err
			}
		}
		break
	}
	if len(text) > 0 {
		p.Comments = append(p.Comments, core.Comment{
			TokenMark: tokenMark,
			StartMark: startMark,
			Line:      text,
		})
	}
	return nil
}

// scanComments captures the comment block between two tokens, deciding
// line by line whether each part is a foot comment of the token behind it
// or a head comment of whatever comes next.
func (p *Engine) scanComments(scanMark core.Mark) error {
	token := p.Tokens[len(p.Tokens)-1]
	if token.Type == core.TokenFlowEntry && len(p.Tokens) > 1 {
		token = p.Tokens[len(p.Tokens)-2]
	}

	tokenMark := token.StartMark
	var startMark core.Mark
	nextIndent := p.Indent
	if nextIndent < 0 {
		nextIndent = 0
	}

	recentEmpty := false
	firstEmpty := p.Newlines <= 1

	line := p.Mark.Line
	column := p.Mark.Column

	var text []byte

	// The foot line is the deepest line on which a comment can start and
	// still count as a foot of the prior content. With content already on
	// the current line, that's the line below it.
	footLine := -1
	if scanMark.Line > 0 {
		footLine = p.Mark.Line - p.Newlines + 1
		if p.Newlines == 0 && p.Mark.Column > 1 {
			footLine++
		}
	}

	peek := 0
	markAt := func() core.Mark {
		return core.Mark{Index: p.Mark.Index + peek, Line: line, Column: column}
	}
	// flushFoot records the collected text as a foot comment and restarts
	// collection after it.
	flushFoot := func(dedented bool) {
		if dedented {
			// A dedented comment is unrelated to the prior token.
			tokenMark = startMark
		}
		p.Comments = append(p.Comments, core.Comment{
			ScanMark:  scanMark,
			TokenMark: tokenMark,
			StartMark: startMark,
			EndMark:   markAt(),
			Foot:      text,
		})
		scanMark = markAt()
		tokenMark = scanMark
		text = nil
	}

	for ; peek < 512; peek++ {
		if p.ensure(peek+1) != nil {
			break
		}
		column++
		if core.IsBlankAt(p.Buffer, p.BufferPos+peek) {
			continue
		}
		c := p.Buffer[p.BufferPos+peek]
		closeFlow := p.FlowLevel > 0 && (c == ']' || c == '}')
		if closeFlow || core.IsBreakOrZeroAt(p.Buffer, p.BufferPos+peek) {
			// A line break or terminator.
			if closeFlow || !recentEmpty {
				if closeFlow || firstEmpty && (startMark.Line == footLine && token.Type != core.TokenValue || startMark.Column-1 < nextIndent) {
					// The first empty line with none before it: what was
					// collected so far is a foot of the prior token, not a
					// head of the next one. The last comment inside a flow
					// scope is likewise always a foot.
					if len(text) > 0 {
						flushFoot(startMark.Column-1 < nextIndent)
					}
				} else if len(text) > 0 && p.Buffer[p.BufferPos+peek] != 0 {
					text = append(text, '\n')
				}
			}
			if !core.IsBreakAt(p.Buffer, p.BufferPos+peek) {
				break
			}
			firstEmpty = false
			recentEmpty = true
			column = 0
			line++
			continue
		}

		if len(text) > 0 && (closeFlow || column-1 < nextIndent && column != startMark.Column) {
			// A comment at a different indentation belongs to the data
			// before it, not to what follows.
			flushFoot(false)
		}

		if c != '#' {
			break
		}

		if len(text) == 0 {
			startMark = markAt()
		} else {
			text = append(text, '\n')
		}

		recentEmpty = false

		var err error
		if text, err = p.consumeCommentLine(p.Mark.Index+peek, text, nil); err != nil {
			return err
		}

		peek = 0
		column = 0
		line = p.Mark.Line
		nextIndent = p.Indent
		if nextIndent < 0 {
			nextIndent = 0
		}
	}

	if len(text) > 0 {
		p.Comments = append(p.Comments, core.Comment{
			ScanMark:  scanMark,
			TokenMark: startMark,
			StartMark: startMark,
			EndMark:   core.Mark{Index: p.Mark.Index + peek - 1, Line: line, Column: column},
			Head:      text,
		})
	}
	return nil
}
