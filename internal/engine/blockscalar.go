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

// Scanning block scalars (| and > styles) and their line-break folding.

import "github.com/abhinav/yamlcore/internal/core"

// blockHeader is the optional suffix after '|' or '>': a chomping mode
// and an explicit indentation increment, written in either order.
type blockHeader struct {
	chomping  int // -1 strip, 0 clip, +1 keep
	increment int // 0 when the content's own indentation decides
}

func (p *Engine) scanBlockScalarHeader(startMark core.Mark) (blockHeader, error) {
	var h blockHeader

	chomp := func() {
		if p.Buffer[p.BufferPos] == '+' {
			h.chomping = +1
		} else {
			h.chomping = -1
		}
		p.skip()
	}
	width := func() error {
		if p.Buffer[p.BufferPos] == '0' {
			return p.newScannerError(startMark, "found an indentation indicator equal to 0")
		}
		h.increment = core.DigitValue(p.Buffer, p.BufferPos)
		p.skip()
		return nil
	}

	if err := p.ensure(1); err != nil {
		return h, err
	}
	switch {
	case p.Buffer[p.BufferPos] == '+' || p.Buffer[p.BufferPos] == '-':
		chomp()
		if err := p.ensure(1); err != nil {
			return h, err
		}
		if core.IsDigitAt(p.Buffer, p.BufferPos) {
			if err := width(); err != nil {
				return h, err
			}
		}
	case core.IsDigitAt(p.Buffer, p.BufferPos):
		if err := width(); err != nil {
			return h, err
		}
		if err := p.ensure(1); err != nil {
			return h, err
		}
		if p.Buffer[p.BufferPos] == '+' || p.Buffer[p.BufferPos] == '-' {
			chomp()
		}
	}
	return h, nil
}

// finishHeaderLine eats trailing blanks and an optional comment after the
// block scalar header, then the line break, failing unless a break or EOF
// actually ends the line.
func (p *Engine) finishHeaderLine(startMark core.Mark) error {
	if err := p.ensure(1); err != nil {
		return err
	}
	for core.IsBlankAt(p.Buffer, p.BufferPos) {
		p.skip()
		if err := p.ensure(1); err != nil {
			return err
		}
	}
	if p.Buffer[p.BufferPos] == '#' {
		if err := p.scanLineComment(startMark); err != nil {
			return err
		}
		for !core.IsBreakOrZeroAt(p.Buffer, p.BufferPos) {
			p.skip()
			if err := p.ensure(1); err != nil {
				return err
			}
		}
	}
	if !core.IsBreakOrZeroAt(p.Buffer, p.BufferPos) {
		return p.newScannerError(startMark, "did not find expected comment or line break")
	}
	if core.IsBreakAt(p.Buffer, p.BufferPos) {
		if err := p.ensure(2); err != nil {
			return err
		}
		p.skipLine()
	}
	return nil
}

func (p *Engine) scanBlockScalar(literal bool) (*core.Token, error) {
	startMark := p.Mark
	p.skip() // the '|' or '>' indicator

	header, err := p.scanBlockScalarHeader(startMark)
	if err != nil {
		return nil, err
	}
	if err := p.finishHeaderLine(startMark); err != nil {
		return nil, err
	}
	endMark := p.Mark

	// An explicit increment counts from the parent indent; otherwise the
	// first non-empty line's own indentation decides (scanBlockScalarBreaks
	// fills indent in below).
	var indent int
	if header.increment > 0 {
		indent = header.increment
		if p.Indent >= 0 {
			indent = p.Indent + header.increment
		}
	}

	var s, leadingBreak, trailingBreaks []byte
	if err := p.scanBlockScalarBreaks(&indent, &trailingBreaks, startMark, &endMark); err != nil {
		return nil, err
	}

	if err := p.ensure(1); err != nil {
		return nil, err
	}
	var leadingBlank, trailingBlank bool
	for p.Mark.Column == indent && !core.IsZeroAt(p.Buffer, p.BufferPos) {
		trailingBlank = core.IsBlankAt(p.Buffer, p.BufferPos)

		// In folded style a single break between two non-blank lines
		// becomes a space; everything else keeps its breaks.
		if !literal && !leadingBlank && !trailingBlank && len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
			if len(trailingBreaks) == 0 {
				s = append(s, ' ')
			}
		} else {
			s = append(s, leadingBreak...)
		}
		leadingBreak = leadingBreak[:0]

		s = append(s, trailingBreaks...)
		trailingBreaks = trailingBreaks[:0]

		leadingBlank = core.IsBlankAt(p.Buffer, p.BufferPos)

		// Consume the rest of the line.
		for !core.IsBreakOrZeroAt(p.Buffer, p.BufferPos) {
			s = p.read(s)
			if err := p.ensure(1); err != nil {
				return nil, err
			}
		}

		if err := p.ensure(2); err != nil {
			return nil, err
		}
		leadingBreak = p.readLine(leadingBreak)

		if err := p.scanBlockScalarBreaks(&indent, &trailingBreaks, startMark, &endMark); err != nil {
			return nil, err
		}
	}

	// Chomping: strip drops every trailing break, clip keeps exactly one,
	// keep retains them all.
	if header.chomping != -1 {
		s = append(s, leadingBreak...)
	}
	if header.chomping == 1 {
		s = append(s, trailingBreaks...)
	}

	style := core.ScalarStyleLiteral
	if !literal {
		style = core.ScalarStyleFolded
	}
	return &core.Token{
		Type:      core.TokenScalar,
		StartMark: startMark,
		EndMark:   endMark,
		Value:     s,
		Style:     style,
	}, nil
}

// scanBlockScalarBreaks eats the indentation spaces and blank lines
// between two content lines. When indent is still 0 it also settles the
// content indentation: the deepest leading-space run seen, bounded below
// by one more than the parent indent.
func (p *Engine) scanBlockScalarBreaks(indent *int, breaks *[]byte, startMark core.Mark, endMark *core.Mark) error {
	*endMark = p.Mark

	maxIndent := 0
	for {
		if err := p.ensure(1); err != nil {
			return err
		}
		for (*indent == 0 || p.Mark.Column < *indent) && core.IsSpaceAt(p.Buffer, p.BufferPos) {
			p.skip()
			if err := p.ensure(1); err != nil {
				return err
			}
		}
		if p.Mark.Column > maxIndent {
			maxIndent = p.Mark.Column
		}

		if (*indent == 0 || p.Mark.Column < *indent) && core.IsTabAt(p.Buffer, p.BufferPos) {
			return p.newScannerError(startMark, "found a tab character where an indentation space is expected")
		}

		if !core.IsBreakAt(p.Buffer, p.BufferPos) {
			break
		}

		if err := p.ensure(2); err != nil {
			return err
		}
		*breaks = p.readLine(*breaks)
		*endMark = p.Mark
	}

	if *indent == 0 {
		*indent = maxIndent
		if *indent < p.Indent+1 {
			*indent = p.Indent + 1
		}
		if *indent < 1 {
			*indent = 1
		}
	}
	return nil
}
