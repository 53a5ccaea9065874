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

// Scanning %YAML / %TAG directives and the whitespace/comments between
// tokens.

import "github.com/abhinav/yamlcore/internal/core"

// scanToNextToken eats the inter-token whitespace, comments, and line
// breaks until the cursor sits on the first character of the next token.
// Tabs count as whitespace in flow context and mid-line in block context,
// but never where indentation (and so a possible simple key) could begin.
func (p *Engine) scanToNextToken() error {
	scanMark := p.Mark

	for {
		if err := p.ensure(1); err != nil {
			return err
		}
		// A BOM is allowed to start any line.
		if p.Mark.Column == 0 && core.IsBOMAt(p.Buffer, p.BufferPos) {
			p.skip()
		}

		if err := p.ensure(1); err != nil {
			return err
		}
		tabOK := p.FlowLevel > 0 || !p.SimpleKeyAllowed
		for p.Buffer[p.BufferPos] == ' ' || (tabOK && p.Buffer[p.BufferPos] == '\t') {
			p.skip()
			if err := p.ensure(1); err != nil {
				return err
			}
		}

		p.repositionEntryComment()

		if p.Buffer[p.BufferPos] == '#' {
			if err := p.scanComments(scanMark); err != nil {
				return err
			}
		}

		if !core.IsBreakAt(p.Buffer, p.BufferPos) {
			// The next token starts here.
			return nil
		}
		if err := p.ensure(2); err != nil {
			return err
		}
		p.skipLine()
		// In block context, a fresh line may open a simple key.
		if p.FlowLevel == 0 {
			p.SimpleKeyAllowed = true
		}
	}
}

// repositionEntryComment turns a line comment on a bare sequence entry
// into a head comment of the content under it:
//
//	- # The comment
//	  - Some data
func (p *Engine) repositionEntryComment() {
	if len(p.Comments) == 0 || len(p.Tokens) < 2 {
		return
	}
	tokenA := p.Tokens[len(p.Tokens)-2]
	tokenB := p.Tokens[len(p.Tokens)-1]
	comment := &p.Comments[len(p.Comments)-1]
	if tokenA.Type != core.TokenBlockSequenceStart || tokenB.Type != core.TokenBlockEntry ||
		len(comment.Line) == 0 || core.IsBreakAt(p.Buffer, p.BufferPos) {
		return
	}
	comment.Head = comment.Line
	comment.Line = nil
	// When the comment sat on the prior line it heads the follow-up
	// token; otherwise it stays put and heads the entry itself.
	if comment.StartMark.Line == p.Mark.Line-1 {
		comment.TokenMark = p.Mark
	}
}

// skipBlanks eats consecutive spaces and tabs, keeping the buffer topped
// up as it goes.
func (p *Engine) skipBlanks() error {
	if err := p.ensure(1); err != nil {
		return err
	}
	for core.IsBlankAt(p.Buffer, p.BufferPos) {
		p.skip()
		if err := p.ensure(1); err != nil {
			return err
		}
	}
	return nil
}

// scanDirective scans a full "%YAML major.minor" or "%TAG handle prefix"
// line, through the trailing comment and line break.
func (p *Engine) scanDirective() (*core.Token, error) {
	startMark := p.Mark
	p.skip() // '%'

	name, err := p.scanDirectiveName(startMark)
	if err != nil {
		return nil, err
	}

	var token core.Token
	switch string(name) {
	case "YAML":
		major, minor, err := p.scanVersionDirectiveValue(startMark)
		if err != nil {
			return nil, err
		}
		token = core.Token{
			Type:      core.TokenVersionDirective,
			StartMark: startMark,
			EndMark:   p.Mark,
			Major:     major,
			Minor:     minor,
		}
	case "TAG":
		handle, prefix, err := p.scanTagDirectiveValue(startMark)
		if err != nil {
			return nil, err
		}
		token = core.Token{
			Type:      core.TokenTagDirective,
			StartMark: startMark,
			EndMark:   p.Mark,
			Value:     handle,
			Prefix:    prefix,
		}
	default:
		return nil, p.newScannerError(startMark, "found unknown directive name")
	}

	// Eat the rest of the line, including a trailing comment.
	if err := p.skipBlanks(); err != nil {
		return nil, err
	}
	if p.Buffer[p.BufferPos] == '#' {
		for !core.IsBreakOrZeroAt(p.Buffer, p.BufferPos) {
			p.skip()
			if err := p.ensure(1); err != nil {
				return nil, err
			}
		}
	}

	if !core.IsBreakOrZeroAt(p.Buffer, p.BufferPos) {
		return nil, p.newScannerError(startMark, "did not find expected comment or line break")
	}
	if core.IsBreakAt(p.Buffer, p.BufferPos) {
		if p.Unread < 2 {
			if err := p.ensure(1); err != nil {
				return nil, err
			}
		}
		p.skipLine()
	}

	return &token, nil
}

// scanDirectiveName consumes the word after '%'.
func (p *Engine) scanDirectiveName(startMark core.Mark) ([]byte, error) {
	if err := p.ensure(1); err != nil {
		return nil, err
	}

	var s []byte
	for core.IsAlphaAt(p.Buffer, p.BufferPos) {
		s = p.read(s)
		if err := p.ensure(1); err != nil {
			return nil, err
		}
	}

	if len(s) == 0 {
		return nil, p.newScannerError(startMark, "could not find expected directive name")
	}
	if !core.IsBlankOrZeroAt(p.Buffer, p.BufferPos) {
		return nil, p.newScannerError(startMark, "found unexpected non-alphabetical character")
	}
	return s, nil
}

// scanVersionDirectiveValue consumes "major.minor" after "%YAML".
func (p *Engine) scanVersionDirectiveValue(startMark core.Mark) (major, minor int8, _ error) {
	if err := p.skipBlanks(); err != nil {
		return 0, 0, err
	}

	major, err := p.scanVersionDirectiveNumber(startMark)
	if err != nil {
		return 0, 0, err
	}
	if p.Buffer[p.BufferPos] != '.' {
		return 0, 0, p.newScannerError(startMark, "did not find expected digit or '.' character")
	}
	p.skip()

	minor, err = p.scanVersionDirectiveNumber(startMark)
	if err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

const maxVersionNumberLength = 2

func (p *Engine) scanVersionDirectiveNumber(startMark core.Mark) (int8, error) {
	if err := p.ensure(1); err != nil {
		return 0, err
	}
	var value, length int8
	for core.IsDigitAt(p.Buffer, p.BufferPos) {
		if length++; length > maxVersionNumberLength {
			return 0, p.newScannerError(startMark, "found extremely long version number")
		}
		value = value*10 + int8(core.DigitValue(p.Buffer, p.BufferPos))
		p.skip()
		if err := p.ensure(1); err != nil {
			return 0, err
		}
	}
	if length == 0 {
		return 0, p.newScannerError(startMark, "did not find expected version number")
	}
	return value, nil
}

// scanTagDirectiveValue consumes "handle prefix" after "%TAG".
func (p *Engine) scanTagDirectiveValue(startMark core.Mark) (handle, prefix []byte, _ error) {
	if err := p.skipBlanks(); err != nil {
		return nil, nil, err
	}

	handle, err := p.scanTagHandle(true, startMark)
	if err != nil {
		return nil, nil, err
	}

	if err := p.ensure(1); err != nil {
		return nil, nil, err
	}
	if !core.IsBlankAt(p.Buffer, p.BufferPos) {
		return nil, nil, p.newScannerError(startMark, "did not find expected whitespace")
	}
	if err := p.skipBlanks(); err != nil {
		return nil, nil, err
	}

	prefix, err = p.scanTagURI(nil, startMark)
	if err != nil {
		return nil, nil, err
	}

	if err := p.ensure(1); err != nil {
		return nil, nil, err
	}
	if !core.IsBlankOrZeroAt(p.Buffer, p.BufferPos) {
		return nil, nil, p.newScannerError(startMark, "did not find expected whitespace or line break")
	}
	return handle, prefix, nil
}
