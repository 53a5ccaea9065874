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

// Scanning of quoted (single/double) and plain scalars.

import "github.com/abhinav/yamlcore/internal/core"

// foldState accumulates the blanks and breaks between two runs of scalar
// content so they can be folded by the flow folding rules: a single line
// break becomes one space, additional breaks are kept minus the first,
// and inline whitespace survives only when no break intervened.
type foldState struct {
	leadingBreak   []byte
	trailingBreaks []byte
	whitespaces    []byte
	afterBreak     bool
}

func (f *foldState) pending() bool {
	return f.afterBreak || len(f.whitespaces) > 0
}

// blank consumes one inline space or tab. Whitespace after a break never
// reaches the value.
func (f *foldState) blank(p *Engine) {
	if f.afterBreak {
		p.skip()
	} else {
		f.whitespaces = p.read(f.whitespaces)
	}
}

// lineBreak consumes one line break. The first break of a run discards
// any inline whitespace collected before it.
func (f *foldState) lineBreak(p *Engine) {
	if f.afterBreak {
		f.trailingBreaks = p.readLine(f.trailingBreaks)
		return
	}
	f.whitespaces = f.whitespaces[:0]
	f.leadingBreak = p.readLine(f.leadingBreak)
	f.afterBreak = true
}

// flush appends the folded whitespace to s and resets the state.
func (f *foldState) flush(s []byte) []byte {
	if !f.afterBreak {
		s = append(s, f.whitespaces...)
		f.whitespaces = f.whitespaces[:0]
		return s
	}
	if len(f.leadingBreak) > 0 && f.leadingBreak[0] == '\n' {
		if len(f.trailingBreaks) == 0 {
			s = append(s, ' ')
		} else {
			s = append(s, f.trailingBreaks...)
		}
	} else {
		s = append(s, f.leadingBreak...)
		s = append(s, f.trailingBreaks...)
	}
	f.leadingBreak = f.leadingBreak[:0]
	f.trailingBreaks = f.trailingBreaks[:0]
	f.afterBreak = false
	return s
}

func hasPrefixAt(b []byte, i int, prefix string) bool {
	if i+len(prefix) > len(b) {
		return false
	}
	return string(b[i:i+len(prefix)]) == prefix
}

// atDocumentIndicator reports whether the cursor sits at column 0 on a
// "---" or "..." line. Callers must have ensured 4 characters.
func (p *Engine) atDocumentIndicator() bool {
	return p.Mark.Column == 0 &&
		(hasPrefixAt(p.Buffer, p.BufferPos, "---") || hasPrefixAt(p.Buffer, p.BufferPos, "...")) &&
		core.IsBlankOrZeroAt(p.Buffer, p.BufferPos+3)
}

func (p *Engine) scanFlowScalar(single bool) (*core.Token, error) {
	startMark := p.Mark
	quote := byte('"')
	if single {
		quote = '\''
	}
	p.skip() // the opening quote

	var s []byte
	var fold foldState
	for {
		if err := p.ensure(4); err != nil {
			return nil, err
		}
		if p.atDocumentIndicator() {
			return nil, p.newScannerError(startMark, "found unexpected document indicator")
		}
		if core.IsZeroAt(p.Buffer, p.BufferPos) {
			return nil, p.newScannerError(startMark, "found unexpected end of stream")
		}

		// Content characters, up to the closing quote or a blank.
		for !core.IsBlankOrZeroAt(p.Buffer, p.BufferPos) {
			c := p.Buffer[p.BufferPos]
			if c == quote {
				if !single || p.Buffer[p.BufferPos+1] != '\'' {
					break
				}
				// '' inside a single-quoted scalar is one quote.
				s = append(s, '\'')
				p.skip()
				p.skip()
			} else if !single && c == '\\' && core.IsBreakAt(p.Buffer, p.BufferPos+1) {
				// A backslash at the end of the line eats the break.
				if err := p.ensure(3); err != nil {
					return nil, err
				}
				p.skip()
				p.skipLine()
				fold.afterBreak = true
				break
			} else if !single && c == '\\' {
				var err error
				if s, err = p.scanEscape(s, startMark); err != nil {
					return nil, err
				}
			} else {
				s = p.read(s)
			}
			if err := p.ensure(2); err != nil {
				return nil, err
			}
		}

		if err := p.ensure(1); err != nil {
			return nil, err
		}
		if p.Buffer[p.BufferPos] == quote {
			break
		}

		// Blanks and breaks between content runs.
		for core.IsBlankAt(p.Buffer, p.BufferPos) || core.IsBreakAt(p.Buffer, p.BufferPos) {
			if core.IsBlankAt(p.Buffer, p.BufferPos) {
				fold.blank(p)
			} else {
				if err := p.ensure(2); err != nil {
					return nil, err
				}
				fold.lineBreak(p)
			}
			if err := p.ensure(1); err != nil {
				return nil, err
			}
		}
		s = fold.flush(s)
	}

	p.skip() // the closing quote

	style := core.ScalarStyleDoubleQuoted
	if single {
		style = core.ScalarStyleSingleQuoted
	}
	return &core.Token{
		Type:      core.TokenScalar,
		StartMark: startMark,
		EndMark:   p.Mark,
		Value:     s,
		Style:     style,
	}, nil
}

// scanEscape decodes one backslash escape in a double-quoted scalar,
// appending the decoded character to s as UTF-8. The cursor sits on the
// backslash on entry and past the whole escape on return.
func (p *Engine) scanEscape(s []byte, startMark core.Mark) ([]byte, error) {
	digits := 0
	switch p.Buffer[p.BufferPos+1] {
	case '0':
		s = append(s, 0)
	case 'a':
		s = append(s, '\x07')
	case 'b':
		s = append(s, '\x08')
	case 't', '\t':
		s = append(s, '\x09')
	case 'n':
		s = append(s, '\x0A')
	case 'v':
		s = append(s, '\x0B')
	case 'f':
		s = append(s, '\x0C')
	case 'r':
		s = append(s, '\x0D')
	case 'e':
		s = append(s, '\x1B')
	case ' ':
		s = append(s, '\x20')
	case '"':
		s = append(s, '"')
	case '\'':
		s = append(s, '\'')
	case '\\':
		s = append(s, '\\')
	case 'N': // next line (U+0085)
		s = append(s, '\xC2', '\x85')
	case '_': // non-breaking space (U+00A0)
		s = append(s, '\xC2', '\xA0')
	case 'L': // line separator (U+2028)
		s = append(s, '\xE2', '\x80', '\xA8')
	case 'P': // paragraph separator (U+2029)
		s = append(s, '\xE2', '\x80', '\xA9')
	case 'x':
		digits = 2
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return nil, p.newScannerError(startMark, "found unknown escape character")
	}
	p.skip()
	p.skip()
	if digits == 0 {
		return s, nil
	}

	if err := p.ensure(digits); err != nil {
		return nil, err
	}
	var value int
	for k := 0; k < digits; k++ {
		if !core.IsHexAt(p.Buffer, p.BufferPos+k) {
			return nil, p.newScannerError(startMark, "did not find expected hexdecimal number")
		}
		value = value<<4 + core.HexValue(p.Buffer, p.BufferPos+k)
	}
	if (value >= 0xD800 && value <= 0xDFFF) || value > 0x10FFFF {
		return nil, p.newScannerError(startMark, "found invalid Unicode character escape code")
	}
	s = appendRuneUTF8(s, value)
	for k := 0; k < digits; k++ {
		p.skip()
	}
	return s, nil
}

// appendRuneUTF8 encodes an already-validated code point by width.
func appendRuneUTF8(s []byte, value int) []byte {
	switch {
	case value <= 0x7F:
		return append(s, byte(value))
	case value <= 0x7FF:
		return append(s, byte(0xC0+value>>6), byte(0x80+value&0x3F))
	case value <= 0xFFFF:
		return append(s, byte(0xE0+value>>12), byte(0x80+(value>>6)&0x3F), byte(0x80+value&0x3F))
	default:
		return append(s, byte(0xF0+value>>18), byte(0x80+(value>>12)&0x3F), byte(0x80+(value>>6)&0x3F), byte(0x80+value&0x3F))
	}
}

// endsPlainScalar reports whether the character at the cursor terminates a
// plain scalar: ':' followed by a blank, or any flow indicator while in
// flow context.
func (p *Engine) endsPlainScalar() bool {
	c := p.Buffer[p.BufferPos]
	if c == ':' && core.IsBlankOrZeroAt(p.Buffer, p.BufferPos+1) {
		return true
	}
	if p.FlowLevel == 0 {
		return false
	}
	switch c {
	case ',', '?', '[', ']', '{', '}':
		return true
	}
	return false
}

func (p *Engine) scanPlainScalar() (*core.Token, error) {
	var s []byte
	var fold foldState
	indent := p.Indent + 1

	startMark := p.Mark
	endMark := p.Mark

	for {
		if err := p.ensure(4); err != nil {
			return nil, err
		}
		if p.atDocumentIndicator() || p.Buffer[p.BufferPos] == '#' {
			break
		}

		for !core.IsBlankOrZeroAt(p.Buffer, p.BufferPos) {
			if p.endsPlainScalar() {
				break
			}

			// Emit folded whitespace before the next content character.
			if fold.pending() {
				s = fold.flush(s)
			}
			s = p.read(s)
			endMark = p.Mark
			if err := p.ensure(2); err != nil {
				return nil, err
			}
		}

		if !(core.IsBlankAt(p.Buffer, p.BufferPos) || core.IsBreakAt(p.Buffer, p.BufferPos)) {
			break
		}
		if err := p.ensure(1); err != nil {
			return nil, err
		}

		for core.IsBlankAt(p.Buffer, p.BufferPos) || core.IsBreakAt(p.Buffer, p.BufferPos) {
			if core.IsBlankAt(p.Buffer, p.BufferPos) {
				// A tab may not stand in for indentation on a continuation
				// line.
				if fold.afterBreak && p.Mark.Column < indent && core.IsTabAt(p.Buffer, p.BufferPos) {
					return nil, p.newScannerError(startMark, "found a tab character where an indentation space is expected")
				}
				fold.blank(p)
			} else {
				if err := p.ensure(2); err != nil {
					return nil, err
				}
				fold.lineBreak(p)
			}
			if err := p.ensure(1); err != nil {
				return nil, err
			}
		}

		// A less-indented continuation line ends the scalar in block
		// context.
		if p.FlowLevel == 0 && p.Mark.Column < indent {
			break
		}
	}

	token := &core.Token{
		Type:      core.TokenScalar,
		StartMark: startMark,
		EndMark:   endMark,
		Value:     s,
		Style:     core.ScalarStylePlain,
	}
	// Crossing a line break re-arms simple keys.
	if fold.afterBreak {
		p.SimpleKeyAllowed = true
	}
	return token, nil
}
