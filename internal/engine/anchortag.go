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

// Scanning *alias/&anchor references and !tag handles/URIs.

import "github.com/abhinav/yamlcore/internal/core"

// endsAnchorName reports whether the character at the cursor may legally
// follow an anchor or alias name.
func (p *Engine) endsAnchorName() bool {
	if core.IsBlankOrZeroAt(p.Buffer, p.BufferPos) {
		return true
	}
	switch p.Buffer[p.BufferPos] {
	case '?', ':', ',', ']', '}', '%', '@', '`':
		return true
	}
	return false
}

func (p *Engine) scanAnchor(typ core.TokenType) (*core.Token, error) {
	startMark := p.Mark
	p.skip() // the '*' or '&' indicator

	var s []byte
	if err := p.ensure(1); err != nil {
		return nil, err
	}
	for core.IsAlphaAt(p.Buffer, p.BufferPos) {
		s = p.read(s)
		if err := p.ensure(1); err != nil {
			return nil, err
		}
	}

	if len(s) == 0 || !p.endsAnchorName() {
		return nil, p.newScannerError(startMark, "did not find expected alphabetic or numeric character")
	}
	return &core.Token{
		Type:      typ,
		StartMark: startMark,
		EndMark:   p.Mark,
		Value:     s,
	}, nil
}

// scanTag scans one of the three tag forms: verbatim "!<uri>", shorthand
// "!handle!suffix", or primary "!suffix".
func (p *Engine) scanTag() (*core.Token, error) {
	startMark := p.Mark
	if err := p.ensure(2); err != nil {
		return nil, err
	}

	var handle, suffix []byte
	var err error
	if p.Buffer[p.BufferPos+1] == '<' {
		// Verbatim: the handle stays empty.
		p.skip()
		p.skip()
		if suffix, err = p.scanTagURI(nil, startMark); err != nil {
			return nil, err
		}
		if p.Buffer[p.BufferPos] != '>' {
			return nil, p.newScannerError(startMark, "did not find the expected '>'")
		}
		p.skip()
	} else if handle, suffix, err = p.scanShorthandTag(startMark); err != nil {
		return nil, err
	}

	if err := p.ensure(1); err != nil {
		return nil, err
	}
	if !core.IsBlankOrZeroAt(p.Buffer, p.BufferPos) {
		return nil, p.newScannerError(startMark, "did not find expected whitespace or line break")
	}

	return &core.Token{
		Type:      core.TokenTag,
		StartMark: startMark,
		EndMark:   p.Mark,
		Value:     handle,
		Suffix:    suffix,
	}, nil
}

// scanShorthandTag handles the '!suffix' and '!handle!suffix' forms.
func (p *Engine) scanShorthandTag(startMark core.Mark) (handle, suffix []byte, err error) {
	if handle, err = p.scanTagHandle(false, startMark); err != nil {
		return nil, nil, err
	}

	if handle[0] == '!' && len(handle) > 1 && handle[len(handle)-1] == '!' {
		// A real "!name!" handle; the rest is the suffix.
		if suffix, err = p.scanTagURI(nil, startMark); err != nil {
			return nil, nil, err
		}
		return handle, suffix, nil
	}

	// Not a handle after all; whatever was consumed is part of the suffix.
	if suffix, err = p.scanTagURI(handle, startMark); err != nil {
		return nil, nil, err
	}
	handle = []byte{'!'}
	// The bare "!" tag: empty handle, "!" suffix.
	if len(suffix) == 0 {
		handle, suffix = suffix, handle
	}
	return handle, suffix, nil
}

// scanTagHandle scans "!", "!!", or "!name!". Inside a %TAG directive
// nothing short of a full handle is acceptable; in a tag token a lone "!"
// start may turn out to be part of a URI instead.
func (p *Engine) scanTagHandle(directive bool, startMark core.Mark) ([]byte, error) {
	if err := p.ensure(1); err != nil {
		return nil, err
	}
	if p.Buffer[p.BufferPos] != '!' {
		return nil, p.newScannerError(startMark, "did not find expected '!'")
	}

	s := p.read(nil)

	if err := p.ensure(1); err != nil {
		return nil, err
	}
	for core.IsAlphaAt(p.Buffer, p.BufferPos) {
		s = p.read(s)
		if err := p.ensure(1); err != nil {
			return nil, err
		}
	}

	if p.Buffer[p.BufferPos] == '!' {
		s = p.read(s)
	} else if directive && string(s) != "!" {
		return nil, p.newScannerError(startMark, "did not find expected '!'")
	}
	return s, nil
}

// isTagURIChar reports whether c may appear in a tag URI beyond the
// alphanumerics: the unreserved and reserved URI sets tags may use.
func isTagURIChar(c byte) bool {
	switch c {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '.', '!', '~', '*', '\'', '(', ')', '[', ']', '%':
		return true
	}
	return false
}

// scanTagURI scans a tag's URI text, decoding %XX escapes along the way.
// head holds bytes a preceding failed handle scan already consumed (its
// leading '!' is not part of the URI).
func (p *Engine) scanTagURI(head []byte, startMark core.Mark) ([]byte, error) {
	var s []byte
	hasTag := len(head) > 0

	if len(head) > 1 {
		s = append(s, head[1:]...)
	}

	if err := p.ensure(1); err != nil {
		return nil, err
	}
	for core.IsAlphaAt(p.Buffer, p.BufferPos) || isTagURIChar(p.Buffer[p.BufferPos]) {
		if p.Buffer[p.BufferPos] == '%' {
			var err error
			if s, err = p.scanURIEscapes(startMark, s); err != nil {
				return nil, err
			}
		} else {
			s = p.read(s)
		}
		if err := p.ensure(1); err != nil {
			return nil, err
		}
		hasTag = true
	}

	if !hasTag {
		return nil, p.newScannerError(startMark, "did not find expected tag URI")
	}
	return s, nil
}

// scanURIEscapes decodes one %XX-escaped UTF-8 sequence, validating the
// continuation octets across consecutive escapes.
func (p *Engine) scanURIEscapes(startMark core.Mark, s []byte) ([]byte, error) {
	width := 0
	for {
		if err := p.ensure(3); err != nil {
			return nil, err
		}
		if !(p.Buffer[p.BufferPos] == '%' &&
			core.IsHexAt(p.Buffer, p.BufferPos+1) &&
			core.IsHexAt(p.Buffer, p.BufferPos+2)) {
			return nil, p.newScannerError(startMark, "did not find URI escaped octet")
		}
		octet := byte(core.HexValue(p.Buffer, p.BufferPos+1)<<4 + core.HexValue(p.Buffer, p.BufferPos+2))

		if width == 0 {
			// The leading octet fixes the sequence length.
			width = core.RuneWidth(octet)
			if width == 0 {
				return nil, p.newScannerError(startMark, "found an incorrect leading UTF-8 octet")
			}
		} else if octet&0xC0 != 0x80 {
			return nil, p.newScannerError(startMark, "found an incorrect trailing UTF-8 octet")
		}

		s = append(s, octet)
		p.skip()
		p.skip()
		p.skip()
		if width--; width == 0 {
			return s, nil
		}
	}
}
