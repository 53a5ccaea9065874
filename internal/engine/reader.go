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

// Byte input: filling the raw buffer from the io.Reader and decoding it
// into the UTF-8 character window the scanner looks at.

import (
	"io"

	"github.com/abhinav/yamlcore/internal/core"
)

func newReaderError(problem string) error {
	return buildParserError(core.ErrorReader, problem, 0, 0)
}

// Byte order marks.
const (
	bomUTF8    = "\xef\xbb\xbf"
	bomUTF16LE = "\xff\xfe"
	bomUTF16BE = "\xfe\xff"
)

// determineEncoding sniffs the BOM at the start of the stream, consuming
// it when present. Without one the stream is treated as UTF-8.
func (p *Engine) determineEncoding() error {
	for !p.Eof && len(p.RawBuffer)-p.RawBufferPos < 3 {
		if err := p.updateRawBuffer(); err != nil {
			return err
		}
	}

	switch {
	case hasPrefixAt(p.RawBuffer, p.RawBufferPos, bomUTF16LE):
		p.Encoding = core.EncodingUTF16LE
		p.RawBufferPos += 2
		p.Offset += 2
	case hasPrefixAt(p.RawBuffer, p.RawBufferPos, bomUTF16BE):
		p.Encoding = core.EncodingUTF16BE
		p.RawBufferPos += 2
		p.Offset += 2
	case hasPrefixAt(p.RawBuffer, p.RawBufferPos, bomUTF8):
		p.Encoding = core.EncodingUTF8
		p.RawBufferPos += 3
		p.Offset += 3
	default:
		p.Encoding = core.EncodingUTF8
	}
	return nil
}

// updateRawBuffer reads more bytes from the source, compacting whatever
// is still undecoded to the front of the raw buffer first.
func (p *Engine) updateRawBuffer() error {
	if p.Eof || (p.RawBufferPos == 0 && len(p.RawBuffer) == cap(p.RawBuffer)) {
		return nil
	}

	if p.RawBufferPos > 0 && p.RawBufferPos < len(p.RawBuffer) {
		copy(p.RawBuffer, p.RawBuffer[p.RawBufferPos:])
	}
	p.RawBuffer = p.RawBuffer[:len(p.RawBuffer)-p.RawBufferPos]
	p.RawBufferPos = 0

	n, err := p.Reader.Read(p.RawBuffer[len(p.RawBuffer):cap(p.RawBuffer)])
	switch err {
	case nil:
	case io.EOF:
		p.Eof = true
	default:
		return newReaderError("input error: " + err.Error())
	}
	p.RawBuffer = p.RawBuffer[:len(p.RawBuffer)+n]
	return nil
}

// decodeUTF8 reads one character from the head of raw (RFC 3629). A zero
// width with no error means the character continues past the available
// bytes.
func decodeUTF8(raw []byte, eof bool) (rune, int, error) {
	octet := raw[0]
	var value rune
	var width int
	switch {
	case octet&0x80 == 0x00:
		width, value = 1, rune(octet&0x7F)
	case octet&0xE0 == 0xC0:
		width, value = 2, rune(octet&0x1F)
	case octet&0xF0 == 0xE0:
		width, value = 3, rune(octet&0x0F)
	case octet&0xF8 == 0xF0:
		width, value = 4, rune(octet&0x07)
	default:
		return 0, 0, newReaderError("invalid leading UTF-8 octet")
	}
	if width > len(raw) {
		if eof {
			return 0, 0, newReaderError("incomplete UTF-8 octet sequence")
		}
		return 0, 0, nil
	}
	for k := 1; k < width; k++ {
		octet = raw[k]
		if octet&0xC0 != 0x80 {
			return 0, 0, newReaderError("invalid trailing UTF-8 octet")
		}
		value = value<<6 + rune(octet&0x3F)
	}

	// An over-long sequence encodes a value a shorter sequence covers.
	overlong := false
	switch width {
	case 2:
		overlong = value < 0x80
	case 3:
		overlong = value < 0x800
	case 4:
		overlong = value < 0x10000
	}
	if overlong {
		return 0, 0, newReaderError("invalid length of a UTF-8 sequence")
	}
	if value >= 0xD800 && value <= 0xDFFF || value > 0x10FFFF {
		return 0, 0, newReaderError("invalid Unicode character")
	}
	return value, width, nil
}

// decodeUTF16 reads one character, possibly a surrogate pair, from the
// head of raw (RFC 2781). A zero width with no error means the character
// continues past the available bytes.
func decodeUTF16(raw []byte, bigEndian, eof bool) (rune, int, error) {
	low, high := 0, 1
	if bigEndian {
		low, high = 1, 0
	}
	if len(raw) < 2 {
		if eof {
			return 0, 0, newReaderError("incomplete UTF-16 character")
		}
		return 0, 0, nil
	}
	value := rune(raw[low]) + rune(raw[high])<<8
	if value&0xFC00 == 0xDC00 {
		return 0, 0, newReaderError("unexpected low surrogate area")
	}
	if value&0xFC00 != 0xD800 {
		return value, 2, nil
	}

	// A high surrogate must pair with the low surrogate that follows.
	if len(raw) < 4 {
		if eof {
			return 0, 0, newReaderError("incomplete UTF-16 surrogate pair")
		}
		return 0, 0, nil
	}
	value2 := rune(raw[low+2]) + rune(raw[high+2])<<8
	if value2&0xFC00 != 0xDC00 {
		return 0, 0, newReaderError("expected low surrogate area")
	}
	return 0x10000 + (value&0x3FF)<<10 + value2&0x3FF, 4, nil
}

// isAllowedRune reports whether the YAML character set admits value: tab,
// the break characters, and the printable code point ranges.
func isAllowedRune(value rune) bool {
	switch {
	case value == 0x09, value == 0x0A, value == 0x0D, value == 0x85:
		return true
	case value >= 0x20 && value <= 0x7E:
		return true
	case value >= 0xA0 && value <= 0xD7FF:
		return true
	case value >= 0xE000 && value <= 0xFFFD:
		return true
	case value >= 0x10000 && value <= 0x10FFFF:
		return true
	}
	return false
}

// encodeRune writes value as UTF-8 into dst, returning the byte count.
func encodeRune(dst []byte, value rune) int {
	switch {
	case value <= 0x7F:
		dst[0] = byte(value)
		return 1
	case value <= 0x7FF:
		dst[0] = byte(0xC0 + value>>6)
		dst[1] = byte(0x80 + value&0x3F)
		return 2
	case value <= 0xFFFF:
		dst[0] = byte(0xE0 + value>>12)
		dst[1] = byte(0x80 + value>>6&0x3F)
		dst[2] = byte(0x80 + value&0x3F)
		return 3
	default:
		dst[0] = byte(0xF0 + value>>18)
		dst[1] = byte(0x80 + value>>12&0x3F)
		dst[2] = byte(0x80 + value>>6&0x3F)
		dst[3] = byte(0x80 + value&0x3F)
		return 4
	}
}

// ensure makes at least n characters available for lookahead, reading and
// decoding more input only when the buffer is running short. Nearly every
// scanning routine calls this before inspecting p.Buffer.
func (p *Engine) ensure(n int) error {
	if p.Unread < n {
		return p.updateBuffer(n)
	}
	return nil
}

// updateBuffer decodes raw bytes until the buffer holds at least length
// characters, padding with NULs at EOF so that lookahead never has to
// branch on end-of-input separately. length must be well below the buffer
// size; callers ask for at most a handful of characters at a time.
func (p *Engine) updateBuffer(length int) error {
	if p.Reader == nil {
		panic("read handler must be set")
	}
	if p.Unread >= length {
		return nil
	}

	if p.Encoding == core.EncodingAny {
		if err := p.determineEncoding(); err != nil {
			return err
		}
	}

	// Compact the unread characters to the front of the buffer.
	bufferLen := len(p.Buffer)
	if p.BufferPos > 0 && p.BufferPos < bufferLen {
		copy(p.Buffer, p.Buffer[p.BufferPos:])
		bufferLen -= p.BufferPos
		p.BufferPos = 0
	} else if p.BufferPos == bufferLen {
		bufferLen = 0
		p.BufferPos = 0
	}

	// Open the whole buffer for writing; it is cut back before returning.
	p.Buffer = p.Buffer[:cap(p.Buffer)]

	first := true
	for p.Unread < length {
		if !first || p.RawBufferPos == len(p.RawBuffer) {
			if err := p.updateRawBuffer(); err != nil {
				p.Buffer = p.Buffer[:bufferLen]
				return err
			}
		}
		first = false

		for p.RawBufferPos != len(p.RawBuffer) {
			raw := p.RawBuffer[p.RawBufferPos:]
			var value rune
			var width int
			var err error
			switch p.Encoding {
			case core.EncodingUTF8:
				value, width, err = decodeUTF8(raw, p.Eof)
			case core.EncodingUTF16LE:
				value, width, err = decodeUTF16(raw, false, p.Eof)
			case core.EncodingUTF16BE:
				value, width, err = decodeUTF16(raw, true, p.Eof)
			default:
				panic("impossible")
			}
			if err != nil {
				return err
			}
			if width == 0 {
				// The character continues past the raw buffer: read more.
				break
			}
			if !isAllowedRune(value) {
				return newReaderError("control characters are not allowed")
			}

			p.RawBufferPos += width
			p.Offset += width
			bufferLen += encodeRune(p.Buffer[bufferLen:], value)
			p.Unread++
		}

		// On EOF, put a NUL into the buffer and stop.
		if p.Eof {
			p.Buffer[bufferLen] = 0
			bufferLen++
			p.Unread++
			break
		}
	}
	// The EOF break above can leave fewer than length characters decoded;
	// top up with NULs so callers may index the full requested window.
	for bufferLen < length {
		p.Buffer[bufferLen] = 0
		bufferLen++
	}
	p.Buffer = p.Buffer[:bufferLen]
	return nil
}
