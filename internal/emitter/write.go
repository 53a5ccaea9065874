package emitter

import "github.com/abhinav/yamlcore/internal/core"

// writeBom writes the UTF-8 byte order mark.
func (e *Emitter) writeBom() error {
	return e.writeAll([]byte("\xEF\xBB\xBF"))
}

// writeIndent breaks the line if anything is on it and pads out to the
// current indentation column.
func (e *Emitter) writeIndent() error {
	indent := e.indentLevel
	if indent < 0 {
		indent = 0
	}
	if !e.lastCharIndent || e.column > indent || (e.column == indent && !e.lastCharWhitespace) {
		if err := e.putBreak(); err != nil {
			return err
		}
	}
	if e.footIndent == indent {
		// An extra blank line separates a foot comment from what follows.
		if err := e.putBreak(); err != nil {
			return err
		}
	}
	for e.column < indent {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	e.lastCharWhitespace = true
	e.footIndent = -1
	return nil
}

// writeIndicator writes punctuation (quotes, brackets, markers), adding
// a separating space when one is needed and tracking how the character
// run affects whitespace/indentation state.
func (e *Emitter) writeIndicator(indicator string, needWhitespace, isWhitespace, isIndention bool) error {
	if needWhitespace && !e.lastCharWhitespace {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	if err := e.writeAll([]byte(indicator)); err != nil {
		return err
	}
	e.lastCharWhitespace = isWhitespace
	e.lastCharIndent = e.lastCharIndent && isIndention
	e.openEnded = false
	return nil
}

func (e *Emitter) writeAnchor(value []byte) error {
	if err := e.writeAll(value); err != nil {
		return err
	}
	e.lastCharWhitespace = false
	e.lastCharIndent = false
	return nil
}

func (e *Emitter) writeTagHandle(value []byte) error {
	if !e.lastCharWhitespace {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	if err := e.writeAll(value); err != nil {
		return err
	}
	e.lastCharWhitespace = false
	e.lastCharIndent = false
	return nil
}

func hexDigit(d byte) byte {
	if d < 10 {
		return d + '0'
	}
	return d + 'A' - 10
}

// isTagSafe reports whether the leading character of value may appear
// unescaped in tag text: alphanumerics plus the URI sets tags may use.
func isTagSafe(value []byte) bool {
	switch value[0] {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '_', '.', '~', '*', '\'', '(', ')', '[', ']':
		return true
	}
	return core.IsAlphaAt(value, 0)
}

// writeTagContent writes tag text, URI-escaping every byte of any
// character outside the tag-safe set as uppercase %XX.
func (e *Emitter) writeTagContent(value []byte, needWhitespace bool) error {
	if needWhitespace && !e.lastCharWhitespace {
		if err := e.put(' '); err != nil {
			return err
		}
	}
	for len(value) > 0 {
		if isTagSafe(value) {
			n, err := e.write(value)
			if err != nil {
				return err
			}
			value = value[n:]
			continue
		}
		w := core.RuneWidth(value[0])
		for k := 0; k < w; k++ {
			if err := e.put('%'); err != nil {
				return err
			}
			if err := e.put(hexDigit(value[k] >> 4)); err != nil {
				return err
			}
			if err := e.put(hexDigit(value[k] & 0x0F)); err != nil {
				return err
			}
		}
		value = value[w:]
	}
	e.lastCharWhitespace = false
	e.lastCharIndent = false
	return nil
}

func (e *Emitter) writePlainScalar(value []byte, allowBreaks bool) error {
	totalLen := len(value)
	if totalLen > 0 && !e.lastCharWhitespace {
		if err := e.put(' '); err != nil {
			return err
		}
	}

	var err error
	var spaces, breaks bool
	for len(value) > 0 {
		w := core.RuneWidth(value[0])
		switch {
		case core.IsSpaceAt(value, 0):
			nextIsSpace := len(value) > w && core.IsSpaceAt(value, w)
			if allowBreaks && !spaces && e.column > e.width && !nextIsSpace {
				// Fold the line on this space instead of writing it.
				if err := e.writeIndent(); err != nil {
					return err
				}
			} else if w, err = e.write(value); err != nil {
				return err
			}
			value = value[w:]
			spaces = true

		case core.IsBreakAt(value, 0):
			if !breaks && value[0] == '\n' {
				// The first '\n' of a run doubles, so the fold survives
				// re-parsing.
				if err := e.putBreak(); err != nil {
					return err
				}
			}
			if w, err = e.writeBreak(value); err != nil {
				return err
			}
			value = value[w:]
			breaks = true

		default:
			if breaks {
				if err := e.writeIndent(); err != nil {
					return err
				}
			}
			if w, err = e.write(value); err != nil {
				return err
			}
			value = value[w:]
			e.lastCharIndent = false
			spaces = false
			breaks = false
		}
	}

	if totalLen > 0 {
		e.lastCharWhitespace = false
	}
	e.lastCharIndent = false
	if e.rootContext {
		e.openEnded = true
	}
	return nil
}

func (e *Emitter) writeSingleQuotedScalar(value []byte, allowBreaks bool) error {
	if err := e.writeIndicator("'", true, false, false); err != nil {
		return err
	}

	var err error
	var spaces, breaks bool
	count := 0
	for len(value) > 0 {
		count++
		w := core.RuneWidth(value[0])
		switch {
		case core.IsSpaceAt(value, 0):
			if allowBreaks && !spaces && e.column > e.width && count > 1 &&
				len(value) > w && !core.IsSpaceAt(value, 1) {
				if err := e.writeIndent(); err != nil {
					return err
				}
			} else if w, err = e.write(value); err != nil {
				return err
			}
			value = value[w:]
			spaces = true

		case core.IsBreakAt(value, 0):
			if !breaks && value[0] == '\n' {
				if err := e.putBreak(); err != nil {
					return err
				}
			}
			if w, err = e.writeBreak(value); err != nil {
				return err
			}
			value = value[w:]
			breaks = true

		default:
			if breaks {
				if err := e.writeIndent(); err != nil {
					return err
				}
			}
			if value[0] == '\'' {
				// A quote is written doubled.
				if err := e.put('\''); err != nil {
					return err
				}
			}
			if w, err = e.write(value); err != nil {
				return err
			}
			value = value[w:]
			e.lastCharIndent = false
			spaces = false
			breaks = false
		}
	}
	if err := e.writeIndicator("'", false, false, false); err != nil {
		return err
	}
	e.lastCharWhitespace = false
	e.lastCharIndent = false
	return nil
}

func (e *Emitter) writeDoubleQuotedScalar(value []byte, allowBreaks bool) error {
	if err := e.writeIndicator(`"`, true, false, false); err != nil {
		return err
	}

	isBom := len(value) >= 3 && core.IsBOM(value)

	var err error
	spaces := false
	count := 0
	for len(value) > 0 {
		count++
		switch {
		case !core.IsPrintable(value) || isBom || core.IsBreakAt(value, 0) ||
			value[0] == '"' || value[0] == '\\' ||
			(!e.unicode && core.RuneWidth(value[0]) > 1):
			if value, err = e.writeDoubleQuotedEscapedChar(value); err != nil {
				return err
			}
			spaces = false

		case core.IsSpaceAt(value, 0):
			w := core.RuneWidth(value[0])
			if allowBreaks && !spaces && e.column > e.width && count > 1 && len(value) > w {
				if err := e.writeIndent(); err != nil {
					return err
				}
				if core.IsSpaceAt(value, 1) {
					// The folded space is followed by another; escape so
					// the fold isn't absorbed into it.
					if err := e.put('\\'); err != nil {
						return err
					}
				}
			} else if w, err = e.write(value); err != nil {
				return err
			}
			value = value[w:]
			spaces = true

		default:
			var w int
			if w, err = e.write(value); err != nil {
				return err
			}
			value = value[w:]
			spaces = false
		}
	}
	if err := e.writeIndicator(`"`, false, false, false); err != nil {
		return err
	}
	e.lastCharWhitespace = false
	e.lastCharIndent = false
	return nil
}

// shortEscapes are the single-letter escapes of the double-quoted style.
var shortEscapes = map[rune]byte{
	0x00: '0', 0x07: 'a', 0x08: 'b', 0x09: 't', 0x0A: 'n', 0x0B: 'v',
	0x0C: 'f', 0x0D: 'r', 0x1B: 'e', 0x22: '"', 0x5C: '\\',
	0x85: 'N', 0xA0: '_', 0x2028: 'L', 0x2029: 'P',
}

// decodeRuneAtStart reads one UTF-8 code point from the head of value.
func decodeRuneAtStart(value []byte) (rune, int) {
	octet := value[0]
	var v rune
	var w int
	switch {
	case octet&0x80 == 0x00:
		w, v = 1, rune(octet&0x7F)
	case octet&0xE0 == 0xC0:
		w, v = 2, rune(octet&0x1F)
	case octet&0xF0 == 0xE0:
		w, v = 3, rune(octet&0x0F)
	case octet&0xF8 == 0xF0:
		w, v = 4, rune(octet&0x07)
	}
	for k := 1; k < w; k++ {
		v = v<<6 + rune(value[k])&0x3F
	}
	return v, w
}

// writeDoubleQuotedEscapedChar writes the leading character of value in
// escaped form, preferring a short escape and falling back to uppercase
// \xXX, \uXXXX, or \UXXXXXXXX hex by the code point's magnitude.
func (e *Emitter) writeDoubleQuotedEscapedChar(value []byte) ([]byte, error) {
	v, w := decodeRuneAtStart(value)
	value = value[w:]

	if err := e.put('\\'); err != nil {
		return nil, err
	}
	if c, ok := shortEscapes[v]; ok {
		if err := e.put(c); err != nil {
			return nil, err
		}
		return value, nil
	}

	digits, marker := 2, byte('x')
	switch {
	case v > 0xFFFF:
		digits, marker = 8, 'U'
	case v > 0xFF:
		digits, marker = 4, 'u'
	}
	if err := e.put(marker); err != nil {
		return nil, err
	}
	for k := (digits - 1) * 4; k >= 0; k -= 4 {
		if err := e.put(hexDigit(byte(v >> uint(k) & 0x0F))); err != nil {
			return nil, err
		}
	}
	return value, nil
}

// writeBlockScalarHints writes the indentation digit (when the content
// starts with whitespace and couldn't settle its own indent) and the
// chomping indicator after a '|' or '>'.
func (e *Emitter) writeBlockScalarHints(value []byte) error {
	if core.IsSpaceAt(value, 0) || core.IsBreakAt(value, 0) {
		indentHint := string('0' + byte(e.indent))
		if err := e.writeIndicator(indentHint, false, false, false); err != nil {
			return err
		}
	}

	e.openEnded = false

	var chompHint byte
	if len(value) == 0 {
		chompHint = '-'
	} else {
		// Walk back over continuation bytes to the last full character.
		i := len(value) - 1
		for value[i]&0xC0 == 0x80 {
			i--
		}
		switch {
		case !core.IsBreakAt(value, i):
			chompHint = '-'
		case i == 0:
			chompHint = '+'
			e.openEnded = true
		default:
			i--
			for value[i]&0xC0 == 0x80 {
				i--
			}
			if core.IsBreakAt(value, i) {
				chompHint = '+'
				e.openEnded = true
			}
		}
	}
	if chompHint != 0 {
		if err := e.writeIndicator(string(chompHint), false, false, false); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) writeLiteralScalar(value []byte) error {
	if err := e.writeIndicator("|", true, false, false); err != nil {
		return err
	}
	if err := e.writeBlockScalarHints(value); err != nil {
		return err
	}
	if err := e.processLineComment(); err != nil {
		return err
	}

	e.lastCharWhitespace = true
	var err error
	breaks := true
	for len(value) > 0 {
		var w int
		if core.IsBreakAt(value, 0) {
			if w, err = e.writeBreak(value); err != nil {
				return err
			}
			value = value[w:]
			breaks = true
			continue
		}
		if breaks {
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if w, err = e.write(value); err != nil {
			return err
		}
		value = value[w:]
		e.lastCharIndent = false
		breaks = false
	}
	return nil
}

func (e *Emitter) writeFoldedScalar(value []byte) error {
	if err := e.writeIndicator(">", true, false, false); err != nil {
		return err
	}
	if err := e.writeBlockScalarHints(value); err != nil {
		return err
	}
	if err := e.processLineComment(); err != nil {
		return err
	}

	e.lastCharWhitespace = true
	var err error
	breaks := true
	leadingSpaces := true
	for len(value) > 0 {
		w := core.RuneWidth(value[0])
		if core.IsBreakAt(value, 0) {
			if !breaks && !leadingSpaces && value[0] == '\n' {
				// Double the break ending a foldable line, unless only
				// blank lines follow.
				k := 0
				for core.IsBreakAt(value, k) {
					k += core.RuneWidth(value[k])
				}
				if !core.IsBlankOrZeroAt(value, k) {
					if err := e.putBreak(); err != nil {
						return err
					}
				}
			}
			if w, err = e.writeBreak(value); err != nil {
				return err
			}
			value = value[w:]
			breaks = true
			continue
		}
		if breaks {
			if err := e.writeIndent(); err != nil {
				return err
			}
			leadingSpaces = core.IsBlankAt(value, 0)
		}
		nextIsSpace := len(value) > w && core.IsSpaceAt(value, w)
		if !breaks && core.IsSpaceAt(value, 0) && !nextIsSpace && e.column > e.width {
			if err := e.writeIndent(); err != nil {
				return err
			}
		} else if w, err = e.write(value); err != nil {
			return err
		}
		value = value[w:]
		e.lastCharIndent = false
		breaks = false
	}
	return nil
}

func (e *Emitter) writeComment(comment []byte) error {
	breaks := false
	pound := false
	for len(comment) > 0 {
		if core.IsBreakAt(comment, 0) {
			n, err := e.writeBreak(comment)
			if err != nil {
				return err
			}
			comment = comment[n:]
			breaks = true
			pound = false
			continue
		}
		if breaks {
			if err := e.writeIndent(); err != nil {
				return err
			}
		}
		if !pound {
			if comment[0] != '#' {
				if err := e.writeAll([]byte("# ")); err != nil {
					return err
				}
			}
			pound = true
		}
		n, err := e.write(comment)
		if err != nil {
			return err
		}
		comment = comment[n:]
		e.lastCharIndent = false
		breaks = false
	}
	if !breaks {
		if err := e.putBreak(); err != nil {
			return err
		}
	}
	e.lastCharWhitespace = true
	return nil
}
