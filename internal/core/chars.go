package core

// Buffer and stack sizing used by the reader, scanner, and emitter. The
// input buffer is sized to comfortably hold the worst-case UTF-8 expansion
// of a full raw-buffer read (up to 3 bytes per decoded rune).
const (
	RawBufferSize    = 512
	InputBufferSize  = RawBufferSize * 3
	InitialStackSize = 16
	InitialQueueSize = 16
)

// byteAt lets the single-byte predicates below double as
// offset-based lookups without duplicating the underlying bit tests: the
// scanner frequently needs to test "the byte two positions ahead", and the
// multi-byte break/BOM sequences need to peek past the end of a short
// buffer without panicking.
func byteAt(b []byte, i int) byte {
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

// IsAlphaAt reports whether the byte at i is a letter, digit, '_', or '-',
// the character class legal in anchor names, alias names, and tag handles.
func IsAlphaAt(b []byte, i int) bool {
	c := byteAt(b, i)
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == '-'
}

// IsDigitAt reports whether the byte at i is an ASCII digit.
func IsDigitAt(b []byte, i int) bool {
	c := byteAt(b, i)
	return c >= '0' && c <= '9'
}

// DigitValue returns the numeric value of the ASCII digit at i.
func DigitValue(b []byte, i int) int {
	return int(byteAt(b, i)) - '0'
}

// IsHexAt reports whether the byte at i is a hexadecimal digit.
func IsHexAt(b []byte, i int) bool {
	c := byteAt(b, i)
	return c >= '0' && c <= '9' || c >= 'A' && c <= 'F' || c >= 'a' && c <= 'f'
}

// HexValue returns the numeric value of the hex digit at i.
func HexValue(b []byte, i int) int {
	c := byteAt(b, i)
	switch {
	case c >= 'A' && c <= 'F':
		return int(c) - 'A' + 10
	case c >= 'a' && c <= 'f':
		return int(c) - 'a' + 10
	default:
		return int(c) - '0'
	}
}

// IsPrintable reports whether the UTF-8 rune starting the buffer may be
// written unescaped per the YAML "printable" production (a superset of
// ASCII printables plus most of the Basic Multilingual Plane, excluding the
// surrogate range and the BOM/NEL control points).
func IsPrintable(b []byte) bool {
	c0 := byteAt(b, 0)
	return (c0 == 0x0A) ||                          // . == #x0A
		(c0 >= 0x20 && c0 <= 0x7E) ||           // #x20 <= . <= #x7E
		(c0 == 0xC2 && byteAt(b, 1) >= 0xA0) || // #0xA0 <= . <= #xD7FF
		(c0 > 0xC2 && c0 < 0xED) ||
		(c0 == 0xED && byteAt(b, 1) < 0xA0) ||
		(c0 == 0xEE) ||
		(c0 == 0xEF &&                                             // #xE000 <= . <= #xFFFD
			!(byteAt(b, 1) == 0xBB && byteAt(b, 2) == 0xBF) && // && . != #xFEFF
			!(byteAt(b, 1) == 0xBF && (byteAt(b, 2) == 0xBE || byteAt(b, 2) == 0xBF)))
}

// IsZeroAt reports whether the byte at i is NUL, the sentinel the scanner
// pads the tail of its buffer with to mark end-of-input.
func IsZeroAt(b []byte, i int) bool {
	return byteAt(b, i) == 0x00
}

// IsBOM reports whether the buffer opens with a UTF-8 byte-order mark.
func IsBOM(b []byte) bool {
	return byteAt(b, 0) == 0xEF && byteAt(b, 1) == 0xBB && byteAt(b, 2) == 0xBF
}

// IsBOMAt reports whether the buffer holds a UTF-8 byte-order mark starting at i.
func IsBOMAt(b []byte, i int) bool {
	return byteAt(b, i) == 0xEF && byteAt(b, i+1) == 0xBB && byteAt(b, i+2) == 0xBF
}

func IsSpaceAt(b []byte, i int) bool { return byteAt(b, i) == ' ' }
func IsTabAt(b []byte, i int) bool   { return byteAt(b, i) == '\t' }

// IsBlankAt reports whether the byte at i is a space or tab.
func IsBlankAt(b []byte, i int) bool {
	c := byteAt(b, i)
	return c == ' ' || c == '\t'
}

// IsBlank reports whether the leading byte of b is a space or tab.
func IsBlank(b byte) bool { return b == ' ' || b == '\t' }

// breakLenAt returns the length in bytes of the line-break sequence
// starting at i (CR, LF, NEL, LS, or PS), or 0 if there is none.
func breakLenAt(b []byte, i int) int {
	switch {
	case byteAt(b, i) == '\r', byteAt(b, i) == '\n':
		return 1
	case byteAt(b, i) == 0xC2 && byteAt(b, i+1) == 0x85:
		return 2 // NEL (#x85)
	case byteAt(b, i) == 0xE2 && byteAt(b, i+1) == 0x80 && (byteAt(b, i+2) == 0xA8 || byteAt(b, i+2) == 0xA9):
		return 3 // LS (#x2028) / PS (#x2029)
	default:
		return 0
	}
}

// IsBreakAt reports whether a line break begins at i.
func IsBreakAt(b []byte, i int) bool { return breakLenAt(b, i) > 0 }

// IsBreak reports whether a line break begins at the start of b.
func IsBreak(b []byte) bool { return breakLenAt(b, 0) > 0 }

// IsCRLFAt reports whether i begins a CR-LF pair.
func IsCRLFAt(b []byte, i int) bool {
	return byteAt(b, i) == '\r' && byteAt(b, i+1) == '\n'
}

// IsBreakOrZeroAt reports whether the byte at i is a line break or NUL.
func IsBreakOrZeroAt(b []byte, i int) bool {
	return breakLenAt(b, i) > 0 || byteAt(b, i) == 0
}

// IsSpaceOrZeroAt reports whether the byte at i is a space, line break, or NUL.
func IsSpaceOrZeroAt(b []byte, i int) bool {
	return byteAt(b, i) == ' ' || IsBreakOrZeroAt(b, i)
}

// IsBlankOrZeroAt reports whether the byte at i is blank, a line break, or NUL.
func IsBlankOrZeroAt(b []byte, i int) bool {
	return IsBlankAt(b, i) || IsBreakOrZeroAt(b, i)
}

// IsBlankOrZero reports whether the leading byte of b is blank, a line
// break, or NUL.
func IsBlankOrZero(b []byte) bool { return IsBlankOrZeroAt(b, 0) }

// RuneWidth returns the number of bytes in the UTF-8 sequence introduced by
// the leading byte c, or 0 if c cannot start a valid sequence.
func RuneWidth(c byte) int {
	switch {
	case c&0x80 == 0x00:
		return 1
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	default:
		return 0
	}
}
