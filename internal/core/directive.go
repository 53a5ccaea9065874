package core

// VersionDirective is the decoded form of a `%YAML major.minor` directive.
type VersionDirective struct {
	Major int8
	Minor int8
}

// TagDirective is the decoded form of a `%TAG handle prefix` directive. The
// parser always has at least the two built-in directives (`!` and `!!`)
// available even when a stream declares none of its own; see
// internal/engine's tag resolution for how user directives take priority
// over those defaults.
type TagDirective struct {
	Handle []byte
	Prefix []byte
}

// Encoding identifies the byte-level encoding of a YAML stream, as sniffed
// from a leading BOM or forced by the caller.
type Encoding int

const (
	EncodingAny Encoding = iota // let the reader choose
	EncodingUTF8
	EncodingUTF16LE
	EncodingUTF16BE
)

// Break selects the line-break sequence the emitter writes.
type Break int

const (
	BreakAny Break = iota // let the emitter choose (LN)
	BreakCR
	BreakLN
	BreakCRLN
)

// ErrorType tags which pipeline stage produced an error, mirroring the five
// error kinds the emitter/parser/scanner/reader/writer can each raise.
type ErrorType int

const (
	ErrorNone ErrorType = iota
	ErrorReader
	ErrorScanner
	ErrorParser
	ErrorWriter
	ErrorEmitter
)
