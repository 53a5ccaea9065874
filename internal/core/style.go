package core

// Style is the common underlying type for the three style enumerations
// below (scalar, sequence, mapping). An Event's Style field is declared as
// plain Style and narrowed to the specific kind via ScalarStyle/
// SequenceStyle/MappingStyle depending on the event's Type, since a single
// Go field has to stand in for three mutually-exclusive C unions' worth of
// style bits.
type Style int8

// ScalarStyle selects how a scalar's value is surfaced: unquoted, quoted,
// or as a block literal/fold. The bit-flag encoding (rather than sequential
// values) lets the emitter's style-selection logic test "is any quoted
// style allowed" with a single mask.
type ScalarStyle Style

const (
	ScalarStyleAny ScalarStyle = 0

	ScalarStylePlain ScalarStyle = 1 << iota
	ScalarStyleSingleQuoted
	ScalarStyleDoubleQuoted
	ScalarStyleLiteral
	ScalarStyleFolded
)

// SequenceStyle selects block (indented `-` entries) or flow (`[...]`)
// layout for a sequence.
type SequenceStyle Style

const (
	SequenceStyleAny SequenceStyle = iota
	SequenceStyleBlock
	SequenceStyleFlow
)

// MappingStyle selects block (indented `key: value` pairs) or flow
// (`{...}`) layout for a mapping.
type MappingStyle Style

const (
	MappingStyleAny MappingStyle = iota
	MappingStyleBlock
	MappingStyleFlow
)
