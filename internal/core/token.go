package core

// TokenType enumerates the lexical units the scanner produces. The ordering
// groups types by grammar role: stream framing, directives, block/flow
// structure, then nodal tokens (alias/anchor/tag/scalar).
type TokenType int

const (
	TokenNone TokenType = iota

	TokenStreamStart
	TokenStreamEnd

	TokenVersionDirective
	TokenTagDirective
	TokenDocumentStart
	TokenDocumentEnd

	TokenBlockSequenceStart
	TokenBlockMappingStart
	TokenBlockEnd

	TokenFlowSequenceStart
	TokenFlowSequenceEnd
	TokenFlowMappingStart
	TokenFlowMappingEnd

	TokenBlockEntry
	TokenFlowEntry
	TokenKey
	TokenValue

	TokenAlias
	TokenAnchor
	TokenTag
	TokenScalar
)

var tokenNames = map[TokenType]string{
	TokenNone:               "NONE",
	TokenStreamStart:        "STREAM-START",
	TokenStreamEnd:          "STREAM-END",
	TokenVersionDirective:   "VERSION-DIRECTIVE",
	TokenTagDirective:       "TAG-DIRECTIVE",
	TokenDocumentStart:      "DOCUMENT-START",
	TokenDocumentEnd:        "DOCUMENT-END",
	TokenBlockSequenceStart: "BLOCK-SEQUENCE-START",
	TokenBlockMappingStart:  "BLOCK-MAPPING-START",
	TokenBlockEnd:           "BLOCK-END",
	TokenFlowSequenceStart:  "FLOW-SEQUENCE-START",
	TokenFlowSequenceEnd:    "FLOW-SEQUENCE-END",
	TokenFlowMappingStart:   "FLOW-MAPPING-START",
	TokenFlowMappingEnd:     "FLOW-MAPPING-END",
	TokenBlockEntry:         "BLOCK-ENTRY",
	TokenFlowEntry:          "FLOW-ENTRY",
	TokenKey:                "KEY",
	TokenValue:              "VALUE",
	TokenAlias:              "ALIAS",
	TokenAnchor:             "ANCHOR",
	TokenTag:                "TAG",
	TokenScalar:             "SCALAR",
}

func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "<unknown token>"
}

// Token is one lexical unit of the scanner's output stream. Only the
// fields relevant to Type are populated; see the comment on each field for
// which token kinds use it.
type Token struct {
	Type TokenType

	StartMark, EndMark Mark

	// Encoding carries the stream's detected byte encoding; set only on
	// TokenStreamStart.
	Encoding Encoding

	// Value holds the alias/anchor/scalar text, or a tag/tag-directive
	// handle, depending on Type.
	Value []byte

	// Suffix holds a tag's URI suffix; set only on TokenTag.
	Suffix []byte

	// Prefix holds a tag directive's URI prefix; set only on
	// TokenTagDirective.
	Prefix []byte

	// Style holds the scalar's surface style; set only on TokenScalar.
	Style ScalarStyle

	// Major and Minor hold the stream's declared YAML version; set only
	// on TokenVersionDirective.
	Major, Minor int8
}
