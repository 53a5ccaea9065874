// Package scanner turns a YAML byte stream into a stream of lexical tokens.
//
// A Scanner performs the unbounded simple-key lookahead, indentation
// tracking, and retroactive token insertion that the YAML grammar requires;
// see the internal/engine package for the implementation these methods
// delegate to.
package scanner

import (
	"io"

	"github.com/abhinav/yamlcore/internal/core"
	"github.com/abhinav/yamlcore/internal/engine"
)

// Scanner produces a token at a time from an io.Reader holding a YAML
// stream. The zero value is not usable; construct one with New.
type Scanner struct {
	eng *engine.Engine
}

// New creates a Scanner reading from r. The stream encoding (UTF-8,
// UTF-16LE, UTF-16BE) is auto-detected from a leading BOM, defaulting to
// UTF-8 if none is present.
func New(r io.Reader) *Scanner {
	return &Scanner{eng: engine.New(r)}
}

// Peek returns the next token without consuming it. Calling Peek
// repeatedly without an intervening Scan returns the same token.
func (s *Scanner) Peek() (*core.Token, error) {
	return s.eng.PeekToken()
}

// Scan consumes and returns the next token. It returns a StreamEndToken
// once, then io.EOF on every subsequent call.
func (s *Scanner) Scan() (*core.Token, error) {
	if s.eng.StreamEndProduced && s.eng.TokensParsed > 0 {
		return nil, io.EOF
	}
	tok, err := s.eng.PeekToken()
	if err != nil {
		return nil, err
	}
	cp := *tok
	s.eng.SkipToken()
	return &cp, nil
}
