// Package parser turns a YAML byte stream into a stream of parse events.
//
// A Parser owns its own Scanner internally (tokenizing and parsing are
// driven from the same underlying engine, so the token FIFO and the parse
// grammar share buffering state) and exposes only the event-level
// contract: each Parse call yields the next event or an error.
package parser

import (
	"io"

	"github.com/abhinav/yamlcore/internal/core"
	"github.com/abhinav/yamlcore/internal/engine"
)

// Parser produces one event at a time from an io.Reader holding a YAML
// stream. The zero value is not usable; construct one with New.
type Parser struct {
	eng *engine.Engine
}

// New creates a Parser reading from r.
func New(r io.Reader) *Parser {
	return &Parser{eng: engine.New(r)}
}

// Parse returns the next event in the stream. It returns a StreamEnd event
// once, then io.EOF on every subsequent call.
func (p *Parser) Parse() (*core.Event, error) {
	if p.eng.State == engine.StateEnd {
		return nil, io.EOF
	}
	ev, err := p.eng.Parse()
	if err != nil {
		return nil, err
	}
	return ev, nil
}
