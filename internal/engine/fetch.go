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

// Token fetchers: one fetch* function per token kind, dispatched by
// fetchNextToken based on the next character(s) in the buffer.

import "github.com/abhinav/yamlcore/internal/core"

// appendMarker consumes width characters and appends a content-free token
// of the given type spanning them.
func (p *Engine) appendMarker(typ core.TokenType, width int) {
	start := p.Mark
	for i := 0; i < width; i++ {
		p.skip()
	}
	p.insertToken(-1, &core.Token{Type: typ, StartMark: start, EndMark: p.Mark})
}

// appendScanned pushes a token produced by one of the scan* routines,
// propagating its error. Callers pass the scan call directly as the
// arguments.
func (p *Engine) appendScanned(token *core.Token, err error) error {
	if err != nil {
		return err
	}
	p.insertToken(-1, token)
	return nil
}

// beginNodal records the upcoming token as a simple-key candidate and
// forbids a new candidate immediately after it. Anchors, aliases, tags,
// and quoted and plain scalars all open this way.
func (p *Engine) beginNodal() error {
	if err := p.saveSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = false
	return nil
}

func (p *Engine) fetchStreamStart() {
	p.Indent = -1
	p.SimpleKeys = append(p.SimpleKeys, core.SimpleKey{})
	p.SimpleKeysByTok = make(map[int]int)
	p.SimpleKeyAllowed = true
	p.StreamStartProduced = true

	p.insertToken(-1, &core.Token{
		Type:      core.TokenStreamStart,
		StartMark: p.Mark,
		EndMark:   p.Mark,
		Encoding:  p.Encoding,
	})
}

func (p *Engine) fetchStreamEnd() error {
	// The stream end always lands on a fresh line.
	if p.Mark.Column != 0 {
		p.Mark.Column = 0
		p.Mark.Line++
	}
	p.unrollIndent(-1, p.Mark)
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = false
	p.appendMarker(core.TokenStreamEnd, 0)
	return nil
}

func (p *Engine) fetchDirective() error {
	p.unrollIndent(-1, p.Mark)
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = false
	return p.appendScanned(p.scanDirective())
}

// fetchDocumentIndicator handles "---" and "..." at column 0.
func (p *Engine) fetchDocumentIndicator(typ core.TokenType) error {
	p.unrollIndent(-1, p.Mark)
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = false
	p.appendMarker(typ, 3)
	return nil
}

func (p *Engine) fetchFlowCollectionStart(typ core.TokenType) error {
	// '[' and '{' may themselves open a simple key, as in "[a]: b".
	if err := p.saveSimpleKey(); err != nil {
		return err
	}
	if err := p.increaseFlowLevel(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = true
	p.appendMarker(typ, 1)
	return nil
}

func (p *Engine) fetchFlowCollectionEnd(typ core.TokenType) error {
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.decreaseFlowLevel()
	p.SimpleKeyAllowed = false
	p.appendMarker(typ, 1)
	return nil
}

func (p *Engine) fetchFlowEntry() error {
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = true
	p.appendMarker(core.TokenFlowEntry, 1)
	return nil
}

func (p *Engine) fetchBlockEntry() error {
	if p.FlowLevel == 0 {
		if !p.SimpleKeyAllowed {
			return p.newScannerError(p.Mark, "block sequence entries are not allowed in this context")
		}
		// Open the block sequence at this column if one isn't open yet.
		if err := p.rollIndent(p.Mark.Column, -1, core.TokenBlockSequenceStart, p.Mark); err != nil {
			return err
		}
	}
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = true
	p.appendMarker(core.TokenBlockEntry, 1)
	return nil
}

// fetchKey handles an explicit '?' key indicator.
func (p *Engine) fetchKey() error {
	if p.FlowLevel == 0 {
		if !p.SimpleKeyAllowed {
			return p.newScannerError(p.Mark, "mapping keys are not allowed in this context")
		}
		if err := p.rollIndent(p.Mark.Column, -1, core.TokenBlockMappingStart, p.Mark); err != nil {
			return err
		}
	}
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeyAllowed = p.FlowLevel == 0
	p.appendMarker(core.TokenKey, 1)
	return nil
}

// fetchValue handles ':'. If a simple-key candidate is live, this is the
// moment it becomes real: a KEY token is spliced in at the candidate's
// recorded queue position, possibly opening a block mapping around it.
func (p *Engine) fetchValue() error {
	simpleKey := &p.SimpleKeys[len(p.SimpleKeys)-1]
	valid, err := p.simpleKeyIsValid(simpleKey)
	if err != nil {
		return err
	}
	if valid {
		p.insertToken(simpleKey.TokenNumber-p.TokensParsed, &core.Token{
			Type:      core.TokenKey,
			StartMark: simpleKey.Mark,
			EndMark:   simpleKey.Mark,
		})
		if err := p.rollIndent(simpleKey.Mark.Column, simpleKey.TokenNumber, core.TokenBlockMappingStart, simpleKey.Mark); err != nil {
			return err
		}
		simpleKey.Possible = false
		delete(p.SimpleKeysByTok, simpleKey.TokenNumber)
		// One simple key cannot directly follow another.
		p.SimpleKeyAllowed = false
	} else {
		// The ':' follows an explicit '?' key instead.
		if p.FlowLevel == 0 {
			if !p.SimpleKeyAllowed {
				return p.newScannerError(p.Mark, "mapping values are not allowed in this context")
			}
			if err := p.rollIndent(p.Mark.Column, -1, core.TokenBlockMappingStart, p.Mark); err != nil {
				return err
			}
		}
		p.SimpleKeyAllowed = p.FlowLevel == 0
	}
	p.appendMarker(core.TokenValue, 1)
	return nil
}

func (p *Engine) fetchAnchor(typ core.TokenType) error {
	if err := p.beginNodal(); err != nil {
		return err
	}
	return p.appendScanned(p.scanAnchor(typ))
}

func (p *Engine) fetchTag() error {
	if err := p.beginNodal(); err != nil {
		return err
	}
	return p.appendScanned(p.scanTag())
}

func (p *Engine) fetchBlockScalar(literal bool) error {
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	// The line after a block scalar may open a new simple key.
	p.SimpleKeyAllowed = true
	return p.appendScanned(p.scanBlockScalar(literal))
}

func (p *Engine) fetchFlowScalar(single bool) error {
	if err := p.beginNodal(); err != nil {
		return err
	}
	return p.appendScanned(p.scanFlowScalar(single))
}

func (p *Engine) fetchPlainScalar() error {
	if err := p.beginNodal(); err != nil {
		return err
	}
	return p.appendScanned(p.scanPlainScalar())
}
