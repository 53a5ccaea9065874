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

// Simple-key bookkeeping: tracking candidate "key: value" starts across
// the token stream, and the indentation stack that drives BLOCK-SEQUENCE /
// BLOCK-MAPPING / BLOCK-END token emission.

import (
	"fmt"

	"github.com/abhinav/yamlcore/internal/core"
)

// simpleKeyIsValid reports whether a candidate may still become a key.
// YAML 1.2 bounds the lookahead: the ':' must appear within 1024
// characters of the key's start, on the same line. A required candidate
// that expires is a scan error; an optional one just lapses.
func (p *Engine) simpleKeyIsValid(simpleKey *core.SimpleKey) (bool, error) {
	if !simpleKey.Possible {
		return false, nil
	}
	if simpleKey.Mark.Line >= p.Mark.Line && simpleKey.Mark.Index+1024 >= p.Mark.Index {
		return true, nil
	}
	if simpleKey.Required {
		return false, p.newScannerError(simpleKey.Mark, "could not find expected ':'")
	}
	simpleKey.Possible = false
	return false, nil
}

// saveSimpleKey records the current position as this flow level's key
// candidate, displacing any previous candidate. A key is required here
// when the position sits exactly at the block indentation column.
func (p *Engine) saveSimpleKey() error {
	if !p.SimpleKeyAllowed {
		return nil
	}
	simpleKey := core.SimpleKey{
		Possible:    true,
		Required:    p.FlowLevel == 0 && p.Indent == p.Mark.Column,
		TokenNumber: p.TokensParsed + (len(p.Tokens) - p.TokensHead),
		Mark:        p.Mark,
	}
	if err := p.removeSimpleKey(); err != nil {
		return err
	}
	p.SimpleKeys[len(p.SimpleKeys)-1] = simpleKey
	p.SimpleKeysByTok[simpleKey.TokenNumber] = len(p.SimpleKeys) - 1
	return nil
}

// removeSimpleKey withdraws the current flow level's candidate, failing
// the scan if the grammar required one here.
func (p *Engine) removeSimpleKey() error {
	simpleKey := &p.SimpleKeys[len(p.SimpleKeys)-1]
	if !simpleKey.Possible {
		return nil
	}
	if simpleKey.Required {
		return p.newScannerError(simpleKey.Mark, "could not find expected ':'")
	}
	simpleKey.Possible = false
	delete(p.SimpleKeysByTok, simpleKey.TokenNumber)
	return nil
}

// maxFlowLevel caps Engine.FlowLevel, the nesting depth of unclosed
// '[' and '{' indicators.
const maxFlowLevel = 10000

// increaseFlowLevel enters a '['/'{' and opens a fresh simple-key slot
// for the new level.
func (p *Engine) increaseFlowLevel() error {
	p.SimpleKeys = append(p.SimpleKeys, core.SimpleKey{
		TokenNumber: p.TokensParsed + (len(p.Tokens) - p.TokensHead),
		Mark:        p.Mark,
	})
	p.FlowLevel++
	if p.FlowLevel > maxFlowLevel {
		return p.newScannerError(p.SimpleKeys[len(p.SimpleKeys)-1].Mark, fmt.Sprintf("exceeded max depth of %d", maxFlowLevel))
	}
	return nil
}

// decreaseFlowLevel leaves a ']'/'}', discarding the level's key slot.
func (p *Engine) decreaseFlowLevel() {
	if p.FlowLevel == 0 {
		return
	}
	p.FlowLevel--
	last := len(p.SimpleKeys) - 1
	delete(p.SimpleKeysByTok, p.SimpleKeys[last].TokenNumber)
	p.SimpleKeys = p.SimpleKeys[:last]
}

// maxIndents caps the depth of Engine.Indents, the stack of active
// block-indentation levels.
const maxIndents = 10000

// rollIndent opens a block collection when column is deeper than the
// current indent: the old indent is stacked, and the given start token is
// inserted at queue position number (or appended when number is -1). Flow
// context suspends indentation tracking entirely.
func (p *Engine) rollIndent(column, number int, typ core.TokenType, mark core.Mark) error {
	if p.FlowLevel > 0 || p.Indent >= column {
		return nil
	}

	p.Indents = append(p.Indents, p.Indent)
	p.Indent = column
	if len(p.Indents) > maxIndents {
		return p.newScannerError(p.SimpleKeys[len(p.SimpleKeys)-1].Mark, fmt.Sprintf("exceeded max depth of %d", maxIndents))
	}

	if number > -1 {
		number -= p.TokensParsed
	}
	p.insertToken(number, &core.Token{Type: typ, StartMark: mark, EndMark: mark})
	return nil
}

// unrollIndent closes block collections until the indent is at or above
// column, appending one BLOCK-END per popped level.
func (p *Engine) unrollIndent(column int, scanMark core.Mark) {
	if p.FlowLevel > 0 {
		return
	}

	blockMark := scanMark
	blockMark.Index--

	for p.Indent > column {
		// Pull the end token back before any foot comments that belong to
		// the block being closed: search backwards through comments that
		// sit at this block's indent.
		stopIndex := blockMark.Index
		for i := len(p.Comments) - 1; i >= 0; i-- {
			comment := &p.Comments[i]

			if comment.EndMark.Index < stopIndex {
				// Beyond the start of the comment/whitespace scan there
				// may be other content; stop searching.
				break
			}
			if comment.StartMark.Column == p.Indent+1 {
				// A match; but an earlier comment may sit at the same
				// indent, so keep looking.
				blockMark = comment.StartMark
			}

			// The scan is safe to continue while consecutive comments
			// touch, with nothing in between.
			stopIndex = comment.ScanMark.Index
		}

		p.insertToken(-1, &core.Token{
			Type:      core.TokenBlockEnd,
			StartMark: blockMark,
			EndMark:   blockMark,
		})

		p.Indent = p.Indents[len(p.Indents)-1]
		p.Indents = p.Indents[:len(p.Indents)-1]
	}
}
