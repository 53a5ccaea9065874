//
// Copyright (c) 2011-2019 Canonical Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yaml

import (
	"bytes"
	"fmt"
	"io"

	"github.com/abhinav/yamlcore/internal/core"
	"github.com/abhinav/yamlcore/parser"
)

// A loader composes a Node tree from the parser's event stream. Anchors
// are registered as their defining node is built, and an alias node points
// at the defined *Node itself, so aliased subtrees are shared rather than
// copied and reference equality survives the trip into the tree.

type loader struct {
	src      *parser.Parser
	event    *core.Event
	doc      *Node
	anchors  map[string]*Node
	doneInit bool
	textless bool
}

func newLoader(b []byte) *loader {
	if len(b) == 0 {
		b = []byte{'\n'}
	}
	return &loader{src: parser.New(bytes.NewReader(b))}
}

func newLoaderFromReader(r io.Reader) *loader {
	return &loader{src: parser.New(r)}
}

func (p *loader) init() error {
	if p.doneInit {
		return nil
	}
	p.anchors = make(map[string]*Node)
	err := p.expect(core.EventStreamStart)
	if err != nil {
		return err
	}
	p.doneInit = true
	return nil
}

// expect consumes an event from the event stream and
// checks that it's of the expected type.
func (p *loader) expect(t core.EventType) error {
	if p.event == nil {
		ev, err := p.fetch()
		if err != nil {
			return err
		}
		p.event = ev
	}
	if p.event.Type == core.EventStreamEnd && t != core.EventStreamEnd {
		return fmt.Errorf("yaml: attempted to go past the end of stream; corrupted value?")
	}
	if p.event.Type != t {
		return fmt.Errorf("yaml: expected %s event but got %s", t, p.event.Type)
	}
	p.event = nil
	return nil
}

// peek peeks at the next event in the event stream,
// puts the results into p.event and returns the event type.
func (p *loader) peek() (core.EventType, error) {
	if p.event != nil {
		return p.event.Type, nil
	}
	ev, err := p.fetch()
	if err != nil {
		return 0, err
	}
	p.event = ev
	return ev.Type, nil
}

func (p *loader) fetch() (*core.Event, error) {
	ev, err := p.src.Parse()
	if err != nil {
		if err == io.EOF {
			return &core.Event{Type: core.EventStreamEnd}, nil
		}
		// Engine errors already carry the yaml: prefix and position.
		return nil, err
	}
	return ev, nil
}

func (p *loader) anchor(n *Node, anchor []byte) {
	if anchor != nil {
		n.Anchor = string(anchor)
		p.anchors[n.Anchor] = n
	}
}

func (p *loader) parse() (*Node, error) {
	err := p.init()
	if err != nil {
		return nil, err
	}
	nextEvent, err := p.peek()
	if err != nil {
		return nil, err
	}
	switch nextEvent {
	case core.EventScalar:
		return p.scalar()
	case core.EventAlias:
		return p.alias()
	case core.EventMappingStart:
		return p.mapping()
	case core.EventSequenceStart:
		return p.sequence()
	case core.EventDocumentStart:
		return p.document()
	case core.EventStreamEnd:
		// Happens when attempting to decode an empty buffer.
		return nil, nil
	case core.EventTailComment:
		panic("internal error: unexpected tail comment event (please report)")
	default:
		panic("internal error: attempted to parse unknown event (please report): " + p.event.Type.String())
	}
}

func (p *loader) node(kind Kind, defaultTag, tag, value string) (*Node, error) {
	var style Style
	var err error
	if tag != "" && tag != "!" {
		tag = shortTag(tag)
		style = TaggedStyle
	} else if defaultTag != "" {
		tag = defaultTag
	} else if kind == ScalarNode {
		tag, _, err = resolveTag("", value)
		if err != nil {
			return nil, err
		}
	}
	n := &Node{
		Kind:  kind,
		Tag:   tag,
		Value: value,
		Style: style,
	}
	if !p.textless {
		n.Line = p.event.StartMark.Line + 1
		n.Column = p.event.StartMark.Column + 1
		n.HeadComment = string(p.event.HeadComment)
		n.LineComment = string(p.event.LineComment)
		n.FootComment = string(p.event.FootComment)
	}
	return n, nil
}

func (p *loader) parseChild(parent *Node) (*Node, error) {
	child, err := p.parse()
	if err != nil {
		return nil, err
	}
	parent.Content = append(parent.Content, child)
	return child, nil
}

func (p *loader) document() (*Node, error) {
	n, err := p.node(DocumentNode, "", "", "")
	if err != nil {
		return nil, err
	}
	p.doc = n
	err = p.expect(core.EventDocumentStart)
	if err != nil {
		return nil, err
	}
	_, err = p.parseChild(n)
	if err != nil {
		return nil, err
	}
	nextEvent, err := p.peek()
	if err != nil {
		return nil, err
	}
	if nextEvent == core.EventDocumentEnd {
		n.FootComment = string(p.event.FootComment)
	}
	err = p.expect(core.EventDocumentEnd)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *loader) alias() (*Node, error) {
	n, err := p.node(AliasNode, "", "", string(p.event.Anchor))
	if err != nil {
		return nil, err
	}
	n.Alias = p.anchors[n.Value]
	if n.Alias == nil {
		return nil, fmt.Errorf("yaml: unknown anchor '%s' referenced", n.Value)
	}
	err = p.expect(core.EventAlias)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *loader) scalar() (*Node, error) {
	var parsedStyle = p.event.ScalarStyle()
	var nodeStyle Style
	switch {
	case parsedStyle&core.ScalarStyleDoubleQuoted != 0:
		nodeStyle = DoubleQuotedStyle
	case parsedStyle&core.ScalarStyleSingleQuoted != 0:
		nodeStyle = SingleQuotedStyle
	case parsedStyle&core.ScalarStyleLiteral != 0:
		nodeStyle = LiteralStyle
	case parsedStyle&core.ScalarStyleFolded != 0:
		nodeStyle = FoldedStyle
	}
	var nodeValue = string(p.event.Value)
	var nodeTag = string(p.event.Tag)
	var defaultTag string
	if nodeStyle == 0 {
		if nodeValue == "<<" {
			defaultTag = mergeTag
		}
	} else {
		defaultTag = strTag
	}
	n, err := p.node(ScalarNode, defaultTag, nodeTag, nodeValue)
	if err != nil {
		return nil, err
	}
	n.Style |= nodeStyle
	p.anchor(n, p.event.Anchor)
	err = p.expect(core.EventScalar)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *loader) sequence() (*Node, error) {
	n, err := p.node(SequenceNode, seqTag, string(p.event.Tag), "")
	if err != nil {
		return nil, err
	}
	if p.event.SequenceStyle()&core.SequenceStyleFlow != 0 {
		n.Style |= FlowStyle
	}
	p.anchor(n, p.event.Anchor)
	err = p.expect(core.EventSequenceStart)
	if err != nil {
		return nil, err
	}
	for {
		nextEvent, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nextEvent == core.EventSequenceEnd {
			break
		}
		_, err = p.parseChild(n)
		if err != nil {
			return nil, err
		}
	}
	n.LineComment = string(p.event.LineComment)
	n.FootComment = string(p.event.FootComment)
	err = p.expect(core.EventSequenceEnd)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (p *loader) mapping() (*Node, error) {
	n, err := p.node(MappingNode, mapTag, string(p.event.Tag), "")
	if err != nil {
		return nil, err
	}
	block := true
	if p.event.MappingStyle()&core.MappingStyleFlow != 0 {
		block = false
		n.Style |= FlowStyle
	}
	p.anchor(n, p.event.Anchor)
	err = p.expect(core.EventMappingStart)
	if err != nil {
		return nil, err
	}
	for {
		nextEvent, err := p.peek()
		if err != nil {
			return nil, err
		}
		if nextEvent == core.EventMappingEnd {
			break
		}

		k, err := p.parseChild(n)
		if err != nil {
			return nil, err
		}
		if block && k.FootComment != "" {
			// Must be a foot comment for the prior value when being dedented.
			if len(n.Content) > 2 {
				n.Content[len(n.Content)-3].FootComment = k.FootComment
				k.FootComment = ""
			}
		}
		v, err := p.parseChild(n)
		if err != nil {
			return nil, err
		}
		if k.FootComment == "" && v.FootComment != "" {
			k.FootComment = v.FootComment
			v.FootComment = ""
		}
		nextEvent, err = p.peek()
		if err != nil {
			return nil, err
		}
		if nextEvent == core.EventTailComment {
			if k.FootComment == "" {
				k.FootComment = string(p.event.FootComment)
			}
			err = p.expect(core.EventTailComment)
			if err != nil {
				return nil, err
			}
		}
	}
	n.LineComment = string(p.event.LineComment)
	n.FootComment = string(p.event.FootComment)
	if n.Style&FlowStyle == 0 && n.FootComment != "" && len(n.Content) > 1 {
		n.Content[len(n.Content)-2].FootComment = n.FootComment
		n.FootComment = ""
	}
	err = p.expect(core.EventMappingEnd)
	if err != nil {
		return nil, err
	}
	return n, nil
}
