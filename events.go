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

package yaml

import (
	"github.com/abhinav/yamlcore/internal/core"
)

// Constructors for the events the Marshal/Encode path feeds the emitter.
// The loader never uses these; it consumes events the parser built.

func streamStartEvent() *core.Event {
	return &core.Event{
		Type:     core.EventStreamStart,
		Encoding: core.EncodingUTF8,
	}
}

func streamEndEvent() *core.Event {
	return &core.Event{
		Type: core.EventStreamEnd,
	}
}

func documentStartEvent() *core.Event {
	return &core.Event{
		Type:     core.EventDocumentStart,
		Implicit: true,
	}
}

func documentEndEvent() *core.Event {
	return &core.Event{
		Type:     core.EventDocumentEnd,
		Implicit: true,
	}
}

func aliasEvent(anchor []byte) *core.Event {
	return &core.Event{
		Type:   core.EventAlias,
		Anchor: anchor,
	}
}

func scalarEvent(anchor, tag, value []byte, plainImplicit, quotedImplicit bool, style core.ScalarStyle) *core.Event {
	return &core.Event{
		Type:           core.EventScalar,
		Anchor:         anchor,
		Tag:            tag,
		Value:          value,
		Implicit:       plainImplicit,
		QuotedImplicit: quotedImplicit,
		Style:          core.Style(style),
	}
}

func sequenceStartEvent(anchor, tag []byte, implicit bool, style core.SequenceStyle) *core.Event {
	return &core.Event{
		Type:     core.EventSequenceStart,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    core.Style(style),
	}
}

func sequenceEndEvent() *core.Event {
	return &core.Event{
		Type: core.EventSequenceEnd,
	}
}

func mappingStartEvent(anchor, tag []byte, implicit bool, style core.MappingStyle) *core.Event {
	return &core.Event{
		Type:     core.EventMappingStart,
		Anchor:   anchor,
		Tag:      tag,
		Implicit: implicit,
		Style:    core.Style(style),
	}
}

func mappingEndEvent() *core.Event {
	return &core.Event{
		Type: core.EventMappingEnd,
	}
}
