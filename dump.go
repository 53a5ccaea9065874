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
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhinav/yamlcore/internal/core"
	"github.com/abhinav/yamlcore/internal/resolve"
)

// Node-tree dumping: the walk that turns an already-built *Node back into
// the event stream the emitter renders. The reflect-driven Marshal path in
// encode.go builds events directly; this path preserves everything a loaded
// tree carries (styles, anchors, comments) on the way back out.

func (e *Encoder) emitScalar(value, anchor, tag string, style core.ScalarStyle, head, line, foot, tail []byte) error {
	implicit := tag == ""
	if !implicit {
		tag = resolve.LongTag(tag)
	}
	event := scalarEvent([]byte(anchor), []byte(tag), []byte(value), implicit, implicit, style)
	event.HeadComment = head
	event.LineComment = line
	event.FootComment = foot
	event.TailComment = tail
	return e.emitter.Emit(event, false)
}

func (e *Encoder) encodeNode(node *Node, tail string) error {
	// Zero nodes behave as nil.
	if node.Kind == 0 && node.IsZero() {
		return e.encodeNil()
	}

	// If the tag was not explicitly requested, and dropping it won't change the
	// implicit tag of the value, don't include it in the presentation.
	var tag = node.Tag
	var stag = resolve.ShortTag(tag)
	var forceQuoting bool
	if tag != "" && node.Style&TaggedStyle == 0 {
		if node.Kind == ScalarNode {
			if stag == resolve.StrTag && node.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) != 0 {
				tag = ""
			} else {
				rtag, _, err := resolve.Resolve("", node.Value)
				if err != nil {
					return err
				}
				if rtag == stag {
					tag = ""
				} else if stag == resolve.StrTag {
					tag = ""
					forceQuoting = true
				}
			}
		} else {
			var rtag string
			switch node.Kind {
			case MappingNode:
				rtag = resolve.MapTag
			case SequenceNode:
				rtag = resolve.SeqTag
			}
			if rtag == stag {
				tag = ""
			}
		}
	}

	switch node.Kind {
	case DocumentNode:
		event := documentStartEvent()
		event.HeadComment = []byte(node.HeadComment)
		err := e.emitter.Emit(event, false)
		if err != nil {
			return err
		}
		for _, n := range node.Content {
			err = e.encodeNode(n, "")
			if err != nil {
				return err
			}
		}
		event = documentEndEvent()
		event.FootComment = []byte(node.FootComment)
		return e.emitter.Emit(event, false)

	case SequenceNode:
		style := core.SequenceStyleBlock
		if node.Style&FlowStyle != 0 {
			style = core.SequenceStyleFlow
		}
		event := sequenceStartEvent([]byte(node.Anchor), []byte(resolve.LongTag(tag)), tag == "", style)
		event.HeadComment = []byte(node.HeadComment)
		err := e.emitter.Emit(event, false)
		if err != nil {
			return err
		}
		for _, node := range node.Content {
			err := e.encodeNode(node, "")
			if err != nil {
				return err
			}
		}
		event = sequenceEndEvent()
		event.LineComment = []byte(node.LineComment)
		event.FootComment = []byte(node.FootComment)
		return e.emitter.Emit(event, false)

	case MappingNode:
		style := core.MappingStyleBlock
		if node.Style&FlowStyle != 0 {
			style = core.MappingStyleFlow
		}
		event := mappingStartEvent([]byte(node.Anchor), []byte(resolve.LongTag(tag)), tag == "", style)
		event.TailComment = []byte(tail)
		event.HeadComment = []byte(node.HeadComment)
		err := e.emitter.Emit(event, false)
		if err != nil {
			return err
		}

		// The tail logic below moves the foot comment of prior keys to the following key,
		// since the value for each key may be a nested structure and the foot needs to be
		// processed only the entirety of the value is streamed. The last tail is processed
		// with the mapping end event.
		var tl string
		for i := 0; i+1 < len(node.Content); i += 2 {
			k := node.Content[i]
			foot := k.FootComment
			if foot != "" {
				kopy := *k
				kopy.FootComment = ""
				k = &kopy
			}
			err = e.encodeNode(k, tl)
			if err != nil {
				return err
			}
			tl = foot

			v := node.Content[i+1]
			err = e.encodeNode(v, "")
			if err != nil {
				return err
			}
		}

		event = mappingEndEvent()
		event.TailComment = []byte(tl)
		event.LineComment = []byte(node.LineComment)
		event.FootComment = []byte(node.FootComment)
		return e.emitter.Emit(event, false)

	case AliasNode:
		event := aliasEvent([]byte(node.Value))
		event.HeadComment = []byte(node.HeadComment)
		event.LineComment = []byte(node.LineComment)
		event.FootComment = []byte(node.FootComment)
		return e.emitter.Emit(event, false)

	case ScalarNode:
		value := node.Value
		if !utf8.ValidString(value) {
			if stag == resolve.BinaryTag {
				return fmt.Errorf("yaml: explicitly tagged !!binary data must be base64-encoded")
			}
			if stag != "" {
				return fmt.Errorf("yaml: cannot marshal invalid UTF-8 data as %s", stag)
			}
			// It can't be encoded directly as YAML so use a binary tag
			// and encode it as base64.
			tag = resolve.BinaryTag
			value = resolve.EncodeBase64(value)
		}

		style := core.ScalarStylePlain
		switch {
		case node.Style&DoubleQuotedStyle != 0:
			style = core.ScalarStyleDoubleQuoted
		case node.Style&SingleQuotedStyle != 0:
			style = core.ScalarStyleSingleQuoted
		case node.Style&LiteralStyle != 0:
			style = core.ScalarStyleLiteral
		case node.Style&FoldedStyle != 0:
			style = core.ScalarStyleFolded
		case strings.Contains(value, "\n"):
			style = core.ScalarStyleLiteral
		case forceQuoting:
			style = core.ScalarStyleDoubleQuoted
		}

		return e.emitScalar(value, node.Anchor, tag, style, []byte(node.HeadComment), []byte(node.LineComment), []byte(node.FootComment), []byte(tail))
	default:
		return fmt.Errorf("yaml: cannot encode node with unknown kind %d", node.Kind)
	}
}
