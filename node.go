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
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/abhinav/yamlcore/internal/resolve"
)

// Lowercase short-tag aliases used throughout decode.go and encode.go.
const (
	nullTag    = resolve.NullTag
	boolTag    = resolve.BoolTag
	strTag     = resolve.StrTag
	intTag     = resolve.IntTag
	floatTag   = resolve.FloatTag
	timestampTag = resolve.TimestampTag
	seqTag     = resolve.SeqTag
	mapTag     = resolve.MapTag
	binaryTag  = resolve.BinaryTag
	mergeTag   = resolve.MergeTag
)

func shortTag(tag string) string {
	return resolve.ShortTag(tag)
}

func longTag(tag string) string {
	return resolve.LongTag(tag)
}

// resolveTag resolves a plain scalar's tag and value the way the scanner's
// implicit-typing rules do. It's a thin wrapper over the resolve package,
// named distinctly so it can't be confused with the imported package
// identifier in files that also import resolve directly.
func resolveTag(tag, in string) (rtag string, out interface{}, err error) {
	return resolve.Resolve(tag, in)
}

// Kind identifies the category a Node belongs to in the parsed document
// tree: a whole document, a sequence, a mapping, a scalar, or an alias
// referring back to some other node by anchor.
type Kind uint32

const (
	DocumentNode Kind = 1 << iota
	SequenceNode
	MappingNode
	ScalarNode
	AliasNode
)

// Style holds style bits describing how a Node was (or should be) written:
// tagged explicitly, quoted one way or another, block literal/folded, or
// flow. Bits may be combined.
type Style uint32

const (
	TaggedStyle Style = 1 << iota
	DoubleQuotedStyle
	SingleQuotedStyle
	LiteralStyle
	FoldedStyle
	FlowStyle
)

// Node represents a node in a YAML document tree. It's the result of
// parsing a document with a Loader, and the input accepted by a Dumper.
//
// Nodes of kind DocumentNode hold the document root as their single child
// in Content. Nodes of kind SequenceNode hold the sequence entries in
// Content. Nodes of kind MappingNode hold alternating key/value nodes in
// Content, flattened: Content[0] is the first key, Content[1] its value,
// and so on. Nodes of kind ScalarNode hold a decoded value in Value and
// carry no children. Nodes of kind AliasNode carry no Content of their
// own; Alias points at the node their anchor refers to.
type Node struct {
	Kind  Kind
	Style Style

	// Tag holds the YAML tag for the node, either the short !!foo form
	// resolved implicitly from the Value, or whatever tag the source
	// explicitly carried.
	Tag string

	// Value holds the scalar value as written, unescaped and unresolved.
	// It's empty for non-scalar nodes.
	Value string

	// Anchor holds the anchor name the node was declared under, if any.
	Anchor string

	// Alias holds the node an AliasNode refers to. It's a pointer into
	// the same tree, not a copy, so mutations to the aliased node are
	// visible through every alias referring to it.
	Alias *Node

	// Content holds the node's children, interpreted per Kind as
	// described above.
	Content []*Node

	HeadComment string
	LineComment string
	FootComment string

	Line   int
	Column int
}

// IsZero reports whether the node is the zero Node, i.e. carries no
// information at all. A Loader never produces these; decoders treat them
// as an absent (null) value.
func (n *Node) IsZero() bool {
	return n.Kind == 0 && n.Style == 0 && n.Tag == "" && n.Value == "" &&
		n.Anchor == "" && n.Alias == nil && n.Content == nil
}

// indicatedString reports whether the node is a scalar marked as a string,
// regardless of what its Value would otherwise resolve to: either its tag
// is !!str, or it carries no explicit tag and its style is quoted, literal
// or folded. An explicit non-string tag wins over the style.
func (n *Node) indicatedString() bool {
	return n.Kind == ScalarNode &&
		(shortTag(n.Tag) == strTag ||
			(n.Tag == "" || n.Tag == "!") && n.Style&(SingleQuotedStyle|DoubleQuotedStyle|LiteralStyle|FoldedStyle) != 0)
}

// SetString is a convenience method that sets the node to a string value
// and defines its tag as !!str or !!binary, as appropriate.
func (n *Node) SetString(s string) {
	n.Kind = ScalarNode
	if utf8.ValidString(s) {
		n.Value = s
		n.Tag = strTag
	} else {
		n.Value = resolve.EncodeBase64(s)
		n.Tag = binaryTag
	}
	if strings.Contains(n.Value, "\n") {
		n.Style = LiteralStyle
	}
}

// ShortTag returns the short !!foo form of the node's effective tag,
// resolving an implicit tag from Kind/Value when the node carries none.
func (n *Node) ShortTag() string {
	if n.indicatedString() {
		return strTag
	}
	if n.Tag == "" {
		switch n.Kind {
		case MappingNode:
			return mapTag
		case SequenceNode:
			return seqTag
		case ScalarNode:
			tag, _, _ := resolveTag("", n.Value)
			return tag
		case 0:
			// Use the zero value as null.
			if n.IsZero() {
				return nullTag
			}
		}
		return ""
	}
	return shortTag(n.Tag)
}

// LongTag returns the fully qualified tag:yaml.org,2002:foo form of the
// node's effective tag.
func (n *Node) LongTag() string {
	return longTag(n.ShortTag())
}

// Decode unmarshals the node into out, following the same conventions as
// Unmarshal.
func (n *Node) Decode(out interface{}) (err error) {
	defer handleErr(&err)
	d := newDecoder()
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("yaml: Decode requires a non-nil pointer")
	}
	good, uerr := d.decode(n, rv.Elem())
	if uerr != nil {
		return uerr
	}
	if !good && len(d.typeErrors) == 0 {
		return fmt.Errorf("yaml: could not decode node into %s", rv.Type())
	}
	if len(d.typeErrors) > 0 {
		return &TypeError{d.typeErrors}
	}
	return nil
}

// Encode sets the node's content to the YAML encoding of v, following the
// same conventions as Marshal.
func (n *Node) Encode(v interface{}) error {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	var doc Node
	if err := Unmarshal(buf.Bytes(), &doc); err != nil {
		return err
	}
	if len(doc.Content) == 1 {
		*n = *doc.Content[0]
	} else {
		*n = doc
	}
	return nil
}
