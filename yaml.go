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

// Package yaml implements YAML support for the Go language, from the
// Scanner/Parser/Emitter core through a document tree (Node) and a
// reflection-based Marshal/Unmarshal convenience layer for Go values.
package yaml

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/xerrors"
)

// validate is shared across Decoders that opt into struct-tag validation;
// validator.Validate is safe for concurrent use once constructed.
var validate = validator.New()

// Marshaler is implemented by types that can marshal themselves into a
// YAML value, represented by an arbitrary Go value or a *Node.
type Marshaler interface {
	MarshalYAML() (interface{}, error)
}

// Unmarshaler is implemented by types that can unmarshal a YAML
// description of themselves from a *Node.
type Unmarshaler interface {
	UnmarshalYAML(value *Node) error
}

// legacyUnmarshaler is the v2-era unmarshal hook, kept for types ported
// forward from it: it receives a callback rather than a node.
type legacyUnmarshaler interface {
	UnmarshalYAML(unmarshal func(interface{}) error) error
}

// TypeError is returned by Unmarshal when one or more fields in the YAML
// document cannot be properly decoded into the requested types. When this
// error is returned, the value is still unmarshaled partially.
type TypeError struct {
	Errors []string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("yaml: unmarshal errors:\n  %s", strings.Join(e.Errors, "\n  "))
}

// handleErr recovers a panic(err) raised by code below Unmarshal/Marshal
// (getStructInfo rejects malformed tags this way) and turns it into a
// returned error instead of propagating the panic.
func handleErr(err *error) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*err = e
			return
		}
		panic(r)
	}
}

// Unmarshal decodes the first document found within the in byte slice and
// assigns decoded values into the out value.
//
// Maps and pointers (to a struct, string, int, etc) are accepted as out
// values. If an internal pointer within a struct is not initialized, the
// yaml package will initialize it if necessary for unmarshalling the
// provided data. The out parameter must not be nil.
//
// The type of the decoded values and their values are inferred by
// inspecting the Kind of the struct fields, or the map key/value types for
// maps.
//
// Struct fields are only unmarshalled if they are exported (have an
// upper case first letter), and are unmarshalled using the field name
// lowercased as the default key. Custom keys may be defined via the
// "yaml" name in the field tag: the content preceding the first comma is
// used as the key, and the following comma-separated options are used to
// tweak the marshalling process, mirroring encoding/json's conventions
// (omitempty, flow, inline).
func Unmarshal(in []byte, out interface{}) (err error) {
	return unmarshal(in, out, false)
}

func unmarshal(in []byte, out interface{}, strict bool) (err error) {
	defer handleErr(&err)
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return xerrors.Errorf("yaml: Unmarshal requires a non-nil pointer")
	}

	p := newLoader(in)
	node, perr := p.parse()
	if perr != nil {
		return perr
	}
	if node == nil {
		return nil
	}

	d := newDecoder()
	d.uniqueKeys = strict
	good, uerr := d.decode(node, rv.Elem())
	if uerr != nil {
		return uerr
	}
	if len(d.typeErrors) > 0 {
		return &TypeError{d.typeErrors}
	}
	if !good {
		return xerrors.Errorf("yaml: could not unmarshal into %s", rv.Type())
	}
	return nil
}

// Marshal serializes the value provided into a YAML document. The
// structure of the generated document will reflect the structure of the
// value itself. Maps and pointers (to struct, string, int, etc) are
// accepted as the in value.
//
// Struct fields are only marshalled if they are exported (have an upper
// case first letter), and are marshalled using the field name lowercased
// as the default key, customizable via the same "yaml" tag conventions
// documented for Unmarshal.
func Marshal(in interface{}) (out []byte, err error) {
	defer handleErr(&err)
	var buf bytes.Buffer
	e := NewEncoder(&buf)
	if err := e.Encode(in); err != nil {
		return nil, err
	}
	if err := e.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decoder reads and decodes YAML documents from an input stream, one
// document per Decode call.
type Decoder struct {
	loader      *loader
	knownFields bool
	validate    bool
}

// NewDecoder returns a new decoder that reads from r.
//
// The decoder introduces its own buffering and may read data from r
// beyond the YAML values requested.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{loader: newLoaderFromReader(r)}
}

// KnownFields ensures that the keys in decoded mappings exist as fields
// in the struct being decoded into, and that there's no duplicate keys
// within a mapping, returning an error otherwise.
func (dec *Decoder) KnownFields(enable bool) {
	dec.knownFields = enable
}

// Validate enables running go-playground/validator's struct-tag
// validation against every struct Decode populates, after a successful
// YAML-level decode. It's a no-op for non-struct targets.
func (dec *Decoder) Validate(enable bool) {
	dec.validate = enable
}

// Decode reads the next YAML-encoded value from its input and stores it
// in the value pointed to by out. It returns io.EOF if there are no more
// documents to unmarshal.
func (dec *Decoder) Decode(out interface{}) (err error) {
	defer handleErr(&err)
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return xerrors.Errorf("yaml: Decode requires a non-nil pointer")
	}

	node, perr := dec.loader.parse()
	if perr != nil {
		return perr
	}
	if node == nil {
		return io.EOF
	}

	d := newDecoder()
	d.knownFields = dec.knownFields
	d.uniqueKeys = true
	good, uerr := d.decode(node, rv.Elem())
	if uerr != nil {
		return uerr
	}
	if len(d.typeErrors) > 0 {
		return &TypeError{d.typeErrors}
	}
	if !good {
		return xerrors.Errorf("yaml: could not decode into %s", rv.Type())
	}

	if dec.validate && rv.Elem().Kind() == reflect.Struct {
		if verr := validate.Struct(out); verr != nil {
			return xerrors.Errorf("yaml: validation: %w", verr)
		}
	}
	return nil
}
