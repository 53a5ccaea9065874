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

// Package resolve implements the YAML 1.1 core schema: mapping a plain
// scalar's text to one of the well-known tags and, where applicable, a
// decoded Go value, plus the short (`!!foo`)/long (`tag:yaml.org,2002:foo`)
// tag-form conversions the emitter and Node.Decode/Encode both need.
package resolve

import (
	"strings"
	"sync"
)

// The short forms of the core schema's tags. Node and the emitter compare
// against these directly; ShortTag/LongTag convert to/from the long form a
// parsed document actually carries on the wire.
const (
	NullTag      = "!!null"
	BoolTag      = "!!bool"
	StrTag       = "!!str"
	IntTag       = "!!int"
	FloatTag     = "!!float"
	TimestampTag = "!!timestamp"
	SeqTag       = "!!seq"
	MapTag       = "!!map"
	BinaryTag    = "!!binary"
	MergeTag     = "!!merge"
)

const longTagPrefix = "tag:yaml.org,2002:"

var (
	tagFormMu  sync.RWMutex
	longForms  = make(map[string]string)
	shortForms = make(map[string]string)
)

// ShortTag converts a long `tag:yaml.org,2002:foo` tag to its `!!foo` short
// form. Tags outside the yaml.org namespace pass through unchanged.
func ShortTag(tag string) string {
	if !strings.HasPrefix(tag, longTagPrefix) {
		return tag
	}
	tagFormMu.RLock()
	s, ok := shortForms[tag]
	tagFormMu.RUnlock()
	if ok {
		return s
	}
	s = "!!" + tag[len(longTagPrefix):]
	tagFormMu.Lock()
	shortForms[tag] = s
	tagFormMu.Unlock()
	return s
}

// LongTag converts a short `!!foo` tag to its `tag:yaml.org,2002:foo` long
// form.
func LongTag(tag string) string {
	if !strings.HasPrefix(tag, "!!") {
		return tag
	}
	tagFormMu.RLock()
	l, ok := longForms[tag]
	tagFormMu.RUnlock()
	if ok {
		return l
	}
	l = longTagPrefix + tag[2:]
	tagFormMu.Lock()
	longForms[tag] = l
	tagFormMu.Unlock()
	return l
}

// resolvableTag reports whether Resolve has a schema rule for tag at all;
// anything else (including a caller-supplied custom tag) passes through
// Resolve untouched.
func resolvableTag(tag string) bool {
	switch tag {
	case "", StrTag, BoolTag, IntTag, FloatTag, NullTag, TimestampTag:
		return true
	}
	return false
}
