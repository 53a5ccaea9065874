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

package resolve

import (
	"fmt"
	"math"
	"sync"
)

// scalarClass classifies the first byte of a plain scalar so Resolve can
// skip straight to the family of rules (word lookup, float, int/timestamp)
// that might match, instead of trying every rule against every scalar.
type scalarClass byte

const (
	classNone  scalarClass = 0
	classSign  scalarClass = 'S' // leading + or -
	classDigit scalarClass = 'D'
	classWord  scalarClass = 'M' // one of the literal words in wordTable
	classFloat scalarClass = '.' // leading '.', e.g. ".inf", ".5"
)

var classTable [256]scalarClass

type wordValue struct {
	value interface{}
	tag   string
}

var wordTable = make(map[string]wordValue)

var initOnce sync.Once

func initTables() {
	classTable['+'] = classSign
	classTable['-'] = classSign
	for c := '0'; c <= '9'; c++ {
		classTable[c] = classDigit
	}
	for _, c := range "yYnNtTfFoO~" {
		classTable[c] = classWord
	}
	classTable['.'] = classFloat

	words := []struct {
		value interface{}
		tag   string
		forms []string
	}{
		{value: true, tag: BoolTag, forms: []string{"true", "True", "TRUE"}},
		{value: false, tag: BoolTag, forms: []string{"false", "False", "FALSE"}},
		{tag: NullTag, forms: []string{"", "~", "null", "Null", "NULL"}},
		{value: math.NaN(), tag: FloatTag, forms: []string{".nan", ".NaN", ".NAN"}},
		{value: math.Inf(+1), tag: FloatTag, forms: []string{".inf", ".Inf", ".INF"}},
		{value: math.Inf(+1), tag: FloatTag, forms: []string{"+.inf", "+.Inf", "+.INF"}},
		{value: math.Inf(-1), tag: FloatTag, forms: []string{"-.inf", "-.Inf", "-.INF"}},
		// Unreachable in practice: classTable has no entry for '<', so
		// Resolve never gets as far as this lookup for "<<". Kept for
		// parity with the upstream table this was adapted from; actual
		// merge-key handling lives in the loader, which matches the
		// literal "<<" scalar value directly (see decode.go).
		{value: "<<", tag: MergeTag, forms: []string{"<<"}},
	}
	for _, w := range words {
		for _, form := range w.forms {
			wordTable[form] = wordValue{value: w.value, tag: w.tag}
		}
	}
}

// Resolve maps the plain text of a scalar tagged tag (possibly "" for an
// implicit tag) to a concrete schema tag and decoded Go value. Quoted
// scalars should pass StrTag or BinaryTag explicitly since those always
// resolve to themselves regardless of content.
func Resolve(tag, in string) (rtag string, out interface{}, errOut error) {
	initOnce.Do(initTables)

	tag = ShortTag(tag)
	if !resolvableTag(tag) {
		return tag, in, nil
	}

	defer func() {
		if errOut != nil || acceptResolved(tag, rtag) {
			return
		}
		if tag == FloatTag && rtag == IntTag {
			if v, ok := widenToFloat(out); ok {
				rtag, out = FloatTag, v
				return
			}
		}
		errOut = fmt.Errorf("yaml: cannot decode %s `%s` as a %s", ShortTag(rtag), in, ShortTag(tag))
	}()

	if tag == StrTag || tag == BinaryTag {
		return StrTag, in, nil
	}

	class := classWord
	if in != "" {
		class = classTable[in[0]]
	}
	if class == classNone {
		return StrTag, in, nil
	}

	if word, ok := wordTable[in]; ok {
		return word.tag, word.value, nil
	}

	switch class {
	case classWord:
		// Already checked wordTable above; nothing else starts with
		// one of these letters.
	case classFloat:
		if v, ok := parseFloat(in); ok {
			return FloatTag, v, nil
		}
	case classDigit, classSign:
		if v, ok := resolveNumericOrTimestamp(tag, in); ok {
			return v.tag, v.value, nil
		}
	}
	return StrTag, in, nil
}

// acceptResolved reports whether rtag needs no further reconciliation
// against the scalar's declared tag: an implicit tag accepts whatever
// Resolve found, and an explicit tag accepts an exact match.
func acceptResolved(tag, rtag string) bool {
	return tag == "" || tag == rtag
}

// widenToFloat converts an int/int64 result to float64, for the case where
// a scalar parsed as an integer but was explicitly tagged !!float.
func widenToFloat(out interface{}) (float64, bool) {
	switch v := out.(type) {
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
