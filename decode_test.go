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

package yaml_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/abhinav/yamlcore"
)

var unmarshalIntTest = 123

var unmarshalTests = []struct {
	in      string
	want    interface{}
	wantErr string
}{
	{
		want: (*struct{})(nil),
	},
	{
		in: "{}", want: &struct{}{},
	}, {
		in:   "v: hi",
		want: map[string]string{"v": "hi"},
	}, {
		in: "v: hi", want: map[string]interface{}{"v": "hi"},
	}, {
		in:   "v: true",
		want: map[string]string{"v": "true"},
	}, {
		in:   "v: true",
		want: map[string]interface{}{"v": true},
	}, {
		in:   "v: 10",
		want: map[string]interface{}{"v": 10},
	}, {
		in:   "v: 0b10",
		want: map[string]interface{}{"v": 2},
	}, {
		in:   "v: 0xA",
		want: map[string]interface{}{"v": 10},
	}, {
		in:   "v: 4294967296",
		want: map[string]int64{"v": 4294967296},
	}, {
		in:   "v: 0.1",
		want: map[string]interface{}{"v": 0.1},
	}, {
		in:   "v: .1",
		want: map[string]interface{}{"v": 0.1},
	}, {
		in:   "v: .Inf",
		want: map[string]interface{}{"v": math.Inf(+1)},
	}, {
		in:   "v: -.Inf",
		want: map[string]interface{}{"v": math.Inf(-1)},
	}, {
		in:   "v: -10",
		want: map[string]interface{}{"v": -10},
	}, {
		in:   "v: -.1",
		want: map[string]interface{}{"v": -0.1},
	},

	// Simple values.
	{
		in:   "123",
		want: &unmarshalIntTest,
	},

	// Floats from spec
	{
		in:   "canonical: 6.8523e+5",
		want: map[string]interface{}{"canonical": 6.8523e+5},
	}, {
		in:   "expo: 685.230_15e+03",
		want: map[string]interface{}{"expo": 685.23015e+03},
	}, {
		in:   "fixed: 685_230.15",
		want: map[string]interface{}{"fixed": 685230.15},
	}, {
		in:   "neginf: -.inf",
		want: map[string]interface{}{"neginf": math.Inf(-1)},
	}, {
		in:   "fixed: 685_230.15",
		want: map[string]float64{"fixed": 685230.15},
	},
	//{"sexa: 190:20:30.15", map[string]interface{}{"sexa": 0}},        // Unsupported
	//{"notanum: .NaN", map[string]interface{}{"notanum": math.NaN()}}, // Equality of NaN fails.

	// Bools are per 1.2 spec.
	{
		in:   "canonical: true",
		want: map[string]interface{}{"canonical": true},
	}, {
		in:   "canonical: false",
		want: map[string]interface{}{"canonical": false},
	}, {
		in:   "bool: True",
		want: map[string]interface{}{"bool": true},
	}, {
		in:   "bool: False",
		want: map[string]interface{}{"bool": false},
	}, {
		in:   "bool: TRUE",
		want: map[string]interface{}{"bool": true},
	}, {
		in:   "bool: FALSE",
		want: map[string]interface{}{"bool": false},
	},
	// For backwards compatibility with 1.1, decoding old strings into typed values still works.
	{
		in:   "option: on",
		want: map[string]bool{"option": true},
	}, {
		in:   "option: y",
		want: map[string]bool{"option": true},
	}, {
		in:   "option: Off",
		want: map[string]bool{"option": false},
	}, {
		in:   "option: No",
		want: map[string]bool{"option": false},
	}, {
		in:   "option: other",
		want: map[string]bool{},
		wantErr: "line 1: cannot unmarshal !!str `other` into bool",
	},
	// Ints from spec
	{
		in:   "canonical: 685230",
		want: map[string]interface{}{"canonical": 685230},
	}, {
		in:   "decimal: +685_230",
		want: map[string]interface{}{"decimal": 685230},
	}, {
		in:   "octal: 02472256",
		want: map[string]interface{}{"octal": 685230},
	}, {
		in:   "octal: -02472256",
		want: map[string]interface{}{"octal": -685230},
	}, {
		in:   "octal: 0o2472256",
		want: map[string]interface{}{"octal": 685230},
	}, {
		in:   "octal: -0o2472256",
		want: map[string]interface{}{"octal": -685230},
	}, {
		in:   "hexa: 0x_0A_74_AE",
		want: map[string]interface{}{"hexa": 685230},
	}, {
		in:   "bin: 0b1010_0111_0100_1010_1110",
		want: map[string]interface{}{"bin": 685230},
	}, {
		in:   "bin: -0b101010",
		want: map[string]interface{}{"bin": -42},
	}, {
		in:   "bin: -0b1000000000000000000000000000000000000000000000000000000000000000",
		want: map[string]interface{}{"bin": -9223372036854775808},
	}, {
		in:   "decimal: +685_230",
		want: map[string]int{"decimal": 685230},
	},

	//{"sexa: 190:20:30", map[string]interface{}{"sexa": 0}}, // Unsupported

	// Nulls from spec
	{
		in:   "empty:",
		want: map[string]interface{}{"empty": nil},
	}, {
		in:   "canonical: ~",
		want: map[string]interface{}{"canonical": nil},
	}, {
		in:   "english: null",
		want: map[string]interface{}{"english": nil},
	}, {
		in:   "~: null key",
		want: map[interface{}]string{nil: "null key"},
	}, {
		in:   "empty:",
		want: map[string]*bool{"empty": nil},
	},

	// Flow sequence
	{
		in:   "seq: [A,B]",
		want: map[string]interface{}{"seq": []interface{}{"A", "B"}},
	}, {
		in:   "seq: [A,B,C,]",
		want: map[string][]string{"seq": []string{"A", "B", "C"}},
	}, {
		in:   "seq: [A,1,C]",
		want: map[string][]string{"seq": []string{"A", "1", "C"}},
	}, {
		in:   "seq: [A,1,C]",
		want: map[string][]int{"seq": []int{1}},
		wantErr: "line 1: cannot unmarshal !!str `A` into int",
	}, {
		in:   "seq: [A,1,C]",
		want: map[string]interface{}{"seq": []interface{}{"A", 1, "C"}},
	},
	// Block sequence
	{
		in:   "seq:\n - A\n - B",
		want: map[string]interface{}{"seq": []interface{}{"A", "B"}},
	}, {
		in:   "seq:\n - A\n - B\n - C",
		want: map[string][]string{"seq": []string{"A", "B", "C"}},
	}, {
		in:   "seq:\n - A\n - 1\n - C",
		want: map[string][]string{"seq": []string{"A", "1", "C"}},
	}, {
		in:   "seq:\n - A\n - 1\n - C",
		want: map[string][]int{"seq": []int{1}},
		wantErr: "line 2: cannot unmarshal !!str `A` into int",
	}, {
		in:   "seq:\n - A\n - 1\n - C",
		want: map[string]interface{}{"seq": []interface{}{"A", 1, "C"}},
	},

	// Literal block scalar
	{
		in:   "scalar: | # Comment\n\n literal\n\n \ttext\n\n",
		want: map[string]string{"scalar": "\nliteral\n\n\ttext\n"},
	},

	// Folded block scalar
	{
		in:   "scalar: > # Comment\n\n folded\n line\n \n next\n line\n  * one\n  * two\n\n last\n line\n\n",
		want: map[string]string{"scalar": "\nfolded line\nnext line\n * one\n * two\n\nlast line\n"},
	},

	// Map inside interface with no type hints.
	{
		in:   "a: {b: c}",
		want: map[interface{}]interface{}{"a": map[string]interface{}{"b": "c"}},
	},
	// Non-string map inside interface with no type hints.
	{
		in:   "a: {b: c, 1: d}",
		want: map[interface{}]interface{}{"a": map[interface{}]interface{}{"b": "c", 1: "d"}},
	},

	// Structs and type conversions.
	{
		in:   "hello: world",
		want: &struct{ Hello string }{Hello: "world"},
	}, {
		in:   "a: {b: c}",
		want: &struct{ A struct{ B string } }{A: struct{ B string }{B: "c"}},
	}, {
		in:   "a: {b: c}",
		want: &struct{ A *struct{ B string } }{A: &struct{ B string }{B: "c"}},
	}, {
		in:   "a: 'null'",
		want: &struct{ A *unmarshalerType }{A: &unmarshalerType{value: "null"}},
	}, {
		in:   "a: {b: c}",
		want: &struct{ A map[string]string }{A: map[string]string{"b": "c"}},
	}, {
		in:   "a: {b: c}",
		want: &struct{ A *map[string]string }{A: &map[string]string{"b": "c"}},
	}, {
		in:   "a:",
		want: &struct{ A map[string]string }{},
	}, {
		in:   "a: 1",
		want: &struct{ A int }{A: 1},
	}, {
		in:   "a: 1",
		want: &struct{ A float64 }{A: 1},
	}, {
		in:   "a: 1.0",
		want: &struct{ A int }{A: 1},
	}, {
		in:   "a: 1.0",
		want: &struct{ A uint }{A: 1},
	}, {
		in:   "a: [1, 2]",
		want: &struct{ A []int }{A: []int{1, 2}},
	}, {
		in:   "a: [1, 2]",
		want: &struct{ A [2]int }{A: [2]int{1, 2}},
	}, {
		in:   "a: 1",
		want: &struct{ B int }{},
	}, {
		in:   "a: 1",
		want: &struct {
			B int "a"
		}{B: 1},
	}, {
		// Some limited backwards compatibility with the 1.1 spec.
		in:   "a: YES",
		want: &struct{ A bool }{A: true},
	},

	// Some cross type conversions
	{
		in:   "v: 42",
		want: map[string]uint{"v": 42},
	}, {
		in:   "v: -42",
		want: map[string]uint{},
		wantErr: "line 1: cannot unmarshal !!int `-42` into uint",
	}, {
		in:   "v: 4294967296",
		want: map[string]uint64{"v": 4294967296},
	}, {
		in:   "v: -4294967296",
		want: map[string]uint64{},
		wantErr: "line 1: cannot unmarshal !!int `-429496...` into uint64",
	},

	// int
	{
		in:   "int_max: 2147483647",
		want: map[string]int{"int_max": math.MaxInt32},
	},
	{
		in:   "int_min: -2147483648",
		want: map[string]int{"int_min": math.MinInt32},
	},
	{
		in:  "int_overflow: 9223372036854775808", // math.MaxInt64 + 1
		want: map[string]int{},
		wantErr: "line 1: cannot unmarshal !!int `9223372...` into int",
	},

	// int64
	{
		in:   "int64_max: 9223372036854775807",
		want: map[string]int64{"int64_max": math.MaxInt64},
	},
	{
		in:   "int64_max_base2: 0b111111111111111111111111111111111111111111111111111111111111111",
		want: map[string]int64{"int64_max_base2": math.MaxInt64},
	},
	{
		in:   "int64_min: -9223372036854775808",
		want: map[string]int64{"int64_min": math.MinInt64},
	},
	{
		in:   "int64_neg_base2: -0b111111111111111111111111111111111111111111111111111111111111111",
		want: map[string]int64{"int64_neg_base2": -math.MaxInt64},
	},
	{
		in:  "int64_overflow: 9223372036854775808", // math.MaxInt64 + 1
		want: map[string]int64{},
		wantErr: "line 1: cannot unmarshal !!int `9223372...` into int64",
	},

	// uint
	{
		in:   "uint_min: 0",
		want: map[string]uint{"uint_min": 0},
	},
	{
		in:   "uint_max: 4294967295",
		want: map[string]uint{"uint_max": math.MaxUint32},
	},
	{
		in:   "uint_underflow: -1",
		want: map[string]uint{},
		wantErr: "line 1: cannot unmarshal !!int `-1` into uint",
	},

	// uint64
	{
		in:   "uint64_min: 0",
		want: map[string]uint{"uint64_min": 0},
	},
	{
		in:   "uint64_max: 18446744073709551615",
		want: map[string]uint64{"uint64_max": math.MaxUint64},
	},
	{
		in:   "uint64_max_base2: 0b1111111111111111111111111111111111111111111111111111111111111111",
		want: map[string]uint64{"uint64_max_base2": math.MaxUint64},
	},
	{
		in:   "uint64_maxint64: 9223372036854775807",
		want: map[string]uint64{"uint64_maxint64": math.MaxInt64},
	},
	{
		in:   "uint64_underflow: -1",
		want: map[string]uint64{},
		wantErr: "line 1: cannot unmarshal !!int `-1` into uint64",
	},

	// float32
	{
		in:   "float32_max: 3.40282346638528859811704183484516925440e+38",
		want: map[string]float32{"float32_max": math.MaxFloat32},
	},
	{
		in:   "float32_nonzero: 1.401298464324817070923729583289916131280e-45",
		want: map[string]float32{"float32_nonzero": math.SmallestNonzeroFloat32},
	},
	{
		in:   "float32_maxuint64: 18446744073709551615",
		want: map[string]float32{"float32_maxuint64": float32(math.MaxUint64)},
	},
	{
		in:   "float32_maxuint64+1: 18446744073709551616",
		want: map[string]float32{"float32_maxuint64+1": float32(math.MaxUint64 + 1)},
	},

	// float64
	{
		in:   "float64_max: 1.797693134862315708145274237317043567981e+308",
		want: map[string]float64{"float64_max": math.MaxFloat64},
	},
	{
		in:   "float64_nonzero: 4.940656458412465441765687928682213723651e-324",
		want: map[string]float64{"float64_nonzero": math.SmallestNonzeroFloat64},
	},
	{
		in:   "float64_maxuint64: 18446744073709551615",
		want: map[string]float64{"float64_maxuint64": float64(math.MaxUint64)},
	},
	{
		in:   "float64_maxuint64+1: 18446744073709551616",
		want: map[string]float64{"float64_maxuint64+1": float64(math.MaxUint64 + 1)},
	},

	// Overflow cases.
	{
		in:   "v: 4294967297",
		want: map[string]int32{},
		wantErr: "line 1: cannot unmarshal !!int `4294967297` into int32",
	}, {
		in:   "v: 128",
		want: map[string]int8{},
		wantErr: "line 1: cannot unmarshal !!int `128` into int8",
	},

	// Quoted values.
	{
		in:   "'1': '\"2\"'",
		want: map[interface{}]interface{}{"1": "\"2\""},
	}, {
		in:   "v:\n- A\n- 'B\n\n  C'\n",
		want: map[string][]string{"v": []string{"A", "B\nC"}},
	},

	// Explicit tags.
	{
		in:   "v: !!float '1.1'",
		want: map[string]interface{}{"v": 1.1},
	}, {
		in:   "v: !!float 0",
		want: map[string]interface{}{"v": float64(0)},
	}, {
		in:   "v: !!float -1",
		want: map[string]interface{}{"v": float64(-1)},
	}, {
		in:   "v: !!null ''",
		want: map[string]interface{}{"v": nil},
	}, {
		in:   "%TAG !y! tag:yaml.org,2002:\n---\nv: !y!int '1'",
		want: map[string]interface{}{"v": 1},
	},

	// Non-specific tag (Issue #75)
	{
		in:   "v: ! test",
		want: map[string]interface{}{"v": "test"},
	},

	// Anchors and aliases.
	{
		in:   "a: &x 1\nb: &y 2\nc: *x\nd: *y\n",
		want: &struct{ A, B, C, D int }{A: 1, B: 2, C: 1, D: 2},
	}, {
		in:   "a: &a {c: 1}\nb: *a",
		want: &struct {
			A, B struct {
				C int
			}
		}{A: struct{ C int }{C: 1}, B: struct{ C int }{C: 1}},
	}, {
		in:   "a: &a [1, 2]\nb: *a",
		want: &struct{ B []int }{B: []int{1, 2}},
	},

	// Bug #1133337
	{
		in:   "foo: ''",
		want: map[string]*string{"foo": new(string)},
	}, {
		in:   "foo: null",
		want: map[string]*string{"foo": nil},
	}, {
		in:   "foo: null",
		want: map[string]string{"foo": ""},
	}, {
		in:   "foo: null",
		want: map[string]interface{}{"foo": nil},
	},

	// Support for ~
	{
		in:   "foo: ~",
		want: map[string]*string{"foo": nil},
	}, {
		in:   "foo: ~",
		want: map[string]string{"foo": ""},
	}, {
		in:   "foo: ~",
		want: map[string]interface{}{"foo": nil},
	},

	// Ignored field
	{
		in:   "a: 1\nb: 2\n",
		want: &struct {
			A int
			B int "-"
		}{A: 1},
	},

	// Bug #1191981
	{
		in: "" +
			"%YAML 1.1\n" +
			"--- !!str\n" +
			`"Generic line break (no glyph)\n\` + "\n" +
			` Generic line break (glyphed)\n\` + "\n" +
			` Line separator\u2028\` + "\n" +
			` Paragraph separator\u2029"` + "\n",
		want: "" +
			"Generic line break (no glyph)\n" +
			"Generic line break (glyphed)\n" +
			"Line separator\u2028Paragraph separator\u2029",
	},

	// Struct inlining
	{
		in:   "a: 1\nb: 2\nc: 3\n",
		want: &struct {
			A int
			C inlineB `yaml:",inline"`
		}{A: 1, C: inlineB{B: 2, inlineC: inlineC{C: 3}}},
	},

	// Struct inlining as a pointer.
	{
		in:   "a: 1\nb: 2\nc: 3\n",
		want: &struct {
			A int
			C *inlineB `yaml:",inline"`
		}{A: 1, C: &inlineB{B: 2, inlineC: inlineC{C: 3}}},
	}, {
		in:   "a: 1\n",
		want: &struct {
			A int
			C *inlineB `yaml:",inline"`
		}{A: 1},
	}, {
		in:   "a: 1\nc: 3\nd: 4\n",
		want: &struct {
			A int
			C *inlineD `yaml:",inline"`
		}{A: 1, C: &inlineD{C: &inlineC{C: 3}, D: 4}},
	},

	// Map inlining
	{
		in:   "a: 1\nb: 2\nc: 3\n",
		want: &struct {
			A int
			C map[string]int `yaml:",inline"`
		}{A: 1, C: map[string]int{"b": 2, "c": 3}},
	},

	// bug 1243827
	{
		in:   "a: -b_c",
		want: map[string]interface{}{"a": "-b_c"},
	},
	{
		in:   "a: +b_c",
		want: map[string]interface{}{"a": "+b_c"},
	},
	{
		in:   "a: 50cent_of_dollar",
		want: map[string]interface{}{"a": "50cent_of_dollar"},
	},

	// issue #295 (allow scalars with colons in flow mappings and sequences)
	{
		in: "a: {b: https://github.com/go-yaml/yaml}",
		want: map[string]interface{}{"a": map[string]interface{}{
			"b": "https://github.com/go-yaml/yaml",
		}},
	},
	{
		in:  "a: [https://github.com/go-yaml/yaml]",
		want: map[string]interface{}{"a": []interface{}{"https://github.com/go-yaml/yaml"}},
	},

	// Duration
	{
		in:   "a: 3s",
		want: map[string]time.Duration{"a": 3 * time.Second},
	},

	// Issue #24.
	{
		in:   "a: <foo>",
		want: map[string]string{"a": "<foo>"},
	},

	// Base 60 floats are obsolete and unsupported.
	{
		in:   "a: 1:1\n",
		want: map[string]string{"a": "1:1"},
	},

	// Binary data.
	{
		in:   "a: !!binary gIGC\n",
		want: map[string]string{"a": "\x80\x81\x82"},
	}, {
		in:   "a: !!binary |\n  " + strings.Repeat("kJCQ", 17) + "kJ\n  CQ\n",
		want: map[string]string{"a": strings.Repeat("\x90", 54)},
	}, {
		in:   "a: !!binary |\n  " + strings.Repeat("A", 70) + "\n  ==\n",
		want: map[string]string{"a": strings.Repeat("\x00", 52)},
	},

	// Issue #39.
	{
		in:   "a:\n b:\n  c: d\n",
		want: map[string]struct{ B interface{} }{"a": {B: map[string]interface{}{"c": "d"}}},
	},

	// Custom map type.
	{
		in:   "a: {b: c}",
		want: M{"a": M{"b": "c"}},
	},

	// Support encoding.TextUnmarshaler.
	{
		in:   "a: 1.2.3.4\n",
		want: map[string]textUnmarshaler{"a": textUnmarshaler{S: "1.2.3.4"}},
	},
	{
		in:   "a: 2015-02-24T18:19:39Z\n",
		want: map[string]textUnmarshaler{"a": textUnmarshaler{S: "2015-02-24T18:19:39Z"}},
	},

	// Timestamps
	{
		// Date only.
		in:   "a: 2015-01-01\n",
		want: map[string]time.Time{"a": time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
	},
	{
		// RFC3339
		in:   "a: 2015-02-24T18:19:39.12Z\n",
		want: map[string]time.Time{"a": time.Date(2015, 2, 24, 18, 19, 39, .12e9, time.UTC)},
	},
	{
		// RFC3339 with short dates.
		in:   "a: 2015-2-3T3:4:5Z",
		want: map[string]time.Time{"a": time.Date(2015, 2, 3, 3, 4, 5, 0, time.UTC)},
	},
	{
		// ISO8601 lower case t
		in:   "a: 2015-02-24t18:19:39Z\n",
		want: map[string]time.Time{"a": time.Date(2015, 2, 24, 18, 19, 39, 0, time.UTC)},
	},
	{
		// space separate, no time zone
		in:   "a: 2015-02-24 18:19:39\n",
		want: map[string]time.Time{"a": time.Date(2015, 2, 24, 18, 19, 39, 0, time.UTC)},
	},
	// Some cases not currently handled. Uncomment these when
	// the code is fixed.
	//	{
	//		// space separated with time zone
	//		"a: 2001-12-14 21:59:43.10 -5",
	//		map[string]interface{}{"a": time.Date(2001, 12, 14, 21, 59, 43, .1e9, time.UTC)},
	//	},
	//	{
	//		// arbitrary whitespace between fields
	//		"a: 2001-12-14 \t\t \t21:59:43.10 \t Z",
	//		map[string]interface{}{"a": time.Date(2001, 12, 14, 21, 59, 43, .1e9, time.UTC)},
	//	},
	{
		// explicit string tag
		in:   "a: !!str 2015-01-01",
		want: map[string]interface{}{"a": "2015-01-01"},
	},
	{
		// explicit timestamp tag on quoted string
		in:   "a: !!timestamp \"2015-01-01\"",
		want: map[string]time.Time{"a": time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
	},
	{
		// explicit timestamp tag on unquoted string
		in:   "a: !!timestamp 2015-01-01",
		want: map[string]time.Time{"a": time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
	},
	{
		// quoted string that's a valid timestamp
		in:   "a: \"2015-01-01\"",
		want: map[string]interface{}{"a": "2015-01-01"},
	},
	{
		// explicit timestamp tag into interface.
		in:   "a: !!timestamp \"2015-01-01\"",
		want: map[string]interface{}{"a": time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
	},
	{
		// implicit timestamp tag into interface.
		in:   "a: 2015-01-01",
		want: map[string]interface{}{"a": time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)},
	},

	// Encode empty lists as zero-length slices.
	{
		in:   "a: []",
		want: &struct{ A []int }{A: []int{}},
	},

	// UTF-16-LE
	{
		in:   "\xff\xfe\xf1\x00o\x00\xf1\x00o\x00:\x00 \x00v\x00e\x00r\x00y\x00 \x00y\x00e\x00s\x00\n\x00",
		want: M{"ñoño": "very yes"},
	},
	// UTF-16-LE with surrogate.
	{
		in:   "\xff\xfe\xf1\x00o\x00\xf1\x00o\x00:\x00 \x00v\x00e\x00r\x00y\x00 \x00y\x00e\x00s\x00 \x00=\xd8\xd4\xdf\n\x00",
		want: M{"ñoño": "very yes 🟔"},
	},

	// UTF-16-BE
	{
		in:   "\xfe\xff\x00\xf1\x00o\x00\xf1\x00o\x00:\x00 \x00v\x00e\x00r\x00y\x00 \x00y\x00e\x00s\x00\n",
		want: M{"ñoño": "very yes"},
	},
	// UTF-16-BE with surrogate.
	{
		in:   "\xfe\xff\x00\xf1\x00o\x00\xf1\x00o\x00:\x00 \x00v\x00e\x00r\x00y\x00 \x00y\x00e\x00s\x00 \xd8=\xdf\xd4\x00\n",
		want: M{"ñoño": "very yes 🟔"},
	},

	// This *is* in fact a float number, per the spec. #171 was a mistake.
	{
		in:   "a: 123456e1\n",
		want: M{"a": 123456e1},
	}, {
		in:   "a: 123456E1\n",
		want: M{"a": 123456e1},
	},
	// yaml-test-suite 3GZX: Spec Example 7.1. Alias Nodes
	{
		in:   "First occurrence: &anchor Foo\nSecond occurrence: *anchor\nOverride anchor: &anchor Bar\nReuse anchor: *anchor\n",
		want: map[string]interface{}{
			"First occurrence":  "Foo",
			"Second occurrence": "Foo",
			"Override anchor":   "Bar",
			"Reuse anchor":      "Bar",
		},
	},
	// Single document with garbage following it.
	{
		in:   "---\nhello\n...\n}not yaml",
		want: "hello",
	},

	// Comment scan exhausting the input buffer (issue #469).
	{
		in:   "true\n#" + strings.Repeat(" ", 512*3),
		want: "true",
	}, {
		in:   "true #" + strings.Repeat(" ", 512*3),
		want: "true",
	},

	// CRLF
	{
		in:   "a: b\r\nc:\r\n- d\r\n- e\r\n",
		want: map[string]interface{}{
			"a": "b",
			"c": []interface{}{"d", "e"},
		},
	},
}

type M map[string]interface{}

type inlineB struct {
	B       int
	inlineC `yaml:",inline"`
}

type inlineC struct {
	C int
}

type inlineD struct {
	C *inlineC `yaml:",inline"`
	D int
}

func TestUnmarshal(t *testing.T) {
	for i, item := range unmarshalTests {
		t.Run(fmt.Sprintf("%d-%q", i, item.in), func(t *testing.T) {
			value := reflect.New(reflect.ValueOf(item.want).Type())
			err := yaml.Unmarshal([]byte(item.in), value.Interface())
			assertTypeError(t, err, item.wantErr)
			require.Equal(t, item.want, value.Elem().Interface())
		})
	}
}

func assertTypeError(t *testing.T, err error, want string) {
	t.Helper()
	if want == "" {
		require.NoError(t, err)
		return
	}
	typeErr, ok := err.(*yaml.TypeError)
	if !ok {
		t.Fatalf("error is not a TypeError: %v", err)
	}
	matcher := regexp.MustCompile(want)
	if !matcher.MatchString(typeErr.Error()) {
		t.Fatalf("error %q does not match %q", typeErr.Error(), want)
	}
}

func assertError(t *testing.T, err error, want string) {
	t.Helper()
	if want == "" {
		require.NoError(t, err)
		return
	}
	matcher := regexp.MustCompile(want)
	if !matcher.MatchString(err.Error()) {
		t.Fatalf("error %q does not match %q", err.Error(), want)
	}
}

//func (s *S) TestUnmarshalFullTimestamp(c *C) {
// // Full timestamp in same format as encoded. This is confirmed to be
// // properly decoded by Python as a timestamp as well.
//	var str = "2015-02-24T18:19:39.123456789-03:00"
//	var t interface{}
//	err := yaml.Unmarshal([]byte(str), &t)
//	c.Assert(err, IsNil)
//	c.Assert(t, Equals, time.Date(2015, 2, 24, 18, 19, 39, 123456789, t.(time.Time).Location()))
//	c.Assert(t.(time.Time).In(time.UTC), Equals, time.Date(2015, 2, 24, 21, 19, 39, 123456789, time.UTC))
//}

func TestUnmarshalFullTimestamp(t *testing.T) {
	// Full timestamp in same format as encoded. This is confirmed to be
	// properly decoded by Python as a timestamp as well.
	str := "2015-02-24T18:19:39.123456789-03:00"
	var val interface{}
	err := yaml.Unmarshal([]byte(str), &val)
	require.NoError(t, err)
	require.Equal(t, time.Date(2015, 2, 24, 18, 19, 39, 123456789, val.(time.Time).Location()), val)
	require.Equal(t, time.Date(2015, 2, 24, 21, 19, 39, 123456789, time.UTC), val.(time.Time).In(time.UTC))
}

func TestDecoderSingleDocument(t *testing.T) {
	for i, item := range unmarshalTests {
		t.Run(fmt.Sprintf("%d-%q", i, item.in), func(t *testing.T) {
			if item.in == "" {
				t.Skip("Behaviour differs when there's no YAML.")
			}
			value := reflect.New(reflect.ValueOf(item.want).Type())
			err := yaml.NewDecoder(strings.NewReader(item.in)).Decode(value.Interface())
			assertTypeError(t, err, item.wantErr)
			require.Equal(t, item.want, value.Elem().Interface())
		})
	}
}

var decoderTests = []struct {
	in   string
	want []interface{}
}{{}, {
	in:   "a: b",
	want: []interface{}{
		map[string]interface{}{"a": "b"},
	},
}, {
	in:   "---\na: b\n...\n",
	want: []interface{}{
		map[string]interface{}{"a": "b"},
	},
}, {
	in:   "---\n'hello'\n...\n---\ngoodbye\n...\n",
	want: []interface{}{
		"hello",
		"goodbye",
	},
}}

func TestDecoder(t *testing.T) {
	for i, item := range decoderTests {
		t.Run(fmt.Sprintf("%d-%q", i, item.in), func(t *testing.T) {
			var values []interface{}
			dec := yaml.NewDecoder(strings.NewReader(item.in))
			for {
				var value interface{}
				err := dec.Decode(&value)
				if err == io.EOF {
					break
				}
				require.NoError(t, err)
				values = append(values, value)
			}
			require.Equal(t, item.want, values)
		})
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("some read error")
}

func TestDecoderReadError(t *testing.T) {
	err := yaml.NewDecoder(errReader{}).Decode(&struct{}{})
	require.EqualError(t, err, `yaml: input error: some read error`)
}

func TestUnmarshalNaN(t *testing.T) {
	value := map[string]interface{}{}
	err := yaml.Unmarshal([]byte("notanum: .NaN"), &value)
	require.NoError(t, err)
	require.True(t, math.IsNaN(value["notanum"].(float64)))
}

func TestUnmarshalDurationInt(t *testing.T) {
	// Don't accept plain ints as durations as it's unclear (issue #200).
	var d time.Duration
	err := yaml.Unmarshal([]byte("123"), &d)
	assertTypeError(t, err, "(?s).* line 1: cannot unmarshal !!int `123` into time.Duration")
}

var unmarshalErrorTests = []struct {
	in, wantErr string
}{
	{in: "v: !!float 'error'", wantErr: "yaml: cannot decode !!str `error` as a !!float"},
	{in: "v: [A,", wantErr: "yaml: line 1: did not find expected node content"},
	{in: "v:\n- [A,", wantErr: "yaml: line 2: did not find expected node content"},
	{in: "a:\n- b: *,", wantErr: "yaml: line 2: did not find expected alphabetic or numeric character"},
	{in: "a: *b\n", wantErr: "yaml: unknown anchor 'b' referenced"},
	{in: "a: &a\n  b: *a\n", wantErr: "yaml: anchor 'a' value contains itself"},
	{in: "value: -", wantErr: "yaml: block sequence entries are not allowed in this context"},
	{in: "a: !!binary ==", wantErr: "yaml: !!binary value contains invalid base64 data"},
	{in: "{[.]}", wantErr: `yaml: invalid map key: \[\]interface \{\}\{"\."\}`},
	{in: "{{.}}", wantErr: `yaml: invalid map key: map\[string]interface \{\}\{".":interface \{\}\(nil\)\}`},
	{in: "b: *a\na: &a {c: 1}", wantErr: `yaml: unknown anchor 'a' referenced`},
	{in: "%TAG !%79! tag:yaml.org,2002:\n---\nv: !%79!int '1'", wantErr: "yaml: did not find expected whitespace"},
	{in: "a:\n  1:\nb\n  2:", wantErr: ".*could not find expected ':'"},
	{in: "a: 1\nb: 2\nc 2\nd: 3\n", wantErr: "^yaml: line 3: could not find expected ':'$"},
	{in: "#\n-\n{", wantErr: "yaml: line 3: could not find expected ':'"},   // Issue #665
	{in: "0: [:!00 \xef", wantErr: "yaml: incomplete UTF-8 octet sequence"}, // Issue #666
	{
		in: "a: &a [00,00,00,00,00,00,00,00,00]\n" +
			"b: &b [*a,*a,*a,*a,*a,*a,*a,*a,*a]\n" +
			"c: &c [*b,*b,*b,*b,*b,*b,*b,*b,*b]\n" +
			"d: &d [*c,*c,*c,*c,*c,*c,*c,*c,*c]\n" +
			"e: &e [*d,*d,*d,*d,*d,*d,*d,*d,*d]\n" +
			"f: &f [*e,*e,*e,*e,*e,*e,*e,*e,*e]\n" +
			"g: &g [*f,*f,*f,*f,*f,*f,*f,*f,*f]\n" +
			"h: &h [*g,*g,*g,*g,*g,*g,*g,*g,*g]\n" +
			"i: &i [*h,*h,*h,*h,*h,*h,*h,*h,*h]\n",
		wantErr: "yaml: document contains excessive aliasing",
	},
}

func TestUnmarshalErrors(t *testing.T) {
	for i, item := range unmarshalErrorTests {
		t.Run(fmt.Sprintf("test %d: %q", i, item.in), func(t *testing.T) {
			var value interface{}
			err := yaml.Unmarshal([]byte(item.in), &value)
			assertError(t, err, item.wantErr)
		})
	}
}

func TestDecoderErrors(t *testing.T) {
	for _, item := range unmarshalErrorTests {
		t.Run(item.in, func(t *testing.T) {
			var value interface{}
			err := yaml.NewDecoder(strings.NewReader(item.in)).Decode(&value)
			assertError(t, err, item.wantErr)
		})
	}
}

var unmarshalerTests = []struct {
	in, tag string
	want    interface{}
}{
	{in: "_: {hi: there}", tag: "!!map", want: map[string]interface{}{"hi": "there"}},
	{in: "_: [1,A]", tag: "!!seq", want: []interface{}{1, "A"}},
	{in: "_: 10", tag: "!!int", want: 10},
	{in: "_: null", tag: "!!null"},
	{in: `_: BAR!`, tag: "!!str", want: "BAR!"},
	{in: `_: "BAR!"`, tag: "!!str", want: "BAR!"},
	{in: "_: !!foo 'BAR!'", tag: "!!foo", want: "BAR!"},
	{in: `_: ""`, tag: "!!str", want: ""},
}

var unmarshalerResult = map[int]error{}

type unmarshalerType struct {
	value interface{}
}

func (o *unmarshalerType) UnmarshalYAML(value *yaml.Node) error {
	if err := value.Decode(&o.value); err != nil {
		return err
	}
	if i, ok := o.value.(int); ok {
		if result, ok := unmarshalerResult[i]; ok {
			return result
		}
	}
	return nil
}

type unmarshalerPointer struct {
	Field *unmarshalerType "_"
}

type unmarshalerValue struct {
	Field unmarshalerType "_"
}

type unmarshalerInlined struct {
	Field   *unmarshalerType "_"
	Inlined unmarshalerType  `yaml:",inline"`
}

type unmarshalerInlinedTwice struct {
	InlinedTwice unmarshalerInlined `yaml:",inline"`
}

type obsoleteUnmarshalerType struct {
	value interface{}
}

func (o *obsoleteUnmarshalerType) UnmarshalYAML(unmarshal func(v interface{}) error) error {
	if err := unmarshal(&o.value); err != nil {
		return err
	}
	if i, ok := o.value.(int); ok {
		if result, ok := unmarshalerResult[i]; ok {
			return result
		}
	}
	return nil
}

type obsoleteUnmarshalerPointer struct {
	Field *obsoleteUnmarshalerType "_"
}

type obsoleteUnmarshalerValue struct {
	Field obsoleteUnmarshalerType "_"
}

func TestUnmarshalerPointerField(t *testing.T) {
	for _, item := range unmarshalerTests {
		obj := &unmarshalerPointer{}
		err := yaml.Unmarshal([]byte(item.in), obj)
		require.NoError(t, err)
		if item.want == nil {
			require.Nil(t, obj.Field)
		} else {
			require.NotNil(t, obj.Field, "Pointer not initialized (%#v)", item.want)
			require.Equal(t, item.want, obj.Field.value)
		}
	}
	for _, item := range unmarshalerTests {
		obj := &obsoleteUnmarshalerPointer{}
		err := yaml.Unmarshal([]byte(item.in), obj)
		require.NoError(t, err)
		if item.want == nil {
			require.Nil(t, obj.Field)
		} else {
			require.NotNil(t, obj.Field, "Pointer not initialized (%#v)", item.want)
			require.Equal(t, item.want, obj.Field.value)
		}
	}
}

func TestUnmarshalerValueField(t *testing.T) {
	for _, item := range unmarshalerTests {
		obj := &obsoleteUnmarshalerValue{}
		err := yaml.Unmarshal([]byte(item.in), obj)
		require.NoError(t, err)
		require.NotNil(t, obj.Field, "Pointer not initialized (%#v)", item.want)
		require.Equal(t, item.want, obj.Field.value)
	}
}

func TestUnmarshalerInlinedField(t *testing.T) {
	obj := &unmarshalerInlined{}
	err := yaml.Unmarshal([]byte("_: a\ninlined: b\n"), obj)
	require.NoError(t, err)
	require.Equal(t, &unmarshalerType{value: "a"}, obj.Field)
	require.Equal(t, unmarshalerType{value: map[string]interface{}{"_": "a", "inlined": "b"}}, obj.Inlined)

	twc := &unmarshalerInlinedTwice{}
	err = yaml.Unmarshal([]byte("_: a\ninlined: b\n"), twc)
	require.NoError(t, err)
	require.Equal(t, &unmarshalerType{value: "a"}, twc.InlinedTwice.Field)
	require.Equal(t, unmarshalerType{value: map[string]interface{}{"_": "a", "inlined": "b"}}, twc.InlinedTwice.Inlined)
}

func TestUnmarshalerWholeDocument(t *testing.T) {
	obj := &obsoleteUnmarshalerType{}
	err := yaml.Unmarshal([]byte(unmarshalerTests[0].in), obj)
	require.NoError(t, err)
	value, ok := obj.value.(map[string]interface{})
	require.True(t, ok, "value: %#v", obj.value)
	require.Equal(t, unmarshalerTests[0].want, value["_"])
}

func TestUnmarshalerTypeError(t *testing.T) {
	unmarshalerResult[2] = &yaml.TypeError{Errors: []string{"foo"}}
	unmarshalerResult[4] = &yaml.TypeError{Errors: []string{"bar"}}
	defer func() {
		delete(unmarshalerResult, 2)
		delete(unmarshalerResult, 4)
	}()

	type T struct {
		Before int
		After  int
		M      map[string]*unmarshalerType
	}
	var v T
	data := `{before: A, m: {abc: 1, def: 2, ghi: 3, jkl: 4}, after: B}`
	err := yaml.Unmarshal([]byte(data), &v)
	require.Error(t, err)
	require.Equal(t, ""+
		"yaml: unmarshal errors:\n"+
		"  line 1: cannot unmarshal !!str `A` into int\n"+
		"  foo\n"+
		"  bar\n"+
		"  line 1: cannot unmarshal !!str `B` into int", err.Error())
	require.NotNil(t, v.M["abc"])
	require.Nil(t, v.M["def"])
	require.NotNil(t, v.M["ghi"])
	require.Nil(t, v.M["jkl"])

	require.Equal(t, 1, v.M["abc"].value)
	require.Equal(t, 3, v.M["ghi"].value)
}

func TestObsoleteUnmarshalerTypeError(t *testing.T) {
	unmarshalerResult[2] = &yaml.TypeError{Errors: []string{"foo"}}
	unmarshalerResult[4] = &yaml.TypeError{Errors: []string{"bar"}}
	defer func() {
		delete(unmarshalerResult, 2)
		delete(unmarshalerResult, 4)
	}()

	type T struct {
		Before int
		After  int
		M      map[string]*obsoleteUnmarshalerType
	}
	var v T
	data := `{before: A, m: {abc: 1, def: 2, ghi: 3, jkl: 4}, after: B}`
	err := yaml.Unmarshal([]byte(data), &v)
	require.Error(t, err)
	require.Equal(t, ""+
		"yaml: unmarshal errors:\n"+
		"  line 1: cannot unmarshal !!str `A` into int\n"+
		"  foo\n"+
		"  bar\n"+
		"  line 1: cannot unmarshal !!str `B` into int", err.Error())
	require.NotNil(t, v.M["abc"])
	require.Nil(t, v.M["def"])
	require.NotNil(t, v.M["ghi"])
	require.Nil(t, v.M["jkl"])

	require.Equal(t, 1, v.M["abc"].value)
	require.Equal(t, 3, v.M["ghi"].value)
}

type proxyTypeError struct{}

func (v *proxyTypeError) UnmarshalYAML(node *yaml.Node) error {
	var s string
	var a int32
	var b int64
	if err := node.Decode(&s); err != nil {
		panic(err)
	}
	if s == "a" {
		if err := node.Decode(&b); err == nil {
			panic("should have failed")
		}
		return node.Decode(&a)
	}
	if err := node.Decode(&a); err == nil {
		panic("should have failed")
	}
	return node.Decode(&b)
}

func TestUnmarshalerTypeErrorProxying(t *testing.T) {
	type T struct {
		Before int
		After  int
		M      map[string]*proxyTypeError
	}
	var v T
	data := `{before: A, m: {abc: a, def: b}, after: B}`
	err := yaml.Unmarshal([]byte(data), &v)
	require.Error(t, err)
	require.Equal(t, ""+
		"yaml: unmarshal errors:\n"+
		"  line 1: cannot unmarshal !!str `A` into int\n"+
		"  line 1: cannot unmarshal !!str `a` into int32\n"+
		"  line 1: cannot unmarshal !!str `b` into int64\n"+
		"  line 1: cannot unmarshal !!str `B` into int", err.Error())
}

type obsoleteProxyTypeError struct{}

func (v *obsoleteProxyTypeError) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	var a int32
	var b int64
	if err := unmarshal(&s); err != nil {
		panic(err)
	}
	if s == "a" {
		if err := unmarshal(&b); err == nil {
			panic("should have failed")
		}
		return unmarshal(&a)
	}
	if err := unmarshal(&a); err == nil {
		panic("should have failed")
	}
	return unmarshal(&b)
}

func TestObsoleteUnmarshalerTypeErrorProxying(t *testing.T) {
	type T struct {
		Before int
		After  int
		M      map[string]*obsoleteProxyTypeError
	}
	var v T
	data := `{before: A, m: {abc: a, def: b}, after: B}`
	err := yaml.Unmarshal([]byte(data), &v)
	require.Error(t, err)
	require.Equal(t, ""+
		"yaml: unmarshal errors:\n"+
		"  line 1: cannot unmarshal !!str `A` into int\n"+
		"  line 1: cannot unmarshal !!str `a` into int32\n"+
		"  line 1: cannot unmarshal !!str `b` into int64\n"+
		"  line 1: cannot unmarshal !!str `B` into int", err.Error())
}

var failingErr = errors.New("failingErr")

type failingUnmarshaler struct{}

func (ft *failingUnmarshaler) UnmarshalYAML(node *yaml.Node) error {
	return failingErr
}

func TestUnmarshalerError(t *testing.T) {
	err := yaml.Unmarshal([]byte("a: b"), &failingUnmarshaler{})
	require.Equal(t, failingErr, err)
}

type obsoleteFailingUnmarshaler struct{}

func (ft *obsoleteFailingUnmarshaler) UnmarshalYAML(unmarshal func(interface{}) error) error {
	return failingErr
}

func TestObsoleteUnmarshalerError(t *testing.T) {
	err := yaml.Unmarshal([]byte("a: b"), &obsoleteFailingUnmarshaler{})
	require.Equal(t, failingErr, err)
}

type sliceUnmarshaler []int

func (su *sliceUnmarshaler) UnmarshalYAML(node *yaml.Node) error {
	var slice []int
	err := node.Decode(&slice)
	if err == nil {
		*su = slice
		return nil
	}

	var intVal int
	err = node.Decode(&intVal)
	if err == nil {
		*su = []int{intVal}
		return nil
	}

	return err
}

func TestUnmarshalerRetry(t *testing.T) {
	var su sliceUnmarshaler
	err := yaml.Unmarshal([]byte("[1, 2, 3]"), &su)
	require.NoError(t, err)
	require.Equal(t, sliceUnmarshaler([]int{1, 2, 3}), su)

	err = yaml.Unmarshal([]byte("1"), &su)
	require.NoError(t, err)
	require.Equal(t, sliceUnmarshaler([]int{1}), su)
}

type obsoleteSliceUnmarshaler []int

func (su *obsoleteSliceUnmarshaler) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var slice []int
	err := unmarshal(&slice)
	if err == nil {
		*su = slice
		return nil
	}

	var intVal int
	err = unmarshal(&intVal)
	if err == nil {
		*su = []int{intVal}
		return nil
	}

	return err
}

func TestObsoleteUnmarshalerRetry(t *testing.T) {
	var su obsoleteSliceUnmarshaler
	err := yaml.Unmarshal([]byte("[1, 2, 3]"), &su)
	require.NoError(t, err)
	require.Equal(t, obsoleteSliceUnmarshaler([]int{1, 2, 3}), su)

	err = yaml.Unmarshal([]byte("1"), &su)
	require.NoError(t, err)
	require.Equal(t, obsoleteSliceUnmarshaler([]int{1}), su)
}

// From http://yaml.org/type/merge.html
var mergeTests = `
anchors:
  list:
    - &CENTER { "x": 1, "y": 2 }
    - &LEFT   { "x": 0, "y": 2 }
    - &BIG    { "r": 10 }
    - &SMALL  { "r": 1 }

# All the following maps are equal:

plain:
  # Explicit keys
  "x": 1
  "y": 2
  "r": 10
  label: center/big

mergeOne:
  # Merge one map
  << : *CENTER
  "r": 10
  label: center/big

mergeMultiple:
  # Merge multiple maps
  << : [ *CENTER, *BIG ]
  label: center/big

override:
  # Override
  << : [ *BIG, *LEFT, *SMALL ]
  "x": 1
  label: center/big

shortTag:
  # Explicit short merge tag
  !!merge "<<" : [ *CENTER, *BIG ]
  label: center/big

longTag:
  # Explicit merge long tag
  !<tag:yaml.org,2002:merge> "<<" : [ *CENTER, *BIG ]
  label: center/big

inlineMap:
  # Inlined map 
  << : {"x": 1, "y": 2, "r": 10}
  label: center/big

inlineSequenceMap:
  # Inlined map in sequence
  << : [ *CENTER, {"r": 10} ]
  label: center/big
`

func TestMerge(t *testing.T) {
	want := map[string]interface{}{
		"x":     1,
		"y":     2,
		"r":     10,
		"label": "center/big",
	}

	wantStringMap := make(map[string]interface{})
	for k, v := range want {
		wantStringMap[fmt.Sprintf("%v", k)] = v
	}

	var m map[interface{}]interface{}
	err := yaml.Unmarshal([]byte(mergeTests), &m)
	require.NoError(t, err)
	for name, test := range m {
		if name == "anchors" {
			continue
		}
		if name == "plain" {
			require.Equal(t, wantStringMap, test, "test %q failed", name)
			continue
		}
		require.Equal(t, want, test, "test %q failed", name)
	}
}

func TestMergeStruct(t *testing.T) {
	type Data struct {
		X, Y, R int
		Label   string
	}
	want := Data{X: 1, Y: 2, R: 10, Label: "center/big"}

	var m map[string]Data
	err := yaml.Unmarshal([]byte(mergeTests), &m)
	require.NoError(t, err)
	for name, test := range m {
		if name == "anchors" {
			continue
		}
		require.Equal(t, want, test, "test %q failed", name)
	}
}

var mergeTestsNested = `
mergeouter1: &mergeouter1
    d: 40
    e: 50

mergeouter2: &mergeouter2
    e: 5
    f: 6
    g: 70

mergeinner1: &mergeinner1
    <<: *mergeouter1
    inner:
        a: 1
        b: 2

mergeinner2: &mergeinner2
    <<: *mergeouter2
    inner:
        a: -1
        b: -2

outer:
    <<: [*mergeinner1, *mergeinner2]
    f: 60
    inner:
        a: 10
`

func TestMergeNestedStruct(t *testing.T) {
	// Issue #818: Merging used to just unmarshal twice on the target
	// value, which worked for maps as these were replaced by the new map,
	// but not on struct values as these are preserved. This resulted in
	// the nested data from the merged map to be mixed up with the data
	// from the map being merged into.
	//
	// This test also prevents two potential bugs from showing up:
	//
	// 1) A simple implementation might just zero out the nested value
	//    before unmarshaling the second time, but this would clobber previous
	//    data that is usually respected ({C: 30} below).
	//
	// 2) A simple implementation might attempt to handle the key skipping
	//    directly by iterating over the merging map without recursion, but
	//    there are more complex cases that require recursion.
	//
	// Quick summary of the fields:
	//
	// - A must come from outer and not overriden
	// - B must not be set as its in the ignored merge
	// - C should still be set as it's preset in the value
	// - D should be set from the recursive merge
	// - E should be set from the first recursive merge, ignored on the second
	// - F should be set in the inlined map from outer, ignored later
	// - G should be set in the inlined map from the second recursive merge
	//

	type Inner struct {
		A, B, C int
	}
	type Outer struct {
		D, E   int
		Inner  Inner
		Inline map[string]int `yaml:",inline"`
	}
	type Data struct {
		Outer Outer
	}

	test := Data{Outer: Outer{Inner: Inner{C: 30}}}
	want := Data{Outer: Outer{D: 40, E: 50, Inner: Inner{A: 10, C: 30}, Inline: map[string]int{"f": 60, "g": 70}}}

	err := yaml.Unmarshal([]byte(mergeTestsNested), &test)
	require.NoError(t, err)
	require.Equal(t, want, test)

	// Repeat test with a map.

	var testm map[string]interface{}
	var wantm = map[string]interface{}{
		"f": 60,
		"inner": map[string]interface{}{
			"a": 10,
		},
		"d": 40,
		"e": 50,
		"g": 70,
	}
	err = yaml.Unmarshal([]byte(mergeTestsNested), &testm)
	require.NoError(t, err)
	require.Equal(t, wantm, testm["outer"])
}

var unmarshalNullTests = []struct {
	input              string
	pristine, expected func() interface{}
}{{
	input:    "null",
	pristine: func() interface{} { var v interface{}; v = "v"; return &v },
	expected: func() interface{} { var v interface{}; v = nil; return &v },
}, {
	input:    "null",
	pristine: func() interface{} { var s = "s"; return &s },
	expected: func() interface{} { var s = "s"; return &s },
}, {
	input:    "null",
	pristine: func() interface{} { var s = "s"; sptr := &s; return &sptr },
	expected: func() interface{} { var sptr *string; return &sptr },
}, {
	input:    "null",
	pristine: func() interface{} { var i = 1; return &i },
	expected: func() interface{} { var i = 1; return &i },
}, {
	input:    "null",
	pristine: func() interface{} { var i = 1; iptr := &i; return &iptr },
	expected: func() interface{} { var iptr *int; return &iptr },
}, {
	input:    "null",
	pristine: func() interface{} { var m = map[string]int{"s": 1}; return &m },
	expected: func() interface{} { var m map[string]int; return &m },
}, {
	input:    "null",
	pristine: func() interface{} { var m = map[string]int{"s": 1}; return m },
	expected: func() interface{} { var m = map[string]int{"s": 1}; return m },
}, {
	input:    "s2: null\ns3: null",
	pristine: func() interface{} { var m = map[string]int{"s1": 1, "s2": 2}; return m },
	expected: func() interface{} { var m = map[string]int{"s1": 1, "s2": 2, "s3": 0}; return m },
}, {
	input:    "s2: null\ns3: null",
	pristine: func() interface{} { var m = map[string]interface{}{"s1": 1, "s2": 2}; return m },
	expected: func() interface{} { var m = map[string]interface{}{"s1": 1, "s2": nil, "s3": nil}; return m },
}}

func TestUnmarshalNull(t *testing.T) {
	for _, test := range unmarshalNullTests {
		pristine := test.pristine()
		expected := test.expected()
		err := yaml.Unmarshal([]byte(test.input), pristine)
		require.NoError(t, err)
		require.Equal(t, expected, pristine)
	}
}

func TestUnmarshalPreservesData(t *testing.T) {
	var v struct {
		A, B int
		C    int `yaml:"-"`
	}
	v.A = 42
	v.C = 88
	err := yaml.Unmarshal([]byte("---"), &v)
	require.NoError(t, err)
	require.Equal(t, 42, v.A)
	require.Equal(t, 0, v.B)
	require.Equal(t, 88, v.C)

	err = yaml.Unmarshal([]byte("b: 21\nc: 99"), &v)
	require.NoError(t, err)
	require.Equal(t, 42, v.A)
	require.Equal(t, 21, v.B)
	require.Equal(t, 88, v.C)
}

func TestUnmarshalSliceOnPreset(t *testing.T) {
	// Issue #48.
	v := struct{ A []int }{A: []int{1}}
	err := yaml.Unmarshal([]byte("a: [2]"), &v)
	require.NoError(t, err)
	require.Equal(t, []int{2}, v.A)
}

var unmarshalStrictTests = []struct {
	known   bool
	unique  bool
	in      string
	want    interface{}
	wantErr string
}{{
	known:   true,
	in:      "a: 1\nc: 2\n",
	want:    struct{ A, B int }{A: 1},
	wantErr: "yaml: unmarshal errors:\n  line 2: field c not found in type struct { A int; B int }",
}, {
	unique:  true,
	in:      "a: 1\nb: 2\na: 3\n",
	want:    struct{ A, B int }{A: 3, B: 2},
	wantErr: "yaml: unmarshal errors:\n  line 3: mapping key \"a\" already defined at line 1",
}, {
	unique: true,
	in:     "c: 3\na: 1\nb: 2\nc: 4\n",
	want:   struct {
		A       int
		inlineB `yaml:",inline"`
	}{
		A:       1,
		inlineB: inlineB{
			B:       2,
			inlineC: inlineC{
				C:       4,
			},
		},
	},
	wantErr: "yaml: unmarshal errors:\n  line 4: mapping key \"c\" already defined at line 1",
}, {
	unique: true,
	in:     "c: 0\na: 1\nb: 2\nc: 1\n",
	want:   struct {
		A       int
		inlineB `yaml:",inline"`
	}{
		A:       1,
		inlineB: inlineB{
			B:       2,
			inlineC: inlineC{
				C:       1,
			},
		},
	},
	wantErr: "yaml: unmarshal errors:\n  line 4: mapping key \"c\" already defined at line 1",
}, {
	unique: true,
	in:     "c: 1\na: 1\nb: 2\nc: 3\n",
	want:   struct {
		A int
		M map[string]interface{} `yaml:",inline"`
	}{
		A: 1,
		M: map[string]interface{}{
			"b": 2,
			"c": 3,
		},
	},
	wantErr: "yaml: unmarshal errors:\n  line 4: mapping key \"c\" already defined at line 1",
}, {
	unique: true,
	in:     "a: 1\n9: 2\nnull: 3\n9: 4",
	want:   map[interface{}]interface{}{
		"a": 1,
		nil: 3,
		9:   4,
	},
	wantErr: "yaml: unmarshal errors:\n  line 4: mapping key \"9\" already defined at line 2",
}}

func TestUnmarshalKnownFields(t *testing.T) {
	for i, item := range unmarshalStrictTests {
		t.Logf("test %d: %q", i, item.in)
		// First test that normal Unmarshal unmarshals to the expected value.
		if !item.unique {
			value := reflect.New(reflect.ValueOf(item.want).Type())
			err := yaml.Unmarshal([]byte(item.in), value.Interface())
			require.NoError(t, err)
			require.Equal(t, item.want, value.Elem().Interface())
		}

		// Then test that it fails on the same thing with KnownFields on.
		value := reflect.New(reflect.ValueOf(item.want).Type())
		dec := yaml.NewDecoder(bytes.NewBuffer([]byte(item.in)))
		dec.KnownFields(item.known)
		err := dec.Decode(value.Interface())
		require.EqualError(t, err, item.wantErr)
	}
}

type textUnmarshaler struct {
	S string
}

func (t *textUnmarshaler) UnmarshalText(s []byte) error {
	t.S = string(s)
	return nil
}

func TestFuzzCrashers(t *testing.T) {
	cases := []string{
		// runtime error: index out of range
		"\"\\0\\\r\n",

		// should not happen
		"  0: [\n] 0",
		"? ? \"\n\" 0",
		"    - {\n000}0",
		"0:\n  0: [0\n] 0",
		"    - \"\n000\"0",
		"    - \"\n000\"\"",
		"0:\n    - {\n000}0",
		"0:\n    - \"\n000\"0",
		"0:\n    - \"\n000\"\"",

		// runtime error: index out of range
		" \ufeff\n",
		"? \ufeff\n",
		"? \ufeff:\n",
		"0: \ufeff\n",
		"? \ufeff: \ufeff\n",
	}
	for _, data := range cases {
		var v interface{}
		_ = yaml.Unmarshal([]byte(data), &v)
	}
}
