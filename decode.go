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
	"encoding"
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"time"
)

// A decoder populates Go values from an already-composed Node tree: the
// reflect-driven half of Unmarshal. Type mismatches are collected into
// typeErrors rather than aborting, so one pass reports every field that
// failed instead of the first.

type decoder struct {
	doc        *Node
	aliases    map[*Node]bool
	typeErrors []string

	stringMapType  reflect.Type
	generalMapType reflect.Type

	knownFields bool
	uniqueKeys  bool
	decodeCount int
	aliasCount  int
	aliasDepth  int

	mergedFields map[interface{}]bool
}

var (
	nodeType       = reflect.TypeOf(Node{})
	durationType   = reflect.TypeOf(time.Duration(0))
	stringMapType  = reflect.TypeOf(map[string]interface{}{})
	generalMapType = reflect.TypeOf(map[interface{}]interface{}{})
	ifaceType      = generalMapType.Elem()
	timeType       = reflect.TypeOf(time.Time{})
	ptrTimeType    = reflect.TypeOf(&time.Time{})
)

func newDecoder() *decoder {
	d := &decoder{
		stringMapType:  stringMapType,
		generalMapType: generalMapType,
		uniqueKeys:     true,
	}
	d.aliases = make(map[*Node]bool)
	return d
}

func (d *decoder) typeMismatch(node *Node, tag string, out reflect.Value) {
	if node.Tag != "" {
		tag = node.Tag
	}
	value := node.Value
	if tag != seqTag && tag != mapTag {
		if len(value) > 10 {
			value = " `" + value[:7] + "...`"
		} else {
			value = " `" + value + "`"
		}
	}
	d.typeErrors = append(d.typeErrors, fmt.Sprintf("line %d: cannot unmarshal %s%s into %s", node.Line, shortTag(tag), value, out.Type()))
}

func (d *decoder) runUnmarshaler(node *Node, u Unmarshaler) (bool, error) {
	err := u.UnmarshalYAML(node)
	if e, ok := err.(*TypeError); ok {
		d.typeErrors = append(d.typeErrors, e.Errors...)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (d *decoder) runLegacyUnmarshaler(node *Node, u legacyUnmarshaler) (bool, error) {
	terrlen := len(d.typeErrors)
	err := u.UnmarshalYAML(func(v interface{}) (err error) {
		_, uErr := d.decode(node, reflect.ValueOf(v))
		if uErr != nil {
			return err
		}
		if len(d.typeErrors) > terrlen {
			issues := d.typeErrors[terrlen:]
			d.typeErrors = d.typeErrors[:terrlen]
			return &TypeError{issues}
		}
		return nil
	})
	if e, ok := err.(*TypeError); ok {
		d.typeErrors = append(d.typeErrors, e.Errors...)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// indirect allocates and follows pointers until it reaches a settable
// non-pointer value, invoking UnmarshalYAML along the way if any level
// implements it. It reports whether an unmarshaler already consumed the
// node and, if so, whether it succeeded. A null node is returned untouched
// so callers can apply their own null handling.
func (d *decoder) indirect(node *Node, out reflect.Value) (newout reflect.Value, unmarshaled, good bool, _ error) {
	if node.ShortTag() == nullTag {
		return out, false, false, nil
	}
	var err error
	again := true
	for again {
		again = false
		if out.Kind() == reflect.Ptr {
			if out.IsNil() {
				out.Set(reflect.New(out.Type().Elem()))
			}
			out = out.Elem()
			again = true
		}
		if out.CanAddr() {
			outi := out.Addr().Interface()
			if u, ok := outi.(Unmarshaler); ok {
				good, err = d.runUnmarshaler(node, u)
				if err != nil {
					return reflect.Value{}, false, false, err
				}
				return out, true, good, nil
			}
			if u, ok := outi.(legacyUnmarshaler); ok {
				good, err = d.runLegacyUnmarshaler(node, u)
				if err != nil {
					return reflect.Value{}, false, false, err
				}
				return out, true, good, nil
			}
		}
	}
	return out, false, false, nil
}

func (d *decoder) fieldByIndex(node *Node, v reflect.Value, index []int) (field reflect.Value) {
	if node.ShortTag() == nullTag {
		return reflect.Value{}
	}
	for _, num := range index {
		for {
			if v.Kind() == reflect.Ptr {
				if v.IsNil() {
					v.Set(reflect.New(v.Type().Elem()))
				}
				v = v.Elem()
				continue
			}
			break
		}
		v = v.Field(num)
	}
	return v
}

const (
	// 400,000 decode operations is ~500kb of dense object declarations, or
	// ~5kb of dense object declarations with 10000% alias expansion
	aliasRatioRangeLow = 400000

	// 4,000,000 decode operations is ~5MB of dense object declarations, or
	// ~4.5MB of dense object declarations with 10% alias expansion
	aliasRatioRangeHigh = 4000000

	// aliasRatioRange is the range over which we scale allowed alias ratios
	aliasRatioRange = float64(aliasRatioRangeHigh - aliasRatioRangeLow)
)

func allowedAliasRatio(decodeCount int) float64 {
	switch {
	case decodeCount <= aliasRatioRangeLow:
		// allow 99% to come from alias expansion for small-to-medium documents
		return 0.99
	case decodeCount >= aliasRatioRangeHigh:
		// allow 10% to come from alias expansion for very large documents
		return 0.10
	default:
		// scale smoothly from 99% down to 10% over the range.
		// this maps to 396,000 - 400,000 allowed alias-driven decodes over the range.
		// 400,000 decode operations is ~100MB of allocations in worst-case scenarios (single-item maps).
		return 0.99 - 0.89*(float64(decodeCount-aliasRatioRangeLow)/aliasRatioRange)
	}
}

func (d *decoder) decode(node *Node, out reflect.Value) (bool, error) {
	d.decodeCount++
	if d.aliasDepth > 0 {
		d.aliasCount++
	}
	if d.aliasCount > 100 && d.decodeCount > 1000 && float64(d.aliasCount)/float64(d.decodeCount) > allowedAliasRatio(d.decodeCount) {
		return false, fmt.Errorf("yaml: document contains excessive aliasing")
	}
	if out.Type() == nodeType {
		out.Set(reflect.ValueOf(node).Elem())
		return true, nil
	}
	switch node.Kind {
	case DocumentNode:
		return d.document(node, out)
	case AliasNode:
		return d.alias(node, out)
	}
	out, unmarshaled, good, err := d.indirect(node, out)
	if err != nil {
		return false, err
	}
	if unmarshaled {
		return good, nil
	}
	switch node.Kind {
	case ScalarNode:
		return d.scalar(node, out)
	case MappingNode:
		return d.mapping(node, out)
	case SequenceNode:
		return d.sequence(node, out)
	case 0:
		if node.IsZero() {
			return d.null(out), nil
		}
	}
	return false, fmt.Errorf("yaml: cannot decode node with unknown kind %d", node.Kind)
}

func (d *decoder) document(node *Node, out reflect.Value) (bool, error) {
	if len(node.Content) == 1 {
		d.doc = node
		return d.decode(node.Content[0], out)
	}
	return false, nil
}

func (d *decoder) alias(node *Node, out reflect.Value) (bool, error) {
	if d.aliases[node] {
		return false, fmt.Errorf("yaml: anchor '%s' value contains itself", node.Value)
	}
	d.aliases[node] = true
	d.aliasDepth++
	good, err := d.decode(node.Alias, out)
	if err != nil {
		return false, err
	}
	d.aliasDepth--
	delete(d.aliases, node)
	return good, nil
}

var zeroValue reflect.Value

func resetMap(out reflect.Value) {
	for _, k := range out.MapKeys() {
		out.SetMapIndex(k, zeroValue)
	}
}

func (d *decoder) null(out reflect.Value) bool {
	if out.CanAddr() {
		switch out.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice:
			out.Set(reflect.Zero(out.Type()))
			return true
		}
	}
	return false
}

func (d *decoder) scalar(node *Node, out reflect.Value) (bool, error) {
	var tag string
	var resolved interface{}
	var err error
	if node.indicatedString() {
		tag = strTag
		resolved = node.Value
	} else {
		tag, resolved, err = resolveTag(node.Tag, node.Value)
		if err != nil {
			return false, err
		}
		if tag == binaryTag {
			data, err := base64.StdEncoding.DecodeString(resolved.(string))
			if err != nil {
				return false, fmt.Errorf("yaml: !!binary value contains invalid base64 data")
			}
			resolved = string(data)
		}
	}
	if resolved == nil {
		return d.null(out), nil
	}
	if resolvedv := reflect.ValueOf(resolved); out.Type() == resolvedv.Type() {
		// We've resolved to exactly the type we want, so use that.
		out.Set(resolvedv)
		return true, nil
	}
	// Perhaps we can use the value as a TextUnmarshaler to
	// set its value.
	if out.CanAddr() {
		u, ok := out.Addr().Interface().(encoding.TextUnmarshaler)
		if ok {
			var text []byte
			if tag == binaryTag {
				text = []byte(resolved.(string))
			} else {
				// Any scalar may be offered to a TextUnmarshaler; the
				// implementation is responsible for rejecting values it
				// doesn't accept.
				text = []byte(node.Value)
			}
			err = u.UnmarshalText(text)
			if err != nil {
				return false, err
			}
			return true, nil
		}
	}
	switch out.Kind() {
	case reflect.String:
		if tag == binaryTag {
			out.SetString(resolved.(string))
			return true, nil
		}
		out.SetString(node.Value)
		return true, nil
	case reflect.Interface:
		out.Set(reflect.ValueOf(resolved))
		return true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		// Bare integers never convert to a time.Duration; only a string
		// with a unit suffix does.
		isDuration := out.Type() == durationType

		switch resolved := resolved.(type) {
		case int:
			if !isDuration && !out.OverflowInt(int64(resolved)) {
				out.SetInt(int64(resolved))
				return true, nil
			}
		case int64:
			if !isDuration && !out.OverflowInt(resolved) {
				out.SetInt(resolved)
				return true, nil
			}
		case uint64:
			if !isDuration && resolved <= math.MaxInt64 && !out.OverflowInt(int64(resolved)) {
				out.SetInt(int64(resolved))
				return true, nil
			}
		case float64:
			if !isDuration && resolved <= math.MaxInt64 && !out.OverflowInt(int64(resolved)) {
				out.SetInt(int64(resolved))
				return true, nil
			}
		case string:
			if out.Type() == durationType {
				d, err := time.ParseDuration(resolved)
				if err == nil {
					out.SetInt(int64(d))
					return true, nil
				}
			}
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		switch resolved := resolved.(type) {
		case int:
			if resolved >= 0 && !out.OverflowUint(uint64(resolved)) {
				out.SetUint(uint64(resolved))
				return true, nil
			}
		case int64:
			if resolved >= 0 && !out.OverflowUint(uint64(resolved)) {
				out.SetUint(uint64(resolved))
				return true, nil
			}
		case uint64:
			if !out.OverflowUint(uint64(resolved)) {
				out.SetUint(uint64(resolved))
				return true, nil
			}
		case float64:
			if resolved <= math.MaxUint64 && !out.OverflowUint(uint64(resolved)) {
				out.SetUint(uint64(resolved))
				return true, nil
			}
		}
	case reflect.Bool:
		switch resolved := resolved.(type) {
		case bool:
			out.SetBool(resolved)
			return true, nil
		case string:
			// YAML 1.1 booleans (https://yaml.org/type/bool.html), accepted
			// only when the target is a typed bool.
			switch resolved {
			case "y", "Y", "yes", "Yes", "YES", "on", "On", "ON":
				out.SetBool(true)
				return true, nil
			case "n", "N", "no", "No", "NO", "off", "Off", "OFF":
				out.SetBool(false)
				return true, nil
			}
		}
	case reflect.Float32, reflect.Float64:
		switch resolved := resolved.(type) {
		case int:
			out.SetFloat(float64(resolved))
			return true, nil
		case int64:
			out.SetFloat(float64(resolved))
			return true, nil
		case uint64:
			out.SetFloat(float64(resolved))
			return true, nil
		case float64:
			out.SetFloat(resolved)
			return true, nil
		}
	case reflect.Struct:
		if resolvedv := reflect.ValueOf(resolved); out.Type() == resolvedv.Type() {
			out.Set(resolvedv)
			return true, nil
		}
	case reflect.Ptr:
		panic("yaml internal error: please report the issue")
	}
	d.typeMismatch(node, tag, out)
	return false, nil
}

func settableValueOf(i interface{}) reflect.Value {
	v := reflect.ValueOf(i)
	sv := reflect.New(v.Type()).Elem()
	sv.Set(v)
	return sv
}

func (d *decoder) sequence(node *Node, out reflect.Value) (bool, error) {
	l := len(node.Content)

	var iface reflect.Value
	switch out.Kind() {
	case reflect.Slice:
		out.Set(reflect.MakeSlice(out.Type(), l, l))
	case reflect.Array:
		if l != out.Len() {
			return false, fmt.Errorf("yaml: invalid array: want %d elements but got %d", out.Len(), l)
		}
	case reflect.Interface:
		// No type hints. Will have to use a generic sequence.
		iface = out
		out = settableValueOf(make([]interface{}, l))
	default:
		d.typeMismatch(node, seqTag, out)
		return false, nil
	}
	et := out.Type().Elem()

	j := 0
	for i := 0; i < l; i++ {
		e := reflect.New(et).Elem()

		ok, err := d.decode(node.Content[i], e)
		if err != nil {
			return false, err
		}
		if ok {
			out.Index(j).Set(e)
			j++
		}
	}
	if out.Kind() != reflect.Array {
		out.Set(out.Slice(0, j))
	}
	if iface.IsValid() {
		iface.Set(out)
	}
	return true, nil
}

func (d *decoder) mapping(node *Node, out reflect.Value) (bool, error) {
	l := len(node.Content)
	if d.uniqueKeys {
		newErr := false
		for i := 0; i < l; i += 2 {
			ni := node.Content[i]
			for j := i + 2; j < l; j += 2 {
				nj := node.Content[j]
				if ni.Kind == nj.Kind && ni.Value == nj.Value {
					d.typeErrors = append(d.typeErrors, fmt.Sprintf("line %d: mapping key %#v already defined at line %d", nj.Line, nj.Value, ni.Line))
					newErr = true
				}
			}
		}
		if newErr {
			return false, nil
		}
	}
	switch out.Kind() {
	case reflect.Struct:
		return d.structMapping(node, out)
	case reflect.Map:
		// okay
	case reflect.Interface:
		iface := out
		if isStringMap(node) {
			out = reflect.MakeMap(d.stringMapType)
		} else {
			out = reflect.MakeMap(d.generalMapType)
		}
		iface.Set(out)
	default:
		d.typeMismatch(node, mapTag, out)
		return false, nil
	}

	outt := out.Type()
	kt := outt.Key()
	et := outt.Elem()

	stringMapType := d.stringMapType
	generalMapType := d.generalMapType
	if outt.Elem() == ifaceType {
		if outt.Key().Kind() == reflect.String {
			d.stringMapType = outt
		} else if outt.Key() == ifaceType {
			d.generalMapType = outt
		}
	}

	mergedFields := d.mergedFields
	d.mergedFields = nil

	var mergeNode *Node

	mapIsNew := false
	if out.IsNil() {
		out.Set(reflect.MakeMap(outt))
		mapIsNew = true
	}
	for i := 0; i < l; i += 2 {
		if isMerge(node.Content[i]) {
			mergeNode = node.Content[i+1]
			continue
		}
		k := reflect.New(kt).Elem()
		ok, err := d.decode(node.Content[i], k)
		if err != nil {
			return false, err
		}
		if ok {
			if mergedFields != nil {
				ki := k.Interface()
				if mergedFields[ki] {
					continue
				}
				mergedFields[ki] = true
			}
			kkind := k.Kind()
			if kkind == reflect.Interface {
				kkind = k.Elem().Kind()
			}
			if kkind == reflect.Map || kkind == reflect.Slice {
				return false, fmt.Errorf("yaml: invalid map key: %#v", k.Interface())
			}
			e := reflect.New(et).Elem()
			ok, err = d.decode(node.Content[i+1], e)
			if err != nil {
				return false, err
			}
			if ok || node.Content[i+1].ShortTag() == nullTag && (mapIsNew || !out.MapIndex(k).IsValid()) {
				out.SetMapIndex(k, e)
			}
		}
	}

	d.mergedFields = mergedFields
	if mergeNode != nil {
		err := d.merge(node, mergeNode, out)
		if err != nil {
			return false, err
		}
	}

	d.stringMapType = stringMapType
	d.generalMapType = generalMapType
	return true, nil
}

func isStringMap(node *Node) bool {
	if node.Kind != MappingNode {
		return false
	}
	l := len(node.Content)
	for i := 0; i < l; i += 2 {
		short := node.Content[i].ShortTag()
		if short != strTag && short != mergeTag {
			return false
		}
	}
	return true
}

func (d *decoder) structMapping(node *Node, out reflect.Value) (bool, error) {
	sinfo, err := getStructInfo(out.Type())
	if err != nil {
		panic(err)
	}

	var inlineMap reflect.Value
	var elemType reflect.Type
	if sinfo.InlineMap != -1 {
		inlineMap = out.Field(sinfo.InlineMap)
		elemType = inlineMap.Type().Elem()
	}

	for _, index := range sinfo.InlineUnmarshalers {
		field := d.fieldByIndex(node, out, index)
		_, _, _, err = d.indirect(node, field)
		if err != nil {
			return false, err
		}
	}

	mergedFields := d.mergedFields
	d.mergedFields = nil
	var mergeNode *Node
	var doneFields []bool
	if d.uniqueKeys {
		doneFields = make([]bool, len(sinfo.FieldsList))
	}
	name := settableValueOf("")
	l := len(node.Content)
	for i := 0; i < l; i += 2 {
		ni := node.Content[i]
		if isMerge(ni) {
			mergeNode = node.Content[i+1]
			continue
		}
		var ok bool
		ok, err = d.decode(ni, name)
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}
		sname := name.String()
		if mergedFields != nil {
			if mergedFields[sname] {
				continue
			}
			mergedFields[sname] = true
		}
		if info, ok := sinfo.FieldsMap[sname]; ok {
			if d.uniqueKeys {
				if doneFields[info.Id] {
					d.typeErrors = append(d.typeErrors, fmt.Sprintf("line %d: field %s already set in type %s", ni.Line, name.String(), out.Type()))
					continue
				}
				doneFields[info.Id] = true
			}
			var field reflect.Value
			if info.Inline == nil {
				field = out.Field(info.Num)
			} else {
				field = d.fieldByIndex(node, out, info.Inline)
			}
			_, err = d.decode(node.Content[i+1], field)
			if err != nil {
				return false, err
			}
		} else if sinfo.InlineMap != -1 {
			if inlineMap.IsNil() {
				inlineMap.Set(reflect.MakeMap(inlineMap.Type()))
			}
			value := reflect.New(elemType).Elem()
			_, err = d.decode(node.Content[i+1], value)
			if err != nil {
				return false, err
			}
			inlineMap.SetMapIndex(name, value)
		} else if d.knownFields {
			d.typeErrors = append(d.typeErrors, fmt.Sprintf("line %d: field %s not found in type %s", ni.Line, name.String(), out.Type()))
		}
	}

	d.mergedFields = mergedFields
	if mergeNode != nil {
		err = d.merge(node, mergeNode, out)
		if err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *decoder) merge(parent *Node, merge *Node, out reflect.Value) error {
	mergedFields := d.mergedFields
	if mergedFields == nil {
		d.mergedFields = make(map[interface{}]bool)
		for i := 0; i < len(parent.Content); i += 2 {
			k := reflect.New(ifaceType).Elem()
			ok, err := d.decode(parent.Content[i], k)
			if err != nil {
				return err
			}
			if ok {
				d.mergedFields[k.Interface()] = true
			}
		}
	}

	wantMapErr := fmt.Errorf("yaml: map merge requires map or sequence of maps as the value")

	switch merge.Kind {
	case MappingNode:
		_, err := d.decode(merge, out)
		if err != nil {
			return err
		}
	case AliasNode:
		if merge.Alias != nil && merge.Alias.Kind != MappingNode {
			return wantMapErr
		}
		_, err := d.decode(merge, out)
		if err != nil {
			return err
		}
	case SequenceNode:
		for i := 0; i < len(merge.Content); i++ {
			ni := merge.Content[i]
			if ni.Kind == AliasNode {
				if ni.Alias != nil && ni.Alias.Kind != MappingNode {
					return wantMapErr
				}
			} else if ni.Kind != MappingNode {
				return wantMapErr
			}
			_, err := d.decode(ni, out)
			if err != nil {
				return err
			}
		}
	default:
		return wantMapErr
	}

	d.mergedFields = mergedFields
	return nil
}

func isMerge(node *Node) bool {
	return node.Kind == ScalarNode && node.Value == "<<" && (node.Tag == "" || node.Tag == "!" || shortTag(node.Tag) == mergeTag)
}
