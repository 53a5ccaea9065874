// Package sorter provides the key ordering encode.go uses when emitting
// map keys, so that maps with numeric-looking keys sort the way a human
// would expect rather than lexically.
package sorter

import (
	"reflect"
)

// KeyList sorts reflect.Values for use when emitting map keys, giving a
// deterministic, human-friendly ordering: numbers compare numerically
// ahead of everything else, and mixed-case strings compare
// case-insensitively before falling back to a byte-wise comparison.
type KeyList []reflect.Value

func (l KeyList) Len() int      { return len(l) }
func (l KeyList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l KeyList) Less(i, j int) bool {
	a := l[i]
	b := l[j]
	ak := a.Kind()
	bk := b.Kind()
	for ak == reflect.Interface {
		a = a.Elem()
		ak = a.Kind()
	}
	for bk == reflect.Interface {
		b = b.Elem()
		bk = b.Kind()
	}
	af, aok := keyFloat(a)
	bf, bok := keyFloat(b)
	if aok && bok {
		if af != bf {
			return af < bf
		}
		if ak != bk {
			return ak < bk
		}
		return numLess(a, b)
	}
	if ak != reflect.String || bk != reflect.String {
		return ak < bk
	}
	as := a.String()
	bs := b.String()
	ar := []rune(as)
	br := []rune(bs)
	for i := 0; i < len(ar) && i < len(br); i++ {
		if ar[i] == br[i] {
			continue
		}
		al := isLetter(ar[i])
		bl := isLetter(br[i])
		if al && bl {
			arl := toLower(ar[i])
			brl := toLower(br[i])
			if arl != brl {
				return arl < brl
			}
		}
		return ar[i] < br[i]
	}
	return len(ar) < len(br)
}

// keyFloat returns a float value for v if it is a number, and whether it
// is a number.
func keyFloat(v reflect.Value) (f float64, ok bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

// numLess tiebreaks equal-valued numbers of differing kinds so Less stays
// a strict order (e.g. an int64 and a uint64 holding the same value).
func numLess(a, b reflect.Value) bool {
	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() < b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() < b.Uint()
	}
	return a.Float() < b.Float()
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func toLower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
