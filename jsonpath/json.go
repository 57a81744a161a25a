package jsonpath

import (
	"bytes"
	"encoding/json"
	"io"
	"sort"
	"unicode/utf8"
)

// Object is the decoded representation of a JSON object. Go's
// encoding/json decodes objects into map[string]any, which does not
// preserve source member order; RFC 9535 leaves enumeration order as an
// open question (see DESIGN.md), so this library decodes objects through
// DecodeJSON into an Object that remembers insertion order instead of
// silently picking whatever order range over a map happens to yield.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty, ordered JSON object.
func NewObject() *Object {
	return &Object{values: map[string]any{}}
}

// Set assigns key to value, appending key to the enumeration order the
// first time it is seen.
func (o *Object) Set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get looks up key, reporting whether the member is present.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the member names in enumeration (insertion) order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len reports the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Equal reports deep JSON-value equality, not identity or key order. Having
// this method lets go-cmp (used in the table-driven evaluator tests) compare
// *Object values without reflecting into its unexported fields.
func (o *Object) Equal(other *Object) bool {
	return equal(o, other)
}

// MarshalJSON renders the object with its members in enumeration order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DecodeJSON decodes a single JSON document into the any-tree this package
// evaluates queries against: objects become *Object (order-preserving),
// arrays become []any, and numbers decode as json.Number, keeping their
// source text. equal and compare convert numbers to float64 before comparing.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (any, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil && err != io.EOF { // consume '}'
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil && err != io.EOF { // consume ']'
				return nil, err
			}
			return arr, nil
		}
	}
	return tok, nil
}

func isArray(n any) bool {
	_, ok := n.([]any)
	return ok
}

func isObject(n any) bool {
	switch n.(type) {
	case *Object, map[string]any:
		return true
	default:
		return false
	}
}

func isString(n any) bool {
	_, ok := n.(string)
	return ok
}

// getChild looks up member name k on object n, reporting whether it is
// present. Non-objects and absent members both report ok=false.
func getChild(n any, k string) (any, bool) {
	switch o := n.(type) {
	case *Object:
		return o.Get(k)
	case map[string]any:
		v, ok := o[k]
		return v, ok
	default:
		return nil, false
	}
}

// objectKeys returns an object's member names in enumeration order,
// falling back to lexicographic order for a plain map[string]any (which a
// caller may have constructed directly rather than via DecodeJSON).
func objectKeys(o any) []string {
	switch t := o.(type) {
	case *Object:
		return t.Keys()
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	default:
		return nil
	}
}

// getChildren enumerates the immediate children of n in order: array
// elements by index, object members by enumeration order. Non-containers
// yield no children.
func getChildren(n any) []any {
	switch v := n.(type) {
	case []any:
		return v
	case *Object, map[string]any:
		keys := objectKeys(v)
		out := make([]any, 0, len(keys))
		for _, k := range keys {
			val, _ := getChild(v, k)
			out = append(out, val)
		}
		return out
	default:
		return nil
	}
}

// getDescendants enumerates every strict descendant of n in the order RFC
// 9535's descendant-segment requires: first every immediate child (in
// order), then, for each of those children in turn, its own descendants
// recursively. This yields parents before their descendants while still
// listing an entire level before recursing into it.
func getDescendants(n any) []any {
	children := getChildren(n)
	out := make([]any, 0, len(children))
	out = append(out, children...)
	for _, c := range children {
		out = append(out, getDescendants(c)...)
	}
	return out
}

// equal is JSON-value deep equality, not identity.
func equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case json.Number:
		bf, ok := numberValue(b)
		if !ok {
			return false
		}
		af, _ := av.Float64()
		return af == bf
	case float64:
		bf, ok := numberValue(b)
		return ok && av == bf
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		if isObject(a) && isObject(b) {
			ak, bk := objectKeys(a), objectKeys(b)
			if len(ak) != len(bk) {
				return false
			}
			for _, k := range ak {
				av2, _ := getChild(a, k)
				bv2, ok := getChild(b, k)
				if !ok || !equal(av2, bv2) {
					return false
				}
			}
			return true
		}
		return false
	}
}

func numberValue(n any) (float64, bool) {
	switch v := n.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// compare is a tri-state ordering on the subset of JSON values that are
// mutually orderable: numbers with numbers, strings with strings
// lexicographically by Unicode scalar value (byte comparison on UTF-8
// yields the same total order). The second return is false when a and b
// are not mutually orderable.
func compare(a, b any) (int, bool) {
	if af, aok := numberValue(a); aok {
		if bf, bok := numberValue(b); bok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			switch {
			case as < bs:
				return -1, true
			case as > bs:
				return 1, true
			default:
				return 0, true
			}
		}
		return 0, false
	}
	return 0, false
}

// unicodeLength counts Unicode scalar values (code points), not UTF-16 code
// units: length("é") is 1 for a pre-composed é.
func unicodeLength(s string) int {
	return utf8.RuneCountInString(s)
}
