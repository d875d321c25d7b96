// Package jsonvalue provides a discriminated JSON value type.
//
// Request payloads in this service carry arbitrary JSON (chart data rows,
// model output, uploaded files). Value keeps that data typed so callers
// switch on Kind instead of asserting on interface{} shapes.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a single JSON value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	// s holds the string for KindString and the literal text for KindNumber.
	s   string
	arr []Value
	obj []Member
}

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value Value
}

// Array is a JSON array. It only accepts arrays when decoded.
type Array []Value

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func String(s string) Value { return Value{kind: KindString, s: s} }

func Int(i int64) Value { return Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// Float returns a number value. Integral floats keep a trailing ".0" so
// that coerced CSV floats stay distinguishable from integers on the wire.
func Float(f float64) Value {
	format := byte('f')
	if a := math.Abs(f); a >= 1e16 || (a != 0 && a < 1e-4) {
		format = 'g'
	}
	lit := strconv.FormatFloat(f, format, -1, 64)
	if !strings.ContainsAny(lit, ".eEnN") {
		lit += ".0"
	}
	return Value{kind: KindNumber, s: lit}
}

// Number returns a number value from a JSON number literal.
func Number(lit string) (Value, error) {
	if !json.Valid([]byte(lit)) {
		return Value{}, fmt.Errorf("invalid number literal %q", lit)
	}
	if lit == "" || (lit[0] != '-' && (lit[0] < '0' || lit[0] > '9')) {
		return Value{}, fmt.Errorf("invalid number literal %q", lit)
	}
	return Value{kind: KindNumber, s: lit}, nil
}

func ArrayOf(items ...Value) Value {
	return Value{kind: KindArray, arr: append([]Value(nil), items...)}
}

// ObjectOf builds an object. A repeated key keeps its first position and
// takes the last value.
func ObjectOf(members ...Member) Value {
	v := Value{kind: KindObject, obj: make([]Member, 0, len(members))}
	for _, m := range members {
		v.obj = setMember(v.obj, m.Key, m.Value)
	}
	return v
}

func setMember(obj []Member, key string, val Value) []Member {
	for i := range obj {
		if obj[i].Key == key {
			obj[i].Value = val
			return obj
		}
	}
	return append(obj, Member{Key: key, Value: val})
}

func (v Value) Kind() Kind { return v.kind }

// Parse decodes exactly one JSON value. Trailing data is an error.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			return Value{}, errors.New("invalid character after top-level value")
		}
		return Value{}, err
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Value{kind: KindNumber, s: t.String()}, nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := Value{kind: KindArray, arr: []Value{}}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr.arr = append(arr.arr, item)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return arr, nil
		case '{':
			obj := Value{kind: KindObject, obj: []Member{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Value{}, fmt.Errorf("unexpected object key %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return Value{}, err
				}
				obj.obj = setMember(obj.obj, key, val)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return obj, nil
		}
	}
	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

// Compact returns the compact JSON encoding of v. HTML characters and
// non-ASCII text are written as-is.
func (v Value) Compact() string {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.String()
}

func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	v.encode(&buf)
	return buf.Bytes(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Value) encode(buf *bytes.Buffer) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		encodeString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			item.encode(buf)
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, m.Key)
			buf.WriteByte(':')
			m.Value.encode(buf)
		}
		buf.WriteByte('}')
	}
}

func encodeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	// Drop the newline Encode appends.
	buf.Truncate(buf.Len() - 1)
}

// Value returns the array as a single Value.
func (a Array) Value() Value { return ArrayOf(a...) }

func (a Array) Compact() string { return a.Value().Compact() }

func (a Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return a.Value().MarshalJSON()
}

func (a *Array) UnmarshalJSON(data []byte) error {
	v, err := Parse(data)
	if err != nil {
		return err
	}
	if v.kind != KindArray {
		return fmt.Errorf("expected a JSON array, got %s", v.kind)
	}
	*a = v.arr
	return nil
}
