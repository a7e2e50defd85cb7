// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"bytes"
	"fmt"
)

// maxDepth limits how deeply arrays and maps may be nested.
const maxDepth = 512

// Kind is the type of a [Value].
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindBytes
	KindArray
	KindMap
	KindFloat32
)

var kindNames = [...]string{
	KindNil:     "nil",
	KindBool:    "bool",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindString:  "string",
	KindBytes:   "bytes",
	KindArray:   "array",
	KindMap:     "map",
	KindFloat32: "float32",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a schema-less value tree. The zero value is nil. Maps keep their
// entries in the order they were read or built, so re-encoding a decoded value
// reproduces the same bytes.
//
// Negative integers are [KindInt]; non-negative integers are always
// [KindUint]. Single precision floats are [KindFloat32] and keep their width
// when re-encoded.
type Value struct {
	Kind  Kind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Str   string
	Bytes []byte
	Array []Value
	Map   []MapEntry
}

type MapEntry struct {
	Key   Value
	Value Value
}

func NilValue() Value { return Value{} }

func BoolValue(v bool) Value { return Value{Kind: KindBool, Bool: v} }

func IntValue(v int64) Value {
	if v >= 0 {
		return UintValue(uint64(v))
	}
	return Value{Kind: KindInt, Int: v}
}

func UintValue(v uint64) Value { return Value{Kind: KindUint, Uint: v} }

func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }

func Float32Value(v float32) Value { return Value{Kind: KindFloat32, Float: float64(v)} }

func StringValue(v string) Value { return Value{Kind: KindString, Str: v} }

func BytesValue(v []byte) Value {
	if v == nil {
		v = []byte{}
	}
	return Value{Kind: KindBytes, Bytes: v}
}

func ArrayValue(v ...Value) Value {
	if v == nil {
		v = []Value{}
	}
	return Value{Kind: KindArray, Array: v}
}

func MapValue(v ...MapEntry) Value {
	if v == nil {
		v = []MapEntry{}
	}
	return Value{Kind: KindMap, Map: v}
}

// Entry returns a map entry with a string key.
func Entry(key string, value Value) MapEntry {
	return MapEntry{Key: StringValue(key), Value: value}
}

func (v Value) IsNil() bool { return v.Kind == KindNil }

// Get returns the value of the first entry whose key is the given string.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind != KindMap {
		return Value{}, false
	}
	for _, e := range v.Map {
		if e.Key.Kind == KindString && e.Key.Str == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Equal returns true if v and u have the same kind and contents. Map entries
// are compared in order.
func (v Value) Equal(u Value) bool {
	if v.Kind != u.Kind {
		return false
	}
	switch v.Kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool == u.Bool
	case KindInt:
		return v.Int == u.Int
	case KindUint:
		return v.Uint == u.Uint
	case KindFloat, KindFloat32:
		return v.Float == u.Float
	case KindString:
		return v.Str == u.Str
	case KindBytes:
		return bytes.Equal(v.Bytes, u.Bytes)
	case KindArray:
		if len(v.Array) != len(u.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(u.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.Map) != len(u.Map) {
			return false
		}
		for i := range v.Map {
			if !v.Map[i].Key.Equal(u.Map[i].Key) || !v.Map[i].Value.Equal(u.Map[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

func (v Value) MarshalMsgpack(w *Writer) {
	v.marshal(w, 0)
}

func (v Value) marshal(w *Writer, depth int) {
	if depth > maxDepth {
		w.Record(fmt.Errorf("value nested more than %d levels deep", maxDepth))
		return
	}

	switch v.Kind {
	case KindNil:
		w.WriteNil()
	case KindBool:
		w.WriteBool(v.Bool)
	case KindInt:
		w.WriteInt(v.Int)
	case KindUint:
		w.WriteUint(v.Uint)
	case KindFloat:
		w.WriteFloat(v.Float)
	case KindFloat32:
		w.WriteFloat32(float32(v.Float))
	case KindString:
		w.WriteString(v.Str)
	case KindBytes:
		w.WriteBytes(v.Bytes)
	case KindArray:
		w.WriteArrayLen(len(v.Array))
		for _, e := range v.Array {
			e.marshal(w, depth+1)
		}
	case KindMap:
		w.WriteMapLen(len(v.Map))
		for _, e := range v.Map {
			e.Key.marshal(w, depth+1)
			e.Value.marshal(w, depth+1)
		}
	default:
		w.Record(fmt.Errorf("cannot encode value of %v", v.Kind))
	}
}

func (v *Value) UnmarshalMsgpack(r *Reader) {
	*v = r.readValue(0)
}

func (r *Reader) readValue(depth int) Value {
	if depth > maxDepth {
		r.Errorf("value nested more than %d levels deep", maxDepth)
		return Value{}
	}

	k, ok := r.Peek()
	if !ok {
		return Value{}
	}

	switch k {
	case KindNil:
		r.ReadNil()
		return NilValue()
	case KindBool:
		return BoolValue(r.ReadBool())
	case KindInt:
		return IntValue(r.ReadInt())
	case KindUint:
		return UintValue(r.ReadUint())
	case KindFloat:
		return FloatValue(r.ReadFloat())
	case KindFloat32:
		return Float32Value(r.ReadFloat32())
	case KindString:
		return StringValue(r.ReadString())
	case KindBytes:
		return BytesValue(r.ReadBytes())
	case KindArray:
		n := r.ReadArrayLen()
		arr := make([]Value, 0, r.capacity(n))
		for i := 0; i < n && r.err == nil; i++ {
			arr = append(arr, r.readValue(depth+1))
		}
		return ArrayValue(arr...)
	case KindMap:
		n := r.ReadMapLen()
		m := make([]MapEntry, 0, r.capacity(n))
		for i := 0; i < n && r.err == nil; i++ {
			var e MapEntry
			e.Key = r.readValue(depth + 1)
			e.Value = r.readValue(depth + 1)
			m = append(m, e)
		}
		return MapValue(m...)
	}
	return Value{}
}

func (v Value) MarshalBinary() ([]byte, error) {
	return Marshal(v)
}

func (v *Value) UnmarshalBinary(b []byte) error {
	return Unmarshal(b, v)
}

// String returns the JSON form of the value, or a Go-syntax representation if
// the value cannot be expressed as JSON.
func (v Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(b)
}
