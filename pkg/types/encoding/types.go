// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package encoding implements the schema-locked MessagePack encoding used by
// Trinci. Records are written as positional arrays, tagged unions as
// [tag, payload] pairs, byte strings as bin and text as str.
package encoding

// Marshaler is implemented by types that can write themselves to a [Writer].
type Marshaler interface {
	MarshalMsgpack(w *Writer)
}

// Unmarshaler is implemented by types that can read themselves from a
// [Reader].
type Unmarshaler interface {
	UnmarshalMsgpack(r *Reader)
}

// BinaryValue is a value that can be converted to and from bytes.
type BinaryValue interface {
	MarshalBinary() ([]byte, error)
	UnmarshalBinary([]byte) error
}

// Marshal encodes v.
func Marshal(v Marshaler) ([]byte, error) {
	w := NewWriter()
	v.MarshalMsgpack(w)
	return w.Bytes()
}

// Unmarshal decodes b into v. Unmarshal fails if b has bytes left over after
// v has been read.
func Unmarshal(b []byte, v Unmarshaler) error {
	r := NewReader(b)
	v.UnmarshalMsgpack(r)
	return r.Done()
}
