// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

// Writer writes MessagePack values. The first error is sticky: once a write
// fails every subsequent write is a no-op and [Writer.Bytes] returns the
// error.
type Writer struct {
	buf *bytes.Buffer
	enc *msgpack.Encoder
	err error
}

func NewWriter() *Writer {
	w := new(Writer)
	w.buf = new(bytes.Buffer)
	w.enc = msgpack.NewEncoder(w.buf)
	return w
}

func (w *Writer) didWrite(err error, what string) {
	if err == nil || w.err != nil {
		return
	}
	w.err = errors.SerializeFailed.WithFormat("encode %s: %w", what, err)
}

// Record records an error raised by a caller while writing, unless an error
// has already been recorded.
func (w *Writer) Record(err error) {
	if err == nil || w.err != nil {
		return
	}
	w.err = errors.SerializeFailed.Wrap(err)
}

// Err returns the first error.
func (w *Writer) Err() error { return w.err }

func (w *Writer) WriteNil() {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeNil(), "nil")
}

func (w *Writer) WriteBool(v bool) {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeBool(v), "bool")
}

// WriteUint writes v using the smallest unsigned form that fits.
func (w *Writer) WriteUint(v uint64) {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeUint(v), "uint")
}

// WriteInt writes v using the smallest form that fits. Non-negative values
// use the unsigned family.
func (w *Writer) WriteInt(v int64) {
	if w.err != nil {
		return
	}
	if v >= 0 {
		w.didWrite(w.enc.EncodeUint(uint64(v)), "int")
		return
	}
	w.didWrite(w.enc.EncodeInt(v), "int")
}

func (w *Writer) WriteFloat(v float64) {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeFloat64(v), "float")
}

func (w *Writer) WriteFloat32(v float32) {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeFloat32(v), "float32")
}

func (w *Writer) WriteString(v string) {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeString(v), "string")
}

// WriteBytes writes v as bin. A nil slice is written as an empty bin, never
// as nil.
func (w *Writer) WriteBytes(v []byte) {
	if w.err != nil {
		return
	}
	if v == nil {
		v = []byte{}
	}
	w.didWrite(w.enc.EncodeBytes(v), "bytes")
}

func (w *Writer) WriteArrayLen(n int) {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeArrayLen(n), "array header")
}

func (w *Writer) WriteMapLen(n int) {
	if w.err != nil {
		return
	}
	w.didWrite(w.enc.EncodeMapLen(n), "map header")
}

// WriteRaw writes b verbatim. b must already be a complete MessagePack value.
func (w *Writer) WriteRaw(b []byte) {
	if w.err != nil {
		return
	}
	if len(b) == 0 {
		w.err = errors.SerializeFailed.With("encode raw value: empty")
		return
	}
	_, err := w.buf.Write(b)
	w.didWrite(err, "raw value")
}

// WriteValue writes v, or records an error if v is nil.
func (w *Writer) WriteValue(v Marshaler, what string) {
	if w.err != nil {
		return
	}
	if v == nil {
		w.err = errors.SerializeFailed.WithFormat("encode %s: missing value", what)
		return
	}
	v.MarshalMsgpack(w)
}

// WriteVariant writes a tagged union member as [tag, payload].
func (w *Writer) WriteVariant(tag uint64, payload Marshaler, what string) {
	w.WriteArrayLen(2)
	w.WriteUint(tag)
	w.WriteValue(payload, what)
}

// Bytes returns the encoded bytes, or the first error.
func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf.Bytes(), nil
}
