// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"bytes"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

// Reader reads MessagePack values and checks the type of each value before
// decoding it. The first error is sticky: once a read fails every subsequent
// read returns the zero value and [Reader.Done] returns the error.
type Reader struct {
	rd  *bytes.Reader
	dec *msgpack.Decoder
	err error
}

func NewReader(b []byte) *Reader {
	r := new(Reader)
	r.rd = bytes.NewReader(b)
	r.dec = msgpack.NewDecoder(r.rd)
	return r
}

// Err returns the first error.
func (r *Reader) Err() error { return r.err }

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return r.rd.Len() }

// Record records an error raised by a caller while reading, unless an error
// has already been recorded.
func (r *Reader) Record(err error) {
	if err == nil || r.err != nil {
		return
	}
	r.err = errors.DeserializeFailed.Wrap(err)
}

// Errorf records a formatted error, unless an error has already been
// recorded.
func (r *Reader) Errorf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	r.err = errors.DeserializeFailed.Skip(1).WithFormat(format, args...)
}

func (r *Reader) didRead(err error, what string) bool {
	if err == nil {
		return true
	}
	if r.err == nil {
		r.err = errors.DeserializeFailed.WithFormat("decode %s: %w", what, err)
	}
	return false
}

// Done returns the first error, or an error if any bytes remain unread.
func (r *Reader) Done() error {
	if r.err != nil {
		return r.err
	}
	if n := r.rd.Len(); n > 0 {
		return errors.DeserializeFailed.WithFormat("%d trailing bytes", n)
	}
	return nil
}

// Peek returns the kind of the next value without consuming it.
func (r *Reader) Peek() (Kind, bool) {
	if r.err != nil {
		return 0, false
	}
	c, err := r.dec.PeekCode()
	if !r.didRead(err, "value") {
		return 0, false
	}
	k, ok := kindOf(c)
	if !ok {
		r.Errorf("unsupported type code 0x%02x", c)
		return 0, false
	}
	return k, true
}

func (r *Reader) expect(what string, kinds ...Kind) (Kind, bool) {
	k, ok := r.Peek()
	if !ok {
		return 0, false
	}
	for _, want := range kinds {
		if k == want {
			return k, true
		}
	}
	r.err = errors.DeserializeFailed.WithFormat("decode %s: want %v, got %v", what, kinds[0], k)
	return 0, false
}

// IsNil returns true if the next value is nil. IsNil does not consume the
// value.
func (r *Reader) IsNil() bool {
	k, ok := r.Peek()
	return ok && k == KindNil
}

func (r *Reader) ReadNil() {
	if _, ok := r.expect("nil", KindNil); !ok {
		return
	}
	r.didRead(r.dec.DecodeNil(), "nil")
}

func (r *Reader) ReadBool() bool {
	if _, ok := r.expect("bool", KindBool); !ok {
		return false
	}
	v, err := r.dec.DecodeBool()
	r.didRead(err, "bool")
	return v
}

// ReadUint reads a non-negative integer. Values encoded with the signed
// family are accepted if they are not negative.
func (r *Reader) ReadUint() uint64 {
	k, ok := r.expect("uint", KindUint, KindInt)
	if !ok {
		return 0
	}
	if k == KindUint {
		v, err := r.dec.DecodeUint64()
		r.didRead(err, "uint")
		return v
	}
	v, err := r.dec.DecodeInt64()
	if !r.didRead(err, "uint") {
		return 0
	}
	if v < 0 {
		r.Errorf("decode uint: negative value %d", v)
		return 0
	}
	return uint64(v)
}

// ReadInt reads a signed integer.
func (r *Reader) ReadInt() int64 {
	k, ok := r.expect("int", KindInt, KindUint)
	if !ok {
		return 0
	}
	if k == KindInt {
		v, err := r.dec.DecodeInt64()
		r.didRead(err, "int")
		return v
	}
	v, err := r.dec.DecodeUint64()
	if !r.didRead(err, "int") {
		return 0
	}
	if v > math.MaxInt64 {
		r.Errorf("decode int: %d overflows int64", v)
		return 0
	}
	return int64(v)
}

// ReadFloat reads a float of either width.
func (r *Reader) ReadFloat() float64 {
	if _, ok := r.expect("float", KindFloat, KindFloat32); !ok {
		return 0
	}
	v, err := r.dec.DecodeFloat64()
	r.didRead(err, "float")
	return v
}

func (r *Reader) ReadFloat32() float32 {
	if _, ok := r.expect("float32", KindFloat32); !ok {
		return 0
	}
	v, err := r.dec.DecodeFloat32()
	r.didRead(err, "float32")
	return v
}

func (r *Reader) ReadString() string {
	if _, ok := r.expect("string", KindString); !ok {
		return ""
	}
	v, err := r.dec.DecodeString()
	r.didRead(err, "string")
	return v
}

// ReadBytes reads a bin value. The result is never nil unless an error
// occurred.
func (r *Reader) ReadBytes() []byte {
	if _, ok := r.expect("bytes", KindBytes); !ok {
		return nil
	}
	v, err := r.dec.DecodeBytes()
	if !r.didRead(err, "bytes") {
		return nil
	}
	if v == nil {
		v = []byte{}
	}
	return v
}

func (r *Reader) ReadArrayLen() int {
	if _, ok := r.expect("array", KindArray); !ok {
		return 0
	}
	n, err := r.dec.DecodeArrayLen()
	r.didRead(err, "array header")
	return n
}

func (r *Reader) ReadMapLen() int {
	if _, ok := r.expect("map", KindMap); !ok {
		return 0
	}
	n, err := r.dec.DecodeMapLen()
	r.didRead(err, "map header")
	return n
}

// ReadRecord reads the array header of a record and checks that it has
// exactly n fields.
func (r *Reader) ReadRecord(n int, what string) bool {
	if r.err != nil {
		return false
	}
	got := r.ReadArrayLen()
	if r.err != nil {
		return false
	}
	if got != n {
		r.Errorf("decode %s: want %d fields, got %d", what, n, got)
		return false
	}
	return true
}

// ReadVariant reads the header of a tagged union member and returns its tag.
// The payload is left for the caller to read.
func (r *Reader) ReadVariant(what string) (uint64, bool) {
	if !r.ReadRecord(2, what) {
		return 0, false
	}
	tag := r.ReadUint()
	return tag, r.err == nil
}

// ReadRaw reads the next value and returns its encoded bytes verbatim.
func (r *Reader) ReadRaw() []byte {
	if _, ok := r.Peek(); !ok {
		return nil
	}
	v, err := r.dec.DecodeRaw()
	if !r.didRead(err, "raw value") {
		return nil
	}
	return []byte(v)
}

// ReadValue reads v.
func (r *Reader) ReadValue(v Unmarshaler) {
	if r.err != nil {
		return
	}
	v.UnmarshalMsgpack(r)
}

// capacity bounds a length read from the wire by the number of bytes left,
// since every element takes at least one byte.
func (r *Reader) capacity(n int) int {
	if m := r.rd.Len(); n > m {
		return m
	}
	return n
}

func kindOf(c byte) (Kind, bool) {
	switch {
	case c <= 0x7f: // positive fixint
		return KindUint, true
	case c >= 0xe0: // negative fixint
		return KindInt, true
	case c >= 0x80 && c <= 0x8f: // fixmap
		return KindMap, true
	case c >= 0x90 && c <= 0x9f: // fixarray
		return KindArray, true
	case c >= 0xa0 && c <= 0xbf: // fixstr
		return KindString, true
	}

	switch c {
	case msgpcode.Nil:
		return KindNil, true
	case msgpcode.False, msgpcode.True:
		return KindBool, true
	case msgpcode.Uint8, msgpcode.Uint16, msgpcode.Uint32, msgpcode.Uint64:
		return KindUint, true
	case msgpcode.Int8, msgpcode.Int16, msgpcode.Int32, msgpcode.Int64:
		return KindInt, true
	case msgpcode.Float:
		return KindFloat32, true
	case msgpcode.Double:
		return KindFloat, true
	case msgpcode.Str8, msgpcode.Str16, msgpcode.Str32:
		return KindString, true
	case msgpcode.Bin8, msgpcode.Bin16, msgpcode.Bin32:
		return KindBytes, true
	case msgpcode.Array16, msgpcode.Array32:
		return KindArray, true
	case msgpcode.Map16, msgpcode.Map32:
		return KindMap, true
	}
	return 0, false
}
