// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

// ValueFromJSON parses a single JSON document into a [Value]. Object keys keep
// the order in which they appear in the document. Integers that fit in 64 bits
// become integers, every other number becomes a float.
func ValueFromJSON(b []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	v, err := readJSON(dec, 0)
	if err != nil {
		return Value{}, errors.DecodeFailed.WithFormat("invalid JSON: %w", err)
	}

	// Reject trailing content
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, errors.DecodeFailed.With("invalid JSON: trailing data after value")
	}
	return v, nil
}

func (v *Value) UnmarshalJSON(b []byte) error {
	u, err := ValueFromJSON(b)
	if err != nil {
		return err
	}
	*v = u
	return nil
}

func readJSON(dec *json.Decoder, depth int) (Value, error) {
	if depth > maxDepth {
		return Value{}, fmt.Errorf("value nested more than %d levels deep", maxDepth)
	}

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch tok := tok.(type) {
	case nil:
		return NilValue(), nil
	case bool:
		return BoolValue(tok), nil
	case string:
		return StringValue(tok), nil
	case json.Number:
		return numberValue(tok)

	case json.Delim:
		switch tok {
		case '[':
			arr := []Value{}
			for dec.More() {
				e, err := readJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, e)
			}
			if _, err := dec.Token(); err != nil { // ]
				return Value{}, err
			}
			return ArrayValue(arr...), nil

		case '{':
			m := []MapEntry{}
			for dec.More() {
				key, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				s, ok := key.(string)
				if !ok {
					return Value{}, fmt.Errorf("invalid object key %v", key)
				}
				e, err := readJSON(dec, depth+1)
				if err != nil {
					return Value{}, err
				}
				m = append(m, Entry(s, e))
			}
			if _, err := dec.Token(); err != nil { // }
				return Value{}, err
			}
			return MapValue(m...), nil
		}
	}

	return Value{}, fmt.Errorf("unexpected token %v", tok)
}

func numberValue(n json.Number) (Value, error) {
	s := n.String()
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return UintValue(u), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q", s)
	}
	return FloatValue(f), nil
}

// MarshalJSON writes the value as JSON, keeping map entry order. Byte strings
// are written as arrays of numbers. Maps with non-string keys and non-finite
// floats cannot be represented.
func (v Value) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	err := v.writeJSON(buf, 0)
	if err != nil {
		return nil, errors.SerializeFailed.WithFormat("encode JSON: %w", err)
	}
	return buf.Bytes(), nil
}

func (v Value) writeJSON(buf *bytes.Buffer, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("value nested more than %d levels deep", maxDepth)
	}

	switch v.Kind {
	case KindNil:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case KindUint:
		buf.WriteString(strconv.FormatUint(v.Uint, 10))
	case KindFloat, KindFloat32:
		if math.IsNaN(v.Float) || math.IsInf(v.Float, 0) {
			return fmt.Errorf("unsupported float %v", v.Float)
		}
		var f interface{} = v.Float
		if v.Kind == KindFloat32 {
			f = float32(v.Float)
		}
		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindString:
		b, err := json.Marshal(v.Str)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBytes:
		buf.WriteByte('[')
		for i, c := range v.Bytes {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Itoa(int(c)))
		}
		buf.WriteByte(']')
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.Array {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.writeJSON(buf, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		for i, e := range v.Map {
			if e.Key.Kind != KindString {
				return fmt.Errorf("map key of %v is not a string", e.Key.Kind)
			}
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.Key.writeJSON(buf, depth+1); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := e.Value.writeJSON(buf, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode value of %v", v.Kind)
	}
	return nil
}
