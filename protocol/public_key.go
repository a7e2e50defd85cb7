// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"

	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
)

// PublicKey is the public key of a transaction caller. It is encoded as
// [algorithm, key].
type PublicKey interface {
	encoding.Marshaler
	Algorithm() KeyAlgorithm
	GetPublicKey() []byte
	Equal(PublicKey) bool
}

// EcdsaPublicKey is an ECDSA public key, encoded as [curve, value].
type EcdsaPublicKey struct {
	Curve string
	Value []byte
}

// Ed25519PublicKey is an Ed25519 public key, encoded as [value].
type Ed25519PublicKey struct {
	Value []byte
}

var _ PublicKey = (*EcdsaPublicKey)(nil)
var _ PublicKey = (*Ed25519PublicKey)(nil)

// NewSecp384R1PublicKey returns an ECDSA public key on P-384 from an
// uncompressed SEC1 point.
func NewSecp384R1PublicKey(point []byte) *EcdsaPublicKey {
	return &EcdsaPublicKey{Curve: CurveSecp384R1, Value: point}
}

func (*EcdsaPublicKey) Algorithm() KeyAlgorithm   { return ECDSA }
func (*Ed25519PublicKey) Algorithm() KeyAlgorithm { return ED25519 }

func (k *EcdsaPublicKey) GetPublicKey() []byte   { return k.Value }
func (k *Ed25519PublicKey) GetPublicKey() []byte { return k.Value }

func (k *EcdsaPublicKey) Equal(u PublicKey) bool {
	v, ok := u.(*EcdsaPublicKey)
	return ok && k.Curve == v.Curve && bytes.Equal(k.Value, v.Value)
}

func (k *Ed25519PublicKey) Equal(u PublicKey) bool {
	v, ok := u.(*Ed25519PublicKey)
	return ok && bytes.Equal(k.Value, v.Value)
}

func (k *EcdsaPublicKey) MarshalMsgpack(w *encoding.Writer) {
	w.WriteArrayLen(2)
	w.WriteString(k.Curve)
	w.WriteBytes(k.Value)
}

func (k *EcdsaPublicKey) UnmarshalMsgpack(r *encoding.Reader) {
	if !r.ReadRecord(2, "ecdsa public key") {
		return
	}
	k.Curve = r.ReadString()
	k.Value = r.ReadBytes()
}

func (k *Ed25519PublicKey) MarshalMsgpack(w *encoding.Writer) {
	w.WriteArrayLen(1)
	w.WriteBytes(k.Value)
}

func (k *Ed25519PublicKey) UnmarshalMsgpack(r *encoding.Reader) {
	if !r.ReadRecord(1, "ed25519 public key") {
		return
	}
	k.Value = r.ReadBytes()
}

// WritePublicKey writes the key as a tagged variant.
func WritePublicKey(w *encoding.Writer, key PublicKey) {
	if key == nil {
		w.WriteValue(nil, "public key")
		return
	}
	w.WriteVariant(uint64(key.Algorithm()), key, "public key")
}

// ReadPublicKey reads a tagged public key variant.
func ReadPublicKey(r *encoding.Reader) PublicKey {
	tag, ok := r.ReadVariant("public key")
	if !ok {
		return nil
	}

	var key interface {
		PublicKey
		encoding.Unmarshaler
	}
	switch KeyAlgorithm(tag) {
	case ECDSA:
		key = new(EcdsaPublicKey)
	case ED25519:
		key = new(Ed25519PublicKey)
	default:
		r.Errorf("decode public key: unknown algorithm %d", tag)
		return nil
	}

	r.ReadValue(key)
	if r.Err() != nil {
		return nil
	}
	return key
}
