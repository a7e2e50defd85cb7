// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package hash

import (
	"encoding/hex"
	"strings"

	"github.com/multiformats/go-multihash"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
)

const (
	// DigestSize is the size of a SHA-256 digest.
	DigestSize = 32

	// Size is the size of a hash: a two byte multihash prefix followed by the
	// digest.
	Size = 2 + DigestSize
)

// Hash is a SHA-256 multihash: 0x12 0x20 followed by a 32-byte digest.
type Hash [Size]byte

// Sum returns the SHA-256 multihash of data.
func Sum(data []byte) Hash {
	mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// SHA2-256 is always registered
		panic(err)
	}
	var h Hash
	copy(h[:], mh)
	return h
}

// FromBytes parses a 34-byte multihash.
func FromBytes(b []byte) (Hash, error) {
	if len(b) != Size {
		return Hash{}, errors.DecodeFailed.WithFormat("invalid hash: want %d bytes, got %d", Size, len(b))
	}
	mh, err := multihash.Decode(b)
	if err != nil {
		return Hash{}, errors.DecodeFailed.WithFormat("invalid hash: %w", err)
	}
	if mh.Code != multihash.SHA2_256 || mh.Length != DigestSize {
		return Hash{}, errors.DecodeFailed.WithFormat("invalid hash: unsupported multihash %s/%d", mh.Name, mh.Length)
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// FromHex parses the 68-character hex encoding of a multihash. Upper and lower
// case are accepted.
func FromHex(s string) (Hash, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Hash{}, errors.DecodeFailed.WithFormat("invalid hash hex: %w", err)
	}
	return FromBytes(b)
}

func (h Hash) Bytes() []byte { return h[:] }

// Digest returns the digest without the multihash prefix.
func (h Hash) Digest() []byte { return h[2:] }

// Hex returns the 68-character lowercase hex encoding.
func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func (h Hash) MarshalMsgpack(w *encoding.Writer) {
	w.WriteBytes(h[:])
}

func (h *Hash) UnmarshalMsgpack(r *encoding.Reader) {
	b := r.ReadBytes()
	if r.Err() != nil {
		return
	}
	v, err := FromBytes(b)
	if err != nil {
		r.Errorf("decode hash: %v", err)
		return
	}
	*h = v
}
