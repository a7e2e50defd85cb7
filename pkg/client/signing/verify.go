// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package signing

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha512"
	"math/big"

	"gitlab.com/trincinetwork/trinci-sign/protocol"
)

// Verify checks a raw r‖s signature of message against an uncompressed SEC1
// P-384 public key.
func Verify(publicKey, message, signature []byte) bool {
	if len(signature) != protocol.SignatureSize || len(publicKey) != protocol.EcdsaPublicKeySize {
		return false
	}

	// Rejects points that are not on the curve
	if _, err := ecdh.P384().NewPublicKey(publicKey); err != nil {
		return false
	}

	const n = (protocol.EcdsaPublicKeySize - 1) / 2
	pub := &ecdsa.PublicKey{
		Curve: elliptic.P384(),
		X:     new(big.Int).SetBytes(publicKey[1 : 1+n]),
		Y:     new(big.Int).SetBytes(publicKey[1+n:]),
	}

	digest := sha512.Sum384(message)
	r := new(big.Int).SetBytes(signature[:protocol.SignatureSize/2])
	s := new(big.Int).SetBytes(signature[protocol.SignatureSize/2:])
	return ecdsa.Verify(pub, digest[:], r, s)
}
