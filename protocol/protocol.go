// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package protocol defines the Trinci transaction schema: transaction data,
// signed transactions, caller public keys and the error kinds reported by a
// node. Every type encodes itself as a positional MessagePack array.
package protocol

const (
	// CurveSecp384R1 is the curve identifier of a P-384 ECDSA public key.
	CurveSecp384R1 = "secp384r1"

	// EcdsaPublicKeySize is the length of an uncompressed SEC1 P-384 point.
	EcdsaPublicKeySize = 97

	// SignatureSize is the length of a raw r‖s P-384 signature.
	SignatureSize = 96
)
