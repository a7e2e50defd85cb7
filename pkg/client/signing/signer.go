// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package signing signs Trinci transactions with P-384 ECDSA keys.
package signing

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha512"
	"crypto/x509"
	"io"

	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/protocol"
)

// Signer signs a message and reports the public key that verifies the
// signature.
type Signer interface {
	Sign(message []byte) ([]byte, error)
	PublicKeyBytes() []byte
}

// KeyPair is a P-384 ECDSA private key. A key pair must be closed once it is
// no longer needed, which erases the private scalar.
type KeyPair struct {
	priv *ecdsa.PrivateKey
	pub  []byte
	rand io.Reader
}

var _ Signer = (*KeyPair)(nil)

// LoadPKCS8 parses a PKCS#8 DER encoded P-384 ECDSA private key. der is
// zeroed once it has been parsed, whether or not parsing succeeds.
func LoadPKCS8(der []byte) (*KeyPair, error) {
	defer clear(der)

	if len(der) == 0 {
		return nil, errors.KeyLoadFailed.With("empty private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errors.KeyLoadFailed.WithFormat("parse PKCS#8: %w", err)
	}

	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.KeyLoadFailed.WithFormat("want an ECDSA key, got %T", key)
	}
	if priv.Curve != elliptic.P384() {
		name := priv.Curve.Params().Name
		clear(priv.D.Bits())
		return nil, errors.KeyLoadFailed.WithFormat("want a %s key, got %s", protocol.CurveSecp384R1, name)
	}

	pub, err := priv.PublicKey.ECDH()
	if err != nil {
		clear(priv.D.Bits())
		return nil, errors.KeyLoadFailed.WithFormat("invalid public key: %w", err)
	}

	return &KeyPair{priv: priv, pub: pub.Bytes(), rand: rand.Reader}, nil
}

// PublicKeyBytes returns the uncompressed SEC1 encoding of the public key.
func (k *KeyPair) PublicKeyBytes() []byte {
	b := make([]byte, len(k.pub))
	copy(b, k.pub)
	return b
}

// PublicKey returns the public key as a transaction caller.
func (k *KeyPair) PublicKey() *protocol.EcdsaPublicKey {
	return protocol.NewSecp384R1PublicKey(k.PublicKeyBytes())
}

// Sign hashes the message with SHA-384 and signs the digest. The signature is
// r and s, each padded to 48 bytes.
func (k *KeyPair) Sign(message []byte) ([]byte, error) {
	if k.priv == nil {
		return nil, errors.SignFailed.With("key pair is closed")
	}

	digest := sha512.Sum384(message)
	r, s, err := ecdsa.Sign(k.rand, k.priv, digest[:])
	if err != nil {
		return nil, errors.SignFailed.WithFormat("sign: %w", err)
	}

	sig := make([]byte, protocol.SignatureSize)
	r.FillBytes(sig[:protocol.SignatureSize/2])
	s.FillBytes(sig[protocol.SignatureSize/2:])
	return sig, nil
}

// Close erases the private scalar. Close is idempotent.
func (k *KeyPair) Close() {
	if k.priv == nil {
		return
	}
	clear(k.priv.D.Bits())
	k.priv.D.SetInt64(0)
	k.priv = nil
}
