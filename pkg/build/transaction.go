// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package build

import (
	"crypto/rand"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"gitlab.com/trincinetwork/trinci-sign/internal/logging"
	"gitlab.com/trincinetwork/trinci-sign/pkg/client/signing"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/messaging"
	"gitlab.com/trincinetwork/trinci-sign/protocol"
)

// NonceSize is the length of a generated nonce.
const NonceSize = 8

// UnitTx is a built unit transaction.
type UnitTx struct {
	Data *protocol.TransactionDataV1
	// Body is the encoded transaction data, the bytes that were signed.
	Body    []byte
	Signed  *protocol.SignedTransaction
	Message *messaging.PutTransactionRequest
	// Envelope is the encoded message that is sent to the node.
	Envelope []byte
	// Hash is the primary hash of the transaction.
	Hash hash.Hash
}

// Verify returns true if the signature is valid for the body and the
// caller's key.
func (tx *UnitTx) Verify() bool {
	if tx.Data == nil || tx.Data.Caller == nil || tx.Signed == nil {
		return false
	}
	return signing.Verify(tx.Data.Caller.GetPublicKey(), tx.Body, tx.Signed.Signature)
}

type UnitTxBuilder struct {
	parser
	args   *UnitTxArgs
	signer signing.Signer
	rand   io.Reader
	logger zerolog.Logger
}

// UnitTransaction returns a builder for a unit transaction with the given
// parameters.
func UnitTransaction(args *UnitTxArgs) UnitTxBuilder {
	return UnitTxBuilder{args: args, rand: rand.Reader, logger: zerolog.Nop()}
}

// WithRandom sets the source of generated nonces.
func (b UnitTxBuilder) WithRandom(r io.Reader) UnitTxBuilder {
	b.rand = r
	return b
}

func (b UnitTxBuilder) WithLogger(logger zerolog.Logger) UnitTxBuilder {
	b.logger = logger
	return b
}

// WithSigner signs the transaction with the given signer instead of the
// private key in the args.
func (b UnitTxBuilder) WithSigner(signer signing.Signer) UnitTxBuilder {
	b.signer = signer
	return b
}

func (b UnitTxBuilder) Build() (*UnitTx, error) {
	if b.args == nil {
		return nil, errors.DecodeFailed.With("missing args")
	}

	contract := b.parseContract(b.args.Contract)
	signer := b.loadSigner()
	if kp, ok := signer.(*signing.KeyPair); ok && b.signer == nil {
		defer kp.Close()
	}
	args := b.parseArgs(b.args.Args)
	nonce := b.nonce()
	if !b.ok() {
		return nil, b.err()
	}

	data := &protocol.TransactionDataV1{
		Account:   b.args.Target,
		FuelLimit: b.args.Fuel,
		Nonce:     nonce,
		Network:   b.args.Network,
		Contract:  contract,
		Method:    b.args.Method,
		Caller:    protocol.NewSecp384R1PublicKey(signer.PublicKeyBytes()),
		Args:      args,
	}

	body, err := protocol.MarshalTransactionData(data)
	if err != nil {
		return nil, errors.SerializeFailed.WithCauseAndFormat(err, "encode transaction data: %v", err)
	}

	sig, err := signer.Sign(body)
	if err != nil {
		return nil, errors.SignFailed.Wrap(err)
	}

	signed := protocol.NewSignedTransaction(data, body, sig)
	msg := &messaging.PutTransactionRequest{
		Confirm: true,
		Tx:      &protocol.UnitTransaction{SignedTransaction: *signed},
	}
	env, err := messaging.Marshal(msg)
	if err != nil {
		return nil, errors.SerializeFailed.WithCauseAndFormat(err, "encode message: %v", err)
	}

	tx := &UnitTx{
		Data:     data,
		Body:     body,
		Signed:   signed,
		Message:  msg,
		Envelope: env,
		Hash:     hash.Sum(body),
	}

	b.logger.Debug().
		Str("account", data.Account).
		Str("network", data.Network).
		Str("method", data.Method).
		Stringer("nonce", logging.AsHex(nonce)).
		Stringer("hash", tx.Hash).
		Str("size", humanize.Bytes(uint64(len(env)))).
		Msg("Built unit transaction")
	return tx, nil
}

func (b *UnitTxBuilder) loadSigner() signing.Signer {
	if b.signer != nil {
		return b.signer
	}

	der := b.parseBase58(errors.KeyLoadFailed, "private key", b.args.PrivateKey)
	if !b.ok() {
		clear(der)
		return nil
	}

	kp, err := signing.LoadPKCS8(der)
	if err != nil {
		b.record(err)
		return nil
	}
	return kp
}

// nonce decodes the nonce from the args, or generates one if the args do
// not have one.
func (b *UnitTxBuilder) nonce() []byte {
	if b.args.Nonce != nil {
		b.logger.Debug().Str("source", "args").Msg("Using provided nonce")
		return b.parseBase58(errors.DecodeFailed, "nonce", *b.args.Nonce)
	}

	nonce := make([]byte, NonceSize)
	_, err := io.ReadFull(b.rand, nonce)
	if err != nil {
		b.errorf(errors.UnknownError, "generate nonce: %v", err)
		return nil
	}
	b.logger.Debug().Str("source", "random").Msg("Generated nonce")
	return nonce
}
