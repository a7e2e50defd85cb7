// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"fmt"

	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
)

// SignedTransaction is transaction data and the signature of its encoded
// bytes. It is encoded as [data, signature].
//
// The encoded data is kept alongside the decoded value so that the bytes that
// were signed are the bytes that are sent, byte for byte.
type SignedTransaction struct {
	Data      TransactionData
	Signature []byte

	body []byte
}

// NewSignedTransaction returns a signed transaction that encodes body as its
// data. body must be the encoding of data.
func NewSignedTransaction(data TransactionData, body, signature []byte) *SignedTransaction {
	return &SignedTransaction{Data: data, Signature: signature, body: body}
}

// Body returns the encoded data, marshalling it if necessary.
func (tx *SignedTransaction) Body() ([]byte, error) {
	if tx.body != nil {
		return tx.body, nil
	}
	b, err := MarshalTransactionData(tx.Data)
	if err != nil {
		return nil, err
	}
	tx.body = b
	return b, nil
}

// Hash returns the primary hash of the transaction, the SHA-256 multihash of
// the encoded data.
func (tx *SignedTransaction) Hash() (hash.Hash, error) {
	b, err := tx.Body()
	if err != nil {
		return hash.Hash{}, err
	}
	return hash.Sum(b), nil
}

func (tx *SignedTransaction) MarshalMsgpack(w *encoding.Writer) {
	body, err := tx.Body()
	if err != nil {
		w.Record(err)
		return
	}
	w.WriteArrayLen(2)
	w.WriteRaw(body)
	w.WriteBytes(tx.Signature)
}

func (tx *SignedTransaction) UnmarshalMsgpack(r *encoding.Reader) {
	if !r.ReadRecord(2, "signed transaction") {
		return
	}
	body := r.ReadRaw()
	if r.Err() != nil {
		return
	}
	data, err := UnmarshalTransactionData(body)
	if err != nil {
		r.Record(err)
		return
	}
	tx.Data = data
	tx.body = body
	tx.Signature = r.ReadBytes()
}

// TransactionType is the tag of a [Transaction] variant.
type TransactionType uint64

const (
	TransactionTypeUnit TransactionType = 0
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeUnit:
		return "unit"
	default:
		return fmt.Sprintf("TransactionType:%d", uint64(t))
	}
}

// Transaction is a transaction submitted to a node. It is encoded as
// [type, transaction].
type Transaction interface {
	encoding.Marshaler
	Type() TransactionType
}

// UnitTransaction is a single signed transaction.
type UnitTransaction struct {
	SignedTransaction
}

var _ Transaction = (*UnitTransaction)(nil)

func (*UnitTransaction) Type() TransactionType { return TransactionTypeUnit }

// WriteTransaction writes the transaction as a tagged variant.
func WriteTransaction(w *encoding.Writer, tx Transaction) {
	if tx == nil {
		w.WriteValue(nil, "transaction")
		return
	}
	w.WriteVariant(uint64(tx.Type()), tx, "transaction")
}

// ReadTransaction reads a tagged transaction variant.
func ReadTransaction(r *encoding.Reader) Transaction {
	tag, ok := r.ReadVariant("transaction")
	if !ok {
		return nil
	}

	switch TransactionType(tag) {
	case TransactionTypeUnit:
		tx := new(UnitTransaction)
		r.ReadValue(tx)
		if r.Err() != nil {
			return nil
		}
		return tx
	default:
		r.Errorf("decode transaction: unknown type %d", tag)
		return nil
	}
}
