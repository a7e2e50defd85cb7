// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"bytes"
	"fmt"

	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
)

// TransactionDataVersion is the tag of a [TransactionData] variant.
type TransactionDataVersion uint64

const (
	TransactionDataV1Version TransactionDataVersion = 0
)

func (v TransactionDataVersion) String() string {
	switch v {
	case TransactionDataV1Version:
		return "v1"
	default:
		return fmt.Sprintf("TransactionDataVersion:%d", uint64(v))
	}
}

// TransactionData is the signable body of a transaction. It is encoded as
// [version, data].
type TransactionData interface {
	encoding.Marshaler
	Version() TransactionDataVersion
}

// TransactionDataV1 is the body of a unit transaction.
type TransactionDataV1 struct {
	// Account is the target account.
	Account   string
	FuelLimit uint64
	Nonce     []byte
	Network   string
	// Contract is the hash of the contract to invoke, or nil to use the
	// contract bound to the account.
	Contract *hash.Hash
	Method   string
	Caller   PublicKey
	// Args is the MessagePack encoding of the method arguments.
	Args []byte
}

var _ TransactionData = (*TransactionDataV1)(nil)

func (*TransactionDataV1) Version() TransactionDataVersion { return TransactionDataV1Version }

const transactionDataV1Fields = 8

func (d *TransactionDataV1) MarshalMsgpack(w *encoding.Writer) {
	w.WriteArrayLen(transactionDataV1Fields)
	w.WriteString(d.Account)
	w.WriteUint(d.FuelLimit)
	w.WriteBytes(d.Nonce)
	w.WriteString(d.Network)
	if d.Contract == nil {
		w.WriteNil()
	} else {
		w.WriteValue(d.Contract, "contract")
	}
	w.WriteString(d.Method)
	WritePublicKey(w, d.Caller)
	w.WriteBytes(d.Args)
}

func (d *TransactionDataV1) UnmarshalMsgpack(r *encoding.Reader) {
	if !r.ReadRecord(transactionDataV1Fields, "transaction data") {
		return
	}
	d.Account = r.ReadString()
	d.FuelLimit = r.ReadUint()
	d.Nonce = r.ReadBytes()
	d.Network = r.ReadString()
	if r.IsNil() {
		r.ReadNil()
		d.Contract = nil
	} else {
		d.Contract = new(hash.Hash)
		r.ReadValue(d.Contract)
	}
	d.Method = r.ReadString()
	d.Caller = ReadPublicKey(r)
	d.Args = r.ReadBytes()
}

// Equal returns true if d and e have the same contents.
func (d *TransactionDataV1) Equal(e *TransactionDataV1) bool {
	switch {
	case d == e:
		return true
	case d == nil || e == nil:
		return false
	case d.Account != e.Account,
		d.FuelLimit != e.FuelLimit,
		!bytes.Equal(d.Nonce, e.Nonce),
		d.Network != e.Network,
		d.Method != e.Method,
		!bytes.Equal(d.Args, e.Args):
		return false
	case (d.Contract == nil) != (e.Contract == nil):
		return false
	case d.Contract != nil && *d.Contract != *e.Contract:
		return false
	case (d.Caller == nil) != (e.Caller == nil):
		return false
	}
	return d.Caller == nil || d.Caller.Equal(e.Caller)
}

// WriteTransactionData writes the data as a tagged variant.
func WriteTransactionData(w *encoding.Writer, data TransactionData) {
	if data == nil {
		w.WriteValue(nil, "transaction data")
		return
	}
	w.WriteVariant(uint64(data.Version()), data, "transaction data")
}

// ReadTransactionData reads a tagged transaction data variant.
func ReadTransactionData(r *encoding.Reader) TransactionData {
	tag, ok := r.ReadVariant("transaction data")
	if !ok {
		return nil
	}

	switch TransactionDataVersion(tag) {
	case TransactionDataV1Version:
		data := new(TransactionDataV1)
		r.ReadValue(data)
		if r.Err() != nil {
			return nil
		}
		return data
	default:
		r.Errorf("decode transaction data: unknown version %d", tag)
		return nil
	}
}

// MarshalTransactionData returns the signable bytes of the data.
func MarshalTransactionData(data TransactionData) ([]byte, error) {
	w := encoding.NewWriter()
	WriteTransactionData(w, data)
	return w.Bytes()
}

// UnmarshalTransactionData decodes the signable bytes of a transaction.
func UnmarshalTransactionData(b []byte) (TransactionData, error) {
	r := encoding.NewReader(b)
	data := ReadTransactionData(r)
	if err := r.Done(); err != nil {
		return nil, err
	}
	return data, nil
}
