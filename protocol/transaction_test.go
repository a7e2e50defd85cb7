// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
	. "gitlab.com/trincinetwork/trinci-sign/protocol"
)

func smallData() *TransactionDataV1 {
	return &TransactionDataV1{
		Account:   "a",
		FuelLimit: 1,
		Nonce:     []byte{1},
		Network:   "n",
		Method:    "m",
		Caller:    &EcdsaPublicKey{Curve: "c", Value: []byte{2}},
		Args:      []byte{0xc0},
	}
}

func TestTransactionDataFieldOrder(t *testing.T) {
	b, err := MarshalTransactionData(smallData())
	require.NoError(t, err)
	require.Equal(t, ""+
		"9200"+ // [v1,
		"98"+ // [
		"a161"+ // account
		"01"+ // fuel limit
		"c40101"+ // nonce
		"a16e"+ // network
		"c0"+ // contract
		"a16d"+ // method
		"9200"+"92a163c40102"+ // caller
		"c401c0", // args
		hex.EncodeToString(b))
}

func TestTransactionDataRoundTrip(t *testing.T) {
	contract := hash.Sum([]byte("contract"))
	data := &TransactionDataV1{
		Account:   "#ACCOUNT",
		FuelLimit: 1 << 40,
		Nonce:     []byte{},
		Network:   "SKYNET",
		Contract:  &contract,
		Method:    "my_cool_method",
		Caller:    NewSecp384R1PublicKey(make([]byte, EcdsaPublicKeySize)),
		Args:      []byte{0x91, 0x01},
	}

	b, err := MarshalTransactionData(data)
	require.NoError(t, err)

	v, err := UnmarshalTransactionData(b)
	require.NoError(t, err)
	require.IsType(t, (*TransactionDataV1)(nil), v)
	require.True(t, data.Equal(v.(*TransactionDataV1)))

	c, err := MarshalTransactionData(v)
	require.NoError(t, err)
	require.Equal(t, b, c)
}

func TestTransactionDataEmptyNonce(t *testing.T) {
	data := smallData()
	data.Nonce = nil

	b, err := MarshalTransactionData(data)
	require.NoError(t, err)

	v, err := UnmarshalTransactionData(b)
	require.NoError(t, err)
	require.NotNil(t, v.(*TransactionDataV1).Nonce)
	require.Empty(t, v.(*TransactionDataV1).Nonce)
}

func TestTransactionDataMissingCaller(t *testing.T) {
	data := smallData()
	data.Caller = nil

	_, err := MarshalTransactionData(data)
	require.Error(t, err)
	require.Equal(t, errors.SerializeFailed, errors.Code(err))
}

func TestTransactionDataRejectsMalformed(t *testing.T) {
	good, err := MarshalTransactionData(smallData())
	require.NoError(t, err)

	cases := map[string][]byte{
		"Truncated":      good[:len(good)-1],
		"Trailing":       append(append([]byte{}, good...), 0xc0),
		"UnknownVersion": append([]byte{0x92, 0x01}, good[2:]...),
		"NotAVariant":    {0x91, 0x00},
		"FieldCount":     {0x92, 0x00, 0x91, 0xa1, 0x61},
		"WrongType":      append(append([]byte{0x92, 0x00, 0x98}, 0x01), good[5:]...),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalTransactionData(b)
			require.Error(t, err)
			require.Equal(t, errors.DeserializeFailed, errors.Code(err))
		})
	}
}

func TestPublicKeyVariants(t *testing.T) {
	for _, key := range []PublicKey{
		NewSecp384R1PublicKey([]byte{4, 1, 2}),
		&Ed25519PublicKey{Value: []byte{3}},
	} {
		w := encoding.NewWriter()
		WritePublicKey(w, key)
		b, err := w.Bytes()
		require.NoError(t, err)

		r := encoding.NewReader(b)
		got := ReadPublicKey(r)
		require.NoError(t, r.Done())
		require.True(t, key.Equal(got), "%v", key.Algorithm())
	}

	r := encoding.NewReader([]byte{0x92, 0x07, 0x90})
	require.Nil(t, ReadPublicKey(r))
	require.Error(t, r.Done())
}

func TestKeyAlgorithmByName(t *testing.T) {
	require.Equal(t, ECDSA, KeyAlgorithmByName("ecdsa"))
	require.Equal(t, ED25519, KeyAlgorithmByName("Ed25519"))
	require.Equal(t, UnknownKeyAlgorithm, KeyAlgorithmByName("rsa"))
	require.Equal(t, "ecdsa", ECDSA.String())
}

func TestSignedTransactionKeepsBody(t *testing.T) {
	// The fuel limit is written as a uint16 here, which the writer would
	// never produce. The signed bytes must still be sent unchanged.
	body, err := hex.DecodeString("9200" + "98" + "a161" + "cd0001" + "c40101" + "a16e" + "c0" + "a16d" + "9200" + "92a163c40102" + "c401c0")
	require.NoError(t, err)
	data, err := UnmarshalTransactionData(body)
	require.NoError(t, err)
	require.True(t, smallData().Equal(data.(*TransactionDataV1)))

	signed := NewSignedTransaction(data, body, []byte{9, 9})
	b, err := encoding.Marshal(signed)
	require.NoError(t, err)
	require.Equal(t, "92"+hex.EncodeToString(body)+"c4020909", hex.EncodeToString(b))

	decoded := new(SignedTransaction)
	require.NoError(t, encoding.Unmarshal(b, decoded))
	got, err := decoded.Body()
	require.NoError(t, err)
	require.Equal(t, body, got)
	require.Equal(t, []byte{9, 9}, decoded.Signature)

	h, err := decoded.Hash()
	require.NoError(t, err)
	require.Equal(t, hash.Sum(body), h)
}

func TestTransactionRoundTrip(t *testing.T) {
	signed := &SignedTransaction{Data: smallData(), Signature: make([]byte, SignatureSize)}

	w := encoding.NewWriter()
	WriteTransaction(w, &UnitTransaction{SignedTransaction: *signed})
	b, err := w.Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{0x92, 0x00, 0x92}, b[:3])

	r := encoding.NewReader(b)
	tx := ReadTransaction(r)
	require.NoError(t, r.Done())
	require.Equal(t, TransactionTypeUnit, tx.Type())

	unit := tx.(*UnitTransaction)
	require.True(t, smallData().Equal(unit.Data.(*TransactionDataV1)))
	require.Len(t, unit.Signature, SignatureSize)

	r = encoding.NewReader([]byte{0x92, 0x05, 0xc0})
	require.Nil(t, ReadTransaction(r))
	require.Error(t, r.Done())
}

func TestErrorKind(t *testing.T) {
	require.True(t, ErrorKindInvalidSignature.IsKnown())
	require.True(t, ErrorKind("DuplicatedConfirmedTx").IsKnown())
	require.False(t, ErrorKind("Bogus").IsKnown())
	require.Equal(t, "FuelError", ErrorKindFuelError.String())
}
