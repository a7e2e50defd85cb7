// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package messaging

import (
	"fmt"

	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
	"gitlab.com/trincinetwork/trinci-sign/protocol"
)

// Exception is an error reported by the node.
type Exception struct {
	Kind protocol.ErrorKind
	// Source is a description of the cause, if the node provided one.
	Source *string
}

// PutTransactionRequest submits a transaction to the node.
type PutTransactionRequest struct {
	// Confirm asks the node to reply once the transaction has been accepted.
	Confirm bool
	Tx      protocol.Transaction
}

// PutTransactionResponse is the reply to a [PutTransactionRequest] that the
// node accepted.
type PutTransactionResponse struct {
	Hash hash.Hash
}

// UnknownMessage is a message this package has no dedicated type for. Its
// payload is kept as it was received.
type UnknownMessage struct {
	MessageType MessageType
	Payload     []byte
}

func (*Exception) Type() MessageType              { return MessageTypeException }
func (*PutTransactionRequest) Type() MessageType  { return MessageTypePutTransactionRequest }
func (*PutTransactionResponse) Type() MessageType { return MessageTypePutTransactionResponse }
func (m *UnknownMessage) Type() MessageType       { return m.MessageType }

func (m *Exception) MarshalMsgpack(w *encoding.Writer) {
	w.WriteArrayLen(2)
	w.WriteString(string(m.Kind))
	if m.Source == nil {
		w.WriteNil()
	} else {
		w.WriteString(*m.Source)
	}
}

// UnmarshalMsgpack reads [kind, source]. The source may be nil or left out.
func (m *Exception) UnmarshalMsgpack(r *encoding.Reader) {
	n := r.ReadArrayLen()
	if r.Err() != nil {
		return
	}
	if n != 1 && n != 2 {
		r.Errorf("decode exception: want 2 fields, got %d", n)
		return
	}

	m.Kind = protocol.ErrorKind(r.ReadString())
	m.Source = nil
	if n == 1 {
		return
	}
	if r.IsNil() {
		r.ReadNil()
		return
	}
	s := r.ReadString()
	m.Source = &s
}

func (m *Exception) Error() string {
	if m.Source == nil {
		return m.Kind.String()
	}
	return fmt.Sprintf("%v: %s", m.Kind, *m.Source)
}

func (m *PutTransactionRequest) MarshalMsgpack(w *encoding.Writer) {
	w.WriteArrayLen(2)
	w.WriteBool(m.Confirm)
	protocol.WriteTransaction(w, m.Tx)
}

func (m *PutTransactionRequest) UnmarshalMsgpack(r *encoding.Reader) {
	if !r.ReadRecord(2, "put transaction request") {
		return
	}
	m.Confirm = r.ReadBool()
	m.Tx = protocol.ReadTransaction(r)
}

func (m *PutTransactionResponse) MarshalMsgpack(w *encoding.Writer) {
	w.WriteArrayLen(1)
	w.WriteValue(m.Hash, "hash")
}

func (m *PutTransactionResponse) UnmarshalMsgpack(r *encoding.Reader) {
	if !r.ReadRecord(1, "put transaction response") {
		return
	}
	r.ReadValue(&m.Hash)
}

func (m *UnknownMessage) MarshalMsgpack(w *encoding.Writer) {
	w.WriteRaw(m.Payload)
}

func (m *UnknownMessage) UnmarshalMsgpack(r *encoding.Reader) {
	m.Payload = r.ReadRaw()
}

// String returns the type of the message followed by its payload as JSON.
func (m *UnknownMessage) String() string {
	var v encoding.Value
	if err := encoding.Unmarshal(m.Payload, &v); err != nil {
		return fmt.Sprintf("%v(%x)", m.MessageType, m.Payload)
	}
	return fmt.Sprintf("%v%v", m.MessageType, v)
}
