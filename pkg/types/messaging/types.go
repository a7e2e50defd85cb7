// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

// Package messaging implements the messages exchanged with a Trinci node.
// A message is encoded as [type, payload].
package messaging

import (
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
)

// A Message is a request to or a response from a node.
type Message interface {
	encoding.Marshaler

	// Type is the type of the message.
	Type() MessageType
}

// Marshal encodes the message as [type, payload].
func Marshal(msg Message) ([]byte, error) {
	w := encoding.NewWriter()
	Write(w, msg)
	return w.Bytes()
}

// Write writes the message as [type, payload].
func Write(w *encoding.Writer, msg Message) {
	if msg == nil {
		w.WriteValue(nil, "message")
		return
	}
	w.WriteVariant(uint64(msg.Type()), msg, "message "+msg.Type().String())
}

// Unmarshal decodes a message. Types without a dedicated implementation are
// returned as an [UnknownMessage].
func Unmarshal(b []byte) (Message, error) {
	r := encoding.NewReader(b)
	msg := Read(r)
	if err := r.Done(); err != nil {
		return nil, err
	}
	return msg, nil
}

// Read reads a message.
func Read(r *encoding.Reader) Message {
	tag, ok := r.ReadVariant("message")
	if !ok {
		return nil
	}

	var msg interface {
		Message
		encoding.Unmarshaler
	}
	switch typ := MessageType(tag); typ {
	case MessageTypeException:
		msg = new(Exception)
	case MessageTypePutTransactionRequest:
		msg = new(PutTransactionRequest)
	case MessageTypePutTransactionResponse:
		msg = new(PutTransactionResponse)
	default:
		msg = &UnknownMessage{MessageType: typ}
	}

	r.ReadValue(msg)
	if r.Err() != nil {
		return nil
	}
	return msg
}
