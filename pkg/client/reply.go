// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package client

import (
	"bytes"
	"fmt"

	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/hash"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/messaging"
	"gitlab.com/trincinetwork/trinci-sign/protocol"
)

// OutcomeType is the kind of reply a node gave.
type OutcomeType int

const (
	// OutcomeValidated is the literal reply "true".
	OutcomeValidated OutcomeType = iota + 1
	// OutcomeRejected is the literal reply "false".
	OutcomeRejected
	// OutcomeAccepted is a PutTransactionResponse.
	OutcomeAccepted
	// OutcomeNodeError is an Exception.
	OutcomeNodeError
	// OutcomeUnexpected is any other message.
	OutcomeUnexpected
)

func (t OutcomeType) String() string {
	switch t {
	case OutcomeValidated:
		return "validated"
	case OutcomeRejected:
		return "rejected"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNodeError:
		return "node-error"
	case OutcomeUnexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("OutcomeType:%d", int(t))
	}
}

// Outcome is the parsed reply of a node.
type Outcome struct {
	Type OutcomeType
	// Hash is set for OutcomeAccepted.
	Hash hash.Hash
	// Kind is set for OutcomeNodeError.
	Kind protocol.ErrorKind
	// Message is the decoded reply, unless the reply was a literal.
	Message messaging.Message
}

// Success returns true if the node validated or accepted the transaction.
func (o *Outcome) Success() bool {
	return o.Type == OutcomeValidated || o.Type == OutcomeAccepted
}

var (
	replyTrue  = []byte("true")
	replyFalse = []byte("false")
)

// ParseReply parses the body of a node's reply.
func ParseReply(b []byte) (*Outcome, error) {
	switch {
	case bytes.Equal(b, replyTrue):
		return &Outcome{Type: OutcomeValidated}, nil
	case bytes.Equal(b, replyFalse):
		return &Outcome{Type: OutcomeRejected}, nil
	}

	msg, err := messaging.Unmarshal(b)
	if err != nil {
		return nil, errors.DeserializeFailed.Wrap(err)
	}

	switch msg := msg.(type) {
	case *messaging.PutTransactionResponse:
		return &Outcome{Type: OutcomeAccepted, Hash: msg.Hash, Message: msg}, nil
	case *messaging.Exception:
		return &Outcome{Type: OutcomeNodeError, Kind: msg.Kind, Message: msg}, nil
	default:
		return &Outcome{Type: OutcomeUnexpected, Message: msg}, nil
	}
}
