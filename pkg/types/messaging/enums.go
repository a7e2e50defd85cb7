// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package messaging

import (
	"fmt"
	"strings"
)

// MessageType is the type of a [Message].
type MessageType uint64

const (
	MessageTypeException              MessageType = 0
	MessageTypeSubscribe              MessageType = 1
	MessageTypeUnsubscribe            MessageType = 2
	MessageTypePutTransactionRequest  MessageType = 3
	MessageTypePutTransactionResponse MessageType = 4
	MessageTypeGetTransactionRequest  MessageType = 5
	MessageTypeGetTransactionResponse MessageType = 6
	MessageTypeGetReceiptRequest      MessageType = 7
	MessageTypeGetReceiptResponse     MessageType = 8
	MessageTypeGetBlockRequest        MessageType = 9
	MessageTypeGetBlockResponse       MessageType = 10
	MessageTypeGetAccountRequest      MessageType = 11
	MessageTypeGetAccountResponse     MessageType = 12
	MessageTypeGetCoreStatsRequest    MessageType = 13
	MessageTypeGetCoreStatsResponse   MessageType = 14
	MessageTypeStop                   MessageType = 254
	MessageTypePacked                 MessageType = 255
)

var messageTypeNames = map[MessageType]string{
	MessageTypeException:              "Exception",
	MessageTypeSubscribe:              "Subscribe",
	MessageTypeUnsubscribe:            "Unsubscribe",
	MessageTypePutTransactionRequest:  "PutTransactionRequest",
	MessageTypePutTransactionResponse: "PutTransactionResponse",
	MessageTypeGetTransactionRequest:  "GetTransactionRequest",
	MessageTypeGetTransactionResponse: "GetTransactionResponse",
	MessageTypeGetReceiptRequest:      "GetReceiptRequest",
	MessageTypeGetReceiptResponse:     "GetReceiptResponse",
	MessageTypeGetBlockRequest:        "GetBlockRequest",
	MessageTypeGetBlockResponse:       "GetBlockResponse",
	MessageTypeGetAccountRequest:      "GetAccountRequest",
	MessageTypeGetAccountResponse:     "GetAccountResponse",
	MessageTypeGetCoreStatsRequest:    "GetCoreStatsRequest",
	MessageTypeGetCoreStatsResponse:   "GetCoreStatsResponse",
	MessageTypeStop:                   "Stop",
	MessageTypePacked:                 "Packed",
}

// MessageTypeByName returns the named message type. The name is not case
// sensitive.
func MessageTypeByName(name string) (MessageType, bool) {
	for typ, s := range messageTypeNames {
		if strings.EqualFold(s, name) {
			return typ, true
		}
	}
	return 0, false
}

// IsKnown returns true if the type is part of the node protocol.
func (t MessageType) IsKnown() bool {
	_, ok := messageTypeNames[t]
	return ok
}

func (t MessageType) String() string {
	if s, ok := messageTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("MessageType:%d", uint64(t))
}
