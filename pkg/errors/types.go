// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package errors

import "strconv"

// Status is a failure classification code.
type Status uint64

const (
	// OK means no error.
	OK Status = 200

	// BadRequest means the command line was malformed.
	BadRequest Status = 400

	// DecodeFailed means the input encoding was malformed or did not match
	// the schema.
	DecodeFailed Status = 410

	// KeyLoadFailed means the PKCS#8 key could not be parsed or is not a
	// P-384 key.
	KeyLoadFailed Status = 411

	// UnknownError is the fallback for errors that have not been classified.
	UnknownError Status = 500

	// SerializeFailed means a value could not be encoded under the schema.
	SerializeFailed Status = 501

	// DeserializeFailed means a byte string was truncated or did not match
	// the schema.
	DeserializeFailed Status = 502

	// SignFailed means the signing operation failed.
	SignFailed Status = 503

	// SendFailed means the request could not be delivered to the node.
	SendFailed Status = 520

	// RecvFailed means the reply could not be received, including timeouts.
	RecvFailed Status = 521

	// NodeError means the node rejected the transaction.
	NodeError Status = 530

	// UnexpectedReply means the node replied with a message the client does
	// not handle.
	UnexpectedReply Status = 531
)

var statusNames = map[Status]string{
	OK:                "ok",
	BadRequest:        "bad-request",
	DecodeFailed:      "decode-failed",
	KeyLoadFailed:     "key-load-failed",
	UnknownError:      "unknown-error",
	SerializeFailed:   "serialize-failed",
	DeserializeFailed: "deserialize-failed",
	SignFailed:        "sign-failed",
	SendFailed:        "send-failed",
	RecvFailed:        "recv-failed",
	NodeError:         "node-error",
	UnexpectedReply:   "unexpected-reply",
}

var statusReasons = map[Status]string{
	BadRequest:        "Bad command line",
	DecodeFailed:      "Bad input args",
	KeyLoadFailed:     "Invalid private key",
	SerializeFailed:   "Serialization error",
	DeserializeFailed: "Error on message deserialization",
	SignFailed:        "Error signing unit tx",
	SendFailed:        "Error sending unit tx",
	RecvFailed:        "Error on recv",
	NodeError:         "Node error",
	UnexpectedReply:   "Unexpected reply",
}

// String returns the kebab-case name of the status.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "status(" + strconv.FormatUint(uint64(s), 10) + ")"
}

// Reason returns the short, user-facing description of the status.
func (s Status) Reason() string {
	if r, ok := statusReasons[s]; ok {
		return r
	}
	return "Unknown error"
}

// StatusByName returns the status with the given name.
func StatusByName(name string) (Status, bool) {
	for s, n := range statusNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// Error is an error with a status code, an optional cause, and (when location
// tracking is enabled) the call sites that created and wrapped it.
type Error struct {
	Message   string
	Code      Status
	Cause     *Error
	CallStack []*CallSite
}

type CallSite struct {
	FuncName string
	File     string
	Line     int64
}
