// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

// ErrorKind is the kind of error a node reports in an exception. Kinds this
// package does not know are kept as they were received.
type ErrorKind string

const (
	ErrorKindMalformedData         ErrorKind = "MalformedData"
	ErrorKindNotImplemented        ErrorKind = "NotImplemented"
	ErrorKindInvalidSignature      ErrorKind = "InvalidSignature"
	ErrorKindDuplicatedUnconfirmed ErrorKind = "DuplicatedUnconfirmedTx"
	ErrorKindDuplicatedConfirmed   ErrorKind = "DuplicatedConfirmedTx"
	ErrorKindResourceNotFound      ErrorKind = "ResourceNotFound"
	ErrorKindDatabaseFault         ErrorKind = "DatabaseFault"
	ErrorKindSmartContractFault    ErrorKind = "SmartContractFault"
	ErrorKindWasmMachineFault      ErrorKind = "WasmMachineFault"
	ErrorKindBrokenIntegrity       ErrorKind = "BrokenIntegrity"
	ErrorKindFuelError             ErrorKind = "FuelError"
	ErrorKindOther                 ErrorKind = "Other"
)

var knownErrorKinds = map[ErrorKind]bool{
	ErrorKindMalformedData:         true,
	ErrorKindNotImplemented:        true,
	ErrorKindInvalidSignature:      true,
	ErrorKindDuplicatedUnconfirmed: true,
	ErrorKindDuplicatedConfirmed:   true,
	ErrorKindResourceNotFound:      true,
	ErrorKindDatabaseFault:         true,
	ErrorKindSmartContractFault:    true,
	ErrorKindWasmMachineFault:      true,
	ErrorKindBrokenIntegrity:       true,
	ErrorKindFuelError:             true,
	ErrorKindOther:                 true,
}

// IsKnown returns true if the kind is one a node is known to report.
func (k ErrorKind) IsKnown() bool { return knownErrorKinds[k] }

func (k ErrorKind) String() string { return string(k) }
