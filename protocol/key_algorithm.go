// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package protocol

import (
	"fmt"
	"strings"
)

// KeyAlgorithm is the tag of a [PublicKey] variant.
type KeyAlgorithm uint64

const (
	ECDSA KeyAlgorithm = iota
	ED25519
	UnknownKeyAlgorithm KeyAlgorithm = 1<<64 - 1
)

func KeyAlgorithmByName(s string) KeyAlgorithm {
	switch strings.ToUpper(s) {
	case "ECDSA":
		return ECDSA
	case "ED25519":
		return ED25519
	default:
		return UnknownKeyAlgorithm
	}
}

func (ka KeyAlgorithm) String() string {
	switch ka {
	case ECDSA:
		return "ecdsa"
	case ED25519:
		return "ed25519"
	default:
		return fmt.Sprintf("KeyAlgorithm:%d", uint64(ka))
	}
}
