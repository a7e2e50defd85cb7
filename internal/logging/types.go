// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"encoding/hex"
	"fmt"
)

// maxHexBytes is how much of a value [Hex] prints before truncating it.
const maxHexBytes = 64

// Hex is a byte string that is logged in hexadecimal. Long values, such as
// envelopes and node replies, are truncated.
type Hex []byte

func (h Hex) String() string {
	if len(h) <= maxHexBytes {
		return hex.EncodeToString(h)
	}
	return fmt.Sprintf("%x...(%d bytes)", []byte(h[:maxHexBytes]), len(h))
}

func (h Hex) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// AsHex converts byte strings and values with a Bytes method, such as
// hashes, to [Hex]. Anything else is formatted first.
func AsHex(v interface{}) Hex {
	switch v := v.(type) {
	case []byte:
		u := make(Hex, len(v))
		copy(u, v)
		return u
	case interface{ Bytes() []byte }:
		return Hex(v.Bytes())
	case string:
		return Hex(v)
	default:
		return Hex(fmt.Sprint(v))
	}
}
