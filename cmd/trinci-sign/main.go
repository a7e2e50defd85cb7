// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package main

import (
	"os"

	"gitlab.com/trincinetwork/trinci-sign/cmd/trinci-sign/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
