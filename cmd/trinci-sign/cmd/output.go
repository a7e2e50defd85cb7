// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
	"golang.org/x/term"
)

const (
	resultOK = "OK|"
	resultKO = "KO|"
)

var (
	errorColor = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
)

var dumper = spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}

// printOK writes an OK result. Results never end with a newline.
func (a *App) printOK(cmd *cobra.Command, result string) {
	_, _ = io.WriteString(cmd.OutOrStdout(), resultOK+result)
}

// printKO writes a KO result and marks the invocation as failed.
func (a *App) printKO(cmd *cobra.Command, result string) {
	_, _ = io.WriteString(cmd.OutOrStdout(), resultKO+result)
	a.failed = true
}

// fail reports an error as a KO result, with the details on standard error.
func (a *App) fail(cmd *cobra.Command, err error) {
	a.printKO(cmd, errors.Reason(err))

	if a.flags.Debug {
		_, _ = errorColor.Fprintf(cmd.ErrOrStderr(), "Error: %+v\n", err)
	} else {
		_, _ = errorColor.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	a.logger.Debug().Err(err).Stringer("code", errors.Code(err)).Msg("Failed")
}

func (a *App) warn(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(cmd.ErrOrStderr(), "Warning: "+format+"\n", args...)
}

// dump prints a value to standard error when debugging is enabled.
func (a *App) dump(cmd *cobra.Command, label string, v interface{}) {
	if !a.flags.Debug {
		return
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s:\n", label)
	dumper.Fdump(cmd.ErrOrStderr(), v)
}

// isTerminal returns true if w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// byteArray formats bytes as a decimal array literal without spaces, such as
// [129,164].
func byteArray(b []byte) string {
	s := make([]byte, 0, 1+4*len(b))
	s = append(s, '[')
	for i, c := range b {
		if i > 0 {
			s = append(s, ',')
		}
		s = strconv.AppendUint(s, uint64(c), 10)
	}
	s = append(s, ']')
	return string(s)
}
