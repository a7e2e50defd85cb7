// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/trincinetwork/trinci-sign/pkg/build"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

// Arguments is the input of a command. Each command accepts exactly one of
// the variants.
type Arguments interface {
	arguments()
}

// UnitTxArguments holds the parameters of a unit transaction in one of
// their text encodings.
type UnitTxArguments struct {
	Kind build.InputKind
	Text string
}

// MsgPackString is a string to encode as a MessagePack str.
type MsgPackString struct {
	Value string
}

// MsgPackStruct is a JSON document to encode as MessagePack.
type MsgPackStruct struct {
	JSON string
}

func (*UnitTxArguments) arguments() {}
func (*MsgPackString) arguments()   {}
func (*MsgPackStruct) arguments()   {}

// inputFlags collects the mutually exclusive input flags of a command.
type inputFlags struct {
	names  []string
	values map[string]*string
}

func addInputFlags(cmd *cobra.Command, usage map[string]string, names ...string) *inputFlags {
	f := &inputFlags{names: names, values: map[string]*string{}}
	for _, name := range names {
		f.values[name] = cmd.Flags().String(name, "", usage[name])
	}
	cmd.MarkFlagsMutuallyExclusive(names...)
	return f
}

// selected returns the name and value of the one input flag that was set.
func (f *inputFlags) selected(cmd *cobra.Command) (string, string, error) {
	var set []string
	for _, name := range f.names {
		if cmd.Flags().Changed(name) {
			set = append(set, name)
		}
	}
	switch len(set) {
	case 1:
		return set[0], *f.values[set[0]], nil
	case 0:
		return "", "", errors.BadRequest.WithFormat("one of %s is required", flagList(f.names))
	default:
		return "", "", errors.BadRequest.WithFormat("only one of %s may be specified", flagList(f.names))
	}
}

func (f *inputFlags) unitTx(cmd *cobra.Command) (Arguments, error) {
	name, text, err := f.selected(cmd)
	if err != nil {
		return nil, err
	}
	kind, ok := build.InputKindByName(name)
	if !ok {
		panic(fmt.Errorf("%q is not a transaction input flag", name))
	}
	return &UnitTxArguments{Kind: kind, Text: text}, nil
}

func (f *inputFlags) msgPack(cmd *cobra.Command) (Arguments, error) {
	name, text, err := f.selected(cmd)
	if err != nil {
		return nil, err
	}
	switch name {
	case "json":
		return &MsgPackStruct{JSON: text}, nil
	case "string":
		return &MsgPackString{Value: text}, nil
	}
	panic(fmt.Errorf("%q is not a MessagePack input flag", name))
}

func flagList(names []string) string {
	var s string
	for i, name := range names {
		switch {
		case i == 0:
		case i == len(names)-1:
			s += " or "
		default:
			s += ", "
		}
		s += "--" + name
	}
	return s
}
