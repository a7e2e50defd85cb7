// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/trincinetwork/trinci-sign/pkg/types/encoding"
)

func (a *App) newToMessagePackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "to_message_pack (--json <value>|--string <text>)",
		Short: "Print the MessagePack encoding of a JSON value or a string",
		Args:  cobra.NoArgs,
	}
	input := addInputFlags(cmd, map[string]string{
		"json":   "A JSON value",
		"string": "A string, encoded as is",
	}, "json", "string")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		args, err := input.msgPack(cmd)
		if err != nil {
			return err
		}
		b, err := toMessagePack(args)
		if err != nil {
			a.fail(cmd, err)
			return nil
		}
		a.logger.Debug().Int("size", len(b)).Msg("Encoded")
		_, err = fmt.Fprint(cmd.OutOrStdout(), byteArray(b))
		return err
	}
	return cmd
}

// toMessagePack encodes the value given by args. It panics if args is a
// transaction.
func toMessagePack(args Arguments) ([]byte, error) {
	var v encoding.Value
	switch args := args.(type) {
	case *MsgPackString:
		v = encoding.StringValue(args.Value)
	case *MsgPackStruct:
		var err error
		v, err = encoding.ValueFromJSON([]byte(args.JSON))
		if err != nil {
			return nil, err
		}
	default:
		panic(fmt.Errorf("cannot encode %T as MessagePack", args))
	}
	return encoding.Marshal(v)
}
