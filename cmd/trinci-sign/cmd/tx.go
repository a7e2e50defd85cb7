// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/spf13/cobra"
	"gitlab.com/trincinetwork/trinci-sign/internal/logging"
	"gitlab.com/trincinetwork/trinci-sign/pkg/build"
	"gitlab.com/trincinetwork/trinci-sign/pkg/client"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

var unitTxUsage = map[string]string{
	"json": "Transaction parameters as a JSON object",
	"hex":  "Transaction parameters as hex-encoded MessagePack",
	"bs58": "Transaction parameters as base58-encoded MessagePack",
}

func (a *App) newCreateUnitTxCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "create_unit_tx (--json|--hex|--bs58) <parameters>",
		Short: "Build and sign a unit transaction and print the request envelope",
		Args:  cobra.NoArgs,
	}
	input := addInputFlags(cmd, unitTxUsage, "json", "hex", "bs58")
	cmd.Flags().StringVarP(&output, "output", "o", "raw", "Output encoding: raw, hex or bs58")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		args, err := input.unitTx(cmd)
		if err != nil {
			return err
		}
		a.createUnitTx(cmd, args, output)
		return nil
	}
	return cmd
}

func (a *App) newSubmitUnitTxCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "submit_unit_tx (--json|--hex|--bs58) <parameters> --url <URL>",
		Short: "Build and sign a unit transaction and submit it to a node",
		Args:  cobra.NoArgs,
	}
	input := addInputFlags(cmd, unitTxUsage, "json", "hex", "bs58")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Node URL, defaults to node.url from the configuration")
	cmd.Flags().Duration("timeout", 0, "Request timeout, defaults to node.timeout from the configuration")
	a.bind("node.url", cmd.Flags().Lookup("url"))
	a.bind("node.timeout", cmd.Flags().Lookup("timeout"))

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		args, err := input.unitTx(cmd)
		if err != nil {
			return err
		}
		a.submitUnitTx(cmd, args)
		return nil
	}
	return cmd
}

// buildUnitTx builds the transaction described by args. It panics if args is
// not [UnitTxArguments].
func (a *App) buildUnitTx(cmd *cobra.Command, args Arguments) (*build.UnitTx, error) {
	unit, ok := args.(*UnitTxArguments)
	if !ok {
		panic(fmt.Errorf("cannot build a unit transaction from %T", args))
	}

	params, err := build.ParseUnitTxArgs(unit.Kind, unit.Text)
	if err != nil {
		return nil, err
	}

	tx, err := build.UnitTransaction(params).
		WithLogger(a.moduleLogger(logging.ModuleBuild)).
		Build()
	if err != nil {
		return nil, err
	}

	a.dump(cmd, "Transaction", tx.Data)
	return tx, nil
}

func (a *App) createUnitTx(cmd *cobra.Command, args Arguments, output string) {
	tx, err := a.buildUnitTx(cmd, args)
	if err != nil {
		a.fail(cmd, err)
		return
	}

	w := cmd.OutOrStdout()
	switch output {
	case "raw":
		if isTerminal(w) {
			a.warn(cmd, "writing %d bytes of binary data to the terminal, use --output hex to print text", len(tx.Envelope))
		}
		_, err = w.Write(tx.Envelope)
	case "hex":
		_, err = fmt.Fprint(w, hex.EncodeToString(tx.Envelope))
	case "bs58":
		_, err = fmt.Fprint(w, base58.Encode(tx.Envelope))
	default:
		a.fail(cmd, errors.BadRequest.WithFormat("unknown output encoding %q", output))
		return
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to write the envelope")
	}
}

func (a *App) submitUnitTx(cmd *cobra.Command, args Arguments) {
	url := a.config.Node.URL
	if url == "" {
		a.fail(cmd, errors.BadRequest.With("missing node URL, use --url or set node.url"))
		return
	}

	tx, err := a.buildUnitTx(cmd, args)
	if err != nil {
		a.fail(cmd, err)
		return
	}

	outcome, err := client.Submit(cmd.Context(), url, tx.Envelope,
		client.WithTimeout(a.config.Node.Timeout),
		client.WithLogger(a.moduleLogger(logging.ModuleClient)))
	if err != nil {
		a.fail(cmd, err)
		return
	}

	a.logger.Debug().Stringer("outcome", outcome.Type).Stringer("hash", tx.Hash).Msg("Submitted")
	switch outcome.Type {
	case client.OutcomeAccepted:
		a.printOK(cmd, outcome.Hash.Hex())
	case client.OutcomeValidated:
		a.printOK(cmd, "Valid Transaction!")
	case client.OutcomeRejected:
		a.printKO(cmd, "Invalid Transaction!")
	case client.OutcomeNodeError:
		a.printKO(cmd, string(outcome.Kind))
	default:
		a.dump(cmd, "Reply", outcome.Message)
		a.printKO(cmd, fmt.Sprint(outcome.Message))
	}
}
