// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package cmd

import (
	"github.com/spf13/cobra"
	"gitlab.com/trincinetwork/trinci-sign/config"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

func (a *App) newConfigCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch format {
			case "toml":
				return config.Store(cmd.OutOrStdout(), a.config)
			case "yaml":
				return config.StoreYAML(cmd.OutOrStdout(), a.config)
			}
			return errors.BadRequest.WithFormat("unknown configuration format %q", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "toml", "Output format: toml or yaml")
	return cmd
}
