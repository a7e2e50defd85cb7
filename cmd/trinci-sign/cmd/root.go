// Copyright 2024 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gitlab.com/trincinetwork/trinci-sign/config"
	"gitlab.com/trincinetwork/trinci-sign/internal/logging"
	"gitlab.com/trincinetwork/trinci-sign/pkg/errors"
)

// App holds the state of one invocation of the command line.
type App struct {
	viper  *viper.Viper
	config *config.Config
	root   zerolog.Logger
	logger zerolog.Logger

	flags struct {
		Config    string
		LogLevel  string
		LogFormat string
		Debug     bool
	}

	// failed is set when the command printed a KO result.
	failed bool
}

// NewRootCommand returns the root command and the state it runs with.
func NewRootCommand() (*cobra.Command, *App) {
	app := &App{
		viper:  config.NewViper(),
		root:   zerolog.Nop(),
		logger: zerolog.Nop(),
	}

	cmd := &cobra.Command{
		Use:   "trinci-sign",
		Short: "Build, sign and submit Trinci unit transactions",

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&app.flags.Config, "config", "c", "", "Configuration file (TOML, YAML or JSON)")
	flags.StringVar(&app.flags.LogLevel, "log-level", "", "Log level, such as \"error\" or \"error;build=debug\"")
	flags.StringVar(&app.flags.LogFormat, "log-format", "", "Log format: plain, text or json")
	flags.BoolVarP(&app.flags.Debug, "debug", "d", false, "Print debugging information")
	app.bind("log.level", flags.Lookup("log-level"))
	app.bind("log.format", flags.Lookup("log-format"))

	cmd.AddCommand(
		app.newCreateUnitTxCmd(),
		app.newSubmitUnitTxCmd(),
		app.newToMessagePackCmd(),
		app.newConfigCmd(),
	)
	return cmd, app
}

func (a *App) bind(key string, flag *pflag.Flag) {
	err := a.viper.BindPFlag(key, flag)
	if err != nil {
		panic(err)
	}
}

func (a *App) setup(cmd *cobra.Command) error {
	if a.flags.Config != "" {
		a.viper.SetConfigFile(a.flags.Config)
	}

	cfg, err := config.Load(a.viper)
	if err != nil {
		return errors.BadRequest.WithFormat("load configuration: %w", err)
	}
	a.config = cfg

	if a.flags.Debug {
		errors.EnableLocationTracking()
	}

	a.root, err = logging.New(cmd.ErrOrStderr(), cfg.Log.Level.String(), cfg.Log.Format)
	if err != nil {
		return errors.BadRequest.WithFormat("configure logging: %w", err)
	}
	a.logger = a.moduleLogger(logging.ModuleCLI)
	a.logger.Debug().Str("command", cmd.Name()).Str("config", a.viper.ConfigFileUsed()).Msg("Starting")
	return nil
}

func (a *App) moduleLogger(module string) zerolog.Logger {
	return a.root.With().Str("module", module).Logger()
}

// Execute runs the command line with the process arguments and returns the
// exit code.
func Execute() int {
	cmd, app := NewRootCommand()
	return app.Execute(context.Background(), cmd, os.Args[1:])
}

// Execute runs the command with the given arguments. Failures that happen
// before a command prints its result, such as bad flags, are printed as KO
// lines.
func (a *App) Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		if errors.Code(err) == 0 {
			err = errors.BadRequest.Wrap(err)
		}
		a.fail(cmd, err)
	}
	if a.failed {
		return 1
	}
	return 0
}
