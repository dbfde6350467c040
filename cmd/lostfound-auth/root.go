package main

import (
	"context"
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/lostfound-auth-client/auth"
	"github.com/jrsteele09/lostfound-auth-client/autherrors"
	"github.com/jrsteele09/lostfound-auth-client/internal/config"
	"github.com/jrsteele09/lostfound-auth-client/storage/filestore"
	"github.com/jrsteele09/lostfound-auth-client/transport"
)

const appName = "lostfound"

// Global flags available to all subcommands.
var logLevel string

// NewRootCmd creates the root command for the lostfound-auth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lostfound-auth",
		Short: "Sign in to the lost-and-found service and manage the local session",
		Long: `lostfound-auth signs in, registers and refreshes sessions against the
lost-and-found API. The session is kept in an encrypted file between runs.
Settings come from AUTH_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupLogging(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newRefreshCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newCheckPasswordCmd())
	cmd.AddCommand(newCheckEmailCmd())

	return cmd
}

func setupLogging(cmd *cobra.Command) error {
	level := logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = zerolog.InfoLevel.String()
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).With().Timestamp().Logger()
	return nil
}

// newController wires the controller from the environment and restores any
// saved session.
func newController(ctx context.Context) (*auth.Controller, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	store, err := filestore.Open(cfg.GetStorePath(), cfg.GetStorePassphrase())
	if err != nil {
		return nil, errors.Wrap(err, "open session store")
	}
	t, err := transport.NewHTTPClient(cfg.GetBaseURL(), cfg.GetRequestTimeout())
	if err != nil {
		return nil, err
	}
	c, err := auth.NewController(t, store, cfg, auth.WithClassifier(autherrors.StatusClassifier{Fallback: autherrors.TextClassifier{}}))
	if err != nil {
		return nil, err
	}
	state := c.RestoreSession(ctx)
	log.Debug().Str("state", state.String()).Msg("session restored")
	return c, nil
}

func displayAppname(cmd *cobra.Command) {
	myFigure := figure.NewFigure(appName, "cybermedium", true)
	fmt.Fprintln(cmd.OutOrStdout(), myFigure.String())
}
