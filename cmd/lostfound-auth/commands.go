package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/lostfound-auth-client/auth"
	"github.com/jrsteele09/lostfound-auth-client/autherrors"
	"github.com/jrsteele09/lostfound-auth-client/credentials"
	"github.com/jrsteele09/lostfound-auth-client/sessions"
	"github.com/jrsteele09/lostfound-auth-client/users"
)

type loginConfig struct {
	identifier string
	password   string
}

func newLoginCmd() *cobra.Command {
	cfg := &loginConfig{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an email address or username",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newController(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, c.SignIn(cmd.Context(), cfg.identifier, cfg.password))
		},
	}

	cmd.Flags().StringVarP(&cfg.identifier, "user", "u", "", "email address or username")
	cmd.Flags().StringVarP(&cfg.password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

type registerConfig struct {
	fullName string
	email    string
	phone    string
	password string
}

func newRegisterCmd() *cobra.Command {
	cfg := &registerConfig{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			problems := credentials.NewValidator().SignUp(cfg.fullName, cfg.email, cfg.phone, cfg.password)
			if len(problems) > 0 {
				printProblems(cmd, problems)
				return errors.New("registration details are invalid")
			}
			c, err := newController(cmd.Context())
			if err != nil {
				return err
			}
			return report(cmd, c.SignUp(cmd.Context(), cfg.fullName, cfg.email, cfg.phone, cfg.password))
		},
	}

	cmd.Flags().StringVar(&cfg.fullName, "name", "", "full name")
	cmd.Flags().StringVar(&cfg.email, "email", "", "email address")
	cmd.Flags().StringVar(&cfg.phone, "phone", "", "phone number")
	cmd.Flags().StringVarP(&cfg.password, "password", "p", "", "account password")

	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			displayAppname(cmd)
			c, err := newController(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("State:   %s\n", c.State())
			if s := c.Session(); s != nil {
				printSession(cmd, c.User(), s)
			}
			return nil
		},
	}
}

func newRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the saved refresh token for a new session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newController(cmd.Context())
			if err != nil {
				return err
			}
			if !c.IsAuthenticated() {
				return errors.New("not signed in")
			}
			return report(cmd, c.Refresh(cmd.Context()))
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newController(cmd.Context())
			if err != nil {
				return err
			}
			c.SignOut(cmd.Context())
			cmd.Println("Signed out")
			return nil
		},
	}
}

func newCheckPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-password <password>",
		Short: "Rate a password and suggest improvements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password := args[0]
			strength := credentials.ScorePassword(password)
			cmd.Printf("Strength: %s\n", strength.Label())
			for _, hint := range credentials.PasswordHints(password) {
				cmd.Printf("  - %s\n", hint)
			}
			if msg := credentials.ValidatePassword(password); msg != "" {
				return errors.New(msg)
			}
			return nil
		},
	}
}

func newCheckEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-email <email>",
		Short: "Check that an email address is well formed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if msg := credentials.ValidateEmail(args[0]); msg != "" {
				return errors.New(msg)
			}
			cmd.Println("OK")
			return nil
		},
	}
}

// report prints a result and turns a failure into the command's error.
func report(cmd *cobra.Command, res auth.Result) error {
	var err error
	res.Match(
		func(u *users.User, s *sessions.Session) {
			cmd.Println("Signed in")
			printSession(cmd, u, s)
		},
		func(ae *autherrors.AuthError) {
			err = ae
		},
	)
	return err
}

func printSession(cmd *cobra.Command, u *users.User, s *sessions.Session) {
	if u != nil {
		cmd.Printf("User:    %s (id %s)\n", u.DisplayName(), u.ID)
	}
	cmd.Printf("Expires: %s (in %s)\n", s.ExpiresAt.Local().Format(time.RFC1123), s.TimeUntilExpiry(time.Now()).Round(time.Second))
}

func printProblems(cmd *cobra.Command, problems map[string]string) {
	fields := make([]string, 0, len(problems))
	for f := range problems {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		cmd.PrintErrln(fmt.Sprintf("%s: %s", f, problems[f]))
	}
}
