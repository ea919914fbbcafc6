package main

import (
	"errors"
	"fmt"

	"buzz/internal/auth/otp"
	"buzz/internal/form"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	emailAddr  string
	passcode   string
	printToken bool
)

// errNoResponse covers failures that produced no backend message; the
// details are in the log.
var errNoResponse = errors.New("auth request failed (run with -v for details)")

var sendCodeCmd = &cobra.Command{
	Use:   "send-code",
	Short: "Email a one-time passcode to an existing account",
	Long: `Asks the auth service to email a six-digit passcode to the given address.

The account must already exist; no new user is created.`,
	RunE: runSendCode,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Sign in with an emailed passcode",
	Long: `Exchanges the passcode from your email for a session.

Use send-code first to receive the passcode.`,
	RunE: runVerify,
}

func init() {
	sendCodeCmd.Flags().StringVarP(&emailAddr, "email", "e", "", "Account email (required)")
	sendCodeCmd.MarkFlagRequired("email")

	verifyCmd.Flags().StringVarP(&emailAddr, "email", "e", "", "Account email (required)")
	verifyCmd.Flags().StringVar(&passcode, "code", "", "One-time passcode from the email (required)")
	verifyCmd.Flags().BoolVar(&printToken, "print-token", false, "Print the access token after signing in")
	verifyCmd.MarkFlagRequired("email")
	verifyCmd.MarkFlagRequired("code")
}

func newController() (*form.Controller, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := newGateway(cfg, logger)
	if err != nil {
		return nil, err
	}
	return form.NewController(client,
		form.WithLogger(logger),
		form.WithSessionListener(func(s otp.Session) {
			logger.Debug("session established", zap.String("user_id", userID(s)))
		}),
	), nil
}

func runSendCode(cmd *cobra.Command, args []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	ctrl.SetEmail(emailAddr)
	if err := ctrl.RequestCode(commandContext(cmd)); err != nil {
		return fmt.Errorf("cannot send code: %w (email is empty)", err)
	}

	s := ctrl.State()
	switch {
	case s.Alert == nil:
		return errNoResponse
	case s.Alert.Kind == form.AlertError:
		return errors.New(s.Alert.Text)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", s.Alert.Text)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctrl, err := newController()
	if err != nil {
		return err
	}

	ctrl.SetEmail(emailAddr)
	ctrl.SetPasscode(passcode)
	if err := ctrl.VerifyCode(commandContext(cmd)); err != nil {
		return fmt.Errorf("cannot sign in: %w (need an email and a %d-digit passcode)", err, form.PasscodeLength)
	}

	s := ctrl.State()
	if s.Session == nil {
		if s.Alert != nil {
			return errors.New(s.Alert.Text)
		}
		return errNoResponse
	}

	printSignedIn(cmd, s.Session)
	if printToken {
		fmt.Fprintln(cmd.OutOrStdout(), s.Session.AccessToken)
	}
	return nil
}

func userID(s otp.Session) string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}
