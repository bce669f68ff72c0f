package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/akarpov/fex-go/internal/auth"
	"github.com/akarpov/fex-go/internal/fexapi"
	"github.com/akarpov/fex-go/internal/session"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// cliSession bundles the API client with its session machinery for one
// invocation.
type cliSession struct {
	client *fexapi.Client
	store  *session.Store
	auth   *auth.Authenticator
	logger *slog.Logger
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		RunE:  runLogin,
	}

	cmd.Flags().Bool("force", false, "discard any stored session first")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE:  runLogout,
	}
}

// resolvePassword returns the effective password, prompting interactively
// when none was given and stdin is a terminal.
func resolvePassword() (string, error) {
	if flagPassword != "" {
		return flagPassword, nil
	}

	if flagUser == "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", flagUser)

	raw, err := readPassword(int(os.Stdin.Fd()))

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(raw), nil
}

// decideLogin applies the login-decision rules: credentials mean login,
// anonymous or a no-login command means skip, anything else is a
// contradictory intent.
func decideLogin(username, password string, anonymous, noLoginOK bool) (bool, error) {
	switch {
	case username != "" && password != "":
		return true, nil
	case anonymous || noLoginOK:
		return false, nil
	default:
		return false, errBadLoginArgs
	}
}

// establishSession builds the API client and logs in when the invocation
// requires it. noLoginOK marks commands that work without an account.
func establishSession(cmd *cobra.Command, noLoginOK, force bool) (*cliSession, error) {
	logger := buildLogger()

	client, store, err := newAPIClient(logger)
	if err != nil {
		return nil, err
	}

	cs := &cliSession{
		client: client,
		store:  store,
		auth:   auth.New(client, store, logger),
		logger: logger,
	}

	password, err := resolvePassword()
	if err != nil {
		return nil, err
	}

	doLogin, err := decideLogin(flagUser, password, flagAnonymous, noLoginOK)
	if err != nil {
		return nil, err
	}

	if !doLogin {
		return cs, nil
	}

	if err := cs.auth.Login(cmd.Context(), flagUser, password, force); err != nil {
		return nil, err
	}

	return cs, nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if flagUser == "" {
		return errBadLoginArgs
	}

	if _, err := establishSession(cmd, false, force); err != nil {
		return err
	}

	statusf("Login successful.\n")

	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	logger := buildLogger()

	_, store, err := newAPIClient(logger)
	if err != nil {
		return err
	}

	if err := store.Purge(flagUser); err != nil {
		return err
	}

	statusf("Logged out.\n")

	return nil
}
