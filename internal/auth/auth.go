// Package auth drives the login state machine: restore a persisted session,
// verify it against the account endpoint, and fall back to a fresh sign-in
// when the stored credential is absent or stale.
package auth

import (
	"context"
	"log/slog"

	"github.com/akarpov/fex-go/internal/fexapi"
	"github.com/akarpov/fex-go/internal/session"
)

// Authenticator owns the Session lifecycle. The upload side only ever asks
// "did Login succeed"; it never touches the credential file itself.
type Authenticator struct {
	client *fexapi.Client
	store  *session.Store
	logger *slog.Logger
}

// New creates an Authenticator over the given API client and session store.
func New(client *fexapi.Client, store *session.Store, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Authenticator{client: client, store: store, logger: logger}
}

// Login establishes an authenticated session for username. force purges any
// stored credential first. The sequence is:
//
//  1. restore persisted cookies, if any, and verify them against the
//     account endpoint — success means no sign-in call at all;
//  2. otherwise purge the stale credential and sign in fresh;
//  3. persist the new cookies on success.
//
// A failed sign-in returns *Error; the caller must not proceed to upload.
func (a *Authenticator) Login(ctx context.Context, username, password string, force bool) error {
	if force {
		a.logger.Info("force login, purging stored credential", slog.String("user", username))

		if err := a.store.Purge(username); err != nil {
			return err
		}
	}

	ok, err := a.restoreSession(ctx, username)
	if err != nil {
		return err
	}

	if ok {
		a.logger.Info("stored session still valid", slog.String("user", username))
		return nil
	}

	return a.freshLogin(ctx, username, password)
}

// RestoreSession loads persisted cookies without ever signing in. Used by
// commands that merely benefit from an existing session (folder listings of
// private objects). Returns true when the stored session is authenticated.
func (a *Authenticator) RestoreSession(ctx context.Context, username string) (bool, error) {
	return a.restoreSession(ctx, username)
}

// restoreSession loads persisted cookies and verifies them. Returns true
// when the stored session is authenticated. Invalid cookies are purged so
// the caller falls through to a fresh login.
func (a *Authenticator) restoreSession(ctx context.Context, username string) (bool, error) {
	cookies, err := a.store.Load(username)
	if err != nil {
		return false, err
	}

	if len(cookies) == 0 {
		return false, nil
	}

	a.client.SetSessionCookies(cookies)

	account, err := a.client.AccountInfo(ctx)
	if err != nil {
		return false, err
	}

	if accountValid(account) {
		return true, nil
	}

	a.logger.Warn("stored session invalid, probably expired", slog.String("user", username))

	a.client.ClearSession()

	if err := a.store.Purge(username); err != nil {
		return false, err
	}

	return false, nil
}

// freshLogin signs in with credentials and persists the resulting cookies.
func (a *Authenticator) freshLogin(ctx context.Context, username, password string) error {
	a.logger.Debug("signing in", slog.String("user", username))

	resp, err := a.client.SignIn(ctx, username, password)
	if err != nil {
		return err
	}

	if err := Classify(resp, username); err != nil {
		return err
	}

	a.logger.Info("login successful", slog.String("user", username))

	return a.store.Save(username, a.client.SessionCookies())
}

// accountValid reports whether an account payload confirms the session.
// The service returns an empty or result-false envelope for expired cookies.
func accountValid(account map[string]any) bool {
	if len(account) == 0 {
		return false
	}

	if result, ok := account["result"]; ok {
		switch v := result.(type) {
		case bool:
			return v
		case float64:
			return v != 0
		}
	}

	return true
}
