package fexapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
)

// API endpoint paths.
const (
	pathAccount      = "/j_account"
	pathSignIn       = "/j_signin/"
	pathHome         = "/j_home/"
	pathObjectCreate = "/j_object_create"
	pathObjectView   = "/j_object_view/"
	pathObjectPublic = "/j_object_public/"
	pathObjectOwn    = "/j_object_own/"
	pathFolderCreate = "/j_object_folder_create/"
	pathFolderList   = "/j_object_folder_list/"
	pathFolderView   = "/j_object_folder_view/"
	pathSetViewPass  = "/j_object_set_view_pass/"
)

// AccountInfo fetches the account payload for the current session.
// A non-empty payload means the session cookies are still valid.
func (c *Client) AccountInfo(ctx context.Context) (map[string]any, error) {
	resp, err := c.postForm(ctx, pathAccount, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var account map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding account response: %v", err), Err: ErrTransport}
	}

	return account, nil
}

// SignIn submits credentials to the sign-in endpoint. The response is
// returned undigested; classification belongs to the authenticator.
func (c *Client) SignIn(ctx context.Context, login, password string) (*SignInResponse, error) {
	form := url.Values{
		"login":    {login},
		"password": {password},
	}

	resp, err := c.postForm(ctx, pathSignIn, form)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("reading sign-in response: %v", err), Err: ErrTransport}
	}

	var sr SignInResponse
	if err := json.Unmarshal(raw, &sr); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("decoding sign-in response: %v", err), Err: ErrTransport}
	}

	// Key count of the raw envelope feeds the login classifier: a single-key
	// envelope is the service's minimal error shape.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err == nil {
		sr.KeyCount = len(keys)
	}

	c.logger.Debug("sign-in response",
		slog.Bool("result", sr.Result.Bool()),
		slog.Bool("captcha", sr.Captcha.Bool()),
		slog.Int("keys", sr.KeyCount),
	)

	return &sr, nil
}

// Home fetches the account's object listing. Requires an authenticated
// session.
func (c *Client) Home(ctx context.Context) ([]HomeObject, error) {
	var out struct {
		ObjectList []HomeObject `json:"object_list"`
	}

	if err := c.do(ctx, pathHome, nil, &out); err != nil {
		return nil, err
	}

	return out.ObjectList, nil
}
