package auth

import (
	"errors"
	"fmt"

	"github.com/akarpov/fex-go/internal/fexapi"
)

// Sentinel errors for sign-in failure classification.
// Use errors.Is(err, auth.ErrCaptchaRequired) to check.
var (
	ErrBadCredentials  = errors.New("auth: verify credentials")
	ErrCaptchaRequired = errors.New("auth: captcha required")
	ErrUnknownObject   = errors.New("auth: target object may not exist")
	ErrUnknown         = errors.New("auth: unknown sign-in failure")
)

// Error wraps a classification sentinel with the username it applies to.
type Error struct {
	Username string
	Err      error // sentinel, for errors.Is()
}

func (e *Error) Error() string {
	return fmt.Sprintf("login failed for %q: %v", e.Username, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify maps a sign-in response to an outcome. Exactly one branch fires,
// in this precedence order:
//
//  1. result truthy and the returned login matches the requested username
//     (directly or under the user object) — success (nil);
//  2. result falsy with no captcha flag — bad credentials;
//  3. captcha flag set — captcha required (interactive challenges are
//     unsupported and fatal, never retried);
//  4. result falsy and the envelope has exactly one key — the minimal
//     error shape the service sends for a bad object reference;
//  5. anything else — unknown.
func Classify(resp *fexapi.SignInResponse, username string) error {
	switch {
	case resp.Result.Bool() && resp.MatchesLogin(username):
		return nil
	case !resp.Result.Bool() && !resp.Captcha.Bool():
		return &Error{Username: username, Err: ErrBadCredentials}
	case resp.Captcha.Bool():
		return &Error{Username: username, Err: ErrCaptchaRequired}
	case !resp.Result.Bool() && resp.KeyCount == 1:
		return &Error{Username: username, Err: ErrUnknownObject}
	default:
		return &Error{Username: username, Err: ErrUnknown}
	}
}
