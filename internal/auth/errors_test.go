package auth

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/fex-go/internal/fexapi"
)

// decodeSignIn mirrors what the API client does: decode the struct and
// count top-level keys.
func decodeSignIn(t *testing.T, raw string) *fexapi.SignInResponse {
	t.Helper()

	var resp fexapi.SignInResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &keys))
	resp.KeyCount = len(keys)

	return &resp
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		username string
		want     error // nil means success
	}{
		{
			name:     "success with direct login",
			raw:      `{"result": true, "login": "alice"}`,
			username: "alice",
			want:     nil,
		},
		{
			name:     "success with nested login",
			raw:      `{"result": 1, "user": {"login": "alice"}}`,
			username: "alice",
			want:     nil,
		},
		{
			name:     "bad credentials",
			raw:      `{"result": false, "login": "alice"}`,
			username: "alice",
			want:     ErrBadCredentials,
		},
		{
			name:     "captcha",
			raw:      `{"result": false, "captcha": true}`,
			username: "alice",
			want:     ErrCaptchaRequired,
		},
		{
			// The captcha flag wins over the result-true-but-wrong-login
			// fallthrough.
			name:     "captcha with truthy result",
			raw:      `{"result": true, "captcha": 1, "login": "other"}`,
			username: "alice",
			want:     ErrCaptchaRequired,
		},
		{
			// A single-key falsy envelope would mean an unknown object,
			// but the bad-credentials branch is checked first and also
			// matches. Deliberate: the classifier keeps the original
			// precedence even where branches overlap.
			name:     "single key envelope",
			raw:      `{"result": false}`,
			username: "alice",
			want:     ErrBadCredentials,
		},
		{
			name:     "result true but login mismatch",
			raw:      `{"result": true, "login": "other"}`,
			username: "alice",
			want:     ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify(decodeSignIn(t, tt.raw), tt.username)

			if tt.want == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var classified *Error
			require.ErrorAs(t, err, &classified)
			assert.Equal(t, tt.username, classified.Username)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Username: "alice", Err: ErrBadCredentials}

	assert.Contains(t, err.Error(), "alice")
	assert.True(t, errors.Is(err, ErrBadCredentials))
}
