package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/fex-go/internal/fexapi"
	"github.com/akarpov/fex-go/internal/session"
)

// fakeFex fakes the account and sign-in endpoints. A session is valid when
// the request carries the sid cookie issued at sign-in.
type fakeFex struct {
	signins  int
	accounts int
}

func (f *fakeFex) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/j_account", func(w http.ResponseWriter, r *http.Request) {
		f.accounts++

		if c, err := r.Cookie("sid"); err == nil && c.Value == "valid" {
			_, _ = w.Write([]byte(`{"result": true, "login": "alice"}`))
			return
		}

		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("/j_signin/", func(w http.ResponseWriter, r *http.Request) {
		f.signins++

		_ = r.ParseForm()
		if r.PostForm.Get("password") != "secret" {
			_, _ = w.Write([]byte(`{"result": false}`))
			return
		}

		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "valid", Path: "/"})
		_, _ = w.Write([]byte(`{"result": true, "login": "alice"}`))
	})

	return mux
}

func newAuthenticator(t *testing.T, url string) (*Authenticator, *fexapi.Client, *session.Store) {
	t.Helper()

	client, err := fexapi.NewClient(url, http.DefaultClient, nil)
	require.NoError(t, err)

	store := session.NewStore(t.TempDir(), nil)

	return New(client, store, nil), client, store
}

func TestLogin_Fresh(t *testing.T) {
	fake := &fakeFex{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	auth, client, store := newAuthenticator(t, srv.URL)

	require.NoError(t, auth.Login(context.Background(), "alice", "secret", false))
	assert.Equal(t, 1, fake.signins)

	// Cookies were persisted for the next invocation.
	saved, err := store.Load("alice")
	require.NoError(t, err)
	require.NotEmpty(t, saved)
	assert.Equal(t, "sid", saved[0].Name)

	// And the live client carries the session.
	assert.NotEmpty(t, client.SessionCookies())
}

func TestLogin_RestoredSessionSkipsSignIn(t *testing.T) {
	fake := &fakeFex{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	auth, _, store := newAuthenticator(t, srv.URL)

	require.NoError(t, store.Save("alice", []*http.Cookie{{Name: "sid", Value: "valid", Path: "/"}}))

	require.NoError(t, auth.Login(context.Background(), "alice", "irrelevant", false))
	assert.Zero(t, fake.signins)
	assert.Equal(t, 1, fake.accounts)
}

func TestLogin_StaleSessionFallsThrough(t *testing.T) {
	fake := &fakeFex{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	auth, _, store := newAuthenticator(t, srv.URL)

	require.NoError(t, store.Save("alice", []*http.Cookie{{Name: "sid", Value: "expired", Path: "/"}}))

	require.NoError(t, auth.Login(context.Background(), "alice", "secret", false))
	assert.Equal(t, 1, fake.signins)

	// The stale file was rewritten with the fresh session.
	saved, err := store.Load("alice")
	require.NoError(t, err)
	require.NotEmpty(t, saved)
	assert.Equal(t, "valid", saved[0].Value)
}

func TestLogin_ForcePurgesFirst(t *testing.T) {
	fake := &fakeFex{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	auth, _, store := newAuthenticator(t, srv.URL)

	require.NoError(t, store.Save("alice", []*http.Cookie{{Name: "sid", Value: "valid", Path: "/"}}))

	require.NoError(t, auth.Login(context.Background(), "alice", "secret", true))

	// The stored session was discarded, so a sign-in happened even though
	// the old cookie was still valid.
	assert.Equal(t, 1, fake.signins)
}

func TestLogin_BadCredentials(t *testing.T) {
	fake := &fakeFex{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	auth, _, store := newAuthenticator(t, srv.URL)

	err := auth.Login(context.Background(), "alice", "wrong", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadCredentials)

	// No credential file is written on failure.
	fi, statErr := os.Stat(store.Path("alice"))
	if statErr == nil {
		assert.Zero(t, fi.Size())
	}
}

func TestRestoreSession(t *testing.T) {
	fake := &fakeFex{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	auth, _, store := newAuthenticator(t, srv.URL)

	ok, err := auth.RestoreSession(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save("alice", []*http.Cookie{{Name: "sid", Value: "valid", Path: "/"}}))

	ok, err = auth.RestoreSession(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, fake.signins)
}
