package session

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	store := NewStore("/tmp/sessions", nil)

	assert.Equal(t, "/tmp/sessions/alice_cookiejar", store.Path("alice"))

	// Anonymous use shares one file.
	assert.Equal(t, "/tmp/sessions/_cookiejar", store.Path(""))
}

func TestNewStore_EmptyDirFallsBackToTemp(t *testing.T) {
	store := NewStore("", nil)

	assert.Equal(t, filepath.Join(os.TempDir(), "alice_cookiejar"), store.Path("alice"))
}

func TestLoad_MissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	cookies, err := store.Load("alice")
	require.NoError(t, err)
	assert.Nil(t, cookies)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	require.NoError(t, os.WriteFile(store.Path("alice"), nil, FilePerms))

	cookies, err := store.Load("alice")
	require.NoError(t, err)
	assert.Nil(t, cookies)
}

func TestLoad_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, nil)

	require.NoError(t, os.WriteFile(store.Path("alice"), []byte("not json"), FilePerms))

	_, err := store.Load("alice")
	assert.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	cookies := []*http.Cookie{
		{Name: "sid", Value: "token-value", Domain: "fex.net", Path: "/", Expires: expires, Secure: true, HttpOnly: true},
		{Name: "lang", Value: "en"},
	}

	require.NoError(t, store.Save("alice", cookies))

	got, err := store.Load("alice")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "sid", got[0].Name)
	assert.Equal(t, "token-value", got[0].Value)
	assert.Equal(t, "fex.net", got[0].Domain)
	assert.True(t, got[0].Expires.Equal(expires))
	assert.True(t, got[0].Secure)
	assert.True(t, got[0].HttpOnly)

	assert.Equal(t, "lang", got[1].Name)
}

func TestSave_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}

	store := NewStore(t.TempDir(), nil)

	require.NoError(t, store.Save("alice", []*http.Cookie{{Name: "sid", Value: "x"}}))

	fi, err := os.Stat(store.Path("alice"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(FilePerms), fi.Mode().Perm())
}

func TestSave_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	store := NewStore(dir, nil)

	require.NoError(t, store.Save("alice", []*http.Cookie{{Name: "sid", Value: "x"}}))

	got, err := store.Load("alice")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestPurge(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	require.NoError(t, store.Save("alice", []*http.Cookie{{Name: "sid", Value: "x"}}))
	require.NoError(t, store.Purge("alice"))

	cookies, err := store.Load("alice")
	require.NoError(t, err)
	assert.Nil(t, cookies)

	// The file survives as an empty marker.
	fi, err := os.Stat(store.Path("alice"))
	require.NoError(t, err)
	assert.Zero(t, fi.Size())
}

func TestPurge_MissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	assert.NoError(t, store.Purge("nobody"))
}
