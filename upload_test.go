package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/fex-go/internal/config"
)

// resetUploadFlags restores the package-level flag state around a test.
func resetUploadFlags(t *testing.T) {
	t.Helper()

	flagObjectID = ""
	flagFolderID = ""
	flagFolderName = ""
	flagDirPath = ""
	flagSecret = ""
	flagHint = ""
	flagViewPassword = ""
	flagPublic = ""
	flagVerify = false

	cfg = config.Default()

	t.Cleanup(func() {
		flagObjectID = ""
		flagFolderID = ""
		flagFolderName = ""
		flagDirPath = ""
		flagSecret = ""
		flagHint = ""
		flagViewPassword = ""
		flagPublic = ""
		flagVerify = false
		cfg = nil
	})
}

func TestBuildIntent_Files(t *testing.T) {
	resetUploadFlags(t)

	flagObjectID = "obj1"
	flagSecret = "s3cret"

	intent, err := buildIntent([]string{"a.txt", "b.txt"})
	require.NoError(t, err)

	assert.Equal(t, "obj1", intent.ObjectID)
	assert.Equal(t, []string{"a.txt", "b.txt"}, intent.Files)
	assert.Equal(t, "s3cret", intent.Secret)
	assert.Nil(t, intent.Public)
	assert.False(t, intent.Verify)
}

func TestBuildIntent_RejectsDirPlusFiles(t *testing.T) {
	resetUploadFlags(t)

	flagDirPath = t.TempDir()

	_, err := buildIntent([]string{"a.txt"})
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestBuildIntent_RejectsEmpty(t *testing.T) {
	resetUploadFlags(t)

	_, err := buildIntent(nil)
	assert.ErrorContains(t, err, "nothing to upload")
}

func TestBuildIntent_RejectsMissingDir(t *testing.T) {
	resetUploadFlags(t)

	flagDirPath = filepath.Join(t.TempDir(), "absent")

	_, err := buildIntent(nil)
	assert.Error(t, err)
}

func TestBuildIntent_RejectsFileAsDir(t *testing.T) {
	resetUploadFlags(t)

	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	flagDirPath = path

	_, err := buildIntent(nil)
	assert.ErrorContains(t, err, "not a directory")
}

func TestBuildIntent_Public(t *testing.T) {
	resetUploadFlags(t)

	flagPublic = "true"

	intent, err := buildIntent([]string{"a.txt"})
	require.NoError(t, err)
	require.NotNil(t, intent.Public)
	assert.True(t, *intent.Public)

	flagPublic = "banana"
	_, err = buildIntent([]string{"a.txt"})
	assert.ErrorContains(t, err, "--public")
}

func TestBuildIntent_VerifyFromConfig(t *testing.T) {
	resetUploadFlags(t)

	cfg.Verify = true

	intent, err := buildIntent([]string{"a.txt"})
	require.NoError(t, err)
	assert.True(t, intent.Verify)
}
