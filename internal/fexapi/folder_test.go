package fexapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderCreate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/j_object_folder_create/abc123/parent9", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "photos", r.PostForm.Get("name"))

		_, _ = w.Write([]byte(`{"result": true, "upload_id": "f42"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	folderID, err := client.FolderCreate(context.Background(), "abc123", "photos", "parent9")
	require.NoError(t, err)
	assert.Equal(t, "f42", folderID)
}

func TestFolderCreate_RootUsesZeroSegment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/j_object_folder_create/abc123/0", r.URL.Path)
		_, _ = w.Write([]byte(`{"result": true, "upload_id": "f1"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	folderID, err := client.FolderCreate(context.Background(), "abc123", "docs", "")
	require.NoError(t, err)
	assert.Equal(t, "f1", folderID)
}

func TestFolderCreate_NormalizesName(t *testing.T) {
	var gotName string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotName = r.PostForm.Get("name")
		_, _ = w.Write([]byte(`{"result": true, "upload_id": "f1"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	// "é" in decomposed form, as macOS filesystems report it.
	_, err := client.FolderCreate(context.Background(), "abc123", "café", "")
	require.NoError(t, err)
	assert.Equal(t, "café", gotName)
}

func TestFolderCreate_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"result": false}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.FolderCreate(context.Background(), "abc123", "docs", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "docs")
}

func TestFolderList_JoinsChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/j_object_folder_list/abc123", r.URL.Path)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "f1,f2,f3", r.PostForm.Get("list"))

		_, _ = w.Write([]byte(`{"folder_list": [
			{"name": "a", "upload_id": "f1"},
			{"name": "b", "upload_id": "f2"},
			{"name": "c", "upload_id": "f3"}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	folders, err := client.FolderList(context.Background(), "abc123", []string{"f1", "f2", "f3"})
	require.NoError(t, err)
	require.Len(t, folders, 3)
	assert.Equal(t, "a", folders[0].Name)
	assert.Equal(t, "f3", folders[2].UploadID)
}

func TestFolderView(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/j_object_folder_view/abc123/f42", r.URL.Path)

		_, _ = w.Write([]byte(`{"upload_list": [
			{"name": "x.txt", "upload_id": "u1", "size": 12},
			{"name": "sub", "upload_id": "f43", "is_folder": 1}
		]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	entries, err := client.FolderView(context.Background(), "abc123", "f42")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].IsFolder.Bool())
	assert.True(t, entries[1].IsFolder.Bool())
}
