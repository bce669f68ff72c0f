package fexapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FolderCreate creates a folder inside an object. parentFolderID nests the
// new folder under an existing one; when empty the folder is created at the
// object root (the service expects the literal segment "0" there).
//
// The folder name is NFC-normalized before sending so that macOS NFD paths
// do not produce visually-duplicate remote folders.
func (c *Client) FolderCreate(ctx context.Context, objectID, name, parentFolderID string) (string, error) {
	segment := parentFolderID
	if segment == "" {
		segment = "0"
	}

	form := url.Values{"name": {norm.NFC.String(name)}}

	var out struct {
		Result   Truthy `json:"result"`
		UploadID string `json:"upload_id"`
	}

	if err := c.do(ctx, pathFolderCreate+objectID+"/"+segment, form, &out); err != nil {
		return "", err
	}

	if !out.Result || out.UploadID == "" {
		return "", fmt.Errorf("fexapi: folder %q was not created in object %s", name, objectID)
	}

	c.logger.Debug("folder created",
		slog.String("object_id", objectID),
		slog.String("name", name),
		slog.String("folder_id", out.UploadID),
		slog.String("parent_id", parentFolderID),
	)

	return out.UploadID, nil
}

// FolderList resolves the names of a parent chain of folder ids, outermost
// first. Used by the folder-tree listing.
func (c *Client) FolderList(ctx context.Context, objectID string, parentChain []string) ([]FolderInfo, error) {
	form := url.Values{"list": {strings.Join(parentChain, ",")}}

	var out struct {
		FolderList []FolderInfo `json:"folder_list"`
	}

	if err := c.do(ctx, pathFolderList+objectID, form, &out); err != nil {
		return nil, err
	}

	return out.FolderList, nil
}

// FolderView fetches the upload list of a single folder.
func (c *Client) FolderView(ctx context.Context, objectID, folderID string) ([]UploadEntry, error) {
	var out struct {
		UploadList []UploadEntry `json:"upload_list"`
	}

	if err := c.do(ctx, pathFolderView+objectID+"/"+folderID, nil, &out); err != nil {
		return nil, err
	}

	return out.UploadList, nil
}
