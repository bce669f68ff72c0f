package fexapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
)

// ErrNoUploadServer is returned when object creation succeeds but the
// service reports no upload server for the new object.
var ErrNoUploadServer = errors.New("fexapi: no upload server returned")

// ObjectCreate creates a new share object and returns its id together with
// the upload server base URL assigned to it.
func (c *Client) ObjectCreate(ctx context.Context) (objectID, uploadServer string, err error) {
	var out struct {
		Token    string   `json:"token"`
		FSUpload []string `json:"fs_upload"`
	}

	if err := c.do(ctx, pathObjectCreate, nil, &out); err != nil {
		return "", "", err
	}

	if out.Token == "" || len(out.FSUpload) == 0 {
		return "", "", ErrNoUploadServer
	}

	c.logger.Info("object created", slog.String("object_id", out.Token))

	return out.Token, out.FSUpload[0], nil
}

// ObjectView fetches the current snapshot of an object. viewPassword may be
// empty for public objects.
func (c *Client) ObjectView(ctx context.Context, objectID, viewPassword string) (*ObjectView, error) {
	form := url.Values{"pass": {viewPassword}}

	var view ObjectView
	if err := c.do(ctx, pathObjectView+objectID, form, &view); err != nil {
		return nil, err
	}

	return &view, nil
}

// SetPublic flips an object's visibility. The setter path segment is "1"
// for public, "0" for private.
func (c *Client) SetPublic(ctx context.Context, objectID string, public bool) error {
	setter := "0"
	if public {
		setter = "1"
	}

	var out struct {
		Result Truthy `json:"result"`
	}

	if err := c.do(ctx, pathObjectPublic+objectID+"/"+setter, nil, &out); err != nil {
		return err
	}

	if !out.Result {
		return fmt.Errorf("fexapi: setting visibility of object %s failed", objectID)
	}

	c.logger.Info("visibility changed",
		slog.String("object_id", objectID),
		slog.Bool("public", public),
	)

	return nil
}

// OwnObject transfers ownership of an object to the current account.
func (c *Client) OwnObject(ctx context.Context, objectID string) (bool, error) {
	var out struct {
		Result Truthy `json:"result"`
	}

	if err := c.do(ctx, pathObjectOwn+objectID, nil, &out); err != nil {
		return false, err
	}

	return out.Result.Bool(), nil
}

// SetViewPassword protects an object with a view password and optional hint.
func (c *Client) SetViewPassword(ctx context.Context, objectID, secret, hint string) (bool, error) {
	form := url.Values{
		"pass":      {secret},
		"pass_hint": {hint},
	}

	var out struct {
		Result Truthy `json:"result"`
	}

	if err := c.do(ctx, pathSetViewPass+objectID, form, &out); err != nil {
		return false, err
	}

	return out.Result.Bool(), nil
}
