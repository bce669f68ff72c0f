// Package uploader turns a local file-system subtree plus user intent into
// an ordered sequence of remote operations: object resolution, visibility
// and password changes, folder creation, and sequential file transfer.
package uploader

import "fmt"

// PermissionError means the target object is not editable by the current
// session. It is raised before any transfer is attempted.
type PermissionError struct {
	ObjectID string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("no permission to upload to object %s", e.ObjectID)
}

// UploadError means a remote file or folder operation reported failure.
// It aborts the remaining work for the invocation; nothing already done
// remotely is rolled back.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upload of %s failed: %v", e.Path, e.Err)
	}

	return fmt.Sprintf("upload of %s failed", e.Path)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
