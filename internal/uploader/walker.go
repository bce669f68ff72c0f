package uploader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

// uploadTree mirrors a local directory tree into the object and returns
// the per-file results in transfer order.
func (o *Orchestrator) uploadTree(ctx context.Context, intent *Intent, uploadServer, parentFolderID string) ([]Result, error) {
	o.logger.Debug("uploading directory tree",
		slog.String("dir", intent.DirPath),
		slog.String("parent_folder_id", parentFolderID),
		slog.String("upload_server", uploadServer),
	)

	var results []Result

	err := o.walkDir(ctx, intent, intent.DirPath, parentFolderID, uploadServer, &results)

	return results, err
}

// walkDir recursively mirrors one local directory. The invariant: a remote
// folder is created for the directory before any of its files are uploaded
// and before descending into subdirectories, so a parent's folder-create
// always precedes its descendants'.
//
// Per-call state is carried in the arguments; siblings never share a
// mutable accumulator beyond the appended results. There is no rollback:
// a failure partway through leaves already-created folders in place, and a
// retried walk will create duplicates.
func (o *Orchestrator) walkDir(ctx context.Context, intent *Intent, dir, parentFolderID, uploadServer string, results *[]Result) error {
	folderID, err := o.svc.FolderCreate(ctx, intent.ObjectID, leafName(dir), parentFolderID)
	if err != nil {
		return err
	}

	files, subdirs, err := scanDir(dir)
	if err != nil {
		return err
	}

	o.logger.Info("scanned directory",
		slog.String("dir", dir),
		slog.Int("files", len(files)),
		slog.Int("subdirs", len(subdirs)),
	)

	uploadURL := joinUploadURL(uploadServer, intent.ObjectID, folderID)

	for _, file := range files {
		up, upErr := o.svc.UploadFile(ctx, uploadURL, file, o.Progress)
		if upErr != nil {
			return &UploadError{Path: file, Err: upErr}
		}

		if !up.Result {
			return &UploadError{Path: file}
		}

		res := newResult(file, intent.ObjectID, folderID, up)
		o.verifyResult(intent, &res)
		*results = append(*results, res)
		o.emit(&res)
	}

	for _, subdir := range subdirs {
		if err := o.walkDir(ctx, intent, subdir, folderID, uploadServer, results); err != nil {
			return err
		}
	}

	return nil
}

// scanDir enumerates a directory into files and subdirectories in a single
// pass. Classification is by entry type only; enumeration order is
// whatever the filesystem returns.
func scanDir(dir string) (files, subdirs []string, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, &UploadError{Path: dir, Err: err}
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			subdirs = append(subdirs, path)
		} else {
			files = append(files, path)
		}
	}

	return files, subdirs, nil
}

// leafName returns the last path element, tolerating trailing separators.
func leafName(path string) string {
	return filepath.Base(filepath.Clean(path))
}
