package uploader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akarpov/fex-go/internal/fexapi"
)

// Service is the remote-service capability the orchestrator consumes.
// Defined at the consumer per "accept interfaces, return structs";
// *fexapi.Client is the real implementation.
type Service interface {
	ObjectCreate(ctx context.Context) (objectID, uploadServer string, err error)
	ObjectView(ctx context.Context, objectID, viewPassword string) (*fexapi.ObjectView, error)
	SetPublic(ctx context.Context, objectID string, public bool) error
	FolderCreate(ctx context.Context, objectID, name, parentFolderID string) (string, error)
	SetViewPassword(ctx context.Context, objectID, secret, hint string) (bool, error)
	UploadFile(ctx context.Context, uploadURL, localPath string, progress fexapi.ProgressFunc) (*fexapi.UploadedFile, error)
}

// ErrNothingToUpload is returned when the intent names neither a directory
// nor any files.
var ErrNothingToUpload = errors.New("nothing to upload")

// Orchestrator sequences the remote operations for one upload invocation.
// All work is strictly sequential: one request outstanding at a time, in
// the order later steps depend on.
type Orchestrator struct {
	svc    Service
	logger *slog.Logger

	// Progress receives byte-level transfer progress. Advisory only.
	Progress fexapi.ProgressFunc

	// OnResult, when set, is invoked after every successful transfer with
	// the completed Result. Drives per-file reporting.
	OnResult func(*Result)
}

// New creates an Orchestrator.
func New(svc Service, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{svc: svc, logger: logger}
}

// Execute runs the full upload sequence for an intent and returns one
// Result per transferred file, in transfer order. On failure the results
// collected so far are returned alongside the error; remote side effects
// already applied stay in place.
func (o *Orchestrator) Execute(ctx context.Context, intent *Intent) ([]Result, error) {
	uploadServer, view, err := o.resolveObject(ctx, intent)
	if err != nil {
		return nil, err
	}

	if err := o.applyVisibility(ctx, intent, view); err != nil {
		return nil, err
	}

	folderID := intent.FolderID
	if intent.FolderName != "" && folderID == "" {
		folderID, err = o.svc.FolderCreate(ctx, intent.ObjectID, intent.FolderName, "")
		if err != nil {
			return nil, err
		}
	}

	// Directory and flat-list branches are mutually exclusive; a requested
	// directory wins and no flat file list is processed.
	if intent.DirPath != "" {
		return o.uploadTree(ctx, intent, uploadServer, folderID)
	}

	if len(intent.Files) == 0 {
		return nil, ErrNothingToUpload
	}

	return o.uploadFlat(ctx, intent, joinUploadURL(uploadServer, intent.ObjectID, folderID), folderID)
}

// resolveObject resolves or creates the target object and returns the
// upload server plus a fresh view for permission and password context.
//
// For an existing object, can_edit gates everything: a non-editable object
// fails with PermissionError before any transfer is attempted.
func (o *Orchestrator) resolveObject(ctx context.Context, intent *Intent) (string, *fexapi.ObjectView, error) {
	if intent.ObjectID == "" {
		o.logger.Info("object id not provided, creating new object")

		objectID, uploadServer, err := o.svc.ObjectCreate(ctx)
		if err != nil {
			return "", nil, err
		}

		// Back-fill so reporting and later steps see the created object.
		intent.ObjectID = objectID

		view, err := o.svc.ObjectView(ctx, objectID, intent.ViewPassword)
		if err != nil {
			return "", nil, err
		}

		return uploadServer, view, nil
	}

	view, err := o.svc.ObjectView(ctx, intent.ObjectID, intent.ViewPassword)
	if err != nil {
		return "", nil, err
	}

	if !view.CanEdit {
		return "", nil, &PermissionError{ObjectID: intent.ObjectID}
	}

	uploadServer := view.UploadServer()
	if uploadServer == "" {
		return "", nil, fmt.Errorf("object %s returned no upload server", intent.ObjectID)
	}

	return uploadServer, view, nil
}

// applyVisibility issues the visibility setter only when the requested
// state differs from the object's current one. The no-op case is logged
// and skipped — never a redundant remote call.
func (o *Orchestrator) applyVisibility(ctx context.Context, intent *Intent, view *fexapi.ObjectView) error {
	if intent.Public == nil {
		return nil
	}

	if *intent.Public == view.Public.Bool() {
		state := "private"
		if *intent.Public {
			state = "public"
		}

		o.logger.Warn("object already "+state, slog.String("object_id", intent.ObjectID))

		return nil
	}

	return o.svc.SetPublic(ctx, intent.ObjectID, *intent.Public)
}

// uploadFlat transfers an explicit file list sequentially in list order.
// A failed transfer aborts the remaining list. The secret, when requested,
// is set exactly once, after the first successful transfer.
func (o *Orchestrator) uploadFlat(ctx context.Context, intent *Intent, uploadURL, folderID string) ([]Result, error) {
	results := make([]Result, 0, len(intent.Files))
	secretSet := false

	for _, file := range intent.Files {
		up, err := o.svc.UploadFile(ctx, uploadURL, file, o.Progress)
		if err != nil {
			return results, &UploadError{Path: file, Err: err}
		}

		if !up.Result {
			return results, &UploadError{Path: file}
		}

		o.logger.Info("uploaded", slog.String("path", file), slog.Int64("size", up.Size))

		if intent.Secret != "" && !secretSet {
			ok, pwErr := o.svc.SetViewPassword(ctx, intent.ObjectID, intent.Secret, intent.Hint)
			if pwErr != nil {
				return results, pwErr
			}

			if !ok {
				return results, fmt.Errorf("password was not set on object %s", intent.ObjectID)
			}

			secretSet = true
		}

		res := newResult(file, intent.ObjectID, folderID, up)
		o.verifyResult(intent, &res)
		results = append(results, res)
		o.emit(&res)
	}

	return results, nil
}

// verifyResult attaches a checksum report to the result when the intent
// asked for verification. A mismatch is recorded, not raised; a local read
// failure only logs.
func (o *Orchestrator) verifyResult(intent *Intent, res *Result) {
	if !intent.Verify {
		return
	}

	report, err := Verify(res.LocalPath, res.ServerSHA1, res.ServerCRC)
	if err != nil {
		o.logger.Warn("checksum verification failed to run",
			slog.String("path", res.LocalPath),
			slog.String("error", err.Error()),
		)

		return
	}

	if !report.OK() {
		o.logger.Warn("checksum mismatch", slog.String("path", res.LocalPath))
	}

	res.Verification = report
}

func (o *Orchestrator) emit(res *Result) {
	if o.OnResult != nil {
		o.OnResult(res)
	}
}

// joinUploadURL joins server base, object id, and optional folder id in
// that fixed order. The order encodes the remote path semantics and must
// not change.
func joinUploadURL(server, objectID, folderID string) string {
	parts := []string{strings.TrimRight(server, "/"), objectID}
	if folderID != "" {
		parts = append(parts, folderID)
	}

	return strings.Join(parts, "/")
}
