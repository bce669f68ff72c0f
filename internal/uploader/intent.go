package uploader

import (
	"time"

	"github.com/akarpov/fex-go/internal/fexapi"
)

// Intent is the full set of user-specified parameters for one invocation.
// It is built once before orchestration begins and not mutated afterwards,
// with one exception: ObjectID is back-filled when a new object is created.
type Intent struct {
	// ObjectID targets an existing object; empty means "create new".
	ObjectID string

	// FolderID targets an existing folder inside the object.
	FolderID string

	// FolderName, when set and FolderID is empty, creates a destination
	// folder with this name under the object root.
	FolderName string

	// DirPath uploads an entire local directory tree. Mutually exclusive
	// with Files; when both are set the directory wins.
	DirPath string

	// Files is an explicit list of local file paths, uploaded in order.
	Files []string

	// Secret password-protects the object; Hint is its optional hint.
	// The password is set once, after the first successful transfer.
	Secret string
	Hint   string

	// ViewPassword unlocks a password-protected target object.
	ViewPassword string

	// Public requests a visibility change. nil leaves visibility alone.
	Public *bool

	// Verify recomputes local checksums after each transfer and compares
	// them against the server-reported digests.
	Verify bool
}

// Result describes one transferred file.
type Result struct {
	LocalPath  string
	RemoteName string
	Size       int64
	ServerSHA1 string
	ServerCRC  string
	UploadID   string
	ObjectID   string
	FolderID   string
	UploadedAt time.Time
	Elapsed    time.Duration

	// Verification is set only when the intent requested checksum
	// verification. A mismatch is recorded here, not raised.
	Verification *VerifyReport
}

// newResult builds a Result from an upload response.
func newResult(localPath, objectID, folderID string, up *fexapi.UploadedFile) Result {
	return Result{
		LocalPath:  localPath,
		RemoteName: up.Name,
		Size:       up.Size,
		ServerSHA1: up.SHA1,
		ServerCRC:  up.CRC32,
		UploadID:   up.UploadID,
		ObjectID:   objectID,
		FolderID:   folderID,
		UploadedAt: up.Date,
		Elapsed:    up.Elapsed,
	}
}
