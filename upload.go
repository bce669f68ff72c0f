package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/akarpov/fex-go/internal/fexapi"
	"github.com/akarpov/fex-go/internal/history"
	"github.com/akarpov/fex-go/internal/uploader"
)

// Upload command flags.
var (
	flagObjectID     string
	flagFolderID     string
	flagFolderName   string
	flagDirPath      string
	flagSecret       string
	flagHint         string
	flagViewPassword string
	flagPublic       string
	flagVerify       bool
	flagForce        bool
)

func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [file...]",
		Short: "Upload files or a directory tree to an object",
		Long: `Upload local files or an entire directory tree into a FEX.net object.

Without --object a new object is created (anonymously with -a, or owned by
the logged-in account). Files go to the object root, into --folder, or into
a folder freshly created with --folder-name. A directory given with --dir
is mirrored recursively, one remote folder per local directory.`,
		RunE: runUpload,
	}

	cmd.Flags().StringVarP(&flagObjectID, "object", "o", "", "upload into an existing object id")
	cmd.Flags().StringVar(&flagFolderID, "folder", "", "upload into an existing folder id")
	cmd.Flags().StringVar(&flagFolderName, "folder-name", "", "create a destination folder with this name")
	cmd.Flags().StringVarP(&flagDirPath, "dir", "d", "", "upload a local directory tree")
	cmd.Flags().StringVarP(&flagSecret, "secret", "s", "", "password-protect the object")
	cmd.Flags().StringVar(&flagHint, "hint", "", "password hint for --secret")
	cmd.Flags().StringVar(&flagViewPassword, "view-password", "", "view password of the target object")
	cmd.Flags().StringVar(&flagPublic, "public", "", "make the object public or private (true|false)")
	cmd.Flags().BoolVar(&flagVerify, "verify", false, "verify checksums after each transfer")
	cmd.Flags().BoolVar(&flagForce, "force", false, "force a fresh login")

	return cmd
}

// buildIntent validates the upload flags and assembles the intent.
func buildIntent(files []string) (*uploader.Intent, error) {
	if flagDirPath != "" && len(files) > 0 {
		return nil, errors.New("--dir and explicit files are mutually exclusive")
	}

	if flagDirPath == "" && len(files) == 0 {
		return nil, errors.New("nothing to upload: give files or --dir")
	}

	if flagDirPath != "" {
		fi, err := os.Stat(flagDirPath)
		if err != nil {
			return nil, fmt.Errorf("stating %q: %w", flagDirPath, err)
		}

		if !fi.IsDir() {
			return nil, fmt.Errorf("%q is not a directory", flagDirPath)
		}
	}

	intent := &uploader.Intent{
		ObjectID:     flagObjectID,
		FolderID:     flagFolderID,
		FolderName:   flagFolderName,
		DirPath:      flagDirPath,
		Files:        files,
		Secret:       flagSecret,
		Hint:         flagHint,
		ViewPassword: flagViewPassword,
		Verify:       flagVerify || cfg.Verify,
	}

	if flagPublic != "" {
		public, err := strconv.ParseBool(flagPublic)
		if err != nil {
			return nil, fmt.Errorf("--public must be true or false, got %q", flagPublic)
		}

		intent.Public = &public
	}

	return intent, nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	intent, err := buildIntent(args)
	if err != nil {
		return err
	}

	cs, err := establishSession(cmd, false, flagForce)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	cs.logger.Debug("starting upload run", "run_id", runID)

	ledger, err := history.Open(cmd.Context(), cfg.EffectiveDataDir(), cs.logger)
	if err != nil {
		// History is best-effort; an unusable ledger must not block uploads.
		cs.logger.Warn("upload history unavailable", "error", err.Error())
		ledger = nil
	} else {
		defer ledger.Close()
	}

	orch := uploader.New(cs.client, cs.logger)
	orch.Progress = progressPrinter()
	orch.OnResult = func(res *uploader.Result) {
		printUploadReport(res)

		if ledger != nil {
			if recErr := ledger.Record(cmd.Context(), &history.Entry{
				RunID:      runID,
				ObjectID:   res.ObjectID,
				FolderID:   res.FolderID,
				LocalPath:  res.LocalPath,
				RemoteName: res.RemoteName,
				Size:       res.Size,
				SHA1:       res.ServerSHA1,
				CRC32:      res.ServerCRC,
				UploadedAt: res.UploadedAt,
				Elapsed:    res.Elapsed,
			}); recErr != nil {
				cs.logger.Warn("recording upload history", "error", recErr.Error())
			}
		}
	}

	results, err := orch.Execute(cmd.Context(), intent)
	if err != nil {
		return err
	}

	var total int64
	for i := range results {
		total += results[i].Size
	}

	statusf("Uploaded %d file(s), %s\n", len(results), formatSize(total))
	statusf("Object URL: %s\n", objectURL(intent.ObjectID))

	if intent.Public != nil {
		visibility := "private"
		if *intent.Public {
			visibility = "public"
		}

		statusf("Object visibility: %s\n", visibility)
	}

	return nil
}

// progressPrinter returns a byte-progress callback that rewrites a single
// terminal line, or nil when stderr is not a terminal.
func progressPrinter() fexapi.ProgressFunc {
	if flagQuiet || !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil
	}

	return func(done, total int64) {
		if total <= 0 {
			return
		}

		fmt.Fprintf(os.Stderr, "\rUploading: %.1f%%\033[K", float64(done)/float64(total)*100)

		if done >= total {
			fmt.Fprint(os.Stderr, "\r\033[K")
		}
	}
}

// printUploadReport prints the per-file report after a successful transfer.
func printUploadReport(res *uploader.Result) {
	if flagQuiet {
		return
	}

	rows := [][]string{
		{"File name:", res.RemoteName},
		{"File size:", formatSize(res.Size)},
		{"SHA1 server:", res.ServerSHA1},
		{"CRC32 server:", res.ServerCRC},
		{"Upload date:", formatTime(res.UploadedAt)},
		{"Object ID:", res.ObjectID},
		{"Object URL:", objectURL(res.ObjectID)},
	}

	if res.FolderID != "" {
		rows = append(rows,
			[]string{"Folder ID:", res.FolderID},
			[]string{"Folder URL:", folderURL(res.ObjectID, res.FolderID)},
		)
	}

	rows = append(rows,
		[]string{"Direct download URL:", downloadURL(res.ObjectID, res.UploadID)},
		[]string{"Upload time:", fmt.Sprintf("%.1f seconds", res.Elapsed.Seconds())},
	)

	printKV(os.Stdout, rows)

	if res.Verification != nil {
		printVerifyReport(res.Verification)
	}

	fmt.Println()
}

// printVerifyReport prints the checksum comparison for one file.
func printVerifyReport(report *uploader.VerifyReport) {
	if report.SHA1Match {
		fmt.Println("SHA1 hashes match")
	} else {
		printKV(os.Stdout, [][]string{
			{"SHA1 hashes differ", ""},
			{"Local SHA1:", report.Local.SHA1},
			{"Server SHA1:", report.Server.SHA1},
		})
	}

	if report.CRC32Match {
		fmt.Println("CRC32 hashes match")
	} else {
		printKV(os.Stdout, [][]string{
			{"CRC32 hashes differ", ""},
			{"Local CRC32:", report.Local.CRC32},
			{"Server CRC32:", report.Server.CRC32},
		})
	}
}
