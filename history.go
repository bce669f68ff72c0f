package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpov/fex-go/internal/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past uploads recorded locally",
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum entries to show")

	return cmd
}

// historyJSONRow is the JSON output schema for one history entry.
type historyJSONRow struct {
	RunID      string `json:"run_id"`
	ObjectID   string `json:"object_id"`
	LocalPath  string `json:"local_path"`
	RemoteName string `json:"remote_name"`
	Size       int64  `json:"size"`
	SHA1       string `json:"sha1,omitempty"`
	UploadedAt string `json:"uploaded_at"`
}

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	logger := buildLogger()

	ledger, err := history.Open(cmd.Context(), cfg.EffectiveDataDir(), logger)
	if err != nil {
		return err
	}
	defer ledger.Close()

	entries, err := ledger.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if flagJSON {
		out := make([]historyJSONRow, 0, len(entries))
		for _, e := range entries {
			out = append(out, historyJSONRow{
				RunID:      e.RunID,
				ObjectID:   e.ObjectID,
				LocalPath:  e.LocalPath,
				RemoteName: e.RemoteName,
				Size:       e.Size,
				SHA1:       e.SHA1,
				UploadedAt: e.UploadedAt.UTC().Format(time.RFC3339),
			})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	headers := []string{"UPLOADED", "FILE", "SIZE", "OBJECT", "SHA1"}
	rows := make([][]string, 0, len(entries))

	for _, e := range entries {
		rows = append(rows, []string{
			formatTime(e.UploadedAt),
			e.RemoteName,
			formatSize(e.Size),
			e.ObjectID,
			e.SHA1,
		})
	}

	printTable(os.Stdout, headers, rows)

	return nil
}
