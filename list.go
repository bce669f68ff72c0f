package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/akarpov/fex-go/internal/fexapi"
)

func newFoldersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folders <object-id>",
		Short: "List an object's folder tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runFolders,
	}

	cmd.Flags().StringVar(&flagViewPassword, "view-password", "", "view password of the object")

	return cmd
}

func newObjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "objects",
		Short: "List the account's objects",
		RunE:  runObjects,
	}
}

// folderRow is one discovered folder with its full remote path.
type folderRow struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Path string `json:"path"`
}

func runFolders(cmd *cobra.Command, args []string) error {
	objectID := args[0]

	// Folder listing works without a login; an existing session is reused
	// so private objects of the logged-in user resolve too.
	cs, err := establishSession(cmd, true, false)
	if err != nil {
		return err
	}

	if _, restoreErr := cs.auth.RestoreSession(cmd.Context(), flagUser); restoreErr != nil {
		cs.logger.Debug("session restore failed", "error", restoreErr.Error())
	}

	view, err := cs.client.ObjectView(cmd.Context(), objectID, flagViewPassword)
	if err != nil {
		return err
	}

	if !view.Result {
		return fmt.Errorf("can't list folders of object %s, wrong password or private object?", objectID)
	}

	cs.logger.Info("building folder list", "object_id", objectID)

	var rows []folderRow
	if err := collectFolders(cmd.Context(), cs.client, objectID, view.UploadList, nil, &rows); err != nil {
		return err
	}

	sort.Slice(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Path) < strings.ToLower(rows[j].Path)
	})

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(rows)
	}

	headers := []string{"FOLDER NAME", "ID", "PATH"}
	table := make([][]string, len(rows))

	for i, row := range rows {
		table[i] = []string{row.Name, row.ID, row.Path}
	}

	printTable(os.Stdout, headers, table)

	return nil
}

// collectFolders walks an upload list depth-first, resolving each folder's
// full path through the folder-list endpoint. The parent chain is copied
// per recursion so siblings never share it.
func collectFolders(ctx context.Context, client *fexapi.Client, objectID string, entries []fexapi.UploadEntry, parentChain []string, rows *[]folderRow) error {
	for _, entry := range entries {
		if !entry.IsFolder {
			continue
		}

		chain := make([]string, 0, len(parentChain)+1)
		chain = append(chain, parentChain...)
		chain = append(chain, entry.UploadID)

		segments, err := client.FolderList(ctx, objectID, chain)
		if err != nil {
			return err
		}

		names := make([]string, len(segments))
		for i, seg := range segments {
			names[i] = seg.Name
		}

		*rows = append(*rows, folderRow{
			Name: entry.Name,
			ID:   entry.UploadID,
			Path: strings.Join(names, " → "),
		})

		children, err := client.FolderView(ctx, objectID, entry.UploadID)
		if err != nil {
			return err
		}

		if err := collectFolders(ctx, client, objectID, children, chain, rows); err != nil {
			return err
		}
	}

	return nil
}

// objectsJSONRow is the JSON output schema for one object listing row.
type objectsJSONRow struct {
	Name      string `json:"name"`
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Size      int64  `json:"size"`
	Public    bool   `json:"public"`
	Password  bool   `json:"password"`
	Editable  bool   `json:"editable"`
	CreatedAt string `json:"created_at"`
}

func runObjects(cmd *cobra.Command, _ []string) error {
	cs, err := establishSession(cmd, false, false)
	if err != nil {
		return err
	}

	objects, err := cs.client.Home(cmd.Context())
	if err != nil {
		return err
	}

	if flagJSON {
		out := make([]objectsJSONRow, 0, len(objects))
		for _, obj := range objects {
			out = append(out, objectsJSONRow{
				Name:      obj.Preview,
				ID:        obj.Token,
				Owner:     obj.Login,
				Size:      obj.UploadSize,
				Public:    obj.Public.Bool(),
				Password:  obj.WithViewPass.Bool(),
				Editable:  obj.CanEdit.Bool(),
				CreatedAt: time.Unix(obj.CreateTime, 0).UTC().Format(time.RFC3339),
			})
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(out)
	}

	headers := []string{"NAME", "ID", "OWNER", "SIZE", "PUBLIC", "PASSWORD", "EDITABLE", "CREATED"}
	rows := make([][]string, 0, len(objects))

	for _, obj := range objects {
		rows = append(rows, []string{
			obj.Preview,
			obj.Token,
			obj.Login,
			formatSize(obj.UploadSize),
			yesNo(obj.Public.Bool()),
			yesNo(obj.WithViewPass.Bool()),
			yesNo(obj.CanEdit.Bool()),
			formatTime(time.Unix(obj.CreateTime, 0)),
		})
	}

	printTable(os.Stdout, headers, rows)

	return nil
}
