package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akarpov/fex-go/internal/fexapi"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <object-id>...",
		Short: "Print object details",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInfo,
	}

	cmd.Flags().StringVar(&flagViewPassword, "view-password", "", "view password of the objects")

	return cmd
}

// infoJSONOutput is the JSON output schema for the info command.
type infoJSONOutput struct {
	ObjectID     string `json:"object_id"`
	URL          string `json:"url"`
	Public       bool   `json:"public"`
	CanEdit      bool   `json:"can_edit"`
	WithViewPass bool   `json:"with_view_password"`
	UploadCount  int64  `json:"upload_count"`
	UploadSize   int64  `json:"upload_size"`
	Post         string `json:"post,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	// Object info never needs a login.
	cs, err := establishSession(cmd, true, false)
	if err != nil {
		return err
	}

	for _, objectID := range args {
		view, viewErr := cs.client.ObjectView(cmd.Context(), objectID, flagViewPassword)
		if viewErr != nil {
			return viewErr
		}

		if !view.Result {
			return fmt.Errorf("can't get info for object %s, wrong password?", objectID)
		}

		if flagJSON {
			if err := printInfoJSON(objectID, view); err != nil {
				return err
			}

			continue
		}

		printInfoText(objectID, view)
	}

	return nil
}

func printInfoJSON(objectID string, view *fexapi.ObjectView) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(infoJSONOutput{
		ObjectID:     objectID,
		URL:          objectURL(objectID),
		Public:       view.Public.Bool(),
		CanEdit:      view.CanEdit.Bool(),
		WithViewPass: view.WithViewPass.Bool(),
		UploadCount:  view.UploadCount,
		UploadSize:   view.UploadSize,
		Post:         view.Post,
	})
}

func printInfoText(objectID string, view *fexapi.ObjectView) {
	rows := [][]string{
		{"Object ID:", objectID},
		{"Object URL:", objectURL(objectID)},
		{"Public:", yesNo(view.Public.Bool())},
		{"Editable:", yesNo(view.CanEdit.Bool())},
		{"Password:", yesNo(view.WithViewPass.Bool())},
		{"Uploads:", fmt.Sprintf("%d", view.UploadCount)},
		{"Total size:", formatSize(view.UploadSize)},
	}

	if flagViewPassword != "" {
		rows = append(rows, []string{"Object password:", flagViewPassword})
	}

	if view.Post != "" {
		rows = append(rows, []string{"Description:", view.Post})
	}

	printKV(os.Stdout, rows)
	fmt.Println()
}
