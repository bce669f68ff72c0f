package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newOwnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "own <object-id>...",
		Short: "Take ownership of objects",
		Long: `Transfer ownership of one or more objects to the logged-in account.
For password-protected objects pass --view-password; the object is viewed
once with it before the first ownership call.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runOwn,
	}

	cmd.Flags().StringVar(&flagViewPassword, "view-password", "", "view password of the objects")

	return cmd
}

func runOwn(cmd *cobra.Command, args []string) error {
	cs, err := establishSession(cmd, false, false)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	gotView := false

	for _, objectID := range args {
		cs.logger.Info("owning object", "object_id", objectID)

		// A single unlock view covers every object in the batch.
		if flagViewPassword != "" && !gotView {
			if _, viewErr := cs.client.ObjectView(ctx, objectID, flagViewPassword); viewErr != nil {
				return viewErr
			}

			gotView = true
		}

		ok, ownErr := cs.client.OwnObject(ctx, objectID)
		if ownErr != nil {
			return ownErr
		}

		if !ok {
			return fmt.Errorf("own failed for object %s", objectID)
		}

		printKV(os.Stdout, [][]string{
			{"Object " + objectID, "successfully owned"},
			{"Object URL", objectURL(objectID)},
			{"Owner", flagUser},
		})
	}

	return nil
}
