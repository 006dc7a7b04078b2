package cmd

import (
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <key>",
	Aliases: []string{"rm"},
	Short:   "Deletes an entry, or every entry in a folder",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		Logger.Infof("Starting delete command for %s", key)

		spinner, cleanup := startSpinner("Deleting " + key + "...")
		defer cleanup()

		result, err := newVault(spinner).Delete(cmd.Context(), key)
		if err != nil {
			return finish(spinner, key, err)
		}

		spinner.FinalMSG = ui.SuccessLine(fmt.Sprintf("Deleted %s (%d entries)", ui.Entry.Sprint(key), result.Removed)) +
			backupHint(&result.WriteResult)
		return nil
	},
}
