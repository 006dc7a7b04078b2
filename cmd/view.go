package cmd

import (
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <key>",
	Short: "Prints the value stored under key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		Logger.Infof("Starting view command for %s", key)

		spinner, cleanup := startSpinner("Opening store...")
		defer cleanup()

		value, err := newVault(spinner).View(cmd.Context(), key)
		if err != nil {
			return finish(spinner, key, err)
		}

		spinner.FinalMSG = ui.Entry.Sprint(key) + "\n\n    " + ui.Secret.Sprint(string(value))
		return nil
	},
}
