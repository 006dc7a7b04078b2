package cmd

import (
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Lists stored entries",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting list command")

		spinner, cleanup := startSpinner("Opening store...")
		defer cleanup()

		names, err := newVault(spinner).List(cmd.Context())
		if err != nil {
			return finish(spinner, "", err)
		}

		if len(names) == 0 {
			spinner.FinalMSG = ui.Muted.Sprint("no entries") + "\n" +
				ui.HintLine("Run "+ui.Code.Sprint("coffer store <key>")+" to add one")
			return nil
		}

		spinner.FinalMSG = fmt.Sprintf("%d entries in %s\n\n", len(names), ui.Path.Sprint(Config.Store)) +
			utils.FormatEntries(names)
		return nil
	},
}
