package cmd

import (
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <key> [file]",
	Short: "Writes the value stored under key to a file",
	Long: `Writes the value stored under key to file. The file defaults to the last
segment of the key; a .txt extension is added when it has none.

The exported file is not encrypted. Remove it with coffer erase when done.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		file := ""
		if len(args) > 1 {
			file = args[1]
		}
		Logger.Infof("Starting export command for %s", key)

		spinner, cleanup := startSpinner("Exporting " + key + "...")
		defer cleanup()

		path, err := newVault(spinner).Export(cmd.Context(), key, file)
		if err != nil {
			return finish(spinner, key, err)
		}

		spinner.FinalMSG = ui.SuccessLine("Exported "+ui.Entry.Sprint(key)+" to "+ui.Path.Sprint(path)) + "\n" +
			ui.HintLine("Run "+ui.Code.Sprint("coffer erase "+path)+" when you no longer need it")
		return nil
	},
}
