package cmd

import (
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store <key> [value]",
	Short: "Stores a value under key, replacing any existing entry",
	Long: `Stores a value under key. Use slashes to group entries in folders.

When the value is omitted it is read from stdin, or prompted for without
echo when stdin is a terminal.

Examples:
  coffer store ravencoin
  coffer store seed/ravencoin "abandon ability able"
  pbpaste | coffer store seed/ravencoin`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		Logger.Infof("Starting store command for %s", key)

		value, err := readValue(key, args)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read value: %v", err)
		}

		spinner, cleanup := startSpinner("Storing " + key + "...")
		defer cleanup()

		result, err := newVault(spinner).Store(cmd.Context(), key, value)
		if err != nil {
			return finish(spinner, key, err)
		}

		Logger.Infof("Store command completed for %s", key)
		spinner.FinalMSG = ui.SuccessLine("Stored "+ui.Entry.Sprint(key)) + backupHint(result)
		return nil
	},
}

func readValue(key string, args []string) ([]byte, error) {
	if len(args) > 1 {
		return []byte(args[1]), nil
	}
	if !utils.IsTerminal() {
		Logger.Debugf("Reading value from stdin")
		return utils.ReadStdin()
	}
	return utils.ReadPassphrase(fmt.Sprintf("Enter the value for %s: ", ui.Entry.Sprint(key)))
}
