package cmd

import (
	"fmt"

	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file> [key]",
	Short: "Stores the contents of a file",
	Long: `Stores the contents of file under key. The key defaults to the file name.

Examples:
  coffer import wallet.dat
  coffer import ./wallet.dat wallets/main`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		key := ""
		if len(args) > 1 {
			key = args[1]
		}
		Logger.Infof("Starting import command for %s", file)

		spinner, cleanup := startSpinner("Importing " + file + "...")
		defer cleanup()

		result, err := newVault(spinner).Import(cmd.Context(), file, key)
		if err != nil {
			return finish(spinner, key, err)
		}

		spinner.FinalMSG = ui.SuccessLine("Imported "+ui.Path.Sprint(file)) + backupHint(result)
		return nil
	},
}

var importManyCmd = &cobra.Command{
	Use:   "import-many <pattern>...",
	Short: "Stores every file matching the patterns under its file name",
	Long: `Stores every file matching the patterns. Patterns support ** to match
any number of directories. Directories themselves are skipped.

Examples:
  coffer import-many wallet.dat notes.txt
  coffer import-many "backups/**/*.key"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting import-many command for %d pattern(s)", len(args))

		spinner, cleanup := startSpinner("Importing files...")
		defer cleanup()

		result, err := newVault(spinner).ImportMany(cmd.Context(), args)
		if err != nil {
			return finish(spinner, "", err)
		}

		spinner.FinalMSG = ui.SuccessLine(fmt.Sprintf("Imported %d files:", len(result.Imported))) +
			utils.FormatPaths(result.Imported) + backupHint(&result.WriteResult)
		return nil
	},
}
