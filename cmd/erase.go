package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/spf13/cobra"
)

var nukeYes bool

func init() {
	nukeCmd.Flags().BoolVarP(&nukeYes, "yes", "y", false, "skip the confirmation prompt")
}

// resetNukeState resets the nuke command's global state for testing.
func resetNukeState() {
	nukeYes = false
}

var eraseCmd = &cobra.Command{
	Use:   "erase <file>",
	Short: "Overwrites a file with random data, then deletes it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		Logger.Infof("Starting erase command for %s", file)

		spinner, cleanup := startSpinner("Erasing " + file + "...")
		defer cleanup()

		if err := newVault(spinner).Erase(cmd.Context(), file); err != nil {
			return finish(spinner, "", err)
		}

		spinner.FinalMSG = ui.SuccessLine("Erased " + ui.Path.Sprint(file))
		return nil
	},
}

var nukeCmd = &cobra.Command{
	Use:   "nuke",
	Short: "Erases the store and everything in the coffer directory",
	Long: `Securely erases the store, every backup, the configuration and the audit
log, then removes the coffer directory. This cannot be undone.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting nuke command")
		dir := configs.UserCofferSettings.DefaultDir

		if !nukeYes {
			confirmed, err := confirmNuke(dir)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to read confirmation: %v", err)
			}
			if !confirmed {
				fmt.Println(ui.ErrorLine("Aborted, nothing was erased"))
				return nil
			}
		}

		spinner, cleanup := startSpinner("Erasing everything...")
		defer cleanup()

		erased, err := newVault(spinner).Nuke(cmd.Context())
		if err != nil {
			return finish(spinner, "", err)
		}

		spinner.FinalMSG = ui.SuccessLine(fmt.Sprintf("Erased %d files and removed %s", len(erased), ui.Path.Sprint(dir)))
		if len(erased) > 0 {
			spinner.FinalMSG += utils.FormatPaths(erased)
		}
		return nil
	},
}

func confirmNuke(dir string) (bool, error) {
	fmt.Printf("Type %s to erase %s and %s\n> ", ui.Code.Sprint("yes"), ui.Path.Sprint(Config.Store), ui.Path.Sprint(dir))
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.TrimSpace(answer) == "yes", nil
}
