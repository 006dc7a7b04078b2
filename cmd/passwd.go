package cmd

import (
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/spf13/cobra"
)

var passwdCmd = &cobra.Command{
	Use:     "passwd",
	Aliases: []string{"password"},
	Short:   "Re-encrypts the store with a new passphrase",
	Long: `Decrypts the store with the current passphrase and encrypts it again with
a new one. An empty passphrase stores the archive unencrypted.

With COFFER_PASSPHRASE set, the same value is used for both.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting passwd command")

		spinner, cleanup := startSpinner("Changing passphrase...")
		defer cleanup()

		result, err := newVault(spinner).Password(cmd.Context())
		if err != nil {
			return finish(spinner, "", err)
		}

		spinner.FinalMSG = ui.SuccessLine("Passphrase changed for "+ui.Path.Sprint(result.StorePath)) + backupHint(result)
		return nil
	},
}
