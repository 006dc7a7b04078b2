package cmd

import (
	"fmt"

	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/container"
	"github.com/PolarWolf314/coffer/internal/crypto"
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Shows version and format information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintln(out)
		banner := figure.NewColorFigure(container.ProductName, "alligator2", "green", true)
		fmt.Fprintln(out, banner.ColorString())

		fmt.Fprintf(out, "%s %s\n", ui.Info.Sprint("Version:"), Version)
		fmt.Fprintf(out, "%s %s by %s\n", ui.Info.Sprint("Format: "), container.FormatVersion, container.Author)
		fmt.Fprintf(out, "%s AES-256-GCM, scrypt (N=%d, r=%d, p=%d)\n", ui.Info.Sprint("Cipher: "), crypto.ScryptN, crypto.ScryptR, crypto.ScryptP)
		fmt.Fprintf(out, "%s %s\n", ui.Info.Sprint("Store:  "), ui.Path.Sprint(Config.Store))
		fmt.Fprintf(out, "%s %s\n", ui.Info.Sprint("Config: "), ui.Path.Sprint(configs.UserCofferSettings.ConfigPath))
		return nil
	},
}
