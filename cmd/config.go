package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/PolarWolf314/coffer/internal/configs"
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/spf13/cobra"
)

var configShowJSON bool

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage coffer configuration",
	Long: `Provides commands for inspecting the coffer configuration.

The configuration lives in ~/.coffer/config.toml, or in $COFFER_HOME when set.

Examples:
  # Show the configuration
  coffer config show

  # Output in JSON format
  coffer config show --json`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config show command")
		Logger.Debugf("Flags: json=%t", configShowJSON)

		if configShowJSON {
			out := struct {
				Path   string          `json:"path"`
				Config *configs.Config `json:"config"`
			}{configs.UserCofferSettings.ConfigPath, Config}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to encode configuration: %v", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Sprint("# "+configs.UserCofferSettings.ConfigPath))
		if err := toml.NewEncoder(cmd.OutOrStdout()).Encode(Config); err != nil {
			return Logger.ErrorfAndReturn("Failed to encode configuration: %v", err)
		}
		return nil
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}
