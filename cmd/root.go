package cmd

import (
	"github.com/PolarWolf314/coffer/internal/configs"
	logger "github.com/PolarWolf314/coffer/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is the release version, set at build time with -ldflags.
var Version = "1.0.0"

var (
	verbose   bool
	debug     bool
	storePath string
	Logger    logger.Logger
	Config    *configs.Config

	// RootCmd is the coffer command.
	RootCmd = &cobra.Command{
		Use:   "coffer",
		Short: "coffer - an encrypted store for seed phrases and keys",
		Long: `coffer keeps seed phrases, keys and small files in a single encrypted
container (AES-256-GCM, scrypt-derived key).

Examples:
  # Store a seed phrase (the value is read from stdin or prompted for)
  coffer store ravencoin
  coffer store seed/ravencoin "abandon ability able"

  # Read it back
  coffer view seed/ravencoin

  # Import files
  coffer import wallet.dat
  coffer import-many "backups/**/*.key"

Set COFFER_PASSPHRASE to run without a terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing coffer with verbose=%t, debug=%t", verbose, debug)

			config, err := configs.EnsureConfig()
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to load configuration: %v", err)
			}
			if storePath != "" {
				config.Store = storePath
			}
			if config.Debug && !debug {
				debug = true
				Logger.Debug = true
			}
			Config = config

			Logger.Debugf("Store: %s", Config.Store)
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVar(&storePath, "store", "", "path to the store (overrides the configuration)")

	RootCmd.AddCommand(storeCmd)
	RootCmd.AddCommand(viewCmd)
	RootCmd.AddCommand(listCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(importManyCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(passwdCmd)
	RootCmd.AddCommand(eraseCmd)
	RootCmd.AddCommand(nukeCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(aboutCmd)
}

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	storePath = ""
	Config = nil
	resetNukeState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState resets flags on cmd and its children to prevent test pollution.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCobraFlagState(child)
	}
}
