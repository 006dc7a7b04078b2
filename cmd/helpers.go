package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"github.com/PolarWolf314/coffer/internal/ui"
	"github.com/PolarWolf314/coffer/internal/utils"
	"github.com/PolarWolf314/coffer/internal/workflows"
	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do not need trailing newlines; cleanup adds one.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// terminalPrompter reads passphrases from COFFER_PASSPHRASE or the terminal,
// pausing the spinner while it waits for input.
type terminalPrompter struct {
	spinner *spinner.Spinner
}

func (p *terminalPrompter) ExistingPassphrase(ctx context.Context) ([]byte, error) {
	if value, ok := os.LookupEnv(utils.PassphraseEnvVar); ok {
		Logger.Debugf("Using passphrase from %s", utils.PassphraseEnvVar)
		return []byte(value), nil
	}

	defer p.pause()()
	return utils.ReadPassphrase("Enter the passphrase: ")
}

func (p *terminalPrompter) NewPassphrase(ctx context.Context) ([]byte, error) {
	if value, ok := os.LookupEnv(utils.PassphraseEnvVar); ok {
		Logger.Debugf("Using new passphrase from %s", utils.PassphraseEnvVar)
		return []byte(value), nil
	}

	defer p.pause()()
	passphrase, err := utils.ReadNewPassphrase("Create a passphrase: ", "Confirm the passphrase: ")
	if err != nil {
		return nil, err
	}
	if len(passphrase) > 0 {
		fmt.Fprintln(os.Stderr, ui.SuccessLine("Passphrase accepted"))
	}
	return passphrase, nil
}

// pause stops the spinner and returns a function restarting it.
func (p *terminalPrompter) pause() func() {
	if p.spinner == nil || !p.spinner.Active() {
		return func() {}
	}
	p.spinner.Stop()
	return p.spinner.Start
}

// newVault returns a Vault over the configured store.
func newVault(s *spinner.Spinner) *workflows.Vault {
	return workflows.NewVault(workflows.Options{
		Config:   Config,
		Prompter: &terminalPrompter{spinner: s},
		Log:      Logger,
	})
}

// describeError turns expected workflow errors into a final message. It
// returns false for errors the user cannot act on.
func describeError(err error) (string, bool) {
	switch {
	case errors.Is(err, kerrors.ErrDecryptFailed):
		return ui.ErrorLine("Could not decrypt " + ui.Path.Sprint(Config.Store)) + "\n" +
			ui.HintLine("Check the passphrase, or set "+ui.Code.Sprint(utils.PassphraseEnvVar)), true
	case errors.Is(err, kerrors.ErrPassphraseMismatch):
		return ui.ErrorLine("Passphrases do not match, nothing was written"), true
	case errors.Is(err, kerrors.ErrSyncFailed):
		return ui.ErrorLine("Sync command failed") + "\n" + ui.Error.Sprint("Error: ") + err.Error(), true
	case errors.Is(err, kerrors.ErrInvalidEntryName):
		return ui.ErrorLine("Invalid entry name") + "\n" +
			ui.HintLine("Names must not be empty, absolute, or contain "+ui.Code.Sprint("..")), true
	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.ErrorLine("File not found") + "\n" + ui.Error.Sprint("Error: ") + err.Error(), true
	case errors.Is(err, kerrors.ErrNotAFile):
		return ui.ErrorLine("Directories are not supported") + "\n" + ui.Error.Sprint("Error: ") + err.Error(), true
	case errors.Is(err, kerrors.ErrNoFilesFound):
		return ui.ErrorLine("No files matched"), true
	case errors.Is(err, kerrors.ErrInvalidArchive):
		return ui.ErrorLine("The store is damaged: " + ui.Path.Sprint(Config.Store)), true
	}
	return "", false
}

// notFoundMessage is shown when an entry lookup fails.
func notFoundMessage(key string) string {
	return ui.ErrorLine("Nothing stored under "+ui.Entry.Sprint(key)) + "\n" +
		ui.HintLine("Run "+ui.Code.Sprint("coffer list")+" to see stored entries")
}

// finish records err in the spinner's final message. A missing entry is
// informational and exits cleanly; every other error is returned so the
// process exits non-zero.
func finish(s *spinner.Spinner, key string, err error) error {
	if errors.Is(err, kerrors.ErrEntryNotFound) {
		s.FinalMSG = notFoundMessage(key)
		return nil
	}
	if msg, ok := describeError(err); ok {
		Logger.Errorf("%v", err)
		s.FinalMSG = msg
		return err
	}
	return Logger.ErrorfAndReturn("%v", err)
}

// backupHint describes the backup written next to the store, if any.
func backupHint(result *workflows.WriteResult) string {
	msg := ""
	if !result.Encrypted {
		msg += "\n" + ui.Warning.Sprint("⚠") + " The store is not encrypted"
	}
	if result.BackupPath != "" {
		msg += "\n" + ui.HintLine("Backup written to "+ui.Path.Sprint(result.BackupPath))
	}
	return msg
}
