package utils

import (
	"bytes"
	"fmt"
	"os"
	"runtime"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"golang.org/x/term"
)

// PassphraseEnvVar supplies the passphrase for non-interactive use.
const PassphraseEnvVar = "COFFER_PASSPHRASE"

// ReadPassphrase prompts the user for a passphrase without echoing input.
// When stdin is piped it falls back to /dev/tty (or CON on Windows).
func ReadPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ReadPassphraseFromTTY(prompt)
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// ReadPassphraseFromTTY prompts the user for a passphrase from /dev/tty (or CON on Windows).
// This is useful when stdin is being used for other input (e.g., piping a value).
func ReadPassphraseFromTTY(prompt string) ([]byte, error) {
	ttyPath := "/dev/tty"
	if runtime.GOOS == "windows" {
		ttyPath = "CON"
	}

	tty, err := os.Open(ttyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s for passphrase input (set %s instead): %w", ttyPath, PassphraseEnvVar, err)
	}
	defer tty.Close()

	fd := int(tty.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", ttyPath)
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// ReadNewPassphrase prompts twice and fails when the entries differ.
// An empty result is returned as-is; the caller decides what it means.
func ReadNewPassphrase(prompt, confirmPrompt string) ([]byte, error) {
	passphrase, err := ReadPassphrase(prompt)
	if err != nil {
		return nil, err
	}
	confirm, err := ReadPassphrase(confirmPrompt)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(passphrase, confirm) {
		return nil, kerrors.ErrPassphraseMismatch
	}
	return passphrase, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
