// Package workflows implements the coffer commands on top of the container
// engine.
//
// A Vault wraps one store file. Every operation follows the same cycle:
//
//  1. Run the sync download command, if configured
//  2. Load the store and decrypt it, asking for the passphrase up to
//     MaxAttempts times
//  3. Read or change the archive
//  4. Encrypt with the same passphrase, or ask for a new one when the store
//     did not exist yet
//  5. Save, write a timestamped backup and run the sync upload command
//
// Read-only operations (View, List, Export) stop after step 3.
//
// # Passphrases
//
// The Vault never reads the terminal itself. Callers supply a Prompter; the
// CLI reads COFFER_PASSPHRASE or the TTY, tests use a fixed list.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package:
//
//	_, err := vault.View(ctx, "ravencoin")
//	if errors.Is(err, kerrors.ErrEntryNotFound) {
//	    // nothing stored under that name
//	}
//
// A store that fails to decrypt after every attempt returns ErrDecryptFailed.
package workflows
