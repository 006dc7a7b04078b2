// Package utils provides shared helpers for coffer.
//
// # Filesystem Utilities
//
//   - WriteFileAtomic: write through a temporary file and rename
//   - SecureErase: overwrite a file with random bytes, then remove it
//   - ExpandHome, EnsureExtension, FileExists
//
// # Terminal Utilities
//
//   - ReadPassphrase / ReadNewPassphrase: hidden passphrase entry
//   - IsTerminal: checks whether stdin is a terminal
//
// # I/O Utilities
//
//   - ReadStdin: reads a piped value
package utils
