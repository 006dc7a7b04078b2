package errors

import "errors"

// Primitive errors are raised by the crypto provider and header codec. They
// indicate a corrupted file or a programming error and are never retried.
var (
	// ErrInvalidKeyLength indicates the symmetric key is not 32 bytes.
	ErrInvalidKeyLength = errors.New("invalid key length")

	// ErrInvalidNonceLength indicates the GCM nonce is not 12 bytes.
	ErrInvalidNonceLength = errors.New("invalid nonce length")

	// ErrInvalidStartIVLength indicates the start IV is not 12 bytes.
	ErrInvalidStartIVLength = errors.New("invalid start iv length")

	// ErrInvalidSaltLength indicates the key derivation salt is not 16 bytes.
	ErrInvalidSaltLength = errors.New("invalid salt length")

	// ErrHeaderTooShort indicates the container is shorter than its fixed header.
	ErrHeaderTooShort = errors.New("container header is truncated")

	// ErrAuthenticationFailed indicates the GCM tag did not verify.
	ErrAuthenticationFailed = errors.New("message authentication failed")

	// ErrCounterExhausted indicates the encryption counter cannot advance without repeating.
	ErrCounterExhausted = errors.New("encryption counter exhausted")
)

// Container errors are returned by the container engine. DecryptFailed and
// PassphraseRequired are recoverable by asking for the passphrase again.
var (
	// ErrPassphraseRequired indicates an encrypted container was opened without a passphrase.
	ErrPassphraseRequired = errors.New("passphrase required")

	// ErrDecryptFailed indicates the container could not be decrypted.
	ErrDecryptFailed = errors.New("could not decrypt")

	// ErrEncryptFailed indicates the container could not be encrypted.
	ErrEncryptFailed = errors.New("could not encrypt")

	// ErrPassphraseMismatch indicates the confirmation passphrase did not match.
	ErrPassphraseMismatch = errors.New("passphrases do not match")
)

// Archive errors indicate problems with the entries inside a container.
var (
	// ErrEntryNotFound indicates no entry exists under the requested name.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrInvalidEntryName indicates the entry name is empty or escapes the archive.
	ErrInvalidEntryName = errors.New("invalid entry name")

	// ErrInvalidArchive indicates the decrypted payload is not a readable archive.
	ErrInvalidArchive = errors.New("invalid archive structure")
)

// File and environment errors.
var (
	// ErrNotAFile indicates a directory was given where a regular file is required.
	ErrNotAFile = errors.New("not a regular file")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrSyncFailed indicates a configured sync command exited with an error.
	ErrSyncFailed = errors.New("sync command failed")
)

// Audit errors are returned when reading the audit log.
var (
	// ErrInvalidDateFormat indicates a --since or --until date is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
