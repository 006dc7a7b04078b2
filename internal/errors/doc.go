// Package errors provides typed error values for coffer.
//
// Sentinel errors let callers react to specific conditions with errors.Is()
// instead of matching strings.
//
// # Error Categories
//
//   - Primitive errors: raised by the crypto provider and header codec
//     (ErrInvalidKeyLength, ErrHeaderTooShort, ErrAuthenticationFailed)
//   - Container errors: raised by the engine (ErrDecryptFailed, ErrPassphraseRequired)
//   - Archive errors: entry lookups and archive parsing (ErrEntryNotFound)
//   - File errors: filesystem and sync issues (ErrNotAFile, ErrSyncFailed)
//   - Audit errors: reading the audit log (ErrInvalidDateFormat)
//
// # Propagation
//
// Primitive errors never reach the CLI directly. The container engine wraps
// them with ErrDecryptFailed or ErrEncryptFailed while keeping the original
// message for diagnostics:
//
//	return fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
//
// The CLI then decides whether to re-prompt:
//
//	if errors.Is(err, kerrors.ErrDecryptFailed) {
//	    // ask for the passphrase again
//	}
package errors
