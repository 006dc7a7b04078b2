// Package crypto provides the primitives behind coffer containers.
//
// # Primitives
//
//   - RandomBytes: platform CSPRNG, panics when unavailable
//   - Hash: SHA-256 over input with an optional appended salt
//   - DeriveKey: scrypt with N=32768, r=8, p=1 and a 16-byte salt
//   - Seal/Open: AES-256-GCM, ciphertext followed by a 16-byte tag
//   - BuildNonce: deterministic 96-bit nonce from start IV, fixed value and counter
//
// Seal and Open validate key and nonce lengths before touching the cipher.
// Open collapses every verification failure into ErrAuthenticationFailed so
// that wrong passphrases and tampered files are indistinguishable and no
// partial plaintext is ever returned.
//
// scrypt and GCM calls are not interruptible. Callers that need to stay
// responsive should run them in the background and discard the result on
// cancellation instead of trying to stop them midway.
package crypto
