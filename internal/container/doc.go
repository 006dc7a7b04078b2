// Package container implements the encrypted coffer file format.
//
// # File Layout
//
//	[magic message]  "encrypted with coffer <hex-version> \n"
//	[start iv]       12 bytes
//	[counter]        4 bytes, big-endian
//	[salt]           16 bytes
//	[ciphertext]     AES-256-GCM output including the 16-byte tag
//
// A file that does not start with a recognized magic message is treated as
// an unencrypted archive in its entirety.
//
// # Lifecycle
//
//	Load -> Decrypt -> (mutate archive) -> Encrypt -> Save
//
// Every Encrypt draws a fresh start IV and salt and advances the engine's
// counter by one. Decrypt adopts the counter found in the header, so a
// container must be saved after each Encrypt and re-read on the next run.
//
// # Known Limitations
//
// Encryption is detected by sniffing the magic message. A plaintext archive
// that begins with the same words is misclassified as encrypted and will fail
// to decrypt.
//
// The nonce construction mixes the counter into two words of the start IV
// with the same value. This is kept for compatibility with existing files
// and reduces the variation contributed by the counter to 32 bits.
package container
