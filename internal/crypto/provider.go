package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"runtime"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
	"golang.org/x/crypto/scrypt"
)

const (
	IVLen   = 12 // GCM nonce and start IV
	KeyLen  = 32 // AES-256
	TagLen  = 16 // GCM authentication tag
	SaltLen = 16 // NIST SP 800-132 minimum
)

// Scrypt work factors. Changing them makes existing containers unreadable.
const (
	ScryptN = 1 << 15
	ScryptR = 8
	ScryptP = 1
)

// RandomBytes returns n bytes from the platform CSPRNG. It panics if the
// platform RNG is unavailable, since no safe fallback exists.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto: platform random source unavailable: %v", err))
	}
	return b
}

// RandomCounter returns a uniformly random starting counter in [0, 0xFFFF].
func RandomCounter() uint32 {
	return uint32(binary.LittleEndian.Uint16(RandomBytes(2)))
}

// Hash returns SHA-256(input || salt...).
func Hash(input []byte, salt ...[]byte) [sha256.Size]byte {
	h := sha256.New()
	h.Write(input)
	for _, s := range salt {
		h.Write(s)
	}
	var out [sha256.Size]byte
	copy(out[:], h.Sum(nil))
	return out
}

// FixedValue hashes identity and reads the first four digest bytes as a
// little-endian uint32.
func FixedValue(identity string) uint32 {
	sum := Hash([]byte(identity))
	return binary.LittleEndian.Uint32(sum[:4])
}

// DeriveKey stretches passphrase into a 32-byte key with scrypt.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(salt) != SaltLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidSaltLength, SaltLen, len(salt))
	}
	key, err := scrypt.Key(passphrase, salt, ScryptN, ScryptR, ScryptP, KeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext with AES-256-GCM. The returned slice is the
// ciphertext followed by the 16-byte tag.
func Seal(nonce, key, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(nonce, key)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// Open verifies the trailing tag of input and returns the plaintext. Any
// verification failure is reported as ErrAuthenticationFailed.
func Open(nonce, key, input []byte) ([]byte, error) {
	gcm, err := newGCM(nonce, key)
	if err != nil {
		return nil, err
	}
	if len(input) < TagLen {
		return nil, kerrors.ErrAuthenticationFailed
	}
	plaintext, err := gcm.Open(nil, nonce, input, nil)
	if err != nil {
		return nil, kerrors.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

func newGCM(nonce, key []byte) (cipher.AEAD, error) {
	if len(key) != KeyLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeyLen, len(key))
	}
	if len(nonce) != IVLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidNonceLength, IVLen, len(nonce))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create aes block cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create gcm cipher: %w", err)
	}
	return gcm, nil
}
