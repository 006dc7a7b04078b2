package container

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"

	"github.com/PolarWolf314/coffer/internal/crypto"
	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

const (
	ProductName   = "coffer"
	FormatVersion = "1.0.0"

	// Author seeds the fixed nonce value. It must never change.
	Author = "PolarWolf314"

	counterLen = 4
)

var (
	versionDigits = regexp.MustCompile(`\d+`)
	versionSuffix = regexp.MustCompile(`(?s)^(.+?)\d+.*$`)
)

// Header carries the per-encryption values stored in front of the ciphertext.
type Header struct {
	StartIV [crypto.IVLen]byte
	Counter uint32
	Salt    [crypto.SaltLen]byte
}

// MagicMessage returns the human readable marker that opens every encrypted
// container, e.g. "encrypted with coffer 010000 \n" for version 1.0.0.
func MagicMessage(product, version string) string {
	return fmt.Sprintf("encrypted with %s %s \n", product, fixedVersion(version))
}

// fixedVersion encodes each numeric component of version as one byte of hex,
// so 1.2.3 becomes 010203.
func fixedVersion(version string) string {
	var buf []byte
	for _, part := range versionDigits.FindAllString(version, -1) {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			n = 0xFF
		}
		buf = append(buf, byte(n))
	}
	return hex.EncodeToString(buf)
}

// HeaderLen returns the fixed header size for magic.
func HeaderLen(magic string) int {
	return len(magic) + crypto.IVLen + counterLen + crypto.SaltLen
}

// EncodeHeader serializes h as magic || startIV || counter (big-endian) || salt.
func EncodeHeader(h Header, magic string) []byte {
	out := make([]byte, 0, HeaderLen(magic))
	out = append(out, magic...)
	out = append(out, h.StartIV[:]...)
	out = binary.BigEndian.AppendUint32(out, h.Counter)
	out = append(out, h.Salt[:]...)
	return out
}

// DecodeHeader reads the fixed-width fields that follow magic. The magic
// bytes themselves are not validated; use LooksEncrypted for that.
func DecodeHeader(b []byte, magic string) (Header, error) {
	var h Header
	if len(b) < HeaderLen(magic) {
		return h, fmt.Errorf("%w: expected at least %d bytes, got %d bytes", kerrors.ErrHeaderTooShort, HeaderLen(magic), len(b))
	}

	off := len(magic)
	copy(h.StartIV[:], b[off:off+crypto.IVLen])
	off += crypto.IVLen
	h.Counter = binary.BigEndian.Uint32(b[off : off+counterLen])
	off += counterLen
	copy(h.Salt[:], b[off:off+crypto.SaltLen])
	return h, nil
}

// LooksEncrypted reports whether b starts with magic, ignoring the version
// part of both so containers written by other releases are still recognized.
//
// This is content sniffing: a plaintext archive that happens to begin with
// the same words is misclassified as encrypted.
func LooksEncrypted(b []byte, magic string) bool {
	if len(b) < HeaderLen(magic) {
		return false
	}
	return stripVersion(string(b[:len(magic)])) == stripVersion(magic)
}

func stripVersion(s string) string {
	return versionSuffix.ReplaceAllString(s, "$1")
}
