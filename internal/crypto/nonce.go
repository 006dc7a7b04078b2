package crypto

import (
	"encoding/binary"
	"fmt"

	kerrors "github.com/PolarWolf314/coffer/internal/errors"
)

// BuildNonce derives the per-message GCM nonce from a random start IV, the
// fixed installation value and the message counter (NIST SP 800-38D 8.2.1).
//
// The start IV is read as three little-endian words. The fixed value is mixed
// into the first word and the counter into both the second and the third.
// XORing the same counter twice shrinks the dynamic part of the nonce to 32
// bits of variation; it is kept so existing containers still open.
func BuildNonce(startIV []byte, fixed, counter uint32) ([]byte, error) {
	if len(startIV) != IVLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidStartIVLength, IVLen, len(startIV))
	}

	nonce := make([]byte, IVLen)
	binary.LittleEndian.PutUint32(nonce[0:4], binary.LittleEndian.Uint32(startIV[0:4])^fixed)
	binary.LittleEndian.PutUint32(nonce[4:8], binary.LittleEndian.Uint32(startIV[4:8])^counter)
	binary.LittleEndian.PutUint32(nonce[8:12], binary.LittleEndian.Uint32(startIV[8:12])^counter)
	return nonce, nil
}
