package crypto

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestCipherProperties checks Seal/Open invariants over random inputs.
func TestCipherProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("open inverts seal", prop.ForAll(
		func(plaintext []byte, key []byte, startIV []byte, counter uint32) bool {
			nonce, err := BuildNonce(startIV, FixedValue("PolarWolf314"), counter)
			if err != nil {
				return false
			}
			ciphertext, err := Seal(nonce, key, plaintext)
			if err != nil {
				return false
			}
			decrypted, err := Open(nonce, key, ciphertext)
			return err == nil && bytes.Equal(decrypted, plaintext)
		},
		gen.SliceOf(gen.UInt8()),
		gen.SliceOfN(KeyLen, gen.UInt8()),
		gen.SliceOfN(IVLen, gen.UInt8()),
		gen.UInt32(),
	))

	properties.Property("nonce builder is an involution on the start iv", prop.ForAll(
		func(startIV []byte, fixed, counter uint32) bool {
			nonce, err := BuildNonce(startIV, fixed, counter)
			if err != nil {
				return false
			}
			back, err := BuildNonce(nonce, fixed, counter)
			return err == nil && bytes.Equal(back, startIV)
		},
		gen.SliceOfN(IVLen, gen.UInt8()),
		gen.UInt32(),
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
