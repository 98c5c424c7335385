package utils

import (
	"crypto/rand"
	"math/big"
)

const keyAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // no 0/O/1/I

// GenerateRandomString returns n characters from an unambiguous alphabet,
// used for activation keys and payment references.
func GenerateRandomString(n int) string {
	b := make([]byte, n)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("failed to read random bytes")
		}
		b[i] = keyAlphabet[idx.Int64()]
	}
	return string(b)
}
