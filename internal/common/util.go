package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandByteArray returns n cryptographically random bytes, drawn
// from crypto/rand. It panics if the system RNG cannot supply entropy,
// which should be treated as unreachable in practice.
func GenerateRandByteArray(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

// MakeRandHexString returns a random hex-encoded string built from n
// random bytes (so the returned string has length 2*n).
func MakeRandHexString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// WipeByteArray zeroes buf in place. It is safe to call on a nil slice.
func WipeByteArray(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
