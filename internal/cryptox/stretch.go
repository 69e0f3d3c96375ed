package cryptox

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // mandated by the V1/V2 wire format, not a design choice
	"crypto/sha256"
	"hash"
)

// StretchV1V2Key derives the Blowfish key used by V1 and V2 files:
// SHA1(passphrase || salt). V1 uses the result directly as an ECB key; V2
// uses it as a CBC key with the header's IV.
func StretchV1V2Key(passphrase, salt []byte) []byte {
	h := sha1.New() //nolint:gosec
	h.Write(passphrase)
	h.Write(salt)
	return h.Sum(nil)
}

// StretchV3Key implements the Password Safe V3 key-stretching algorithm:
// P = SHA256(passphrase || salt), then P = SHA256(P) iterated `iterations`
// times. The final value authenticates the passphrase (via SHA256(P)
// compared against the header's stored hash) and unwraps the record and
// HMAC keys via two Twofish-ECB decryptions.
func StretchV3Key(passphrase, salt []byte, iterations uint32) [sha256.Size]byte {
	h := sha256.New()
	h.Write(passphrase)
	h.Write(salt)
	p := h.Sum(nil)

	var buf [sha256.Size]byte
	copy(buf[:], p)
	for i := uint32(0); i < iterations; i++ {
		buf = sha256.Sum256(buf[:])
	}
	return buf
}

// VerifyStretchedKey reports whether SHA256(stretchedKey) equals the
// header's stored authentication hash.
func VerifyStretchedKey(stretchedKey [sha256.Size]byte, storedHash [sha256.Size]byte) bool {
	got := sha256.Sum256(stretchedKey[:])
	return hmac.Equal(got[:], storedHash[:])
}

// NewHMACSHA256 builds the HMAC used to authenticate a V3 file's plaintext
// field payloads (not their type/length headers, per the V3 spec).
func NewHMACSHA256(key []byte) hash.Hash {
	return hmac.New(sha256.New, key)
}
