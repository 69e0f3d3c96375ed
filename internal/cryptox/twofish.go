package cryptox

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/twofish"
)

// TwofishBlockSize is the Password Safe V3 record-layer block size.
const TwofishBlockSize = twofish.BlockSize

// NewTwofishCipher builds a Twofish block cipher from a 32-byte key.
func NewTwofishCipher(key []byte) (cipher.Block, error) {
	block, err := twofish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("twofish key setup: %w", err)
	}
	return block, nil
}

// UnwrapKeyBlocks decrypts four 16-byte ECB blocks (B1..B4) with stretchedKey
// as the Twofish key, producing the 32-byte record-layer encryption key
// (from B1,B2) and the 32-byte HMAC key (from B3,B4). This mirrors the V3
// header's key-unwrap step: two independent Twofish-ECB decryptions of two
// 32-byte (two-block) key halves.
func UnwrapKeyBlocks(stretchedKey []byte, b1, b2, b3, b4 [16]byte) (encKey, hmacKey [32]byte, err error) {
	block, err := NewTwofishCipher(stretchedKey)
	if err != nil {
		return encKey, hmacKey, err
	}
	block.Decrypt(encKey[:16], b1[:])
	block.Decrypt(encKey[16:], b2[:])
	block.Decrypt(hmacKey[:16], b3[:])
	block.Decrypt(hmacKey[16:], b4[:])
	return encKey, hmacKey, nil
}

// WrapKeyBlocks is the inverse of UnwrapKeyBlocks, used when saving a V3
// file: it encrypts a fresh record-layer key and HMAC key under the
// stretched key, producing the four on-disk key blocks.
func WrapKeyBlocks(stretchedKey []byte, encKey, hmacKey [32]byte) (b1, b2, b3, b4 [16]byte, err error) {
	block, err := NewTwofishCipher(stretchedKey)
	if err != nil {
		return b1, b2, b3, b4, err
	}
	block.Encrypt(b1[:], encKey[:16])
	block.Encrypt(b2[:], encKey[16:])
	block.Encrypt(b3[:], hmacKey[:16])
	block.Encrypt(b4[:], hmacKey[16:])
	return b1, b2, b3, b4, nil
}
