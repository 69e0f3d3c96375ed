package cryptox

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// BlowfishBlockSize is the Password Safe V1/V2 record-layer block size and
// the in-memory cage's block size.
const BlowfishBlockSize = blowfish.BlockSize

// NewBlowfishCipher builds a Blowfish block cipher from key. Key stretching
// (SHA1(passphrase||salt)) happens one level up, in the file codec.
func NewBlowfishCipher(key []byte) (cipher.Block, error) {
	block, err := blowfish.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("blowfish key setup: %w", err)
	}
	return block, nil
}

// ECBCrypt runs block over src one BlowfishBlockSize-sized chunk at a time,
// with no chaining between blocks. This is V1's record-layer mode.
// len(src) must be a non-zero multiple of block.BlockSize().
func ECBCrypt(block cipher.Block, dst, src []byte, encrypt bool) error {
	bs := block.BlockSize()
	if len(src) == 0 || len(src)%bs != 0 {
		return fmt.Errorf("ecb: input length %d is not a multiple of block size %d", len(src), bs)
	}
	for off := 0; off < len(src); off += bs {
		if encrypt {
			block.Encrypt(dst[off:off+bs], src[off:off+bs])
		} else {
			block.Decrypt(dst[off:off+bs], src[off:off+bs])
		}
	}
	return nil
}

// PKCS5Pad pads src up to a multiple of blockSize using PKCS#5/PKCS#7
// padding (blockSize <= 255). It always appends at least one padding byte,
// even when len(src) is already a multiple of blockSize.
func PKCS5Pad(src []byte, blockSize int) []byte {
	padLen := blockSize - (len(src) % blockSize)
	out := make([]byte, len(src)+padLen)
	copy(out, src)
	for i := len(src); i < len(out); i++ {
		out[i] = byte(padLen)
	}
	return out
}

// PKCS5Unpad strips and validates PKCS#5/PKCS#7 padding.
func PKCS5Unpad(src []byte, blockSize int) ([]byte, error) {
	if len(src) == 0 || len(src)%blockSize != 0 {
		return nil, fmt.Errorf("pkcs5: invalid padded length %d", len(src))
	}
	padLen := int(src[len(src)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(src) {
		return nil, fmt.Errorf("pkcs5: invalid padding byte %d", padLen)
	}
	for _, b := range src[len(src)-padLen:] {
		if int(b) != padLen {
			return nil, fmt.Errorf("pkcs5: inconsistent padding")
		}
	}
	return src[:len(src)-padLen], nil
}
