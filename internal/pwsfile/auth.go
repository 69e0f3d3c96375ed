package pwsfile

import (
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // mandated by the V1/V2 wire format
	"fmt"

	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/cryptox"
)

// deriveV1V2 authenticates passphrase against the header's RandStuff/
// RandHash pair and, on success, returns the Blowfish cipher keyed for the
// record stream.
//
// The V1/V2 authenticator works by re-deriving the same random-hash value
// the writer computed at save time: stretch passphrase+salt into a
// Blowfish key, encrypt RandStuff twice through it and SHA1 the result
// (see randHash), and compare against RandHash.
func deriveV1V2(passphrase []byte, h *headerV1V2) (cipher.Block, error) {
	key := cryptox.StretchV1V2Key(passphrase, h.Salt[:])
	block, err := cryptox.NewBlowfishCipher(key)
	if err != nil {
		return nil, common.ErrCryptoInit
	}

	got := randHash(block, h.RandStuff)
	if !hmac.Equal(got[:], h.RandHash[:]) {
		return nil, common.ErrWrongPassphrase
	}
	return block, nil
}

// randHash reproduces the V1/V2 RandHash check value: ECB-encrypt
// RandStuff twice through block (chained, Password Safe's historical
// "double encrypt the stuff" authenticator) and SHA1 the result.
func randHash(block cipher.Block, stuff [8]byte) [20]byte {
	var buf [8]byte
	block.Encrypt(buf[:], stuff[:])
	block.Encrypt(buf[:], buf[:])

	h := sha1.New() //nolint:gosec
	h.Write(buf[:])
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// deriveV3 authenticates passphrase against the header's stretched-key
// hash and, on success, unwraps and returns the record-layer and HMAC
// keys.
func deriveV3(passphrase []byte, h *headerV3) (encKey, hmacKey [32]byte, err error) {
	stretched := cryptox.StretchV3Key(passphrase, h.Salt[:], h.Iterations)
	if !cryptox.VerifyStretchedKey(stretched, h.StretchedKeyHash) {
		return encKey, hmacKey, common.ErrWrongPassphrase
	}
	encKey, hmacKey, err = cryptox.UnwrapKeyBlocks(stretched[:], h.B1, h.B2, h.B3, h.B4)
	if err != nil {
		return encKey, hmacKey, fmt.Errorf("pwsfile: unwrap v3 key blocks: %w", err)
	}
	return encKey, hmacKey, nil
}
