package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestECBCrypt_RoundTrip(t *testing.T) {
	key := make([]byte, 20)
	FillRandom(key)
	block, err := NewBlowfishCipher(key)
	require.NoError(t, err)

	plain := PKCS5Pad([]byte("hunter2 is my favorite password"), BlowfishBlockSize)
	cipherText := make([]byte, len(plain))
	require.NoError(t, ECBCrypt(block, cipherText, plain, true))

	decoded := make([]byte, len(plain))
	require.NoError(t, ECBCrypt(block, decoded, cipherText, false))
	assert.Equal(t, plain, decoded)
}

func TestECBCrypt_RejectsUnalignedInput(t *testing.T) {
	key := make([]byte, 20)
	FillRandom(key)
	block, err := NewBlowfishCipher(key)
	require.NoError(t, err)

	src := make([]byte, BlowfishBlockSize+1)
	err = ECBCrypt(block, make([]byte, len(src)), src, true)
	assert.Error(t, err)
}

func TestPKCS5Pad_AlwaysAddsAtLeastOneByte(t *testing.T) {
	src := make([]byte, BlowfishBlockSize)
	padded := PKCS5Pad(src, BlowfishBlockSize)
	assert.Len(t, padded, BlowfishBlockSize*2)
}

func TestPKCS5Unpad_RoundTrip(t *testing.T) {
	for n := 0; n < 20; n++ {
		src := make([]byte, n)
		FillRandom(src)
		padded := PKCS5Pad(src, BlowfishBlockSize)
		unpadded, err := PKCS5Unpad(padded, BlowfishBlockSize)
		require.NoError(t, err)
		assert.Equal(t, src, unpadded)
	}
}

func TestPKCS5Unpad_RejectsBadPadding(t *testing.T) {
	bad := make([]byte, BlowfishBlockSize)
	bad[len(bad)-1] = 0xFF
	_, err := PKCS5Unpad(bad, BlowfishBlockSize)
	assert.Error(t, err)
}
