package cryptox

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStretchV1V2Key_Deterministic(t *testing.T) {
	pass := []byte("secret")
	salt := []byte("0123456789012345678")

	k1 := StretchV1V2Key(pass, salt)
	k2 := StretchV1V2Key(pass, salt)
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 20)
}

func TestStretchV1V2Key_DifferentSaltDifferentKey(t *testing.T) {
	pass := []byte("secret")
	k1 := StretchV1V2Key(pass, []byte("saltsaltsaltsaltsalt"))
	k2 := StretchV1V2Key(pass, []byte("differentsaltsaltsal"))
	assert.NotEqual(t, k1, k2)
}

func TestStretchV3Key_VerifiesAgainstItsOwnHash(t *testing.T) {
	pass := []byte("secret")
	salt := make([]byte, 32)
	FillRandom(salt)

	stretched := StretchV3Key(pass, salt, 2048)
	hash := sha256.Sum256(stretched[:])

	require.True(t, VerifyStretchedKey(stretched, hash))
}

func TestStretchV3Key_WrongPassphraseFailsVerification(t *testing.T) {
	salt := make([]byte, 32)
	FillRandom(salt)

	stretched := StretchV3Key([]byte("right"), salt, 100)
	hash := sha256.Sum256(stretched[:])

	wrong := StretchV3Key([]byte("wrong"), salt, 100)
	assert.False(t, VerifyStretchedKey(wrong, hash))
}

func TestStretchV3Key_ZeroIterations(t *testing.T) {
	pass := []byte("secret")
	salt := make([]byte, 32)
	FillRandom(salt)

	got := StretchV3Key(pass, salt, 0)
	want := sha256.Sum256(append(append([]byte{}, pass...), salt...))
	assert.Equal(t, want, got)
}
