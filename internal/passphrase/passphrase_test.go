package passphrase

import (
	"testing"

	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicy_Valid(t *testing.T) {
	assert.False(t, Policy{}.Valid(), "no classes selected")
	assert.False(t, Policy{Length: 0, DigitChars: true}.Valid())
	assert.False(t, Policy{Length: 1, DigitChars: true, LowercaseChars: true}.Valid(), "length shorter than class count")
	assert.True(t, Policy{Length: 2, DigitChars: true, LowercaseChars: true}.Valid())
}

func TestMakePassword_RejectsInvalidPolicy(t *testing.T) {
	_, err := MakePassword(Policy{})
	assert.ErrorIs(t, err, common.ErrInvalidPassphrasePolicy)
}

func TestMakePassword_MatchesRequestedLength(t *testing.T) {
	policy := Policy{Length: 16, LowercaseChars: true, UppercaseChars: true, DigitChars: true, SymbolChars: true}
	pw, err := MakePassword(policy)
	require.NoError(t, err)
	assert.Len(t, []rune(pw), 16)
}

func TestMakePassword_ContainsEveryEnabledClassAtLeastOnce(t *testing.T) {
	policy := Policy{Length: 12, LowercaseChars: true, UppercaseChars: true, DigitChars: true, SymbolChars: true}

	for attempt := 0; attempt < 50; attempt++ {
		pw, err := MakePassword(policy)
		require.NoError(t, err)

		var hasLower, hasUpper, hasDigit, hasSymbol bool
		for _, r := range pw {
			switch {
			case containsRune(LowercaseChars, r):
				hasLower = true
			case containsRune(UppercaseChars, r):
				hasUpper = true
			case containsRune(DigitChars, r):
				hasDigit = true
			case containsRune(SymbolChars, r):
				hasSymbol = true
			}
		}
		assert.True(t, hasLower && hasUpper && hasDigit && hasSymbol, "password %q missing a required class", pw)
	}
}

func TestMakePassword_EasyVisionUsesReducedPools(t *testing.T) {
	policy := Policy{Length: 10, DigitChars: true, EasyVision: true}
	pw, err := MakePassword(policy)
	require.NoError(t, err)
	for _, r := range pw {
		assert.True(t, containsRune(EasyVisionDigitChars, r))
	}
}

func TestMakePassword_NeverLoopsWhenLengthEqualsClassCount(t *testing.T) {
	policy := Policy{Length: 4, LowercaseChars: true, UppercaseChars: true, DigitChars: true, SymbolChars: true}
	pw, err := MakePassword(policy)
	require.NoError(t, err)
	assert.Len(t, []rune(pw), 4)
}

func TestIsWeak(t *testing.T) {
	assert.True(t, IsWeak("abc"), "too short")
	assert.True(t, IsWeak("alllowercase"), "no uppercase")
	assert.True(t, IsWeak("ALLUPPERCASE"), "no lowercase")
	assert.True(t, IsWeak("NoDigitOrSymbol"), "missing digit/symbol")
	assert.False(t, IsWeak("Str0ng!Pass"))
}

func containsRune(pool []rune, r rune) bool {
	for _, c := range pool {
		if c == r {
			return true
		}
	}
	return false
}
