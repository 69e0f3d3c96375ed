package passphrase

import (
	"crypto/rand"
	"math/big"

	"github.com/go-pwsafe/pwsafe/internal/common"
)

// MakePassword generates a random password matching policy. Unlike the
// original generator, which redrew the whole password in a loop until a
// draw happened to touch every enabled character class, this builds the
// password by placing one guaranteed character from each enabled class
// first, filling the remainder with uniformly random class/character
// picks, then shuffling — guaranteeing every enabled class appears exactly
// as the policy requires without any chance of looping.
func MakePassword(policy Policy) (string, error) {
	if !policy.Valid() {
		return "", common.ErrInvalidPassphrasePolicy
	}

	pools := policy.pools()
	out := make([]rune, policy.Length)

	for i, pool := range pools {
		out[i] = pool[randIndex(len(pool))]
	}
	for i := len(pools); i < policy.Length; i++ {
		pool := pools[randIndex(len(pools))]
		out[i] = pool[randIndex(len(pool))]
	}

	shuffle(out)
	return string(out), nil
}

func shuffle(r []rune) {
	for i := len(r) - 1; i > 0; i-- {
		j := randIndex(i + 1)
		r[i], r[j] = r[j], r[i]
	}
}

// randIndex returns a cryptographically random integer in [0, n).
func randIndex(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}
	return int(v.Int64())
}
