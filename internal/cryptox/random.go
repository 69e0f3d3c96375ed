package cryptox

import "crypto/rand"

// FillRandom fills buf with cryptographically random bytes, overwriting
// its current contents. It is the single entry point every header salt,
// IV and memory-cage key in this module draws from.
func FillRandom(buf []byte) {
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
}
