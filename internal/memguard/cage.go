// Package memguard implements the in-memory cage: a process-local re-
// encryption layer that keeps decrypted records out of long-lived memory.
// A Cage seals every record it is handed under a key and IV that never
// leave the process and are never written to disk; plaintext exists only
// for the duration of a single Unseal call.
package memguard

import (
	"context"
	"crypto/cipher"
	"sync"

	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/cryptox"
	"github.com/go-pwsafe/pwsafe/internal/logging"
)

// Sealed is an opaque, cage-encrypted blob. Its bytes are meaningless
// outside the Cage that produced them.
type Sealed struct {
	ciphertext []byte
	ivGen      uint64 // the cage's IV generation at Seal time
}

// Cage holds a lazily-initialized memory key and IV and seals/unseals
// byte payloads under them with Blowfish/CBC/PKCS#5.
type Cage struct {
	mu       sync.Mutex
	key      []byte
	iv       []byte
	ivGen    uint64
	disposed bool
	log      logging.Logger
}

// New returns a Cage that will materialize its key on first use.
func New(log logging.Logger) *Cage {
	if log == nil {
		log = logging.Noop()
	}
	return &Cage{log: log}
}

func (c *Cage) ensureKeyed() {
	if c.key == nil {
		c.key = make([]byte, 16)
		cryptox.FillRandom(c.key)
	}
	if c.iv == nil {
		c.iv = make([]byte, cryptox.BlowfishBlockSize)
		cryptox.FillRandom(c.iv)
	}
}

// Seal encrypts plaintext under the cage's key/IV, returning an opaque
// blob. The caller's plaintext slice is not modified or retained.
func (c *Cage) Seal(ctx context.Context, plaintext []byte) (Sealed, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return Sealed{}, common.ErrDisposed
	}
	c.ensureKeyed()

	block, iv, err := c.cipherLocked()
	if err != nil {
		return Sealed{}, err
	}

	padded := cryptox.PKCS5Pad(plaintext, cryptox.BlowfishBlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	c.log.Debug(ctx, "memguard: sealed payload", "bytes", len(plaintext))
	return Sealed{ciphertext: out, ivGen: c.ivGen}, nil
}

// Unseal reverses Seal. Any cipher or padding error is a MemoryKeyError:
// it indicates the cage's own state is corrupt, never that the caller
// passed bad input, since every Sealed value in circulation was produced
// by this same cage. A value sealed before the last RotateIV is also
// rejected with ErrMemoryKey.
func (c *Cage) Unseal(ctx context.Context, s Sealed) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil, common.ErrDisposed
	}
	if c.key == nil {
		return nil, common.ErrMemoryKey
	}

	block, iv, err := c.cipherLocked()
	if err != nil {
		return nil, err
	}

	if len(s.ciphertext) == 0 || len(s.ciphertext)%cryptox.BlowfishBlockSize != 0 {
		return nil, common.ErrMemoryKey
	}
	if s.ivGen != c.ivGen {
		return nil, common.ErrMemoryKey
	}
	padded := make([]byte, len(s.ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, s.ciphertext)

	plaintext, err := cryptox.PKCS5Unpad(padded, cryptox.BlowfishBlockSize)
	if err != nil {
		return nil, common.ErrMemoryKey
	}

	c.log.Debug(ctx, "memguard: unsealed payload", "bytes", len(plaintext))
	return plaintext, nil
}

func (c *Cage) cipherLocked() (cipher.Block, []byte, error) {
	block, err := cryptox.NewBlowfishCipher(c.key)
	if err != nil {
		return nil, nil, common.ErrCryptoInit
	}
	return block, c.iv, nil
}

// RotateIV reseeds the cage's IV. Existing Sealed values become
// unreadable; callers that rotate mid-pass must reseal everything still
// live. Used between iteration passes to limit how long a single IV is
// reused across a large record set.
func (c *Cage) RotateIV() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return common.ErrDisposed
	}
	c.iv = make([]byte, cryptox.BlowfishBlockSize)
	cryptox.FillRandom(c.iv)
	c.ivGen++
	return nil
}

// Dispose zeroes the cage's key material and marks it unusable. Every
// subsequent Seal/Unseal/RotateIV call fails with ErrDisposed.
func (c *Cage) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	common.WipeByteArray(c.key)
	common.WipeByteArray(c.iv)
	c.key = nil
	c.iv = nil
	c.disposed = true
}
