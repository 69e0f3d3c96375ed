package memguard

import (
	"context"
	"fmt"

	"github.com/go-pwsafe/pwsafe/internal/record"
)

// SealRecord serializes r and seals it under the cage.
func (c *Cage) SealRecord(ctx context.Context, r *record.Record) (Sealed, error) {
	data, err := r.Marshal()
	if err != nil {
		return Sealed{}, fmt.Errorf("memguard: marshal record: %w", err)
	}
	return c.Seal(ctx, data)
}

// UnsealRecord reverses SealRecord.
func (c *Cage) UnsealRecord(ctx context.Context, s Sealed) (*record.Record, error) {
	data, err := c.Unseal(ctx, s)
	if err != nil {
		return nil, err
	}
	r, err := record.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("memguard: unmarshal record: %w", err)
	}
	return r, nil
}

// SealPassphrase seals a passphrase's raw bytes for the lifetime of an open
// file handle, so the file codec never needs to retain the plaintext
// passphrase itself past the open sequence.
func (c *Cage) SealPassphrase(ctx context.Context, passphrase []byte) (Sealed, error) {
	return c.Seal(ctx, passphrase)
}

// UnsealPassphrase reverses SealPassphrase, used only at save time to
// re-derive the header's key material.
func (c *Cage) UnsealPassphrase(ctx context.Context, s Sealed) ([]byte, error) {
	return c.Unseal(ctx, s)
}
