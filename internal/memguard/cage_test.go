package memguard

import (
	"context"
	"testing"

	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/logging"
	"github.com/go-pwsafe/pwsafe/internal/record"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCage_SealUnseal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(logging.Noop())

	plaintext := []byte("this is a secret password entry")
	sealed, err := c.Seal(ctx, plaintext)
	require.NoError(t, err)

	got, err := c.Unseal(ctx, sealed)
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)
}

func TestCage_SealRecord_UnsealRecord_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(logging.Noop())

	r := record.New(field.V3)
	r.Set(field.NewUUID(field.IDUUID, uuid.New()))
	r.Set(field.NewText(field.IDTitle, "Bank"))
	r.Set(field.NewText(field.IDPassword, "s3cr3t"))

	sealed, err := c.SealRecord(ctx, r)
	require.NoError(t, err)

	got, err := c.UnsealRecord(ctx, sealed)
	require.NoError(t, err)

	title, ok := got.Get(field.IDTitle)
	require.True(t, ok)
	assert.Equal(t, "Bank", title.Text)
}

func TestCage_Dispose_RejectsFurtherOperations(t *testing.T) {
	ctx := context.Background()
	c := New(logging.Noop())

	sealed, err := c.Seal(ctx, []byte("data"))
	require.NoError(t, err)

	c.Dispose()

	_, err = c.Seal(ctx, []byte("more"))
	assert.ErrorIs(t, err, common.ErrDisposed)

	_, err = c.Unseal(ctx, sealed)
	assert.ErrorIs(t, err, common.ErrDisposed)

	err = c.RotateIV()
	assert.ErrorIs(t, err, common.ErrDisposed)
}

func TestCage_Dispose_IsIdempotent(t *testing.T) {
	c := New(logging.Noop())
	c.Dispose()
	c.Dispose()
}

func TestCage_RotateIV_InvalidatesExistingSealedValues(t *testing.T) {
	ctx := context.Background()
	c := New(logging.Noop())

	sealed, err := c.Seal(ctx, []byte("some plaintext data"))
	require.NoError(t, err)

	require.NoError(t, c.RotateIV())

	_, err = c.Unseal(ctx, sealed)
	assert.Error(t, err)
}

func TestCage_UnsealBeforeAnySeal_IsMemoryKeyError(t *testing.T) {
	ctx := context.Background()
	c := New(logging.Noop())

	_, err := c.Unseal(ctx, Sealed{ciphertext: make([]byte, 8)})
	assert.ErrorIs(t, err, common.ErrMemoryKey)
}
