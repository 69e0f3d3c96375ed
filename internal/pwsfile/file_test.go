package pwsfile

import (
	"context"
	"testing"

	"github.com/go-pwsafe/pwsafe/internal/byteio"
	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/logging"
	"github.com/go-pwsafe/pwsafe/internal/record"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_V2_CreateSaveReopen_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()
	passphrase := []byte("correct horse battery staple")

	f := New(field.V2, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, passphrase))

	r := record.New(field.V2)
	r.Set(field.NewText(field.IDTitle, "gmail"))
	r.Set(field.NewText(field.IDUsername, "alice"))
	r.Set(field.NewText(field.IDPassword, "p@ss"))
	_, err := f.Add(ctx, r)
	require.NoError(t, err)

	require.NoError(t, f.Save(ctx))
	f.Dispose()

	reopened := New(field.V2, storage, logging.Noop())
	require.NoError(t, reopened.Open(ctx, passphrase))
	require.Equal(t, 1, reopened.RecordCount())

	got, err := reopened.Get(ctx, 0)
	require.NoError(t, err)

	title, ok := got.Get(field.IDTitle)
	require.True(t, ok)
	assert.Equal(t, "gmail", title.Text)

	user, ok := got.Get(field.IDUsername)
	require.True(t, ok)
	assert.Equal(t, "alice", user.Text)

	pass, ok := got.Get(field.IDPassword)
	require.True(t, ok)
	assert.Equal(t, "p@ss", pass.Text)
}

func TestFile_V2_WrongPassphraseOnReopen(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()

	f := New(field.V2, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, []byte("right passphrase")))
	require.NoError(t, f.Save(ctx))
	f.Dispose()

	reopened := New(field.V2, storage, logging.Noop())
	err := reopened.Open(ctx, []byte("wrong passphrase"))
	assert.ErrorIs(t, err, common.ErrWrongPassphrase)
}

func TestFile_V3_CreateSaveReopen_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()
	passphrase := []byte("secret")

	f := New(field.V3, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, passphrase))

	u := uuid.New()
	r := record.New(field.V3)
	r.Set(field.NewUUID(field.IDUUID, u))
	r.Set(field.NewText(field.IDTitle, "Bank"))
	r.Set(field.NewText(field.IDURL, "https://bank.example"))
	r.Set(field.NewText(field.IDPassword, "s3cr3t!"))
	_, err := f.Add(ctx, r)
	require.NoError(t, err)

	r2 := record.New(field.V3)
	r2.Set(field.NewUUID(field.IDUUID, uuid.New()))
	r2.Set(field.NewText(field.IDTitle, "Email"))
	r2.Set(field.NewText(field.IDPassword, "hunter2"))
	_, err = f.Add(ctx, r2)
	require.NoError(t, err)

	require.NoError(t, f.Save(ctx))
	f.Dispose()

	reopened := New(field.V3, storage, logging.Noop())
	require.NoError(t, reopened.Open(ctx, passphrase))
	require.Equal(t, 2, reopened.RecordCount())

	got, err := reopened.Get(ctx, 0)
	require.NoError(t, err)
	gotUUID, ok := got.Get(field.IDUUID)
	require.True(t, ok)
	assert.Equal(t, u, gotUUID.UUID)

	url, ok := got.Get(field.IDURL)
	require.True(t, ok)
	assert.Equal(t, "https://bank.example", url.Text)
}

func TestFile_V3_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()

	f := New(field.V3, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, []byte("right")))
	require.NoError(t, f.Save(ctx))
	f.Dispose()

	reopened := New(field.V3, storage, logging.Noop())
	err := reopened.Open(ctx, []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrWrongPassphrase)
}

func TestFile_ReadOnly_AddThenSaveFails(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()

	f := New(field.V3, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, []byte("pw")))
	require.NoError(t, f.Save(ctx))
	f.SetReadOnly(true)

	r := record.New(field.V3)
	r.Set(field.NewUUID(field.IDUUID, uuid.New()))
	r.Set(field.NewText(field.IDTitle, "should still append in memory"))
	_, err := f.Add(ctx, r)
	require.NoError(t, err, "read-only add appends in memory per spec")
	assert.Equal(t, 1, f.RecordCount())

	err = f.Save(ctx)
	assert.ErrorIs(t, err, common.ErrReadOnly)
}

func TestFile_Dispose_RejectsFurtherOperations(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()

	f := New(field.V3, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, []byte("pw")))
	f.Dispose()

	_, err := f.Get(ctx, 0)
	assert.ErrorIs(t, err, common.ErrDisposed)

	_, err = f.Add(ctx, record.New(field.V3))
	assert.ErrorIs(t, err, common.ErrDisposed)
}

func TestFile_RemoveOutOfRange(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()

	f := New(field.V3, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, []byte("pw")))

	err := f.Remove(ctx, 5)
	assert.ErrorIs(t, err, common.ErrIndexOutOfRange)
}

func TestFile_AddRemove_RestoresPriorLength(t *testing.T) {
	ctx := context.Background()
	storage := byteio.NewMemoryStorage()

	f := New(field.V3, storage, logging.Noop())
	require.NoError(t, f.Create(ctx, []byte("pw")))

	r := record.New(field.V3)
	r.Set(field.NewUUID(field.IDUUID, uuid.New()))
	r.Set(field.NewText(field.IDTitle, "temp"))
	idx, err := f.Add(ctx, r)
	require.NoError(t, err)

	before := f.RecordCount()
	require.NoError(t, f.Remove(ctx, idx))
	assert.Equal(t, before-1, f.RecordCount())
}
