package entrystore

import (
	"context"
	"testing"

	"github.com/go-pwsafe/pwsafe/internal/byteio"
	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/logging"
	"github.com/go-pwsafe/pwsafe/internal/pwsfile"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newV3File(t *testing.T) *pwsfile.File {
	t.Helper()
	storage := byteio.NewMemoryStorage()
	f := pwsfile.New(field.V3, storage, logging.Noop())
	require.NoError(t, f.Create(context.Background(), []byte("pw")))
	return f
}

func TestStore_Add_ProjectsDefaultV3Fields(t *testing.T) {
	ctx := context.Background()
	f := newV3File(t)
	s := New(f, field.V3, logging.Noop())

	entry := Bean{
		UUID:     uuid.New(),
		Title:    "Bank",
		URL:      "https://bank.example",
		Password: "s3cr3t!",
	}
	added, err := s.Add(ctx, entry)
	require.NoError(t, err)

	assert.True(t, added.Sparse)
	assert.Equal(t, "Bank", added.Title)
	assert.Equal(t, "https://bank.example", added.URL)
	assert.Empty(t, added.Password, "password is not in the V3 default sparse set")

	entries := s.SparseEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, added, entries[0])
}

func TestStore_AddThenRemove_RestoresPriorLength(t *testing.T) {
	ctx := context.Background()
	f := newV3File(t)
	s := New(f, field.V3, logging.Noop())

	first, err := s.Add(ctx, Bean{UUID: uuid.New(), Title: "one"})
	require.NoError(t, err)
	_, err = s.Add(ctx, Bean{UUID: uuid.New(), Title: "two"})
	require.NoError(t, err)

	before := len(s.SparseEntries())
	require.NoError(t, s.Remove(ctx, first))
	after := s.SparseEntries()
	assert.Equal(t, before-1, len(after))
	assert.Equal(t, "two", after[0].Title)
	assert.Equal(t, 0, after[0].StoreIndex, "remaining entry's index shifts down")
}

func TestStore_Update_ThenGet_ReturnsFieldEqualBean(t *testing.T) {
	ctx := context.Background()
	f := newV3File(t)
	s := New(f, field.V3, logging.Noop())

	added, err := s.Add(ctx, Bean{UUID: uuid.New(), Title: "old", Username: "alice"})
	require.NoError(t, err)

	updated, err := s.Get(ctx, added.StoreIndex)
	require.NoError(t, err)
	updated.Title = "new"
	updated.Notes = "extra detail not in the sparse set"
	require.NoError(t, s.Update(ctx, updated))

	got, err := s.Get(ctx, added.StoreIndex)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "extra detail not in the sparse set", got.Notes)
	assert.False(t, got.Sparse)
}

func TestStore_Add_RejectsSparseEntry(t *testing.T) {
	ctx := context.Background()
	f := newV3File(t)
	s := New(f, field.V3, logging.Noop())

	_, err := s.Add(ctx, Bean{Sparse: true, Title: "nope"})
	assert.ErrorIs(t, err, common.ErrInvalidSparseEntry)
}

func TestStore_SetSparseFields_NarrowerFilterKeepsListWithoutReload(t *testing.T) {
	ctx := context.Background()
	f := newV3File(t)
	s := New(f, field.V3, logging.Noop())

	_, err := s.Add(ctx, Bean{UUID: uuid.New(), Title: "one", Group: "finance"})
	require.NoError(t, err)

	narrower := NewFieldSet(field.IDTitle)
	require.NoError(t, s.SetSparseFields(ctx, narrower))

	entries := s.SparseEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "one", entries[0].Title)
}

func TestStore_SetSparseFields_WiderFilterRebuildsFromFile(t *testing.T) {
	ctx := context.Background()
	f := newV3File(t)
	s := New(f, field.V3, logging.Noop())
	require.NoError(t, s.SetSparseFields(ctx, NewFieldSet(field.IDTitle)))

	_, err := s.Add(ctx, Bean{UUID: uuid.New(), Title: "one", Password: "p@ss"})
	require.NoError(t, err)

	wider := NewFieldSet(field.IDTitle, field.IDPassword)
	require.NoError(t, s.SetSparseFields(ctx, wider))

	entries := s.SparseEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "p@ss", entries[0].Password, "rebuild re-reads the field from the sealed record")
}

func TestStore_Load_AttachedAfterOpen_ProjectsExistingRecords(t *testing.T) {
	ctx := context.Background()
	f := newV3File(t)
	bootstrap := New(f, field.V3, logging.Noop())
	_, err := bootstrap.Add(ctx, Bean{UUID: uuid.New(), Title: "one"})
	require.NoError(t, err)

	late := &Store{file: f, version: field.V3, log: logging.Noop(), fields: defaultFieldSet(field.V3)}
	require.NoError(t, late.Load(ctx))

	entries := late.SparseEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, "one", entries[0].Title)
}

func TestFieldSet_Subset(t *testing.T) {
	a := NewFieldSet(field.IDTitle)
	b := NewFieldSet(field.IDTitle, field.IDUsername)
	assert.True(t, a.Subset(b))
	assert.False(t, b.Subset(a))
}
