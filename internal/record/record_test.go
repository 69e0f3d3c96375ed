package record

import (
	"testing"
	"time"

	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_ValidV3RequiresUUIDAndTitleOrPassword(t *testing.T) {
	r := New(field.V3)
	assert.False(t, r.Valid())

	r.Set(field.NewUUID(field.IDUUID, uuid.New()))
	assert.False(t, r.Valid(), "UUID alone is not enough")

	r.Set(field.NewText(field.IDTitle, "Bank"))
	assert.True(t, r.Valid())
}

func TestRecord_ValidV3AcceptsPasswordWithoutTitle(t *testing.T) {
	r := New(field.V3)
	r.Set(field.NewUUID(field.IDUUID, uuid.New()))
	r.Set(field.NewText(field.IDPassword, "s3cr3t"))
	assert.True(t, r.Valid())
}

func TestRecord_ValidV2RequiresTitleOnly(t *testing.T) {
	r := New(field.V2)
	assert.False(t, r.Valid())
	r.Set(field.NewText(field.IDTitle, "Bank"))
	assert.True(t, r.Valid())
}

func TestRecord_SetReplacesExistingField(t *testing.T) {
	r := New(field.V2)
	r.Set(field.NewText(field.IDTitle, "first"))
	r.Set(field.NewText(field.IDTitle, "second"))

	require.Len(t, r.Fields, 1)
	got, ok := r.Get(field.IDTitle)
	require.True(t, ok)
	assert.Equal(t, "second", got.Text)
}

func TestRecord_CanonicalOrder_UUIDFirstThenAscendingThenOpaque(t *testing.T) {
	r := New(field.V3)
	r.Set(field.NewText(field.IDNotes, "n"))
	r.Set(field.NewOpaque(field.TypeID(222), []byte{9}))
	r.Set(field.NewUUID(field.IDUUID, uuid.New()))
	r.Set(field.NewText(field.IDTitle, "t"))
	r.Set(field.NewOpaque(field.TypeID(210), []byte{1}))

	order := r.CanonicalOrder()
	require.Len(t, order, 5)
	assert.Equal(t, field.IDUUID, order[0].ID)
	assert.Equal(t, field.IDTitle, order[1].ID)
	assert.Equal(t, field.IDNotes, order[2].ID)
	// opaque fields preserve original relative order, placed last.
	assert.Equal(t, field.TypeID(222), order[3].ID)
	assert.Equal(t, field.TypeID(210), order[4].ID)
}

func TestRecord_MarshalUnmarshal_RoundTrip(t *testing.T) {
	r := New(field.V3)
	u := uuid.New()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	r.Set(field.NewUUID(field.IDUUID, u))
	r.Set(field.NewText(field.IDTitle, "Email"))
	r.Set(field.NewText(field.IDPassword, "hunter2"))
	r.Set(field.NewTime(field.IDCreationTime, ts))
	r.Set(field.NewOpaque(field.TypeID(199), []byte{0xDE, 0xAD}))

	data, err := r.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, r.Version, got.Version)
	gotUUID, ok := got.Get(field.IDUUID)
	require.True(t, ok)
	assert.Equal(t, u, gotUUID.UUID)

	gotTitle, ok := got.Get(field.IDTitle)
	require.True(t, ok)
	assert.Equal(t, "Email", gotTitle.Text)

	gotTime, ok := got.Get(field.IDCreationTime)
	require.True(t, ok)
	assert.Equal(t, ts.Unix(), gotTime.Time.Unix())

	gotOpaque, ok := got.Get(field.TypeID(199))
	require.True(t, ok)
	assert.True(t, gotOpaque.Opaque)
	assert.Equal(t, []byte{0xDE, 0xAD}, gotOpaque.Raw)
}

func TestRecord_RemoveDropsField(t *testing.T) {
	r := New(field.V2)
	r.Set(field.NewText(field.IDTitle, "t"))
	r.Set(field.NewText(field.IDNotes, "n"))
	r.Remove(field.IDNotes)

	_, ok := r.Get(field.IDNotes)
	assert.False(t, ok)
	_, ok = r.Get(field.IDTitle)
	assert.True(t, ok)
}
