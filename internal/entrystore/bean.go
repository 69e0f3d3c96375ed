// Package entrystore projects a Password Safe file's sealed record list
// into a lightweight "sparse" view suitable for list UIs, keeping it in
// sync with add/update/remove through the file's load-listener hook.
package entrystore

import (
	"time"

	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/record"
	"github.com/google/uuid"
)

// Bean is a flattened, UI-friendly view of a record. Sparse is true when
// only the fields named in the store's configured field set were
// populated at projection time; a sparse bean's unset string fields read
// as "" and its unset time fields as the zero time, which is
// indistinguishable from an actually-empty field — callers that need to
// tell the difference must Get the full record.
type Bean struct {
	StoreIndex int
	Sparse     bool

	UUID     uuid.UUID
	Title    string
	Group    string
	Username string
	Notes    string
	Password string
	URL      string

	CreationTime     time.Time
	PasswordModTime  time.Time
	LastAccessTime   time.Time
	LastModTime      time.Time
	PasswordLifetime time.Time

	PasswordPolicy  []byte
	PasswordHistory []byte
}

// FieldSet is a configured subset of field ids a sparse projection keeps.
type FieldSet map[field.TypeID]bool

// NewFieldSet builds a FieldSet from the given ids.
func NewFieldSet(ids ...field.TypeID) FieldSet {
	s := make(FieldSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Subset reports whether every id in s is also present in other.
func (s FieldSet) Subset(other FieldSet) bool {
	for id := range s {
		if !other[id] {
			return false
		}
	}
	return true
}

// defaultFieldSet returns spec's per-version default sparse projection.
func defaultFieldSet(version field.Version) FieldSet {
	switch version {
	case field.V1:
		return NewFieldSet(field.IDTitle, field.IDUsername)
	case field.V2:
		return NewFieldSet(field.IDTitle, field.IDGroup, field.IDUsername, field.IDNotes)
	case field.V3:
		return NewFieldSet(
			field.IDTitle, field.IDGroup, field.IDUsername, field.IDNotes,
			field.IDURL, field.IDPasswordLifetimeV3, field.IDLastModTime,
		)
	default:
		return FieldSet{}
	}
}

// project builds a Bean from r and sets its Sparse flag to sparse. When
// sparse is true it populates only the fields named in fields (plus UUID,
// always carried so callers can identify the entry); otherwise every field.
func project(r *record.Record, index int, fields FieldSet, sparse bool) Bean {
	b := Bean{StoreIndex: index, Sparse: sparse}
	if f, ok := r.Get(field.IDUUID); ok {
		b.UUID = f.UUID
	}
	for _, f := range r.Fields {
		if sparse && !fields[f.ID] {
			continue
		}
		applyField(&b, f)
	}
	return b
}

// fullBean projects every field, always non-sparse.
func fullBean(r *record.Record, index int) Bean {
	b := Bean{StoreIndex: index, Sparse: false}
	for _, f := range r.Fields {
		applyField(&b, f)
	}
	return b
}

func applyField(b *Bean, f field.Field) {
	switch f.ID {
	case field.IDUUID:
		b.UUID = f.UUID
	case field.IDTitle:
		b.Title = f.Text
	case field.IDGroup:
		b.Group = f.Text
	case field.IDUsername:
		b.Username = f.Text
	case field.IDNotes:
		b.Notes = f.Text
	case field.IDPassword:
		b.Password = f.Text
	case field.IDURL:
		b.URL = f.Text
	case field.IDCreationTime:
		b.CreationTime = f.Time
	case field.IDPasswordMod:
		b.PasswordModTime = f.Time
	case field.IDLastAccess:
		b.LastAccessTime = f.Time
	case field.IDLastModTime:
		b.LastModTime = f.Time
	case field.IDPasswordLifetimeV3:
		b.PasswordLifetime = f.Time
	case field.IDPasswordPolicy, field.IDPasswordPolicyDeprecated:
		b.PasswordPolicy = f.Raw
	case field.IDPasswordHistory:
		b.PasswordHistory = f.Raw
	}
}

// toRecord builds a Record carrying every populated field of a
// non-sparse bean, in the given version's catalog.
func toRecord(version field.Version, b Bean) *record.Record {
	r := record.New(version)
	if b.UUID != uuid.Nil {
		r.Set(field.NewUUID(field.IDUUID, b.UUID))
	}
	setText(r, field.IDTitle, b.Title)
	setText(r, field.IDGroup, b.Group)
	setText(r, field.IDUsername, b.Username)
	setText(r, field.IDNotes, b.Notes)
	setText(r, field.IDPassword, b.Password)
	if version == field.V3 {
		setText(r, field.IDURL, b.URL)
	}
	setTime(r, field.IDCreationTime, b.CreationTime)
	setTime(r, field.IDPasswordMod, b.PasswordModTime)
	setTime(r, field.IDLastAccess, b.LastAccessTime)
	if version == field.V3 {
		setTime(r, field.IDLastModTime, b.LastModTime)
		setTime(r, field.IDPasswordLifetimeV3, b.PasswordLifetime)
		if len(b.PasswordPolicy) > 0 {
			r.Set(field.Field{ID: field.IDPasswordPolicy, Kind: field.KindBytes, Raw: append([]byte{}, b.PasswordPolicy...)})
		}
		if len(b.PasswordHistory) > 0 {
			r.Set(field.Field{ID: field.IDPasswordHistory, Kind: field.KindBytes, Raw: append([]byte{}, b.PasswordHistory...)})
		}
	}
	return r
}

func setText(r *record.Record, id field.TypeID, s string) {
	if s != "" {
		r.Set(field.NewText(id, s))
	}
}

func setTime(r *record.Record, id field.TypeID, t time.Time) {
	if !t.IsZero() {
		r.Set(field.NewTime(id, t))
	}
}
