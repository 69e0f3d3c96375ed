// Package record implements the in-memory record model: the ordered field
// list a Password Safe entry decodes to, its per-version validity rule,
// canonical field ordering for save, and the stable JSON serialization the
// in-memory cage seals.
package record

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-pwsafe/pwsafe/internal/field"
)

// Record is a decoded Password Safe entry: an ordered field list, not
// including the implicit END_OF_RECORD terminator (the file codec adds
// that back on save).
type Record struct {
	Version field.Version
	Fields  []field.Field
}

// New builds an empty record for version.
func New(version field.Version) *Record {
	return &Record{Version: version}
}

// Get returns the first field with the given id, if present.
func (r *Record) Get(id field.TypeID) (field.Field, bool) {
	for _, f := range r.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return field.Field{}, false
}

// Set replaces the first field with the given id, or appends f if none
// exists yet.
func (r *Record) Set(f field.Field) {
	for i, existing := range r.Fields {
		if existing.ID == f.ID {
			r.Fields[i] = f
			return
		}
	}
	r.Fields = append(r.Fields, f)
}

// Remove drops the first field with the given id, if present.
func (r *Record) Remove(id field.TypeID) {
	for i, f := range r.Fields {
		if f.ID == id {
			r.Fields = append(r.Fields[:i], r.Fields[i+1:]...)
			return
		}
	}
}

// Valid reports whether the record carries the required fields for its
// version: V3 needs UUID and at least one of TITLE/PASSWORD; V2 and V1
// need TITLE.
func (r *Record) Valid() bool {
	switch r.Version {
	case field.V3:
		_, hasUUID := r.Get(field.IDUUID)
		_, hasTitle := r.Get(field.IDTitle)
		_, hasPassword := r.Get(field.IDPassword)
		return hasUUID && (hasTitle || hasPassword)
	case field.V2, field.V1:
		_, hasTitle := r.Get(field.IDTitle)
		return hasTitle
	default:
		return false
	}
}

// CanonicalOrder returns the record's fields reordered for save: UUID
// first, END_OF_RECORD last (callers add it separately, so it is never
// present here), all other canonical fields in ascending field-id order,
// and opaque fields preserving their original relative order, placed after
// the canonical ones.
func (r *Record) CanonicalOrder() []field.Field {
	var uuidField *field.Field
	var canonical []field.Field
	var opaque []field.Field

	for i := range r.Fields {
		f := r.Fields[i]
		if f.ID == field.IDEndOfRecord {
			continue
		}
		switch {
		case f.ID == field.IDUUID && !f.Opaque:
			cp := f
			uuidField = &cp
		case f.Opaque:
			opaque = append(opaque, f)
		default:
			canonical = append(canonical, f)
		}
	}

	sort.SliceStable(canonical, func(i, j int) bool {
		return canonical[i].ID < canonical[j].ID
	})

	out := make([]field.Field, 0, len(r.Fields))
	if uuidField != nil {
		out = append(out, *uuidField)
	}
	out = append(out, canonical...)
	out = append(out, opaque...)
	return out
}

// sealEnvelope is the stable, JSON-friendly shape the cage serializes.
// Field.Time round-trips as Unix seconds rather than Go's binary gob
// encoding so that sealed records stay readable across a process restart's
// worth of minor library version drift.
type sealEnvelope struct {
	Version int             `json:"version"`
	Fields  []sealFieldJSON `json:"fields"`
}

type sealFieldJSON struct {
	ID     uint8  `json:"id"`
	Kind   int    `json:"kind"`
	Opaque bool   `json:"opaque,omitempty"`
	Text   string `json:"text,omitempty"`
	TimeTS int64  `json:"time,omitempty"`
	UUID   string `json:"uuid,omitempty"`
	Raw    []byte `json:"raw,omitempty"`
}

// Marshal serializes r into the stable byte form the in-memory cage seals.
func (r *Record) Marshal() ([]byte, error) {
	env := sealEnvelope{Version: int(r.Version)}
	for _, f := range r.Fields {
		jf := sealFieldJSON{ID: uint8(f.ID), Kind: int(f.Kind), Opaque: f.Opaque}
		switch f.Kind {
		case field.KindText:
			jf.Text = f.Text
		case field.KindTime:
			if !f.Time.IsZero() {
				jf.TimeTS = f.Time.Unix()
			}
		case field.KindUUID:
			jf.UUID = f.UUID.String()
		default:
			jf.Raw = f.Raw
		}
		env.Fields = append(env.Fields, jf)
	}
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("record: marshal: %w", err)
	}
	return b, nil
}

// Unmarshal is the inverse of Marshal, used by the cage's Unseal.
func Unmarshal(data []byte) (*Record, error) {
	var env sealEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("record: unmarshal: %w", err)
	}
	r := New(field.Version(env.Version))
	for _, jf := range env.Fields {
		f, err := unmarshalField(jf)
		if err != nil {
			return nil, err
		}
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}

func unmarshalField(jf sealFieldJSON) (field.Field, error) {
	id := field.TypeID(jf.ID)
	switch field.Kind(jf.Kind) {
	case field.KindText:
		return field.NewText(id, jf.Text), nil
	case field.KindTime:
		if jf.TimeTS == 0 {
			return field.NewTime(id, zeroTime()), nil
		}
		return field.NewTime(id, unixTime(jf.TimeTS)), nil
	case field.KindUUID:
		u, err := parseUUID(jf.UUID)
		if err != nil {
			return field.Field{}, err
		}
		return field.NewUUID(id, u), nil
	default:
		f := field.Field{ID: id, Kind: field.KindBytes, Opaque: jf.Opaque, Raw: jf.Raw}
		return f, nil
	}
}
