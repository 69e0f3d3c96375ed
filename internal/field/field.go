package field

import (
	"time"

	"github.com/google/uuid"
)

// Field is a single decoded record field. Exactly one of Text/Time/UUID/Raw
// is meaningful, selected by Kind. Opaque is set when ID was not in the
// version's canonical catalog; such fields are retained verbatim so they
// round-trip bit-identically (modulo deterministic zero padding) even
// though this codec does not understand them.
type Field struct {
	ID     TypeID
	Kind   Kind
	Opaque bool

	Text string
	Time time.Time
	UUID uuid.UUID
	Raw  []byte
}

// NewText builds a canonical text field.
func NewText(id TypeID, s string) Field {
	return Field{ID: id, Kind: KindText, Text: s}
}

// NewTime builds a canonical timestamp field.
func NewTime(id TypeID, t time.Time) Field {
	return Field{ID: id, Kind: KindTime, Time: t}
}

// NewUUID builds the canonical UUID field.
func NewUUID(id TypeID, u uuid.UUID) Field {
	return Field{ID: id, Kind: KindUUID, UUID: u}
}

// NewOpaque builds a field for an id this codec does not assign meaning to.
// Its raw bytes are preserved as read off the wire.
func NewOpaque(id TypeID, raw []byte) Field {
	return Field{ID: id, Kind: KindBytes, Opaque: true, Raw: append([]byte{}, raw...)}
}

// Payload returns the field's logical payload as bytes, in the encoding
// EncodeV1V2 and EncodeV3 write. It does not include the length/type header.
func (f Field) Payload() []byte {
	switch f.Kind {
	case KindText:
		return []byte(f.Text)
	case KindTime:
		return encodeTime(f.Time)
	case KindUUID:
		b := f.UUID
		return b[:]
	default:
		return f.Raw
	}
}

func encodeTime(t time.Time) []byte {
	sec := uint32(0)
	if !t.IsZero() {
		sec = uint32(t.Unix())
	}
	return []byte{byte(sec), byte(sec >> 8), byte(sec >> 16), byte(sec >> 24)}
}

func decodeTime(b []byte) time.Time {
	if len(b) < 4 {
		return time.Time{}
	}
	sec := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(int64(sec), 0).UTC()
}

// decodeField builds a Field from a raw (id, payload) pair decoded by the
// version-specific wire codec, classifying it per the version's catalog.
func decodeField(version Version, id TypeID, payload []byte) Field {
	if !IsValidID(version, id) {
		return NewOpaque(id, payload)
	}
	kind, known := knownKind(version, id)
	if !known {
		return Field{ID: id, Kind: KindBytes, Raw: append([]byte{}, payload...)}
	}
	switch kind {
	case KindUUID:
		u, err := uuid.FromBytes(payload)
		if err != nil {
			return NewOpaque(id, payload)
		}
		return NewUUID(id, u)
	case KindTime:
		return NewTime(id, decodeTime(payload))
	case KindText:
		return NewText(id, string(payload))
	default:
		return Field{ID: id, Kind: KindBytes, Raw: append([]byte{}, payload...)}
	}
}
