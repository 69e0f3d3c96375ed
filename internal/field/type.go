// Package field implements the per-version field catalog and wire codec
// for Password Safe records: the 4-byte-length/4-byte-type/padded-payload
// framing used by V1 and V2, and the 16-byte-block framing used by V3.
package field

// Version identifies which on-disk format a field belongs to.
type Version int

const (
	V1 Version = 1
	V2 Version = 2
	V3 Version = 3
)

// TypeID is a field's wire type identifier. Its meaning (and validity) is
// version-specific; the same numeric id can mean different things, or
// nothing at all, across versions.
type TypeID uint8

// Field type ids shared across V2 and V3, and the subset V1 recognizes.
const (
	IDDefault      TypeID = 0 // catch-all/string id field (V3's id string)
	IDUUID         TypeID = 1
	IDGroup        TypeID = 2
	IDTitle        TypeID = 3
	IDUsername     TypeID = 4
	IDNotes        TypeID = 5
	IDPassword     TypeID = 6
	IDCreationTime TypeID = 7
	IDPasswordMod  TypeID = 8
	IDLastAccess   TypeID = 9

	// V3-only ids beyond this point.
	IDPasswordLifetimeV3       TypeID = 10
	IDPasswordPolicyDeprecated TypeID = 11
	IDLastModTime              TypeID = 12
	IDURL                      TypeID = 13
	IDAutotype                 TypeID = 14
	IDPasswordHistory          TypeID = 15
	IDPasswordPolicy           TypeID = 16
	IDPasswordExpiryInterval   TypeID = 17

	// V2 reuses id 10 for password policy, not password lifetime.
	IDPasswordPolicyV2 TypeID = 10

	IDEndOfRecord TypeID = 255
)

// Kind classifies a field's payload for encode/decode and for the entry
// store's typed accessors.
type Kind int

const (
	KindText Kind = iota
	KindTime
	KindUUID
	KindBytes
)

// knownKind maps a (version, id) pair to how its payload should be
// interpreted. Ids it does not know decode as KindBytes; they are marked
// opaque only when the version's catalog (validIDs) lacks them too.
func knownKind(version Version, id TypeID) (Kind, bool) {
	switch id {
	case IDUUID:
		return KindUUID, true
	case IDCreationTime, IDPasswordMod, IDLastAccess, IDLastModTime:
		return KindTime, true
	case IDPasswordLifetimeV3:
		if version == V3 {
			return KindTime, true
		}
		return KindBytes, false
	case IDGroup, IDTitle, IDUsername, IDNotes, IDPassword, IDURL, IDAutotype, IDDefault:
		return KindText, true
	case IDEndOfRecord:
		return KindBytes, true
	default:
		return KindBytes, false
	}
}

// validIDs lists the ids a version's codec recognizes as canonical (as
// opposed to opaque/unknown). It drives Record.Valid and CanonicalOrder.
func validIDs(version Version) map[TypeID]bool {
	switch version {
	case V1:
		return map[TypeID]bool{
			IDDefault: true, IDTitle: true, IDUsername: true, IDNotes: true, IDPassword: true,
		}
	case V2:
		return map[TypeID]bool{
			IDDefault: true, IDUUID: true, IDGroup: true, IDTitle: true, IDUsername: true,
			IDNotes: true, IDPassword: true, IDCreationTime: true, IDPasswordMod: true,
			IDLastAccess: true, IDPasswordPolicyV2: true, IDEndOfRecord: true,
		}
	case V3:
		ids := map[TypeID]bool{
			IDDefault: true, IDUUID: true, IDGroup: true, IDTitle: true, IDUsername: true,
			IDNotes: true, IDPassword: true, IDCreationTime: true, IDPasswordMod: true,
			IDLastAccess: true, IDPasswordLifetimeV3: true, IDPasswordPolicyDeprecated: true,
			IDLastModTime: true, IDURL: true, IDAutotype: true, IDPasswordHistory: true,
			IDPasswordPolicy: true, IDPasswordExpiryInterval: true, IDEndOfRecord: true,
		}
		return ids
	default:
		return nil
	}
}

// IsValidID reports whether id is one this version's codec assigns meaning
// to. Any other id decodes successfully but is retained as opaque.
func IsValidID(version Version, id TypeID) bool {
	return validIDs(version)[id]
}
