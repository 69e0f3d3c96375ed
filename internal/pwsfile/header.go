// Package pwsfile implements the Password Safe file codec: header parsing
// and serialization, passphrase authentication, and the block-chained
// record stream, for the V1, V2 and V3 on-disk formats.
package pwsfile

import (
	"crypto/sha256"
)

// v3Magic is the literal tag at the start of every V3 file.
const v3Magic = "PWS3"

// v3EOFMarker terminates the encrypted header+record stream in a V3 file,
// immediately before the trailing 32-byte HMAC.
const v3EOFMarker = "PWS3-EOFPWS3-EOF"

// headerV1V2 is the fixed-size cleartext header shared by V1 and V2 files:
// 8 bytes of random filler, a 20-byte random hash that authenticates the
// passphrase, a 20-byte salt, and an 8-byte Blowfish IV (V2 only; V1 uses
// ECB and ignores it).
type headerV1V2 struct {
	RandStuff [8]byte
	RandHash  [20]byte
	Salt      [20]byte
	IV        [8]byte
}

// headerV3 is the fixed-size cleartext header of a V3 file, as laid out on
// disk up to (but not including) the Twofish-CBC-encrypted header+record
// stream that follows it.
type headerV3 struct {
	Salt             [32]byte
	Iterations       uint32
	StretchedKeyHash [sha256.Size]byte
	B1, B2, B3, B4   [16]byte
	IV               [16]byte
}
