package common

// BlockLengthV12 is the cipher block size used by V1 and V2 files and by
// the in-memory cage (Blowfish).
const BlockLengthV12 = 8

// BlockLengthV3 is the cipher block size used by V3 files (Twofish).
const BlockLengthV3 = 16

// StuffLength is the length in bytes of the V1/V2 header's random filler
// field (RandStuff).
const StuffLength = 8

// HashLength is the length in bytes of the V1/V2 header's random hash
// field (RandHash) and of the salt.
const HashLength = 20
