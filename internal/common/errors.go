// Package common defines sentinel errors and small memory/random helpers
// shared across the vault codec, the in-memory cage, and the entry store.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Record-loop control. ErrEndOfFile is the normal loop terminator,
	// recovered at the record-loop boundary; it never escapes Open.
	ErrEndOfFile = errors.New("end of file")
	ErrTruncated = errors.New("truncated read")

	// Open-time failures.
	ErrUnsupportedFileVersion = errors.New("unsupported file version")
	ErrWrongPassphrase        = errors.New("wrong passphrase")
	ErrCorruptFile            = errors.New("corrupt file")

	// Mutation / save-time failures.
	ErrReadOnly               = errors.New("database is read-only")
	ErrConcurrentModification = errors.New("storage changed underneath an open handle")
	ErrConcurrentIteration    = errors.New("concurrent iteration and mutation")
	ErrIndexOutOfRange        = errors.New("index out of range")

	// Fatal, internal-invariant failures (ErrCryptoInit, ErrMemoryKey),
	// never user-triggerable; and ErrDisposed, returned for any use of a
	// handle after Dispose.
	ErrCryptoInit = errors.New("cryptographic primitive unavailable")
	ErrMemoryKey  = errors.New("memory cage seal/unseal failure")
	ErrDisposed   = errors.New("operation on a disposed object")

	// Passphrase-policy failures.
	ErrInvalidPassphrasePolicy = errors.New("invalid passphrase policy")

	// Entry-store failures.
	ErrInvalidSparseEntry = errors.New("operation requires a non-sparse entry")
)
