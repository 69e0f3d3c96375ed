package pwsfile

import (
	"context"
	"sync"
	"time"

	"github.com/go-pwsafe/pwsafe/internal/byteio"
	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/logging"
	"github.com/go-pwsafe/pwsafe/internal/memguard"
	"github.com/go-pwsafe/pwsafe/internal/record"
)

// state is a database handle's lifecycle stage.
type state int

const (
	stateEmpty state = iota
	stateLoaded
	stateDirty
	stateDisposed
)

// File is an open Password Safe database: a version tag, a sealed record
// list, and the bookkeeping Open/Save need to authenticate, detect
// external changes, and enforce read-only mode. A File owns its Cage
// exclusively; copying a File is not supported — pass a pointer.
type File struct {
	mu sync.Mutex

	version field.Version
	storage byteio.Storage
	cage    *memguard.Cage
	log     logging.Logger

	headerV1V2 *headerV1V2
	headerV3   *headerV3
	encKey     [32]byte // V3 record-layer key; unused for V1/V2 (cipher below instead).
	hmacKey    [32]byte // V3 only.
	blockKey   []byte   // V1/V2 Blowfish key.

	sealedPassphrase memguard.Sealed

	sealed   []memguard.Sealed
	state    state
	readOnly bool

	lastStorageChange time.Time

	listenersMu sync.Mutex
	listeners   []LoadListener

	iterating bool
}

// New returns an unopened handle for version over storage.
func New(version field.Version, storage byteio.Storage, log logging.Logger) *File {
	if log == nil {
		log = logging.Noop()
	}
	return &File{
		version: version,
		storage: storage,
		cage:    memguard.New(log),
		log:     log,
		state:   stateEmpty,
	}
}

// AddLoadListener registers a listener to receive every record decoded by
// the next Open call, in file order.
func (f *File) AddLoadListener(l LoadListener) {
	f.listenersMu.Lock()
	defer f.listenersMu.Unlock()
	f.listeners = append(f.listeners, l)
}

// RemoveLoadListener unregisters a previously added listener.
func (f *File) RemoveLoadListener(l LoadListener) {
	f.listenersMu.Lock()
	defer f.listenersMu.Unlock()
	for i, existing := range f.listeners {
		if existing == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

func (f *File) notifyLoaded(r *record.Record) {
	f.listenersMu.Lock()
	listeners := append([]LoadListener{}, f.listeners...)
	f.listenersMu.Unlock()
	for _, l := range listeners {
		l.Loaded(r)
	}
}

// RecordCount returns the number of sealed records currently held.
func (f *File) RecordCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sealed)
}

// IsModified reports whether the database has unsaved changes.
func (f *File) IsModified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == stateDirty
}

// IsReadOnly reports whether mutating operations are rejected.
func (f *File) IsReadOnly() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readOnly
}

// SetReadOnly toggles read-only mode. It may be called at any point in the
// Loaded/Dirty states.
func (f *File) SetReadOnly(ro bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readOnly = ro
}

// Dispose zeroes the cage and marks the handle unusable. Safe to call more
// than once.
func (f *File) Dispose() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == stateDisposed {
		return
	}
	f.cage.Dispose()
	common.WipeByteArray(f.blockKey)
	common.WipeByteArray(f.encKey[:])
	common.WipeByteArray(f.hmacKey[:])
	f.sealed = nil
	f.state = stateDisposed
}

func (f *File) checkNotDisposed() error {
	if f.state == stateDisposed {
		return common.ErrDisposed
	}
	return nil
}

// Get returns the fully unsealed record at index.
func (f *File) Get(ctx context.Context, index int) (*record.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkNotDisposed(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(f.sealed) {
		return nil, common.ErrIndexOutOfRange
	}
	return f.cage.UnsealRecord(ctx, f.sealed[index])
}

// Add appends a new record, sealing it into the list. On a read-only
// database this still appends in memory (per spec §7) but marks the
// handle so Save fails with ErrReadOnly.
func (f *File) Add(ctx context.Context, r *record.Record) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkNotDisposed(); err != nil {
		return -1, err
	}
	if f.iterating {
		return -1, common.ErrConcurrentIteration
	}
	if f.readOnly {
		f.log.Warn(ctx, "pwsfile: add on read-only database; appending in memory only")
	}

	sealed, err := f.cage.SealRecord(ctx, r)
	if err != nil {
		return -1, err
	}
	f.sealed = append(f.sealed, sealed)
	f.state = stateDirty
	return len(f.sealed) - 1, nil
}

// Set replaces the record at index, re-sealing it in place.
func (f *File) Set(ctx context.Context, index int, r *record.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkNotDisposed(); err != nil {
		return err
	}
	if index < 0 || index >= len(f.sealed) {
		return common.ErrIndexOutOfRange
	}
	if f.iterating {
		return common.ErrConcurrentIteration
	}
	if f.readOnly {
		f.log.Warn(ctx, "pwsfile: set on read-only database; updating in memory only")
	}

	sealed, err := f.cage.SealRecord(ctx, r)
	if err != nil {
		return err
	}
	f.sealed[index] = sealed
	f.state = stateDirty
	return nil
}

// Remove deletes the record at index, shifting later indices down by one.
//
// Per the source's ambiguous `list.remove(index) != null` check (spec open
// question), out-of-range is reported as ErrIndexOutOfRange and any
// in-range index always succeeds.
func (f *File) Remove(ctx context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkNotDisposed(); err != nil {
		return err
	}
	if index < 0 || index >= len(f.sealed) {
		return common.ErrIndexOutOfRange
	}
	if f.iterating {
		return common.ErrConcurrentIteration
	}
	if f.readOnly {
		f.log.Warn(ctx, "pwsfile: remove on read-only database; removing in memory only")
	}

	f.sealed = append(f.sealed[:index], f.sealed[index+1:]...)
	f.state = stateDirty
	return nil
}

// Passphrase returns the passphrase sealed at Open or Create time, for
// callers that need to re-derive header material. (Save unseals it through
// the cage directly rather than through this method.)
func (f *File) Passphrase(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkNotDisposed(); err != nil {
		return nil, err
	}
	return f.cage.UnsealPassphrase(ctx, f.sealedPassphrase)
}
