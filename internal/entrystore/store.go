package entrystore

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/logging"
	"github.com/go-pwsafe/pwsafe/internal/pwsfile"
	"github.com/go-pwsafe/pwsafe/internal/record"
)

// Store maintains a list of Beans aligned 1:1 with the underlying file's
// sealed record list. Attach it as a load listener before calling Open so
// the projection builds during the same decrypt pass rather than a
// second walk over the file.
type Store struct {
	mu sync.Mutex

	file    *pwsfile.File
	version field.Version
	log     logging.Logger

	fields  FieldSet
	entries []Bean
}

// New returns a store over file, configured with version's default
// sparse field set, and registers it as a load listener.
func New(file *pwsfile.File, version field.Version, log logging.Logger) *Store {
	if log == nil {
		log = logging.Noop()
	}
	s := &Store{
		file:    file,
		version: version,
		log:     log,
		fields:  defaultFieldSet(version),
	}
	file.AddLoadListener(s)
	return s
}

// Loaded implements pwsfile.LoadListener: it appends the projected sparse
// bean for every record the file decodes during Open, in file order.
func (s *Store) Loaded(r *record.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	index := len(s.entries)
	s.entries = append(s.entries, project(r, index, s.fields, true))
}

// Load rebuilds the sparse list from scratch by iterating every record
// currently held by the file. Use it when the store was attached after
// Open already ran (so Loaded never fired), or to force a full refresh.
func (s *Store) Load(ctx context.Context) error {
	var rebuilt []Bean
	err := s.file.Iterate(ctx, func(index int, r *record.Record) error {
		s.mu.Lock()
		fields := s.fields
		s.mu.Unlock()
		rebuilt = append(rebuilt, project(r, index, fields, true))
		return nil
	})
	if err != nil {
		return fmt.Errorf("entrystore: load: %w", err)
	}
	s.mu.Lock()
	s.entries = rebuilt
	s.mu.Unlock()
	return nil
}

// SparseEntries returns the current sparse projection, in sealed-list
// order. The slice is a defensive copy; mutating it does not affect the
// store.
func (s *Store) SparseEntries() []Bean {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Bean, len(s.entries))
	copy(out, s.entries)
	return out
}

// SetSparseFields installs a new projected field set. If fields is not a
// subset of the previous set (i.e. it asks for fields the current
// projection may have dropped), the entire sparse list is rebuilt from
// the underlying file; otherwise the existing beans already carry
// everything the narrower filter needs, so only the filter changes.
func (s *Store) SetSparseFields(ctx context.Context, fields FieldSet) error {
	s.mu.Lock()
	previous := s.fields
	s.mu.Unlock()

	if fields.Subset(previous) {
		s.mu.Lock()
		s.fields = fields
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.fields = fields
	s.mu.Unlock()
	return s.Load(ctx)
}

// Add requires a non-sparse entry: it builds a record from its fields,
// appends it to the file (which seals it), and appends the
// corresponding sparse projection to keep both lists aligned.
func (s *Store) Add(ctx context.Context, entry Bean) (Bean, error) {
	if entry.Sparse {
		return Bean{}, fmt.Errorf("entrystore: add: %w", common.ErrInvalidSparseEntry)
	}

	r := toRecord(s.version, entry)
	index, err := s.file.Add(ctx, r)
	if err != nil {
		return Bean{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sparse := project(r, index, s.fields, true)
	s.entries = append(s.entries, sparse)
	return sparse, nil
}

// Update requires a non-sparse entry with a valid StoreIndex: it writes
// the bean's fields into the record at that index, re-seals it, and
// refreshes the matching sparse entry in place.
func (s *Store) Update(ctx context.Context, entry Bean) error {
	if entry.Sparse {
		return fmt.Errorf("entrystore: update: %w", common.ErrInvalidSparseEntry)
	}
	if entry.StoreIndex < 0 {
		return fmt.Errorf("entrystore: update: %w", common.ErrIndexOutOfRange)
	}

	current, err := s.file.Get(ctx, entry.StoreIndex)
	if err != nil {
		return err
	}
	if beansEqual(fullBean(current, entry.StoreIndex), entry) {
		s.log.Warn(ctx, "entrystore: update is a no-op", "index", entry.StoreIndex)
	}

	r := toRecord(s.version, entry)
	if err := s.file.Set(ctx, entry.StoreIndex, r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.StoreIndex < len(s.entries) {
		s.entries[entry.StoreIndex] = project(r, entry.StoreIndex, s.fields, true)
	}
	return nil
}

// Remove deletes the record at entry.StoreIndex from the file, then
// refreshes the sparse list so every remaining index stays contiguous.
func (s *Store) Remove(ctx context.Context, entry Bean) error {
	if err := s.file.Remove(ctx, entry.StoreIndex); err != nil {
		return err
	}

	s.mu.Lock()
	fields := s.fields
	s.mu.Unlock()

	var rebuilt []Bean
	err := s.file.Iterate(ctx, func(index int, r *record.Record) error {
		rebuilt = append(rebuilt, project(r, index, fields, true))
		return nil
	})
	if err != nil {
		return fmt.Errorf("entrystore: remove: refresh: %w", err)
	}

	s.mu.Lock()
	s.entries = rebuilt
	s.mu.Unlock()
	return nil
}

// Get returns a fully populated (non-sparse) bean for the record at
// index, unsealing it from the file.
func (s *Store) Get(ctx context.Context, index int) (Bean, error) {
	r, err := s.file.Get(ctx, index)
	if err != nil {
		return Bean{}, err
	}
	return fullBean(r, index), nil
}

func beansEqual(a, b Bean) bool {
	a.StoreIndex, b.StoreIndex = 0, 0
	a.Sparse, b.Sparse = false, false
	return fmt.Sprint(a) == fmt.Sprint(b)
}
