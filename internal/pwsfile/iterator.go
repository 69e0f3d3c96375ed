package pwsfile

import (
	"context"

	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/memguard"
	"github.com/go-pwsafe/pwsafe/internal/record"
)

// Iterate calls visit once per sealed record, in index order, unsealing
// each in turn. It holds the iteration flag for its entire duration:
// concurrent Add/Set/Remove calls from another goroutine while a pass is
// in flight fail with ErrConcurrentIteration rather than silently
// reordering the list mid-pass.
func (f *File) Iterate(ctx context.Context, visit func(index int, r *record.Record) error) error {
	f.mu.Lock()
	if err := f.checkNotDisposed(); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.iterating {
		f.mu.Unlock()
		return common.ErrConcurrentIteration
	}
	f.iterating = true
	snapshot := append([]memguard.Sealed{}, f.sealed...)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.iterating = false
		f.mu.Unlock()
	}()

	for i, sealed := range snapshot {
		r, err := f.cage.UnsealRecord(ctx, sealed)
		if err != nil {
			return err
		}
		if err := visit(i, r); err != nil {
			return err
		}
	}
	return nil
}
