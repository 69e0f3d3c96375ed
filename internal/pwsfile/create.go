package pwsfile

import (
	"context"
	"errors"
)

var errAlreadyInitialized = errors.New("pwsfile: create called on an already-initialized handle")

// Create initializes a brand-new, empty database under passphrase, ready
// for Add and Save. Unlike Open, it reads nothing from storage — Save
// will produce the file the first time it runs.
func (f *File) Create(ctx context.Context, passphrase []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkNotDisposed(); err != nil {
		return err
	}
	if f.state != stateEmpty {
		return errAlreadyInitialized
	}

	sealed, err := f.cage.SealPassphrase(ctx, passphrase)
	if err != nil {
		return err
	}
	f.sealedPassphrase = sealed
	f.state = stateLoaded
	return nil
}
