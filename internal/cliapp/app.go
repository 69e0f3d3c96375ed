// Package cliapp wires the vault library into a small interactive demo:
// it opens or creates a database file, attaches an entry store, and runs
// a read-eval-print loop over a handful of commands. It carries no
// cryptographic or format logic of its own — every operation delegates
// to internal/pwsfile and internal/entrystore.
package cliapp

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/go-pwsafe/pwsafe/internal/byteio"
	"github.com/go-pwsafe/pwsafe/internal/common"
	"github.com/go-pwsafe/pwsafe/internal/config"
	"github.com/go-pwsafe/pwsafe/internal/entrystore"
	"github.com/go-pwsafe/pwsafe/internal/field"
	"github.com/go-pwsafe/pwsafe/internal/logging"
	"github.com/go-pwsafe/pwsafe/internal/pwsfile"
)

// App holds the open vault handle and its entry-store projection.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	reader *bufio.Reader

	file  *pwsfile.File
	store *entrystore.Store
}

// NewApp constructs an App around cfg and log. The vault itself is opened
// or created by Run, once the user has supplied a passphrase.
func NewApp(cfg *config.Config, log logging.Logger) *App {
	return &App{cfg: cfg, log: log, reader: bufio.NewReader(os.Stdin)}
}

// Run opens (or creates) the configured vault file and starts the REPL.
func (a *App) Run(ctx context.Context) error {
	version := field.Version(a.cfg.Version)
	storage := byteio.NewFileStorage(a.cfg.DatabasePath)

	a.file = pwsfile.New(version, storage, a.log)
	a.store = entrystore.New(a.file, version, a.log)

	if storage.Exists() {
		if err := a.openExisting(ctx); err != nil {
			return fmt.Errorf("open %s: %w", a.cfg.DatabasePath, err)
		}
	} else {
		if err := a.createNew(ctx); err != nil {
			return fmt.Errorf("create %s: %w", a.cfg.DatabasePath, err)
		}
	}

	a.repl(ctx)
	a.file.Dispose()
	return nil
}

func (a *App) openExisting(ctx context.Context) error {
	passphrase, err := GetPassword(os.Stdout, "Enter vault passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	return a.file.Open(ctx, passphrase)
}

func (a *App) createNew(ctx context.Context) error {
	fmt.Printf("No vault found at %s; creating a new one.\n", a.cfg.DatabasePath)
	passphrase, err := GetPassword(os.Stdout, "Choose a vault passphrase")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	return a.file.Create(ctx, passphrase)
}
