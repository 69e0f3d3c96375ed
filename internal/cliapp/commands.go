package cliapp

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/go-pwsafe/pwsafe/internal/entrystore"
	"github.com/go-pwsafe/pwsafe/internal/passphrase"
	"github.com/google/uuid"
)

func (a *App) cmdList(ctx context.Context) error {
	entries := a.store.SparseEntries()
	if len(entries) == 0 {
		fmt.Println("(empty)")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%d: %s  (%s)\n", e.StoreIndex, e.Title, e.Username)
	}
	return nil
}

func (a *App) cmdAdd(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	username, err := GetSimpleText(a.reader, "Username", os.Stdout)
	if err != nil {
		return err
	}
	password, err := GetPassword(os.Stdout, "Password")
	if err != nil {
		return err
	}

	entry := entrystore.Bean{
		UUID:     uuid.New(),
		Title:    title,
		Username: username,
		Password: string(password),
	}
	added, err := a.store.Add(ctx, entry)
	if err != nil {
		return err
	}
	fmt.Printf("Added entry %d.\n", added.StoreIndex)
	return nil
}

func (a *App) cmdGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: get <index>")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}

	entry, err := a.store.Get(ctx, index)
	if err != nil {
		return err
	}
	fmt.Printf("Title:    %s\n", entry.Title)
	fmt.Printf("Username: %s\n", entry.Username)
	fmt.Printf("Password: %s\n", entry.Password)
	if entry.URL != "" {
		fmt.Printf("URL:      %s\n", entry.URL)
	}
	if entry.Notes != "" {
		fmt.Printf("Notes:    %s\n", entry.Notes)
	}
	return nil
}

func (a *App) cmdGenPass(args []string) error {
	length := 16
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid length %q", args[0])
		}
		length = n
	}

	policy := passphrase.Policy{
		Length:         length,
		LowercaseChars: true,
		UppercaseChars: true,
		DigitChars:     true,
		SymbolChars:    true,
	}
	pw, err := passphrase.MakePassword(policy)
	if err != nil {
		return err
	}
	fmt.Println(pw)
	return nil
}

func (a *App) cmdSave(ctx context.Context) error {
	if err := a.file.Save(ctx); err != nil {
		return err
	}
	fmt.Println("Saved.")
	return nil
}
