package cliapp

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// repl reads commands from stdin until "exit"/"quit" or EOF. Errors from
// command handlers are printed but never stop the loop.
func (a *App) repl(ctx context.Context) {
	fmt.Printf("Opened %s (%d records). Type 'help' for commands.\n", a.cfg.DatabasePath, a.file.RecordCount())
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("pwsafe> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			a.help()
		case "list":
			err = a.cmdList(ctx)
		case "add":
			err = a.cmdAdd(ctx)
		case "get":
			err = a.cmdGet(ctx, args)
		case "genpass":
			err = a.cmdGenPass(args)
		case "save":
			err = a.cmdSave(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
}

func (a *App) help() {
	fmt.Println("Available commands:")
	fmt.Println("  list              list entries (sparse view)")
	fmt.Println("  add               add a new login entry")
	fmt.Println("  get <index>       show a full entry")
	fmt.Println("  genpass <length>  generate a random passphrase")
	fmt.Println("  save              write the vault back to disk")
	fmt.Println("  exit              quit without saving")
}
