package config

import (
	"flag"
	"os"

	"github.com/go-pwsafe/pwsafe/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-f string   path to the vault file (default from Config)
//	-v int      on-disk format version to create or open: 1, 2, or 3
//	-i int      V3 key-stretch iteration count (stored only; not applied to the vault)
//	-log string log level: debug, info, warn, error
//
// The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so it doesn't interfere with a host binary's own
// flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-f", "-v", "-i", "-log"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "f", cfg.DatabasePath, "path to the vault file")
	fs.IntVar(&cfg.Version, "v", cfg.Version, "on-disk format version to create or open (1, 2, or 3)")
	iterations := fs.Int("i", int(cfg.StretchIterations), "V3 key-stretch iteration count (stored only; not applied to the vault)")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.StretchIterations = uint32(*iterations)
}
