// Package config loads runtime configuration for the pwsafe demo CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-f string   path to the vault file
//	-v int      on-disk format version to create or open (1, 2, or 3)
//	-i int      V3 key-stretch iteration count (stored only; not applied to the vault)
//	-log string log level: debug, info, warn, error
//
// # JSON schema
//
//	{
//	  "database_path": "vault.psafe3",
//	  "version": 3,
//	  "stretch_iterations": 2048,
//	  "log_level": "info"
//	}
package config
