package config

// Config holds runtime settings for the pwsafe demo CLI.
//
// Fields:
//   - DatabasePath: path to the vault file to open or create.
//   - Version: on-disk format family (1, 2, or 3), used both to create a new
//     vault and to open an existing one; the format is not auto-detected.
//   - StretchIterations: V3 key-stretch round count. It is parsed and stored
//     but not passed to the file codec, which uses 2048 rounds for new vaults.
//   - LogLevel: one of "debug", "info", "warn", "error".
type Config struct {
	DatabasePath      string
	Version           int
	StretchIterations uint32
	LogLevel          string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "vault.psafe3"
	c.Version = 3
	c.StretchIterations = 2048
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
