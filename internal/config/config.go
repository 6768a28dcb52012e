package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/illarion/cryptify/internal/logging"
)

// Environment variable names.
const (
	EnvVault    = "CRYPTIFY_VAULT"
	EnvLogLevel = "CRYPTIFY_LOG_LEVEL"
	EnvKeyring  = "CRYPTIFY_KEYRING"
)

const vaultFile = "vault.cryptify"

// Config holds runtime settings for the cryptify CLI.
type Config struct {
	VaultPath  string
	LogLevel   string
	UseKeyring bool
}

// LoadDefaults populates c with defaults. The vault lives in the user's
// config directory, or the working directory when there is none.
func (c *Config) LoadDefaults() {
	c.VaultPath = vaultFile
	if dir, err := os.UserConfigDir(); err == nil {
		c.VaultPath = filepath.Join(dir, "cryptify", vaultFile)
	}
	c.LogLevel = "warn"
	c.UseKeyring = true
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}

// Load builds a Config from defaults, the environment and the global flags at
// the start of args. It returns the arguments left after the flags, starting
// with the subcommand.
func Load(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := loadEnv(cfg, os.LookupEnv); err != nil {
		return nil, nil, err
	}
	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}
	if _, err := cfg.Level(); err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

// loadEnv overlays values from the environment. lookup is os.LookupEnv
// outside of tests.
func loadEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvVault); ok && v != "" {
		cfg.VaultPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvKeyring); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvKeyring, err)
		}
		cfg.UseKeyring = b
	}
	return nil
}
