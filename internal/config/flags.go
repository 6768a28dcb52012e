package config

import (
	"flag"
	"io"
)

// parseFlags applies the global flags at the start of args to cfg and returns
// the remaining arguments. Parsing stops at the first non-flag argument, so
// subcommand flags are left for the subcommand.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("cryptify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.VaultPath, "vault", cfg.VaultPath, "path of the vault file")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}
