// Package config loads runtime configuration for the cryptify CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables (see loadEnv).
//  3. Global command-line flags given before the subcommand, which override
//     earlier values.
//
// Environment
//
//	CRYPTIFY_VAULT       path of the vault file
//	CRYPTIFY_LOG_LEVEL   debug, info, warn or error
//	CRYPTIFY_KEYRING     true/false, whether the OS keyring may supply the password
//
// Flags
//
//	-vault string       path of the vault file
//	-log-level string   log level
//
// The master password is never part of Config; see core.GetPasswordFromEnv.
package config
