// Package config loads, validates, and defaults the TOML configuration for
// the Beholder daemon and CLI.
//
// Load resolves the config path from an explicit flag, the BEHOLDER_CONFIG
// environment variable, or the default location under ~/.config/beholder,
// in that order. A missing file is not an error; defaults apply.
package config
