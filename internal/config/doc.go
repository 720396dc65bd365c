// Package config loads, normalizes, and validates the TOML configuration
// for the captive daemon and CLI.
//
// Loading resolves the config path (explicit flag, then
// ~/.config/captive/config.toml), applies defaults for missing values,
// expands ~ in path fields, and validates the result. A missing config file
// is not an error: the defaults are a working local setup.
package config
