// Package config loads, normalizes, and validates qv configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads the optional TOML file at ~/.config/qv/config.toml.
// A missing file is not an error; defaults apply. Always obtain settings
// through this package so downstream code receives sanitized absolute
// paths and validated values.
package config
