// Package config loads, normalizes, and validates platter configuration.
//
// Configuration lives in TOML. Load resolves the file from an explicit path,
// ~/.config/platter/config.toml, or ./platter.toml, applies defaults and
// environment fallbacks, expands ~ in paths, and rejects values the freedb
// protocol cannot carry. CreateSample writes the annotated starter file used
// by `platter config init`.
package config
