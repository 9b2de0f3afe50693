// Package config loads clipper's TOML configuration, fills defaults,
// expands paths, and validates the result.
//
// Load resolves the file from an explicit path, then
// ~/.config/clipper/config.toml, then clipper.toml in the working directory.
// A missing file is not an error; defaults apply.
package config
