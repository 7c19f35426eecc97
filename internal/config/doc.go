// Package config loads, normalizes, and validates innkeeper configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts),
// reads TOML files, and honours the INNKEEPER_LOG_LEVEL and
// INNKEEPER_LIBRARY_WORKERS environment overrides. Parser size limits, the
// keyword priority list and scan settings are all discovered in one pass.
package config
