// Package config loads, normalizes, and validates gamedex configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STEAMGRIDDB_API_KEY and RAWG_API_KEY. The Config type centralizes every knob
// the CLI and aggregation engine need, allowing cache directories and external
// catalog credentials to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
