// Package config loads, normalizes, and validates folio configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the FOLIO_DB_PATH environment
// fallback. The Config type centralizes every knob the dedupe run and CLI
// need: catalog location, worker pool sizing, the placeholder title identity,
// and the category-pair policy consulted by the equivalence classifier.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
