// Package config loads, normalizes, and validates unmix configuration data.
//
// It supplies defaults matching the reference separation setup, reads TOML
// files, and expands user paths. Command line flags are applied on top of
// the loaded Config by the caller, which should call Validate again
// afterwards.
package config
