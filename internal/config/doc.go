// Package config defines the dst-clock settings and helpers to load,
// validate and save them in YAML format.
//
// Validate fills defaults for every optional field, so a settings file only
// needs the values that differ from them.
package config
