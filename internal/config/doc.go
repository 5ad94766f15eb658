// Package config loads and merges pyreview configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (PYREVIEW_MAX_LINE_LENGTH, PYREVIEW_NAMING_FUNCTION, etc.)
//  3. Config file ($XDG_CONFIG_HOME/pyreview/config.yaml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file, and
// [SetField] to update a single key.
package config
