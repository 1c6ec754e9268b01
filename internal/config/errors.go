package config

import "errors"

// Configuration error taxonomy. Every failure out of Load wraps exactly one
// of these sentinels so callers can distinguish the cause with errors.Is
// while still surfacing the wrapped message verbatim.
var (
	// ErrConfigNotFound indicates the config file does not exist.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrConfigRead indicates the config file exists but could not be read.
	ErrConfigRead = errors.New("configuration unreadable")

	// ErrConfigSyntax indicates the config file is not valid YAML.
	ErrConfigSyntax = errors.New("invalid configuration syntax")

	// ErrConfigShape indicates the YAML parsed to something other than a mapping.
	ErrConfigShape = errors.New("invalid configuration format")

	// ErrConfigSchema indicates the document does not satisfy the config schema.
	ErrConfigSchema = errors.New("configuration validation failed")
)
