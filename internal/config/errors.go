package config

import (
	"errors"
)

// Sentinel kinds for configuration failures, matchable via errors.Is.
var (
	// ErrInvalidConfig marks a config that loaded but fails validation,
	// such as an unknown store backend or a non-positive goal score.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadConfig wraps failures reading or decoding the config sources.
	ErrLoadConfig = errors.New("load config failed")
)
