package config

import "errors"

var (
	// ErrInvalidEnvironment is returned when the requested environment name has no
	// configuration.
	ErrInvalidEnvironment = errors.New("invalid environment")

	// ErrInvalidContext is returned when the requested agent context has no configuration
	// under the given environment.
	ErrInvalidContext = errors.New("invalid context")
)
