package config

import "errors"

var (
	// ErrLoadingEnvFile is returned when an explicitly named dotenv file cannot be read.
	ErrLoadingEnvFile = errors.New("config: failed to load env file")

	// ErrParsingConfig is returned when environment variables cannot be parsed into Config.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")

	// ErrInvalidConfig is returned when parsed values fail validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")
)
