package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidWindow is returned when the rate window is <= 0.
	ErrInvalidWindow = errors.New("invalid rate window: must be > 0")

	// ErrInvalidHistorySize is returned when the history size is <= 0.
	ErrInvalidHistorySize = errors.New("invalid history size: must be > 0")

	// ErrInvalidScaleFactor is returned when the default scale factor is outside [0, 1].
	ErrInvalidScaleFactor = errors.New("invalid scale factor: must be within [0, 1]")

	// ErrInvalidPollInterval is returned when the poll interval is <= 0.
	ErrInvalidPollInterval = errors.New("invalid poll interval: must be > 0")

	// ErrInvalidDebounceInterval is returned when the debounce interval is <= 0.
	ErrInvalidDebounceInterval = errors.New("invalid debounce interval: must be > 0")

	// ErrNoReportsDir is returned when no reports directory is specified.
	ErrNoReportsDir = errors.New("no reports directory specified")

	// ErrInvalidGraphHeight is returned when the graph height is <= 0.
	ErrInvalidGraphHeight = errors.New("invalid graph height: must be > 0")

	// ErrInvalidLogLevel is returned when the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when the log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when the config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when the config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
