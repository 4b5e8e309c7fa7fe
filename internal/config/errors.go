package config

import "errors"

// Validation errors returned by the config package. All of them are fatal
// at startup: the process refuses to run on a broken configuration.
var (
	// ErrConfigLoad is returned when the configuration cannot be read or decoded.
	ErrConfigLoad = errors.New("failed to load configuration")
	// ErrMissingAddress is returned when the server listen address is empty.
	ErrMissingAddress = errors.New("address is required")
	// ErrMissingCacheDir is returned when the cache directory is empty.
	ErrMissingCacheDir = errors.New("cache_dir is required")
	// ErrInvalidDelay is returned when a cycle delay is zero or negative.
	ErrInvalidDelay = errors.New("success_delay and error_delay must be positive")
	// ErrInvalidMaxPosts is returned when the post limit is not positive.
	ErrInvalidMaxPosts = errors.New("max_posts must be positive")
	// ErrInvalidSkipFraction is returned when skip_fraction is outside [0, 1).
	ErrInvalidSkipFraction = errors.New("skip_fraction must be in [0, 1)")
	// ErrMissingURL is returned when a scraper has no fetch URL.
	ErrMissingURL = errors.New("url is required")
	// ErrMissingStrategy is returned when a scraper names no strategy.
	ErrMissingStrategy = errors.New("strategy is required")
)
