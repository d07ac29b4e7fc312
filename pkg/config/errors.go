package config

import "errors"

// Sentinel errors for configuration validation. All are reported
// before any network call is made.
var (
	// ErrMissingEnvironment indicates no environment URL was supplied
	// via flag or DYNATRACE_ENV.
	ErrMissingEnvironment = errors.New("config: environment URL required (use -env or set DYNATRACE_ENV)")

	// ErrInvalidEnvironment indicates the environment URL is not an
	// http(s) URL.
	ErrInvalidEnvironment = errors.New("config: environment URL must start with http:// or https://")

	// ErrMissingToken indicates no API token was supplied via flag or
	// DYNATRACE_TOKEN.
	ErrMissingToken = errors.New("config: API token required (use -token or set DYNATRACE_TOKEN)")

	// ErrInvalidDays indicates a non-positive lookback window.
	ErrInvalidDays = errors.New("config: lookback days must be positive")

	// ErrConflictingFormats indicates both -html-only and -pdf-only
	// were set.
	ErrConflictingFormats = errors.New("config: -html-only and -pdf-only are mutually exclusive")
)
