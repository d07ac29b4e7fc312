// Package iohelper provides size-limited readers for API response
// bodies. Error bodies are captured for logging but capped so a broken
// proxy cannot exhaust memory.
package iohelper

import "io"

// Body size limits.
const (
	// SmallMaxBodySize is for error bodies quoted in log messages (8KB).
	SmallMaxBodySize int64 = 8 * 1024

	// DefaultMaxBodySize is for regular JSON API responses (10MB).
	// A 500-item security problem page with risk assessments stays
	// well under this.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024
)

// ReadBody reads from r with a size limit. A nil reader yields an
// empty slice and no error.
func ReadBody(r io.Reader, maxSize int64) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// ReadBodyDefault reads from r with the default 10MB limit.
func ReadBodyDefault(r io.Reader) ([]byte, error) {
	return ReadBody(r, DefaultMaxBodySize)
}

// ReadBodySmall reads from r with an 8KB limit. Suitable for error
// pages included in diagnostics.
func ReadBodySmall(r io.Reader) ([]byte, error) {
	return ReadBody(r, SmallMaxBodySize)
}
