// Package config holds the immutable per-run configuration for TOC
// generation and its validation and file-loading rules.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid tags every configuration validation failure. Callers can test
// for it with errors.Is.
var ErrInvalid = errors.New("invalid configuration")

// ListStyles enumerates the accepted list-item styles for TOC entries.
var ListStyles = []string{"1.", "*", "-"}

// Config is the effective configuration for one run. Values merge from CLI
// flags, an optional config file, environment overrides, and the defaults
// below, in that order of precedence.
type Config struct {
	// Markers delimiting the managed TOC region, and the header rendered
	// above the entries.
	StartMarker string
	EndMarker   string
	HeaderText  string

	// Header levels included in the TOC, inclusive.
	MinLevel int
	MaxLevel int

	// Formatting of rendered entries.
	IndentChars string
	ListStyle   string

	// Limits.
	MaxFileSize   int64
	MaxLineLength int
	MaxHeaders    int

	// PreserveUnicode keeps non-ASCII characters in anchor slugs.
	PreserveUnicode bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StartMarker:   "<!-- TOC -->",
		EndMarker:     "<!-- /TOC -->",
		HeaderText:    "## Table of Contents",
		MinLevel:      2,
		MaxLevel:      3,
		IndentChars:   "    ",
		ListStyle:     "1.",
		MaxFileSize:   10 * 1024 * 1024,
		MaxLineLength: 10_000,
		MaxHeaders:    10_000,
	}
}

// Normalize resolves list style aliases in place.
func (c *Config) Normalize() {
	switch c.ListStyle {
	case "ordered":
		c.ListStyle = "1."
	case "unordered":
		c.ListStyle = "-"
	}
}

// Validate checks every configuration invariant. It returns an error
// wrapping ErrInvalid on the first violation.
func (c Config) Validate() error {
	if c.StartMarker == "" {
		return fmt.Errorf("%w: start marker must not be empty", ErrInvalid)
	}
	if c.EndMarker == "" {
		return fmt.Errorf("%w: end marker must not be empty", ErrInvalid)
	}
	if c.HeaderText == "" {
		return fmt.Errorf("%w: header text must not be empty", ErrInvalid)
	}
	if c.IndentChars == "" {
		return fmt.Errorf("%w: indent chars must not be empty", ErrInvalid)
	}
	if c.MinLevel < 1 {
		return fmt.Errorf("%w: min level must be at least 1, got %d", ErrInvalid, c.MinLevel)
	}
	if c.MaxLevel > 6 {
		return fmt.Errorf("%w: max level must be at most 6, got %d", ErrInvalid, c.MaxLevel)
	}
	if c.MinLevel > c.MaxLevel {
		return fmt.Errorf("%w: min level %d exceeds max level %d", ErrInvalid, c.MinLevel, c.MaxLevel)
	}
	if !validListStyle(c.ListStyle) {
		return fmt.Errorf("%w: unsupported list style %q", ErrInvalid, c.ListStyle)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("%w: max file size must be positive, got %d", ErrInvalid, c.MaxFileSize)
	}
	if c.MaxLineLength <= 0 {
		return fmt.Errorf("%w: max line length must be positive, got %d", ErrInvalid, c.MaxLineLength)
	}
	if c.MaxHeaders <= 0 {
		return fmt.Errorf("%w: max headers must be positive, got %d", ErrInvalid, c.MaxHeaders)
	}
	return nil
}

func validListStyle(style string) bool {
	for _, s := range ListStyles {
		if style == s {
			return true
		}
	}
	return false
}
