package config

import (
	"errors"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestNormalizeAliases(t *testing.T) {
	cfg := Default()
	cfg.ListStyle = "ordered"
	cfg.Normalize()
	if cfg.ListStyle != "1." {
		t.Fatalf("got %q", cfg.ListStyle)
	}

	cfg.ListStyle = "unordered"
	cfg.Normalize()
	if cfg.ListStyle != "-" {
		t.Fatalf("got %q", cfg.ListStyle)
	}

	cfg.ListStyle = "*"
	cfg.Normalize()
	if cfg.ListStyle != "*" {
		t.Fatalf("got %q", cfg.ListStyle)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty start marker", func(c *Config) { c.StartMarker = "" }},
		{"empty end marker", func(c *Config) { c.EndMarker = "" }},
		{"empty header text", func(c *Config) { c.HeaderText = "" }},
		{"empty indent", func(c *Config) { c.IndentChars = "" }},
		{"min level zero", func(c *Config) { c.MinLevel = 0 }},
		{"max level seven", func(c *Config) { c.MaxLevel = 7 }},
		{"min above max", func(c *Config) { c.MinLevel = 4; c.MaxLevel = 3 }},
		{"unknown list style", func(c *Config) { c.ListStyle = "o." }},
		{"unnormalized alias", func(c *Config) { c.ListStyle = "ordered" }},
		{"zero file size", func(c *Config) { c.MaxFileSize = 0 }},
		{"negative line length", func(c *Config) { c.MaxLineLength = -1 }},
		{"zero headers", func(c *Config) { c.MaxHeaders = 0 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v", tc.name, err)
		}
	}
}

func TestValidateLevelBoundaries(t *testing.T) {
	cfg := Default()
	cfg.MinLevel = 1
	cfg.MaxLevel = 6
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	cfg.MinLevel = 3
	cfg.MaxLevel = 3
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
