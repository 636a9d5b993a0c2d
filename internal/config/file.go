package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v3"
)

// configBaseName is the config file name looked up during discovery, tried
// with these extensions in order.
const configBaseName = "toc-markdown"

var configExtensions = []string{".toml", ".yaml", ".yml"}

// FileConfig is the on-disk configuration schema. Pointer fields distinguish
// absent keys from zero values so a file only overlays the settings it
// actually names.
type FileConfig struct {
	StartMarker     *string `toml:"start_marker" yaml:"start_marker"`
	EndMarker       *string `toml:"end_marker" yaml:"end_marker"`
	HeaderText      *string `toml:"header_text" yaml:"header_text"`
	MinLevel        *int    `toml:"min_level" yaml:"min_level"`
	MaxLevel        *int    `toml:"max_level" yaml:"max_level"`
	IndentChars     *string `toml:"indent_chars" yaml:"indent_chars"`
	IndentSpaces    *int    `toml:"indent_spaces" yaml:"indent_spaces"`
	ListStyle       *string `toml:"list_style" yaml:"list_style"`
	MaxFileSize     *int64  `toml:"max_file_size" yaml:"max_file_size"`
	MaxLineLength   *int    `toml:"max_line_length" yaml:"max_line_length"`
	MaxHeaders      *int    `toml:"max_headers" yaml:"max_headers"`
	PreserveUnicode *bool   `toml:"preserve_unicode" yaml:"preserve_unicode"`
}

// Discover walks from dir toward the filesystem root looking for a
// toc-markdown config file and returns the first hit.
func Discover(dir string) (string, bool) {
	current := dir
	for {
		for _, ext := range configExtensions {
			candidate := filepath.Join(current, configBaseName+ext)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, true
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// LoadFile reads a config file, decoding TOML or YAML by extension. Files
// without a recognised extension are treated as TOML. Unknown TOML keys are
// an error so typos fail loudly instead of being ignored.
func LoadFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	default:
		meta, err := toml.Decode(string(b), &fc)
		if err != nil {
			return fc, fmt.Errorf("parse toml config %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return fc, fmt.Errorf("%w: unknown setting %q in %s", ErrInvalid, undecoded[0].String(), path)
		}
	}
	return fc, nil
}

// Apply overlays file values onto cfg for fields still at their defaults.
// Flags are parsed into cfg before this runs, so explicit flag values keep
// precedence over the file.
func (fc FileConfig) Apply(cfg *Config) {
	def := Default()
	if fc.StartMarker != nil && cfg.StartMarker == def.StartMarker {
		cfg.StartMarker = *fc.StartMarker
	}
	if fc.EndMarker != nil && cfg.EndMarker == def.EndMarker {
		cfg.EndMarker = *fc.EndMarker
	}
	if fc.HeaderText != nil && cfg.HeaderText == def.HeaderText {
		cfg.HeaderText = *fc.HeaderText
	}
	if fc.MinLevel != nil && cfg.MinLevel == def.MinLevel {
		cfg.MinLevel = *fc.MinLevel
	}
	if fc.MaxLevel != nil && cfg.MaxLevel == def.MaxLevel {
		cfg.MaxLevel = *fc.MaxLevel
	}
	if cfg.IndentChars == def.IndentChars {
		// indent_chars wins over the indent_spaces shorthand when both appear.
		switch {
		case fc.IndentChars != nil:
			cfg.IndentChars = *fc.IndentChars
		case fc.IndentSpaces != nil && *fc.IndentSpaces > 0:
			cfg.IndentChars = strings.Repeat(" ", *fc.IndentSpaces)
		}
	}
	if fc.ListStyle != nil && cfg.ListStyle == def.ListStyle {
		cfg.ListStyle = *fc.ListStyle
	}
	if fc.MaxFileSize != nil && cfg.MaxFileSize == def.MaxFileSize {
		cfg.MaxFileSize = *fc.MaxFileSize
	}
	if fc.MaxLineLength != nil && cfg.MaxLineLength == def.MaxLineLength {
		cfg.MaxLineLength = *fc.MaxLineLength
	}
	if fc.MaxHeaders != nil && cfg.MaxHeaders == def.MaxHeaders {
		cfg.MaxHeaders = *fc.MaxHeaders
	}
	if fc.PreserveUnicode != nil && !cfg.PreserveUnicode {
		cfg.PreserveUnicode = *fc.PreserveUnicode
	}
}
