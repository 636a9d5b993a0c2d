// Package app wires one CLI invocation through the parsing and generation
// pipeline: resolve and read the target file, parse it, render the TOC, and
// either splice it over the existing region or print it to stdout.
package app

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/toc-markdown/toc-markdown/internal/config"
	"github.com/toc-markdown/toc-markdown/internal/fsops"
	"github.com/toc-markdown/toc-markdown/internal/mdscan"
	"github.com/toc-markdown/toc-markdown/internal/toc"
)

// Options configures one run.
type Options struct {
	// Path is the Markdown file to process, as given on the command line.
	Path string
	// WorkDir is the directory the target file must live under. Empty means
	// the current working directory.
	WorkDir string
	// Config is the merged run configuration. Limit fields still at their
	// defaults may be raised or lowered by environment overrides.
	Config config.Config
}

// Run executes one invocation. When the document contains a managed TOC
// region the file is updated in place; otherwise the rendered TOC block is
// written verbatim to stdout for manual insertion.
func Run(opts Options, stdout io.Writer) error {
	cfg := opts.Config
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Environment overrides only fill in limits still at their defaults, so
	// explicit flag or config-file values keep precedence over them.
	def := config.Default()
	if cfg.MaxFileSize == def.MaxFileSize {
		maxSize, err := fsops.MaxFileSize(cfg.MaxFileSize)
		if err != nil {
			return err
		}
		cfg.MaxFileSize = maxSize
	}
	if cfg.MaxLineLength == def.MaxLineLength {
		maxLine, err := fsops.MaxLineLength(cfg.MaxLineLength)
		if err != nil {
			return err
		}
		cfg.MaxLineLength = maxLine
	}

	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("determine working directory: %w", err)
		}
		workDir = wd
	}

	path, err := fsops.NormalizePath(opts.Path, workDir)
	if err != nil {
		return err
	}
	log.Debug().Str("file", path).Msg("processing markdown file")

	initial, err := fsops.CollectStat(path)
	if err != nil {
		return err
	}
	if err := fsops.EnforceFileSize(initial, cfg.MaxFileSize, path); err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !utf8.Valid(raw) {
		return fmt.Errorf("%s is not valid UTF-8", path)
	}

	// Snapshot after reading; UpdateTOC re-stats against this to detect
	// concurrent writers.
	expected, err := fsops.CollectStat(path)
	if err != nil {
		return err
	}

	result, err := mdscan.Parse(string(raw), cfg)
	if err != nil {
		return err
	}
	log.Debug().
		Int("headers", len(result.Headers)).
		Int("lines", len(result.Lines)).
		Msg("parsed markdown")

	tocLines, err := toc.GenerateEntries(result.Headers, cfg)
	if err != nil {
		return err
	}

	if result.HasTOC() {
		if err := toc.ValidateMarkers(result.TOCStart, result.TOCEnd, cfg); err != nil {
			return err
		}
		if err := fsops.UpdateTOC(result.Lines, path, tocLines, result.TOCStart, result.TOCEnd, expected, initial); err != nil {
			return err
		}
		log.Info().Str("file", path).Int("entries", len(result.Headers)).Msg("table of contents updated")
		return nil
	}

	// No managed region yet: emit the block verbatim for manual insertion.
	if _, err := io.WriteString(stdout, strings.Join(tocLines, "")); err != nil {
		return fmt.Errorf("write TOC to stdout: %w", err)
	}
	return nil
}
