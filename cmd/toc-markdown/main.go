package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/toc-markdown/toc-markdown/internal/app"
	"github.com/toc-markdown/toc-markdown/internal/config"
)

// Build information populated via -ldflags at build time. Defaults are
// meaningful for local development.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Default()
	var (
		configPath   string
		workDir      string
		indentSpaces int
		verbose      bool
		showVersion  bool
	)

	flag.StringVar(&configPath, "config", "", "Path to a toc-markdown.toml/.yaml file (default: discovered from the file's directory upward)")
	flag.StringVar(&workDir, "workdir", "", "Directory the target file must live under (default: current directory)")
	flag.StringVar(&cfg.StartMarker, "start-marker", cfg.StartMarker, "Line marking the start of the managed TOC region")
	flag.StringVar(&cfg.EndMarker, "end-marker", cfg.EndMarker, "Line marking the end of the managed TOC region")
	flag.StringVar(&cfg.HeaderText, "header", cfg.HeaderText, "Header line rendered above the TOC entries")
	flag.IntVar(&cfg.MinLevel, "min-level", cfg.MinLevel, "Minimum header level included in the TOC (1-6)")
	flag.IntVar(&cfg.MaxLevel, "max-level", cfg.MaxLevel, "Maximum header level included in the TOC (1-6)")
	flag.IntVar(&indentSpaces, "indent-spaces", len(cfg.IndentChars), "Spaces of indentation per nesting level")
	flag.StringVar(&cfg.ListStyle, "style", cfg.ListStyle, `List style for TOC entries: "1.", "*" or "-" (aliases: ordered, unordered)`)
	flag.Int64Var(&cfg.MaxFileSize, "max-file-size", cfg.MaxFileSize, "Maximum input file size in bytes")
	flag.IntVar(&cfg.MaxLineLength, "max-line-length", cfg.MaxLineLength, "Maximum line length in characters")
	flag.IntVar(&cfg.MaxHeaders, "max-headers", cfg.MaxHeaders, "Maximum number of headers")
	flag.BoolVar(&cfg.PreserveUnicode, "preserve-unicode", cfg.PreserveUnicode, "Keep non-ASCII characters in anchor slugs")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("toc-markdown %s (%s)\n", BuildVersion, BuildCommit)
		return
	}

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: toc-markdown [flags] FILE")
		flag.PrintDefaults()
		os.Exit(2)
	}
	target := flag.Arg(0)

	// The -indent-spaces shorthand only takes effect when given explicitly,
	// so a config file's indent settings are not masked by its default.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "indent-spaces" && indentSpaces > 0 {
			cfg.IndentChars = strings.Repeat(" ", indentSpaces)
		}
	})

	// Flags take precedence over the config file; the file only fills in
	// settings still at their defaults.
	if configPath == "" {
		if abs, err := filepath.Abs(target); err == nil {
			if found, ok := config.Discover(filepath.Dir(abs)); ok {
				configPath = found
			}
		}
	}
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			log.Error().Err(err).Msg("configuration file rejected")
			os.Exit(1)
		}
		fc.Apply(&cfg)
		log.Debug().Str("config", configPath).Msg("loaded configuration file")
	}

	if err := app.Run(app.Options{Path: target, WorkDir: workDir, Config: cfg}, os.Stdout); err != nil {
		log.Error().Err(err).Msg("toc-markdown failed")
		os.Exit(1)
	}
}
