package toc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/toc-markdown/toc-markdown/internal/config"
)

func TestGenerateEntries_Basic(t *testing.T) {
	headers := []string{"## Features", "## Installation"}
	lines, err := GenerateEntries(headers, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}

	want := []string{
		"<!-- TOC -->\n",
		"## Table of Contents\n\n",
		"1. [Features](#features)\n",
		"1. [Installation](#installation)\n",
		"<!-- /TOC -->\n",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines:\n got %q\nwant %q", lines, want)
	}
}

func TestGenerateEntries_Hierarchy(t *testing.T) {
	headers := []string{"## Usage", "### Basics", "### Advanced", "## FAQ"}
	lines, err := GenerateEntries(headers, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}

	want := []string{
		"<!-- TOC -->\n",
		"## Table of Contents\n\n",
		"1. [Usage](#usage)\n",
		"    1. [Basics](#basics)\n",
		"    1. [Advanced](#advanced)\n",
		"1. [FAQ](#faq)\n",
		"<!-- /TOC -->\n",
	}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines:\n got %q\nwant %q", lines, want)
	}
}

func TestGenerateEntries_EmptyHeaders(t *testing.T) {
	lines, err := GenerateEntries(nil, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}

	want := []string{"<!-- TOC -->\n", "## Table of Contents\n\n", "<!-- /TOC -->\n"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines: %q", lines)
	}
}

func TestGenerateEntries_DuplicateSlugs(t *testing.T) {
	headers := []string{"## Header", "## Header", "## Header"}
	lines, err := GenerateEntries(headers, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}

	entries := lines[2 : len(lines)-1]
	want := []string{
		"1. [Header](#header)\n",
		"1. [Header](#header-1)\n",
		"1. [Header](#header-2)\n",
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries: %q", entries)
	}
}

func TestGenerateEntries_CascadingSlugCollision(t *testing.T) {
	// "Header 1" slugs to the suffix already taken by the second "Header",
	// so it cascades one step further.
	headers := []string{"## Header", "## Header", "## Header 1"}
	lines, err := GenerateEntries(headers, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}

	entries := lines[2 : len(lines)-1]
	want := []string{
		"1. [Header](#header)\n",
		"1. [Header](#header-1)\n",
		"1. [Header 1](#header-1-1)\n",
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries: %q", entries)
	}
}

func TestGenerateEntries_StripsLinksFromTitles(t *testing.T) {
	headers := []string{"## See [the docs](https://example.com)"}
	lines, err := GenerateEntries(headers, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}

	if lines[2] != "1. [See the docs](#see-the-docs)\n" {
		t.Fatalf("entry: %q", lines[2])
	}
}

func TestGenerateEntries_ListStyles(t *testing.T) {
	cfg := config.Default()
	cfg.ListStyle = "unordered"
	lines, err := GenerateEntries([]string{"## Item"}, cfg)
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}
	if lines[2] != "- [Item](#item)\n" {
		t.Fatalf("entry: %q", lines[2])
	}

	cfg.ListStyle = "*"
	if lines, err = GenerateEntries([]string{"## Item"}, cfg); err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}
	if lines[2] != "* [Item](#item)\n" {
		t.Fatalf("entry: %q", lines[2])
	}
}

func TestGenerateEntries_CustomIndent(t *testing.T) {
	cfg := config.Default()
	cfg.IndentChars = "  "
	lines, err := GenerateEntries([]string{"## Top", "### Nested"}, cfg)
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}
	if lines[3] != "  1. [Nested](#nested)\n" {
		t.Fatalf("entry: %q", lines[3])
	}
}

func TestGenerateEntries_PreserveUnicode(t *testing.T) {
	cfg := config.Default()
	cfg.PreserveUnicode = true
	lines, err := GenerateEntries([]string{"## Café"}, cfg)
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}
	if lines[2] != "1. [Café](#café)\n" {
		t.Fatalf("entry: %q", lines[2])
	}
}

func TestGenerateEntries_Deterministic(t *testing.T) {
	headers := []string{"## Header", "## Header", "### Header 1"}
	first, err := GenerateEntries(headers, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}
	second, err := GenerateEntries(headers, config.Default())
	if err != nil {
		t.Fatalf("GenerateEntries: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("outputs differ:\n%q\nvs\n%q", first, second)
	}
}

func TestGenerateEntries_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.ListStyle = "nope"
	if _, err := GenerateEntries(nil, cfg); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err: %v", err)
	}
}

func TestValidateMarkers(t *testing.T) {
	cfg := config.Default()

	if err := ValidateMarkers(0, 4, cfg); err != nil {
		t.Fatalf("ValidateMarkers: %v", err)
	}

	err := ValidateMarkers(4, 4, cfg)
	if err == nil || !strings.Contains(err.Error(), "start marker must come before end marker") {
		t.Fatalf("err: %v", err)
	}
	if err = ValidateMarkers(5, 2, cfg); err == nil {
		t.Fatalf("reversed markers accepted")
	}

	cfg.MaxHeaders = 10
	if err = ValidateMarkers(0, 110, cfg); err != nil {
		t.Fatalf("region at the size limit rejected: %v", err)
	}
	err = ValidateMarkers(0, 111, cfg)
	if err == nil || !strings.Contains(err.Error(), "suspiciously large") {
		t.Fatalf("err: %v", err)
	}
}
