// Package toc renders the table-of-contents block from parsed header lines
// and validates discovered marker positions before any file mutation.
package toc

import (
	"fmt"
	"strings"

	"github.com/toc-markdown/toc-markdown/internal/config"
	"github.com/toc-markdown/toc-markdown/internal/mdscan"
	"github.com/toc-markdown/toc-markdown/internal/slug"
)

// tocSlackLines is the room allowed beyond one line per header for markers,
// the TOC header, and blank lines when judging a region's size.
const tocSlackLines = 100

// GenerateEntries renders TOC lines from header lines, in order, framed by
// the configured markers and header text. Each line ends with a newline.
//
// Anchor slugs are deduplicated GitHub-style: the first occurrence of a base
// slug gets no suffix, later ones get "-1", "-2", and so on. A counter per
// base slug gives the next candidate in O(1); a set of slugs already emitted
// then resolves cascading collisions, where a later header's base slug lands
// on an already-suffixed slug (headers "Header", "Header", "Header 1" yield
// header, header-1, header-1-1).
func GenerateEntries(headers []string, cfg config.Config) ([]string, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(headers)+3)
	lines = append(lines, cfg.StartMarker+"\n", cfg.HeaderText+"\n\n")

	counters := make(map[string]int)
	used := make(map[string]struct{})

	for _, heading := range headers {
		// Count only the leading '#' run, not every '#' in the line.
		level := len(heading) - len(strings.TrimLeft(heading, "#"))
		title := strings.TrimSpace(heading[level:])
		title = mdscan.StripMarkdownLinks(title)
		base := slug.Generate(title, cfg.PreserveUnicode)

		count := counters[base]
		link := base
		if count > 0 {
			link = fmt.Sprintf("%s-%d", base, count)
		}
		for {
			if _, taken := used[link]; !taken {
				break
			}
			count++
			link = fmt.Sprintf("%s-%d", base, count)
		}
		counters[base] = count + 1
		used[link] = struct{}{}

		indent := ""
		if level > cfg.MinLevel {
			indent = strings.Repeat(cfg.IndentChars, level-cfg.MinLevel)
		}
		lines = append(lines, fmt.Sprintf("%s%s [%s](#%s)\n", indent, cfg.ListStyle, title, link))
	}

	lines = append(lines, cfg.EndMarker+"\n")
	return lines, nil
}

// ValidateMarkers checks discovered marker indices (zero-based) before the
// caller splices the document: the start marker must precede the end marker,
// and the region between them must not be suspiciously large.
func ValidateMarkers(startLine, endLine int, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if startLine >= endLine {
		return fmt.Errorf(
			"invalid TOC markers: start marker at line %d, end marker at line %d; start marker must come before end marker",
			startLine+1, endLine+1)
	}
	if size := endLine - startLine; size > cfg.MaxHeaders+tocSlackLines {
		return fmt.Errorf("TOC section is suspiciously large (%d lines)", size)
	}
	return nil
}
