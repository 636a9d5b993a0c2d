// Package mdscan provides the line-level Markdown structure scanner used to
// locate headers and the managed table-of-contents region. It recognises the
// CommonMark-adjacent subset needed for that job: fenced code blocks,
// indented code blocks, ATX headers, and the configured TOC marker lines.
package mdscan

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/toc-markdown/toc-markdown/internal/config"
)

// ParseResult holds the outcome of one parse. Lines preserves every original
// line including its line-ending characters so the caller can splice the
// document back together byte-exactly. Headers are verbatim header lines
// (leading '#' characters included, line endings stripped) in document
// order. TOCStart and TOCEnd are zero-based marker line indices, -1 when the
// marker was not found.
type ParseResult struct {
	Lines    []string
	Headers  []string
	TOCStart int
	TOCEnd   int
}

// HasTOC reports whether both TOC markers were found.
func (r *ParseResult) HasTOC() bool {
	return r.TOCStart >= 0 && r.TOCEnd >= 0
}

// LineTooLongError reports a line outside code blocks and the TOC region
// that exceeds the configured maximum length.
type LineTooLongError struct {
	Line  int // 1-based
	Limit int
}

func (e *LineTooLongError) Error() string {
	return fmt.Sprintf("line %d exceeds maximum allowed length of %d characters", e.Line, e.Limit)
}

// TooManyHeadersError reports a document with more headers than allowed.
type TooManyHeadersError struct {
	Limit int
}

func (e *TooManyHeadersError) Error() string {
	return fmt.Sprintf("too many headers (limit: %d)", e.Limit)
}

// Parse scans content and extracts headers and TOC marker positions.
//
// The scan runs in two passes sharing the same fence and indentation rules.
// Pass one only locates validly paired TOC marker intervals, ignoring
// markers embedded in fenced or indented code; lines inside those intervals
// are then exempt from the line-length limit and from header matching, since
// a rendered TOC legitimately contains long link lines. Pass two runs the
// full state machine and collects headers, enforcing the length and header
// count limits as it goes.
//
// Parse is a pure function of (content, cfg): no I/O, deterministic output.
func Parse(content string, cfg config.Config) (*ParseResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pattern, err := headerPattern(cfg.MinLevel, cfg.MaxLevel)
	if err != nil {
		return nil, err
	}

	lines := splitLines(content)
	inTOC := tocIntervals(lines, cfg)

	result := &ParseResult{Lines: lines, TOCStart: -1, TOCEnd: -1}

	ctx := scanContext{state: stateNormal}
	for n, line := range lines {
		if ctx.state == stateFencedCode {
			if ctx.fence.closes(line) {
				ctx.state = stateNormal
				ctx.fence = fenceInfo{}
			}
			// Either way the line belongs to the code block.
			continue
		}

		if fence, ok := openFence(line); ok {
			ctx.state = stateFencedCode
			ctx.fence = fence
			continue
		}

		if leadingColumns(line) >= 4 {
			ctx.state = stateIndentedCode
			continue
		}
		if ctx.state == stateIndentedCode {
			// Blank lines continue an indented block; anything else ends it
			// and the line is processed normally below.
			if strings.TrimSpace(line) == "" {
				continue
			}
			ctx.state = stateNormal
		}

		if strings.HasPrefix(line, cfg.HeaderText) {
			continue
		}

		if !inTOC[n] {
			stripped := trimLineEnding(line)
			if utf8.RuneCountInString(stripped) > cfg.MaxLineLength {
				return nil, &LineTooLongError{Line: n + 1, Limit: cfg.MaxLineLength}
			}
			if pattern.MatchString(stripped) {
				result.Headers = append(result.Headers, stripped)
				if len(result.Headers) > cfg.MaxHeaders {
					return nil, &TooManyHeadersError{Limit: cfg.MaxHeaders}
				}
			}
		}

		if result.TOCStart < 0 && strings.HasPrefix(line, cfg.StartMarker) {
			result.TOCStart = n
		}
		if result.TOCEnd < 0 && strings.HasPrefix(line, cfg.EndMarker) {
			result.TOCEnd = n
		}
	}

	return result, nil
}

// tocIntervals runs the pre-pass: it reports, per line, whether the line
// lies inside a validly paired start/end marker region. Markers are paired
// by textual position through a stack, so identically named regions nest,
// and fence and indentation tracking keeps fake markers inside code blocks
// from ever being counted.
func tocIntervals(lines []string, cfg config.Config) []bool {
	inTOC := make([]bool, len(lines))

	type interval struct{ start, end int }
	var intervals []interval
	var stack []int

	ctx := scanContext{state: stateNormal}
	for n, line := range lines {
		if ctx.state == stateFencedCode {
			if ctx.fence.closes(line) {
				ctx.state = leaveCode(stack)
				ctx.fence = fenceInfo{}
			}
			continue
		}

		if ctx.state == stateIndentedCode {
			if strings.TrimSpace(line) == "" || leadingColumns(line) >= 4 {
				continue
			}
			ctx.state = leaveCode(stack)
		}

		if fence, ok := openFence(line); ok {
			ctx.state = stateFencedCode
			ctx.fence = fence
			continue
		}

		if ctx.state == stateNormal && leadingColumns(line) >= 4 {
			ctx.state = stateIndentedCode
			continue
		}

		if strings.HasPrefix(line, cfg.StartMarker) {
			stack = append(stack, n)
			ctx.state = stateTOC
		}
		if strings.HasPrefix(line, cfg.EndMarker) && len(stack) > 0 {
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			intervals = append(intervals, interval{start: start, end: n})
			ctx.state = leaveCode(stack)
		}
	}

	for _, iv := range intervals {
		// The start marker line itself stays subject to normal checks; the
		// lines after it through the end marker line are covered.
		for i := iv.start + 1; i <= iv.end && i < len(lines); i++ {
			inTOC[i] = true
		}
	}

	return inTOC
}

// leaveCode returns the state to resume after a code block or marker region
// ends, depending on whether a TOC region is still open.
func leaveCode(stack []int) scanState {
	if len(stack) > 0 {
		return stateTOC
	}
	return stateNormal
}

// headerPattern compiles the ATX header matcher for the configured level
// bounds: a bounded run of '#' followed by at least one space or tab.
// Multiple separators and empty titles are valid, per CommonMark.
func headerPattern(minLevel, maxLevel int) (*regexp.Regexp, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^#{%d,%d}[ \t](.*)$`, minLevel, maxLevel))
	if err != nil {
		return nil, fmt.Errorf("compile header pattern: %w", err)
	}
	return pattern, nil
}

// splitLines splits content into lines, each keeping its trailing newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i+1])
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// trimLineEnding removes one trailing "\n" and, when present, a "\r" before
// it.
func trimLineEnding(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
