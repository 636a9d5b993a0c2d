package mdscan

import (
	"fmt"
	"strings"
)

// IsEscaped reports whether the character at pos is escaped, that is,
// preceded by an odd number of consecutive backslashes.
func IsEscaped(text string, pos int) bool {
	count := 0
	for i := pos - 1; i >= 0 && text[i] == '\\'; i-- {
		count++
	}
	return count%2 == 1
}

// FindInlineCodeSpans returns the [start, end) byte offsets of every inline
// code span in text. Per CommonMark, a span opens with an unescaped run of N
// backticks and closes at the next unescaped run of exactly N backticks;
// unmatched or mismatched-length runs are not spans.
func FindInlineCodeSpans(text string) [][2]int {
	var spans [][2]int

	i := 0
	for i < len(text) {
		if text[i] != '`' || IsEscaped(text, i) {
			i++
			continue
		}

		start := i
		open := 0
		for i < len(text) && text[i] == '`' {
			open++
			i++
		}

		for i < len(text) {
			if text[i] == '`' && !IsEscaped(text, i) {
				run := 0
				for i < len(text) && text[i] == '`' {
					run++
					i++
				}
				if run == open {
					spans = append(spans, [2]int{start, i})
					break
				}
				// Shorter or longer runs are span content; keep looking.
			} else {
				i++
			}
		}
	}

	return spans
}

// StripMarkdownLinks removes Markdown link and image syntax from text,
// keeping only the link text. Inline code spans are preserved verbatim,
// including their backticks. The scan uses explicit bracket and paren depth
// counters rather than a regexp so that URLs and link text containing
// balanced nested brackets or parentheses are handled without backtracking.
//
// Handled forms: [text](url), ![alt](src), [text](<url with spaces>),
// [text][ref] and [text][]. A '[' preceded by an escaped '!' (a literal
// "\!") is never treated as an image or link.
func StripMarkdownLinks(text string) string {
	spans := FindInlineCodeSpans(text)

	// Swap each code span for an opaque placeholder so the link scan cannot
	// alter its content, then restore the originals at the end.
	var protected []string
	var withPlaceholders strings.Builder
	offset := 0
	for _, span := range spans {
		withPlaceholders.WriteString(text[offset:span[0]])
		protected = append(protected, text[span[0]:span[1]])
		fmt.Fprintf(&withPlaceholders, "\x00CODE_%d\x00", len(protected)-1)
		offset = span[1]
	}
	withPlaceholders.WriteString(text[offset:])
	s := withPlaceholders.String()

	result := make([]byte, 0, len(s))

	i := 0
	for i < len(s) {
		if s[i] != '[' || IsEscaped(s, i) {
			result = append(result, s[i])
			i++
			continue
		}

		// A '[' whose preceding '!' is itself escaped stays literal text,
		// along with everything that follows at this position.
		if i > 0 && s[i-1] == '!' && IsEscaped(s, i-1) {
			result = append(result, s[i])
			i++
			continue
		}

		isImage := i > 0 && s[i-1] == '!' && !IsEscaped(s, i-1)

		// Find the matching ']', tracking nested brackets and skipping
		// escaped characters.
		j := i + 1
		depth := 1
		for j < len(s) && depth > 0 {
			switch {
			case s[j] == '\\' && j+1 < len(s):
				j += 2
			case s[j] == '[':
				depth++
				j++
			case s[j] == ']':
				depth--
				j++
			default:
				j++
			}
		}

		if depth == 0 && j < len(s) {
			linkText := s[i+1 : j-1]

			matched := false
			var end int
			switch s[j] {
			case '(':
				end, matched = matchInlineTarget(s, j+1)
			case '[':
				end, matched = matchReferenceLabel(s, j+1)
			}

			if matched {
				// For images the '!' was already emitted; take it back.
				if isImage && len(result) > 0 && result[len(result)-1] == '!' {
					result = result[:len(result)-1]
				}
				result = append(result, linkText...)
				i = end
				continue
			}
		}

		// Not a valid link; the '[' is literal.
		result = append(result, s[i])
		i++
	}

	out := string(result)
	for idx, code := range protected {
		out = strings.ReplaceAll(out, fmt.Sprintf("\x00CODE_%d\x00", idx), code)
	}
	return out
}

// matchInlineTarget scans a link target starting just past the opening '('.
// It returns the offset one past the closing ')' when the target is valid.
// Targets either use paren-depth counting, or, when they start with '<', run
// to the matching unescaped '>' followed by optional whitespace and ')'.
func matchInlineTarget(s string, k int) (int, bool) {
	if k < len(s) && s[k] == '<' {
		k++
		for k < len(s) && s[k] != '>' {
			if s[k] == '\\' && k+1 < len(s) {
				k += 2
			} else {
				k++
			}
		}
		if k < len(s) && s[k] == '>' {
			k++
			for k < len(s) && (s[k] == ' ' || s[k] == '\t') {
				k++
			}
			if k < len(s) && s[k] == ')' {
				return k + 1, true
			}
		}
		return 0, false
	}

	depth := 1
	for k < len(s) && depth > 0 {
		switch {
		case s[k] == '\\' && k+1 < len(s):
			k += 2
		case s[k] == '(':
			depth++
			k++
		case s[k] == ')':
			depth--
			k++
		default:
			k++
		}
	}
	if depth == 0 {
		return k, true
	}
	return 0, false
}

// matchReferenceLabel scans a reference label starting just past the second
// '[' of a [text][ref] construct and returns the offset one past its ']'.
func matchReferenceLabel(s string, k int) (int, bool) {
	for k < len(s) && s[k] != ']' {
		if s[k] == '\\' && k+1 < len(s) {
			k += 2
		} else {
			k++
		}
	}
	if k < len(s) && s[k] == ']' {
		return k + 1, true
	}
	return 0, false
}
