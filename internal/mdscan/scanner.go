package mdscan

import "strings"

// scanState is the block-structure scanner state. The scanner is re-entrant
// per line and has no terminal state; scanning ends with the input.
type scanState int

const (
	stateNormal scanState = iota
	stateFencedCode
	stateIndentedCode
	stateTOC
)

// closingFenceMaxIndent is the extra indentation, in columns, that a closing
// fence may have beyond its opening fence. Mirrors common Markdown renderers
// so code boundaries are neither under- nor over-matched.
const closingFenceMaxIndent = 3

// fenceInfo records the fence that opened the current fenced code block.
type fenceInfo struct {
	char   byte // '`' or '~'
	length int  // run length of the opening fence
	indent int  // indentation columns of the opening fence
}

// scanContext is the mutable per-pass scanner state: created fresh at scan
// start, mutated line by line, discarded at scan end. The document parser
// uses two independent instances, one per pass.
type scanContext struct {
	state scanState
	fence fenceInfo
}

// leadingColumns returns the visual column count of the line's leading
// whitespace. Tabs advance to the next multiple of four columns, matching
// Markdown indentation rules.
func leadingColumns(line string) int {
	columns := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			columns++
		case '\t':
			columns += 4 - columns%4
		default:
			return columns
		}
	}
	return columns
}

// openFence reports whether the line opens a fenced code block: at most three
// columns of indentation followed by a run of three or more identical
// backtick or tilde characters and an arbitrary info string. A two-character
// run never opens a fence.
func openFence(line string) (fenceInfo, bool) {
	indent := leadingColumns(line)
	if indent > 3 {
		return fenceInfo{}, false
	}
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) == 0 {
		return fenceInfo{}, false
	}
	char := trimmed[0]
	if char != '`' && char != '~' {
		return fenceInfo{}, false
	}
	run := 0
	for run < len(trimmed) && trimmed[run] == char {
		run++
	}
	if run < 3 {
		return fenceInfo{}, false
	}
	return fenceInfo{char: char, length: run, indent: indent}, true
}

// closes reports whether the line closes this fence: the same character, a
// run at least as long as the opening one, nothing but whitespace after the
// run, and no more than three columns of indentation beyond the opening
// fence. Tilde and backtick fences never close each other.
func (f fenceInfo) closes(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	if len(trimmed) == 0 || trimmed[0] != f.char {
		return false
	}
	run := 0
	for run < len(trimmed) && trimmed[run] == f.char {
		run++
	}
	if run < f.length {
		return false
	}
	if strings.TrimSpace(trimmed[run:]) != "" {
		return false
	}
	return leadingColumns(line)-f.indent <= closingFenceMaxIndent
}
