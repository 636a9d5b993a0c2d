package mdscan

import "testing"

func TestLeadingColumns(t *testing.T) {
	cases := []struct {
		line string
		want int
	}{
		{"", 0},
		{"text", 0},
		{"    text", 4},
		{"\ttext", 4},
		{" \ttext", 4},
		{"   \ttext", 4},
		{"  \t text", 5},
		{"\t\ttext", 8},
	}
	for _, tc := range cases {
		if got := leadingColumns(tc.line); got != tc.want {
			t.Errorf("leadingColumns(%q): got %d, want %d", tc.line, got, tc.want)
		}
	}
}

func TestOpenFence(t *testing.T) {
	fence, ok := openFence("```go\n")
	if !ok || fence.char != '`' || fence.length != 3 || fence.indent != 0 {
		t.Fatalf("got %+v ok=%v", fence, ok)
	}

	fence, ok = openFence("   ~~~python\n")
	if !ok || fence.char != '~' || fence.length != 3 || fence.indent != 3 {
		t.Fatalf("got %+v ok=%v", fence, ok)
	}

	if fence, ok = openFence("`````\n"); !ok || fence.length != 5 {
		t.Fatalf("got %+v ok=%v", fence, ok)
	}

	// Two characters never open a fence.
	if _, ok = openFence("``\n"); ok {
		t.Fatalf("two backticks opened a fence")
	}
	// Four columns of indentation is indented code, not a fence.
	if _, ok = openFence("    ```\n"); ok {
		t.Fatalf("deeply indented fence opened")
	}
	// A tab indents to column four.
	if _, ok = openFence("\t```\n"); ok {
		t.Fatalf("tab-indented fence opened")
	}
	if _, ok = openFence("text\n"); ok {
		t.Fatalf("plain text opened a fence")
	}
	if _, ok = openFence("\n"); ok {
		t.Fatalf("blank line opened a fence")
	}
}

func TestFenceCloses(t *testing.T) {
	fence := fenceInfo{char: '`', length: 3, indent: 0}

	if !fence.closes("```\n") {
		t.Fatalf("matching fence did not close")
	}
	if !fence.closes("`````\n") {
		t.Fatalf("longer run did not close")
	}
	if !fence.closes("```  \n") {
		t.Fatalf("trailing whitespace blocked the close")
	}
	if !fence.closes("   ```\n") {
		t.Fatalf("three extra columns blocked the close")
	}
	if fence.closes("``\n") {
		t.Fatalf("shorter run closed")
	}
	if fence.closes("```go\n") {
		t.Fatalf("info string closed")
	}
	if fence.closes("~~~\n") {
		t.Fatalf("tilde closed a backtick fence")
	}
	if fence.closes("    ```\n") {
		t.Fatalf("four extra columns closed")
	}

	indented := fenceInfo{char: '~', length: 3, indent: 2}
	if !indented.closes("    ~~~\n") {
		t.Fatalf("two extra columns blocked the close")
	}
	if indented.closes("      ~~~x\n") {
		t.Fatalf("trailing content closed")
	}
}
