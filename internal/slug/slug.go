// Package slug derives URL-fragment anchor identifiers from Markdown header
// titles, following the GitHub anchor convention.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// strippedPunctuation is the ASCII punctuation removed from slugs. Hyphen
// and underscore stay; non-ASCII symbols such as emoji are kept when
// preserveUnicode is set, matching the GitHub anchor convention.
const strippedPunctuation = "!\"#$%&'()*+,./:;<=>?@[\\]^`{|}~"

// Generate converts a header title into an anchor slug. When preserveUnicode
// is false the title is compatibility-decomposed and every non-ASCII code
// point is dropped ("é" becomes "e"); when true the composed Unicode text is
// kept. Either way the result is case folded, stripped of punctuation other
// than '-' and '_', and whitespace runs collapse into single hyphens.
//
// Generate never returns an empty string: a title that slugs to nothing
// yields "untitled". The function is idempotent and pure.
func Generate(title string, preserveUnicode bool) string {
	var normalized string
	if preserveUnicode {
		normalized = norm.NFKC.String(title)
	} else {
		decomposed := norm.NFKD.String(title)
		var ascii strings.Builder
		ascii.Grow(len(decomposed))
		for _, r := range decomposed {
			if r < 128 {
				ascii.WriteRune(r)
			}
		}
		normalized = ascii.String()
	}

	folded := cases.Fold().String(normalized)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if unicode.IsSpace(r) || r == '-' {
			pendingHyphen = true
			continue
		}
		if strings.ContainsRune(strippedPunctuation, r) {
			continue
		}
		// Emitting the separator lazily collapses runs and trims the ends.
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteRune(r)
	}

	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
