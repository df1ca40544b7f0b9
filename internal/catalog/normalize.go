package catalog

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/labreport/constants"
)

var (
	reParenthetical = regexp.MustCompile(`\([^()]*\)`)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

// NormalizeKey reduces an OCR analyte block to a comparable analyte name.
// Parenthesized annotations (technique, method, abbreviations) are dropped, the last
// non-empty line is kept since panel and header lines precede the analyte name, and
// whitespace is collapsed and lowercased.
func NormalizeKey(key string) string {
	s := reParenthetical.ReplaceAllString(key, " ")
	lines := strings.Split(s, "\n")
	last := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			last = l
			break
		}
	}
	last = reWhitespace.ReplaceAllString(last, " ")
	return strings.ToLower(strings.Trim(last, " :;-"))
}

func normalizeUnit(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// analyteID canonicalizes known CBC analytes ("Platelet Count" -> platelet_count) and keeps
// custom identifiers as written.
func analyteID(s string) constants.Analyte {
	if a, ok := constants.ParseAnalyte(s); ok {
		return a
	}
	return constants.Analyte(strings.TrimSpace(s))
}
