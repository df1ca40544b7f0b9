package ocr

import (
	"regexp"
)

var (
	reCRLF     = regexp.MustCompile(`\r\n?`)
	reBoxNoise = regexp.MustCompile(`(?m)^[ \t]*[_=]{3,}[ \t]*$`)
)

// Normalize unifies line endings and drops ruled separator lines.
// Spacing inside lines is kept: the result extractor depends on it.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	return reBoxNoise.ReplaceAllString(s, "")
}
