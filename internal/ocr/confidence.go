package ocr

import (
	"regexp"
	"strings"
)

var (
	reDate       = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	reResultLine = regexp.MustCompile(`\d+(\.\d+)?\s+(g/dl|%|fl|pg|thou/mm3|mill/mm3)`)
	reLabNo      = regexp.MustCompile(`lab no\.?\s*:`)
)

var cbcMarkers = []string{"hemoglobin", "platelet", "leukocyte", "mcv", "rdw"}

func hasDatePattern(s string) bool       { return reDate.MatchString(s) }
func hasResultLinePattern(s string) bool { return reResultLine.MatchString(s) }
func hasLabNoPattern(s string) bool      { return reLabNo.MatchString(s) }

// HeuristicConfidence scores 0..1 how much recognized text looks like a CBC report.
func HeuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.1) // base
	if hasDatePattern(txtL) {
		score += 0.15
	}
	if hasLabNoPattern(txtL) {
		score += 0.15
	}
	if hasResultLinePattern(txtL) {
		score += 0.2
	}
	for _, m := range cbcMarkers {
		if strings.Contains(txtL, m) {
			score += 0.08
		}
	}
	if len(txt) > 400 {
		score += 0.05
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
