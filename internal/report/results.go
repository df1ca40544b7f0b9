package report

import (
	"regexp"
	"strings"
)

// resultPattern matches "<analyte block> <result> <unit> <interval>".
// The analyte block is deliberately permissive: OCR wraps technique annotations, panel
// names and header lines into it with no reliable delimiter.
var resultPattern = regexp.MustCompile(`([\w\s()\-;]+)\s+([\d.]+)\s+([\w/%.\-]+)\s+([\d.<>\-\s]+)`)

// ExtractResults scans text for result line groups, leftmost and non-overlapping.
// A later match with an identical key replaces the earlier record.
func ExtractResults(text string) *ResultTable {
	table := NewResultTable()
	for _, m := range resultPattern.FindAllStringSubmatch(text, -1) {
		table.Set(strings.TrimSpace(m[1]), TestRecord{
			Result:   strings.TrimSpace(m[2]),
			Units:    strings.TrimSpace(m[3]),
			Interval: strings.TrimSpace(m[4]),
		})
	}
	return table
}
