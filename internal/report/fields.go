package report

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/labreport/constants"
)

type fieldPattern struct {
	name string
	re   *regexp.Regexp
	// timeName, when set, receives capture group 2.
	timeName string
}

const dateTimeTail = `\s*:\s*(\d{1,2}/\d{1,2}/\d{4})(?:\s*(\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM)))?`

var fieldPatterns = []fieldPattern{
	{name: constants.FieldName, re: regexp.MustCompile(`Name\s*\s*(.*)`)},
	{name: constants.FieldLabNo, re: regexp.MustCompile(`Lab No\.\s*:\s*(\d+)`)},
	{name: constants.FieldAge, re: regexp.MustCompile(`Age\s*:\s*(\d+)\s*Years`)},
	{name: constants.FieldRefBy, re: regexp.MustCompile(`Ref By\s*:\s*(.*)`)},
	{name: constants.FieldGender, re: regexp.MustCompile(`Gender\s*:\s*(\w+)`)},
	{name: constants.FieldCollected, re: regexp.MustCompile(`Collected` + dateTimeTail), timeName: constants.FieldCollectedTime},
	{name: constants.FieldReported, re: regexp.MustCompile(`Reported` + dateTimeTail), timeName: constants.FieldReportedTime},
	{name: constants.FieldAcStatus, re: regexp.MustCompile(`A/c Status\s*:\s*(\w+)`)},
	{name: constants.FieldReportStatus, re: regexp.MustCompile(`Report Status\s*:\s*(\w+)`)},
	{name: constants.FieldCollectedAt, re: regexp.MustCompile(`Collected at\s*:\s*(.*)`)},
	{name: constants.FieldProcessedAt, re: regexp.MustCompile(`Processed at\s*:\s*(.*)`)},
}

// ExtractFields pulls the fixed basic-info fields out of text.
// Each pattern contributes its first match only; unmatched fields are omitted.
func ExtractFields(text string) BasicInfo {
	info := BasicInfo{}
	for _, p := range fieldPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		info = append(info, Field{Name: p.name, Value: strings.TrimSpace(m[1])})
		if p.timeName != "" && len(m) > 2 && m[2] != "" {
			info = append(info, Field{Name: p.timeName, Value: strings.TrimSpace(m[2])})
		}
	}
	return info
}
