package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/labreport/internal/catalog"
	"github.com/joseph-ayodele/labreport/internal/interpret"
	"github.com/joseph-ayodele/labreport/internal/pipeline"
	"github.com/joseph-ayodele/labreport/internal/report"
)

const text = `Name : Ms. A
Gender : Female
HAEMATOLOGY:
Platelet Count 120 thou/mm3 150-410
(Electrical Impedence)
MCV 90.0 fL 83-101
`

func analyzed(t *testing.T) pipeline.Report {
	t.Helper()
	parse := pipeline.NewParseStage(interpret.NewEngine(catalog.Builtin()), nil)
	return pipeline.NewProcessor(nil, nil, parse).ProcessText(context.Background(), text)
}

func TestExportReportXLSX(t *testing.T) {
	rep := analyzed(t)
	require.Equal(t, 2, rep.Results.Len())

	b, err := NewService(nil).ExportReportXLSX(context.Background(), rep)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetBasicInfo, SheetResults, SheetInterpretation}, f.GetSheetList())

	info, err := f.GetRows(SheetBasicInfo)
	require.NoError(t, err)
	assert.Equal(t, []string{"Field", "Value"}, info[0])
	assert.Contains(t, info, []string{"Gender", "Female"})

	results, err := f.GetRows(SheetResults)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{"Test", "Result", "Units", "Bio. Ref. Interval", "Analyte", "Classification"}, results[0])
	assert.Equal(t, report.RecordColumns, results[0][1:1+len(report.RecordColumns)])
	assert.Equal(t, []string{"Platelet Count", "120", "thou/mm3", "150-410", "platelet_count", "LOW"}, results[1])
	assert.Equal(t, "(Electrical Impedence)\nMCV", results[2][0])
	assert.Equal(t, "NORMAL", results[2][5])

	interp, err := f.GetRows(SheetInterpretation)
	require.NoError(t, err)
	assert.Equal(t, []string{"Summary", "Platelet count is low (120.0 thou/mm3). Risk of bleeding or bruising."}, interp[1])
	assert.Equal(t, []string{"Summary", "MCV is normal (90.0 fL)."}, interp[2])
	assert.Equal(t, "Precaution", interp[3][0])
}

func TestExportReportXLSX_EmptyReport(t *testing.T) {
	b, err := NewService(nil).ExportReportXLSX(context.Background(), pipeline.Report{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetResults)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
