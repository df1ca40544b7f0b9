// Package export renders an analyzed report as an XLSX workbook.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/labreport/constants"
	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/pipeline"
	"github.com/joseph-ayodele/labreport/internal/report"
)

// Sheet names, in workbook order.
const (
	SheetBasicInfo      = "Basic Info"
	SheetResults        = "Results"
	SheetInterpretation = "Interpretation"
)

// Service produces XLSX bytes for analyzed reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportReportXLSX returns a workbook with the basic info, the raw result table with each
// row's classification, and the summary and precaution sentences.
func (s *Service) ExportReportXLSX(ctx context.Context, rep pipeline.Report) ([]byte, error) {
	start := time.Now()
	logger := common.LoggerFromContext(ctx, s.logger)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("export.xlsx.close_error", "error", err)
		}
	}()

	// The default sheet becomes the first one.
	if err := f.SetSheetName(f.GetSheetName(0), SheetBasicInfo); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetResults, SheetInterpretation} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, fmt.Errorf("wrap style: %w", err)
	}

	// Basic Info
	rows := [][]any{{"Field", "Value"}}
	for _, fld := range rep.BasicInfo {
		rows = append(rows, []any{fld.Name, fld.Value})
	}
	if err := writeRows(f, SheetBasicInfo, rows, bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetBasicInfo, "A", "A", 18)
	_ = f.SetColWidth(SheetBasicInfo, "B", "B", 48)

	// Results
	classes := make(map[string]constants.Classification)
	analytes := make(map[string]constants.Analyte)
	for _, ev := range rep.Evaluations {
		classes[ev.Key] = ev.Class
		analytes[ev.Key] = ev.Analyte
	}
	header := []any{"Test"}
	for _, c := range report.RecordColumns {
		header = append(header, c)
	}
	rows = [][]any{append(header, "Analyte", "Classification")}
	resultRows := 0
	if rep.Results != nil {
		for _, key := range rep.Results.Keys() {
			rec, _ := rep.Results.Get(key)
			rows = append(rows, []any{
				key, rec.Result, rec.Units, rec.Interval,
				string(analytes[key]), string(classes[key]),
			})
		}
		resultRows = rep.Results.Len()
	}
	if err := writeRows(f, SheetResults, rows, bold); err != nil {
		return nil, err
	}
	if resultRows > 0 {
		last, _ := excelize.CoordinatesToCellName(1, resultRows+1)
		_ = f.SetCellStyle(SheetResults, "A2", last, wrap)
	}
	_ = f.SetColWidth(SheetResults, "A", "A", 40) // test block
	_ = f.SetColWidth(SheetResults, "B", "C", 12)
	_ = f.SetColWidth(SheetResults, "D", "D", 20)
	_ = f.SetColWidth(SheetResults, "E", "F", 22)

	// Interpretation
	rows = [][]any{{"Type", "Text"}}
	for _, line := range rep.Summary {
		rows = append(rows, []any{"Summary", line})
	}
	for _, line := range rep.Precautions {
		rows = append(rows, []any{"Precaution", line})
	}
	if err := writeRows(f, SheetInterpretation, rows, bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(SheetInterpretation, "A", "A", 14)
	_ = f.SetColWidth(SheetInterpretation, "B", "B", 100)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"fields", len(rep.BasicInfo),
		"results", resultRows,
		"summary", len(rep.Summary),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		end, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err := f.SetCellStyle(sheet, "A1", end, headerStyle); err != nil {
			return fmt.Errorf("style %s header: %w", sheet, err)
		}
	}
	return nil
}
