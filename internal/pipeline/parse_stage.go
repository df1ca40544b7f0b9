package pipeline

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/interpret"
	"github.com/joseph-ayodele/labreport/internal/report"
)

// ParseStage runs the in-process stages over recognized text. It never fails: missing
// fields and results simply produce a smaller report.
type ParseStage struct {
	Engine *interpret.Engine
	Logger *slog.Logger
}

func NewParseStage(engine *interpret.Engine, logger *slog.Logger) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{Engine: engine, Logger: logger}
}

// Run extracts basic info and results from text and interprets the results.
func (s *ParseStage) Run(ctx context.Context, text string) Report {
	logger := common.LoggerFromContext(ctx, s.Logger)

	info := report.ExtractFields(text)
	results := report.ExtractResults(text)
	logger.Info("pipeline.extract.ok", "fields", len(info), "results", results.Len())

	interp := s.Engine.Interpret(results)
	invalid := 0
	for _, ev := range interp.Evaluations {
		if ev.Err != nil {
			invalid++
		}
	}
	logger.Info("pipeline.interpret.ok",
		"evaluations", len(interp.Evaluations),
		"invalid", invalid,
		"summary", len(interp.Summary),
		"precautions", len(interp.Precautions),
		"catalog_version", s.Engine.Catalog().Version(),
	)

	return Report{
		BasicInfo:   info,
		Summary:     interp.Summary,
		Precautions: interp.Precautions,
		Results:     results,
		Evaluations: interp.Evaluations,
		Text:        text,
	}
}
