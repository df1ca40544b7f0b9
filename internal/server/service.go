package server

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/pipeline"
)

// ReportService is the gRPC counterpart of POST /extract-info. Requests and responses are
// google.protobuf.Struct values with the same field names as the JSON API.
type ReportService struct {
	proc   Processor
	logger *slog.Logger
}

func NewReportService(proc Processor, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{proc: proc, logger: logger}
}

// ExtractInfo implements ReportServiceServer
func (s *ReportService) ExtractInfo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, _ = common.EnsureRequestID(ctx)
	logger := common.LoggerFromContext(ctx, s.logger)

	url := strings.TrimSpace(req.GetFields()["pdf_url"].GetStringValue())
	if url == "" {
		logger.Error("extract request missing pdf_url")
		return nil, common.InvalidArgumentError(errNoURL)
	}

	rep, err := s.proc.Process(ctx, url)
	if err != nil {
		logger.Error("grpc.extract.failed", "url", url, "err", err)
		return nil, common.ToStatus(err)
	}

	out, err := reportStruct(rep)
	if err != nil {
		logger.Error("grpc.extract.encode_failed", "err", err)
		return nil, common.InternalErrorf("encode report: %v", err)
	}
	return out, nil
}

func reportStruct(rep pipeline.Report) (*structpb.Struct, error) {
	info := make(map[string]any, len(rep.BasicInfo))
	for _, f := range rep.BasicInfo {
		info[f.Name] = f.Value
	}
	return structpb.NewStruct(map[string]any{
		"basic_info":  info,
		"summary":     stringsToAny(rep.Summary),
		"precautions": stringsToAny(rep.Precautions),
	})
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
