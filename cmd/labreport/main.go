package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joseph-ayodele/labreport/internal/async"
	"github.com/joseph-ayodele/labreport/internal/catalog"
	"github.com/joseph-ayodele/labreport/internal/common"
	"github.com/joseph-ayodele/labreport/internal/export"
	"github.com/joseph-ayodele/labreport/internal/ingest"
	"github.com/joseph-ayodele/labreport/internal/pipeline"
	"github.com/joseph-ayodele/labreport/internal/report"
)

// watchDebounce lets a copy into the inbox finish before the file is read.
const watchDebounce = 500 * time.Millisecond

const usage = `usage:
  labreport analyze [-text file | -file pdf] [-xlsx path] [-results] [url]
  labreport watch -dir inbox [-out dir] [-workers n] [-scan]
  labreport catalog dump [-from source]
  labreport catalog sync [-from source] -to store
`

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	if len(os.Args) < 2 {
		printError(usage)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	// Logs go to stderr so stdout stays pipeable JSON.
	logger := common.NewLogger(os.Stderr, cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(ctx, cfg, logger, os.Args[2:])
	case "watch":
		err = runWatch(ctx, cfg, logger, os.Args[2:])
	case "catalog":
		err = runCatalog(ctx, cfg, logger, os.Args[2:])
	default:
		printError("unknown command %q\n%s", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		printError("Error: %s\n", common.UserMessage(err))
		os.Exit(1)
	}
}

type analyzeOutput struct {
	pipeline.Report
	Results *report.ResultTable `json:"results,omitempty"`
}

func runAnalyze(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	var (
		textPath    = fs.String("text", "", "analyze already-recognized text from this file instead of a URL")
		filePath    = fs.String("file", "", "analyze a local PDF instead of a URL")
		xlsxPath    = fs.String("xlsx", "", "also write the report workbook to this path")
		withResults = fs.Bool("results", false, "include the raw result table in the output")
		source      = fs.String("catalog", cfg.Catalog.Source, "catalog source")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cat, err := catalog.Load(ctx, *source, logger)
	if err != nil {
		return err
	}
	proc := pipeline.NewFromConfig(cfg, cat, logger)

	var rep pipeline.Report
	switch {
	case *textPath != "":
		data, err := os.ReadFile(*textPath)
		if err != nil {
			return fmt.Errorf("read text: %w", err)
		}
		rep = proc.ProcessText(ctx, string(data))
	case *filePath != "":
		if rep, err = proc.ProcessFile(ctx, *filePath); err != nil {
			return err
		}
	case fs.NArg() == 1:
		if rep, err = proc.Process(ctx, fs.Arg(0)); err != nil {
			return err
		}
	default:
		return errors.New("No PDF URL provided.")
	}

	if *xlsxPath != "" {
		data, err := export.NewService(logger).ExportReportXLSX(ctx, rep)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		logger.Info("workbook written", "path", *xlsxPath, "bytes", len(data))
	}

	out := analyzeOutput{Report: rep}
	if *withResults {
		out.Results = rep.Results
	}
	return writeJSON(os.Stdout, out)
}

func runWatch(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var (
		dir     = fs.String("dir", "", "directory to watch for report PDFs (required)")
		outDir  = fs.String("out", "", "directory for <name>.json reports (defaults to next to each PDF)")
		workers = fs.Int("workers", 2, "number of reports analyzed concurrently")
		scan    = fs.Bool("scan", false, "also analyze PDFs already in the directory")
		source  = fs.String("catalog", cfg.Catalog.Source, "catalog source")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		return errors.New("-dir is required")
	}

	cat, err := catalog.Load(ctx, *source, logger)
	if err != nil {
		return err
	}
	proc := pipeline.NewFromConfig(cfg, cat, logger)

	queue := async.NewQueue(func(ctx context.Context, job async.Job) error {
		rep, err := proc.ProcessFile(common.WithRequestID(ctx, job.ID.String()), job.Path)
		if err != nil {
			return err
		}
		return writeReportFile(reportPath(job.Path, *outDir), rep)
	}, logger, async.WithWorkers(*workers), async.WithProcessTimeout(cfg.Server.RequestTimeout))

	events, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Roots:       []string{*dir},
		InitialScan: *scan,
		Debounce:    watchDebounce,
	}, logger)
	if err != nil {
		return err
	}
	logger.Info("watching", "dir", *dir, "workers", *workers)

	for {
		select {
		case path, ok := <-events:
			if !ok {
				queue.Shutdown(context.Background())
				return nil
			}
			if err := queue.Enqueue(ctx, async.NewJob(path)); err != nil {
				logger.Warn("enqueue failed", "path", path, "error", err)
			}
		case err, ok := <-errs:
			if ok {
				logger.Warn("watch error", "error", err)
			}
		}
	}
}

func runCatalog(ctx context.Context, cfg *common.Config, logger *slog.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("catalog needs a subcommand: dump or sync")
	}
	fs := flag.NewFlagSet("catalog "+args[0], flag.ExitOnError)
	var (
		from = fs.String("from", cfg.Catalog.Source, "catalog source to read")
		to   = fs.String("to", "", "store to write: sqlite://<path> or a postgres DSN")
	)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cat, err := catalog.Load(ctx, *from, logger)
	if err != nil {
		return err
	}

	switch args[0] {
	case "dump":
		b, err := cat.MarshalJSON()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(b, '\n'))
		return err
	case "sync":
		if !catalog.IsStoreSource(*to) {
			return fmt.Errorf("-to must be sqlite://<path> or a postgres DSN, got %q", *to)
		}
		store, err := catalog.OpenStore(ctx, *to, logger)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Sync(ctx, cat); err != nil {
			return err
		}
		logger.Info("catalog synced", "from", *from, "rules", cat.Len(), "version", cat.Version())
		return nil
	default:
		return fmt.Errorf("unknown catalog subcommand %q", args[0])
	}
}

func reportPath(pdfPath, outDir string) string {
	name := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath)) + ".json"
	if outDir == "" {
		return filepath.Join(filepath.Dir(pdfPath), name)
	}
	return filepath.Join(outDir, name)
}

func writeReportFile(path string, rep pipeline.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, rep); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
