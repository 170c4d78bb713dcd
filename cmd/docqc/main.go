package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"docqc/constants"
	"docqc/internal/common"
	"docqc/internal/export"
	"docqc/internal/ingest"
	"docqc/internal/pipeline"
	"docqc/internal/schema"
	"docqc/internal/validate"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir        = flag.String("dir", "", "directory of extracted .json records to process (required)")
		typeHint   = flag.String("type", "", "document type hint for records without a document_type field")
		out        = flag.String("out", "", "output XLSX file path (optional)")
		strict     = flag.Bool("strict", false, "also run the strict pass/fail validator")
		policyPath = flag.String("policy", "", "YAML policy file overriding tolerance/weights/bands")
		showRecord = flag.Bool("print-normalized", false, "print each normalized record as JSON")
		watch      = flag.Bool("watch", false, "after the initial batch, keep processing new .json files as they appear")
	)
	flag.Parse()

	// .env is optional; real environment always wins.
	_ = godotenv.Load()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	hint := constants.DocumentType("")
	if *typeHint != "" {
		dt, ok := constants.CanonicalizeDocumentType(*typeHint)
		if !ok {
			printError("Error: unknown --type %q (known: %s)\n", *typeHint, strings.Join(constants.DocumentTypes(), ", "))
			os.Exit(1)
		}
		hint = dt
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.Logging.Level),
	}))
	slog.SetDefault(logger)

	policy := validate.DefaultPolicy()
	policyFile := *policyPath
	if policyFile == "" {
		policyFile = cfg.Pipeline.PolicyFile
	}
	if policyFile != "" {
		loaded, err := validate.LoadPolicyFile(policyFile)
		if err != nil {
			logger.Error("policy.load.failed", "path", policyFile, "err", err)
			os.Exit(1)
		}
		policy = loaded
	}

	files, stats, err := ingest.ReadDirectory(*dir, true)
	if err != nil {
		logger.Error("ingest.walk.failed", "dir", *dir, "err", err)
		os.Exit(1)
	}
	logger.Info("ingest.ok",
		"dir", *dir,
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"decoded", stats.Decoded,
		"failed", stats.Failed,
	)

	// Advisory structural pre-check on the raw bytes; the semantic validator
	// still runs either way.
	shapeType := hint
	if shapeType == "" {
		shapeType = constants.DocTypeGeneric
	}
	inputs := make([]pipeline.Input, 0, len(files))
	for _, f := range files {
		if f.Err == "" && len(f.Raw) > 0 {
			if shapeErr := schema.ValidateShape(shapeType, f.Raw); shapeErr != nil {
				logger.Warn("ingest.shape.mismatch", "path", f.Path, "err", shapeErr)
			}
		}
		// Files that failed to decode keep a nil record, which validates
		// into an all-failed, zero-confidence report.
		inputs = append(inputs, pipeline.Input{Path: f.Path, Record: f.Record})
	}

	proc := pipeline.NewProcessor(logger, pipeline.Config{
		TypeHint: hint,
		Strict:   *strict,
		Workers:  cfg.Pipeline.Workers,
	}, validate.New(policy))

	results := proc.ProcessAll(context.Background(), inputs)

	invalid := 0
	needsReview := 0
	for _, r := range results {
		printReport(r, cfg.Pipeline.MinConfidence, *showRecord)
		if !r.Scored.Valid {
			invalid++
		}
		if r.Scored.Confidence < cfg.Pipeline.MinConfidence {
			needsReview++
		}
	}

	fmt.Printf("\nProcessed %d record(s): %d valid, %d invalid", len(results), len(results)-invalid, invalid)
	if cfg.Pipeline.MinConfidence > 0 {
		fmt.Printf(", %d below confidence threshold %.2f", needsReview, cfg.Pipeline.MinConfidence)
	}
	fmt.Println()

	if *out != "" {
		svc := export.NewService(logger)
		data, err := svc.ExportResultsXLSX(results)
		if err != nil {
			logger.Error("export.xlsx.failed", "err", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("export.write.failed", "path", *out, "err", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *out)
	}

	if *watch {
		watchLoop(proc, *dir, cfg.Pipeline.MinConfidence, *showRecord, logger)
		return
	}

	if invalid > 0 {
		os.Exit(1)
	}
}

// watchLoop processes new record files until interrupted. Batch exit codes do
// not apply here; the loop reports each record and keeps going.
func watchLoop(proc *pipeline.Processor, dir string, minConfidence float64, showRecord bool, logger *slog.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	paths, errs, err := ingest.Watch(ctx, ingest.WatchConfig{
		Root:       dir,
		SkipHidden: true,
		Debounce:   300 * time.Millisecond,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("ingest.watch.failed", "dir", dir, "err", err)
		os.Exit(1)
	}
	fmt.Printf("\nWatching %s for new records (Ctrl-C to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if ok && err != nil {
				logger.Warn("ingest.watch.error", "err", err)
			}
		case path, ok := <-paths:
			if !ok {
				return
			}
			rec, err := ingest.ReadRecordFile(path)
			if err != nil {
				logger.Warn("ingest.read.failed", "path", path, "err", err)
			}
			// A failed read leaves rec nil; validation reports it as a
			// structural failure.
			res := proc.ProcessRecord(ctx, pipeline.Input{Path: path, Record: rec})
			printReport(res, minConfidence, showRecord)
		}
	}
}

func printReport(r pipeline.Result, minConfidence float64, showRecord bool) {
	fmt.Printf("\n========== %s ==========\n", filepath.Base(r.Path))

	if r.Scored.Valid {
		color.Green("VALIDATION STATUS: PASSED")
	} else {
		color.Red("VALIDATION STATUS: FAILED")
	}

	fmt.Printf("CONFIDENCE SCORE: %.1f%% (%s)\n", r.Scored.Confidence*100, r.Scored.ConfidenceLevel)
	if minConfidence > 0 && r.Scored.Confidence < minConfidence {
		color.Yellow("NEEDS REVIEW: confidence below %.2f", minConfidence)
	}

	if len(r.Scored.Errors) > 0 {
		fmt.Println("\nERRORS:")
		for _, e := range r.Scored.Errors {
			color.Red("  - %s", e)
		}
	}
	if len(r.Scored.Warnings) > 0 {
		fmt.Println("\nWARNINGS:")
		for _, w := range r.Scored.Warnings {
			color.Yellow("  - %s", w)
		}
	}

	if r.Strict != nil {
		fmt.Printf("\nSTRICT STATUS: %s\n", strings.ToUpper(string(r.Strict.Status)))
		for field, reason := range r.Strict.InvalidFields {
			fmt.Printf("  %s: %s\n", field, reason)
		}
		for _, check := range r.Strict.LogicalChecks {
			fmt.Printf("  logical: %s\n", check)
		}
	}

	if showRecord && r.Normalized != nil {
		enc := json.NewEncoder(os.Stdout)
		// Keep Thai and other non-Latin text readable.
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		fmt.Println("\nNORMALIZED RECORD:")
		_ = enc.Encode(r.Normalized)
	}
}

func logLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
