// Package pipeline composes the two stages: normalize a raw record, then
// validate the canonical result. Records are independent, so a batch fans
// out across a bounded pool of workers while each record's processing stays
// synchronous and allocation-local.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"docqc/constants"
	"docqc/internal/normalize"
	"docqc/internal/schema"
	"docqc/internal/validate"
)

// Config holds behavior flags for the processor.
type Config struct {
	// TypeHint covers records without a document_type field.
	TypeHint constants.DocumentType
	// Strict additionally runs the strict pass/fail variant.
	Strict bool
	// Workers bounds ProcessAll's concurrency. Defaults to 4.
	Workers int
}

// Input is one record queued for processing, tagged with its origin.
type Input struct {
	Path   string
	Record schema.Record
}

// Result is the per-record outcome of one pipeline run.
type Result struct {
	JobID      uuid.UUID
	Path       string
	Normalized schema.Record
	Scored     validate.ScoredReport
	Strict     *validate.StrictReport
	Elapsed    time.Duration
}

type Processor struct {
	Logger    *slog.Logger
	Cfg       Config
	Validator *validate.Validator
}

func NewProcessor(logger *slog.Logger, cfg Config, v *validate.Validator) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if v == nil {
		v = validate.New(validate.DefaultPolicy())
	}
	return &Processor{Logger: logger, Cfg: cfg, Validator: v}
}

// ProcessRecord normalizes then validates a single record.
func (p *Processor) ProcessRecord(ctx context.Context, in Input) Result {
	start := time.Now()
	jobID := uuid.New()

	canonical := normalize.Normalize(in.Record, p.Cfg.TypeHint)
	p.Logger.Debug("pipeline.normalize.ok",
		"job_id", jobID,
		"path", in.Path,
		"fields", len(canonical),
	)

	scored := p.Validator.ValidateScored(canonical, p.Cfg.TypeHint)
	var strict *validate.StrictReport
	if p.Cfg.Strict {
		r := p.Validator.ValidateStrict(canonical, p.Cfg.TypeHint)
		strict = &r
	}

	elapsed := time.Since(start)
	p.Logger.Info("pipeline.validate.ok",
		"job_id", jobID,
		"path", in.Path,
		"valid", scored.Valid,
		"confidence", scored.Confidence,
		"level", scored.ConfidenceLevel,
		"errors", len(scored.Errors),
		"warnings", len(scored.Warnings),
		"elapsed_ms", elapsed.Milliseconds(),
	)

	return Result{
		JobID:      jobID,
		Path:       in.Path,
		Normalized: canonical,
		Scored:     scored,
		Strict:     strict,
		Elapsed:    elapsed,
	}
}

// ProcessAll runs every input through the pipeline on a bounded worker pool
// and returns results in input order. A canceled context leaves the
// remaining results zero-valued apart from their paths.
func (p *Processor) ProcessAll(ctx context.Context, inputs []Input) []Result {
	results := make([]Result, len(inputs))
	sem := make(chan struct{}, p.Cfg.Workers)
	var wg sync.WaitGroup

	for i, in := range inputs {
		if ctx.Err() != nil {
			results[i] = Result{Path: in.Path}
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, in Input) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = p.ProcessRecord(ctx, in)
		}(i, in)
	}
	wg.Wait()
	return results
}
