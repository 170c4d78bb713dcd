package export

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"docqc/internal/pipeline"
)

// Service produces XLSX bytes summarizing a batch of validation results.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportResultsXLSX returns an XLSX workbook (as bytes) with one row per
// processed record.
func (s *Service) ExportResultsXLSX(results []pipeline.Result) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Validation"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"File",
		"Document Type",
		"Status",
		"Confidence",
		"Confidence Level",
		"Errors",
		"Warnings",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		status := "valid"
		if !r.Scored.Valid {
			status = "invalid"
		}
		docType := ""
		if dt, ok := r.Normalized["document_type"].(string); ok {
			docType = dt
		}

		write(1, filepath.Base(r.Path))
		write(2, docType)
		write(3, status)
		write(4, fmt.Sprintf("%.2f", r.Scored.Confidence))
		write(5, string(r.Scored.ConfidenceLevel))
		write(6, truncate(strings.Join(r.Scored.Errors, "; "), 200))
		write(7, truncate(strings.Join(r.Scored.Warnings, "; "), 200))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 32) // file
	_ = f.SetColWidth(sheet, "B", "C", 16)
	_ = f.SetColWidth(sheet, "D", "E", 14)
	_ = f.SetColWidth(sheet, "F", "G", 60) // messages

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// truncate caps s at roughly n bytes, cutting on a rune boundary so
// multi-byte text (Thai messages in particular) stays valid UTF-8.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n - 1
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
