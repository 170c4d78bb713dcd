package export

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docqc/constants"
	"docqc/internal/pipeline"
	"docqc/internal/schema"
	"docqc/internal/validate"
)

func TestExportResultsXLSX(t *testing.T) {
	results := []pipeline.Result{
		{
			Path: "/batch/inv-001.json",
			Normalized: schema.Record{
				"document_type": "invoice",
			},
			Scored: validate.ScoredReport{
				Valid:           true,
				Errors:          []string{},
				Warnings:        []string{"Missing important field: vendor_name"},
				Confidence:      0.87,
				ConfidenceLevel: constants.ConfidenceMedium,
			},
		},
		{
			Path:       "/batch/inv-002.json",
			Normalized: schema.Record{},
			Scored: validate.ScoredReport{
				Valid:           false,
				Errors:          []string{"Missing required field: total_amount"},
				Warnings:        []string{},
				Confidence:      0.31,
				ConfidenceLevel: constants.ConfidenceVeryLow,
			},
		},
	}

	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))
	data, err := svc.ExportResultsXLSX(results)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Validation")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"File", "Document Type", "Status", "Confidence", "Confidence Level", "Errors", "Warnings",
	}, rows[0])

	assert.Equal(t, "inv-001.json", rows[1][0])
	assert.Equal(t, "invoice", rows[1][1])
	assert.Equal(t, "valid", rows[1][2])
	assert.Equal(t, "0.87", rows[1][3])
	assert.Equal(t, "Medium", rows[1][4])

	assert.Equal(t, "inv-002.json", rows[2][0])
	assert.Equal(t, "invalid", rows[2][2])
	assert.Equal(t, "Very Low", rows[2][4])
	assert.Equal(t, "Missing required field: total_amount", rows[2][5])
}

func TestExportResultsXLSXEmpty(t *testing.T) {
	svc := NewService(nil)
	data, err := svc.ExportResultsXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Validation")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("", 5))

	// A cut landing inside a multi-byte rune must back off to the rune
	// boundary instead of emitting a broken byte sequence.
	thai := `Field "vendor_name": บริษัท ทดสอบ จำกัด does not reconcile`
	for n := 1; n < len(thai); n++ {
		got := truncate(thai, n)
		assert.True(t, utf8.ValidString(got), "truncate(%q, %d) = %q is not valid UTF-8", thai, n, got)
	}
	assert.Equal(t, "บริษัท…", truncate("บริษัททดสอบ", 19))
}
