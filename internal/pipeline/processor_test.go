package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqc/constants"
	"docqc/internal/schema"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rawInvoice(number string) schema.Record {
	return schema.Record{
		"document_type":  "invoice",
		"invoice_number": number,
		"invoice_date":   "15/05/2023",
		"due_date":       "15/06/2023",
		"tax_amount":     "10.00",
		"total_amount":   "999.99", // header lies; recomputed from items
		"line_items": []any{
			map[string]any{"description": "A", "amount": "60.00 ฿"},
			map[string]any{"description": "B", "amount": 40.0},
		},
	}
}

func TestProcessRecord(t *testing.T) {
	p := NewProcessor(discardLogger(), Config{Strict: true}, nil)

	res := p.ProcessRecord(context.Background(), Input{Path: "a.json", Record: rawInvoice("INV-1")})

	assert.NotEqual(t, uuid.Nil, res.JobID)
	assert.Equal(t, "a.json", res.Path)

	// Normalization ran before validation.
	assert.Equal(t, "2023-05-15", res.Normalized["invoice_date"])
	assert.Equal(t, 110.0, res.Normalized["total_amount"])
	assert.Equal(t, "THB", res.Normalized["currency"])

	assert.True(t, res.Scored.Valid, "errors: %v", res.Scored.Errors)
	require.NotNil(t, res.Strict)
	assert.Equal(t, constants.StatusPass, res.Strict.Status)
	assert.Greater(t, res.Elapsed.Nanoseconds(), int64(0))
}

func TestProcessRecordStrictDisabled(t *testing.T) {
	p := NewProcessor(discardLogger(), Config{}, nil)
	res := p.ProcessRecord(context.Background(), Input{Record: rawInvoice("INV-1")})
	assert.Nil(t, res.Strict)
}

func TestProcessRecordTypeHint(t *testing.T) {
	rec := rawInvoice("INV-2")
	delete(rec, "document_type")

	p := NewProcessor(discardLogger(), Config{TypeHint: constants.DocTypeInvoice}, nil)
	res := p.ProcessRecord(context.Background(), Input{Record: rec})
	assert.True(t, res.Scored.Valid, "errors: %v", res.Scored.Errors)
}

func TestProcessRecordNilRecord(t *testing.T) {
	p := NewProcessor(discardLogger(), Config{}, nil)
	res := p.ProcessRecord(context.Background(), Input{Path: "broken.json"})
	assert.False(t, res.Scored.Valid)
	assert.Equal(t, constants.ConfidenceVeryLow, res.Scored.ConfidenceLevel)
}

func TestProcessAllPreservesOrder(t *testing.T) {
	inputs := make([]Input, 20)
	for i := range inputs {
		inputs[i] = Input{
			Path:   fmt.Sprintf("rec-%02d.json", i),
			Record: rawInvoice(fmt.Sprintf("INV-%02d", i)),
		}
	}

	p := NewProcessor(discardLogger(), Config{Workers: 3}, nil)
	results := p.ProcessAll(context.Background(), inputs)

	require.Len(t, results, len(inputs))
	for i, res := range results {
		assert.Equal(t, inputs[i].Path, res.Path)
		assert.True(t, res.Scored.Valid)
	}
}

func TestProcessAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inputs := []Input{
		{Path: "a.json", Record: rawInvoice("INV-1")},
		{Path: "b.json", Record: rawInvoice("INV-2")},
	}

	p := NewProcessor(discardLogger(), Config{}, nil)
	results := p.ProcessAll(ctx, inputs)

	require.Len(t, results, 2)
	for i, res := range results {
		assert.Equal(t, inputs[i].Path, res.Path)
		assert.Equal(t, uuid.Nil, res.JobID)
		assert.Nil(t, res.Normalized)
	}
}

func TestNewProcessorDefaults(t *testing.T) {
	p := NewProcessor(nil, Config{Workers: -1}, nil)
	assert.NotNil(t, p.Logger)
	assert.NotNil(t, p.Validator)
	assert.Equal(t, 4, p.Cfg.Workers)
}
