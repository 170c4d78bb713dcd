// Package ingest reads batches of extracted records from disk. The pipeline
// core only sees decoded records; everything filesystem-shaped lives here.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"docqc/internal/common"
	"docqc/internal/schema"
)

// FileRecord is one file's outcome: a decoded record, or the error that kept
// it out of the batch. Malformed files never abort the walk.
type FileRecord struct {
	Path   string
	Raw    []byte
	Record schema.Record
	Err    string
}

// DirStats aggregates a directory walk.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Decoded uint32
	Failed  uint32
}

// ReadDirectory walks root for .json files, skipping hidden entries when
// requested, and decodes each into a record. A file whose top level is not a
// JSON object is reported as a failed FileRecord with a nil Record, which
// downstream validation turns into an all-failed report.
func ReadDirectory(root string, skipHidden bool) ([]FileRecord, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, fmt.Errorf("%w: root path is required", common.ErrInvalidInput)
	}

	var results []FileRecord
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileRecord{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		stats.Matched++

		raw, rec, err := readRecordBytes(path)
		if err != nil {
			results = append(results, FileRecord{Path: path, Raw: raw, Err: err.Error()})
			stats.Failed++
			return nil
		}
		results = append(results, FileRecord{Path: path, Raw: raw, Record: rec})
		stats.Decoded++
		return nil
	})
	if err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

// ReadRecordFile decodes one JSON file into a record. Non-object top levels
// (arrays, scalars) are an error here; the caller decides whether that is a
// structural failure or a skip.
func ReadRecordFile(path string) (schema.Record, error) {
	_, rec, err := readRecordBytes(path)
	return rec, err
}

func readRecordBytes(path string) ([]byte, schema.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", common.ErrNotFound, path)
		}
		return nil, nil, common.WrapError(err, "read record file")
	}
	var rec schema.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return data, nil, common.WrapError(err, "decode record")
	}
	return data, rec, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".")
}
