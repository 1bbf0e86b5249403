// Package ndjson decodes newline-delimited JSON export artifacts into raw
// catalog records.
package ndjson

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/erp/shopsync/internal/domain/integration"
)

const (
	// maxLineSize bounds a single NDJSON line to prevent memory exhaustion
	// on pathological artifacts
	maxLineSize = 10 * 1024 * 1024 // 10MB
)

// ParseError indicates a malformed line in the NDJSON stream. The stream is
// machine-generated by the export, so any malformed line fails the whole
// decode rather than being skipped.
type ParseError struct {
	Line int
	Err  error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("ndjson: malformed record on line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying JSON error
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decode reads the full NDJSON stream and returns one record per non-blank
// line, in input order.
func Decode(r io.Reader) ([]integration.Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var records []integration.Record
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var record integration.Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return nil, &ParseError{Line: line, Err: err}
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ndjson: failed to read stream: %w", err)
	}

	return records, nil
}
