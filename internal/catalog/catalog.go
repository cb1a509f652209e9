// Package catalog imports plants in bulk from gzipped JSON-lines files. Each
// non-blank line holds one plant object in the same shape POST /plants accepts.
package catalog

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Record is one raw catalogue entry.
type Record struct {
	Source string
	Line   int
	Data   []byte
}

// Loader defines the interface for loading catalogue files.
type Loader interface {
	// Load reads a gzipped catalogue file and returns its records in order.
	Load(ctx context.Context, path string) ([]Record, error)
}

// maxLineBytes bounds a single catalogue line.
const maxLineBytes = 1024 * 1024

// readRecords splits r into records, skipping blank lines.
func readRecords(ctx context.Context, r io.Reader, source string) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		records = append(records, Record{
			Source: source,
			Line:   lineNo,
			Data:   bytes.Clone(line),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue %s: %w", source, err)
	}

	return records, nil
}
