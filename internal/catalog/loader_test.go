package catalog

import (
	"bytes"
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gzipLines returns lines joined by newlines and gzipped.
func gzipLines(t *testing.T, lines []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	_, err := gzipWriter.Write([]byte(strings.Join(lines, "\n") + "\n"))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())

	return buf.Bytes()
}

// createTestCatalogFile writes a gzipped catalogue file into a temp dir.
func createTestCatalogFile(t *testing.T, filename string, lines []string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(filePath, gzipLines(t, lines), 0o644))

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogFile(t, "plants.jsonl.gz", []string{
		`{"name":"Fern","image":"http://x/fern.jpg","price":9.99}`,
		``,
		`   `,
		`{"name":"Aloe","image":"http://x/aloe.jpg","price":4.5,"is_in_stock":false}`,
	})

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Line)
	assert.Equal(t, 4, records[1].Line)
	assert.Equal(t, filePath, records[0].Source)
	assert.JSONEq(t, `{"name":"Aloe","image":"http://x/aloe.jpg","price":4.5,"is_in_stock":false}`, string(records[1].Data))
}

func TestFileLoader_Load_EmptyFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogFile(t, "empty.jsonl.gz", []string{})

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileLoader_Load_Errors(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	notGzip := filepath.Join(t.TempDir(), "plain.jsonl")
	require.NoError(t, os.WriteFile(notGzip, []byte(`{"name":"Fern"}`), 0o644))

	tests := []struct {
		name     string
		path     string
		errMatch string
	}{
		{
			name:     "Missing file",
			path:     filepath.Join(t.TempDir(), "missing.gz"),
			errMatch: "failed to open catalogue file",
		},
		{
			name:     "Not gzipped",
			path:     notGzip,
			errMatch: "failed to create gzip reader",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := loader.Load(context.Background(), tt.path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMatch)
			assert.Nil(t, records)
		})
	}
}

func TestReadRecords_LineTooLong(t *testing.T) {
	long := strings.Repeat("x", maxLineBytes+1)

	_, err := readRecords(context.Background(), strings.NewReader(long), "inline")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading catalogue inline")
}
