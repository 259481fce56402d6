package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestIngestInlinesTextFiles(t *testing.T) {
	t.Parallel()

	attachment, err := Ingestor{}.Ingest("notes/plan.md", "text/markdown; charset=utf-8", []byte("# Plan\nship it"))
	require.NoError(t, err)

	assert.Equal(t, "plan.md", attachment.Filename)
	assert.Equal(t, "text/markdown", attachment.ContentType)
	assert.Equal(t, int64(14), attachment.Size)
	assert.Equal(t, "# Plan\nship it", attachment.ExtractedText)
	assert.Empty(t, attachment.Base64Data)
	assert.False(t, attachment.IsImage())
}

func TestIngestEncodesImages(t *testing.T) {
	t.Parallel()

	attachment, err := Ingestor{}.Ingest("diagram.png", "application/octet-stream", pngHeader)
	require.NoError(t, err)

	assert.Equal(t, "image/png", attachment.ContentType)
	assert.Equal(t, "iVBORw0KGgoAAAANSUhEUg==", attachment.Base64Data)
	assert.Empty(t, attachment.ExtractedText)
	assert.True(t, attachment.IsImage())
}

func TestIngestRejectsUnsupportedInput(t *testing.T) {
	t.Parallel()

	_, err := Ingestor{}.Ingest("report.pdf", "application/pdf", []byte("%PDF-1.7"))
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Ingestor{}.Ingest("data.csv", "", []byte{0xff, 0xfe, 0x00})
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Ingestor{MaxSize: 4}.Ingest("big.txt", "", []byte("12345"))
	require.ErrorIs(t, err, ErrFileTooLarge)

	_, err = Ingestor{}.Ingest("  ", "", []byte("x"))
	require.EqualError(t, err, "filename is required")
}

func TestReadFileChecksSizeBeforeReading(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o600))

	attachment, err := Ingestor{}.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "main.go", attachment.Filename)
	assert.Equal(t, "package main\n", attachment.ExtractedText)

	_, err = Ingestor{MaxSize: 3}.ReadFile(path)
	require.ErrorIs(t, err, ErrFileTooLarge)

	_, err = Ingestor{}.ReadFile(dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "is a directory"))
}

func TestSupportedExtensionsAreSorted(t *testing.T) {
	t.Parallel()

	exts := SupportedExtensions()
	assert.Contains(t, exts, ".png")
	assert.Contains(t, exts, ".go")
	assert.IsIncreasing(t, exts)
}
