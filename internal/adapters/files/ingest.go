package files

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bnema/llm-council/internal/domain"
)

const DefaultMaxFileSize = 10 << 20

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var textExtensions = []string{
	".c", ".cpp", ".cs", ".css", ".csv", ".go", ".html", ".java", ".js", ".json", ".jsx",
	".md", ".py", ".rs", ".sh", ".sql", ".ts", ".tsx", ".txt", ".xml", ".yaml", ".yml",
}

var imageExtensions = []string{".bmp", ".gif", ".jpeg", ".jpg", ".png", ".webp"}

// Ingestor turns uploaded bytes into session attachments: text files are
// inlined into the prompt, images are base64 encoded for vision models.
type Ingestor struct {
	MaxSize int64
}

func (i Ingestor) maxSize() int64 {
	if i.MaxSize > 0 {
		return i.MaxSize
	}
	return DefaultMaxFileSize
}

func SupportedExtensions() []string {
	return slices.Sorted(slices.Values(append(slices.Clone(textExtensions), imageExtensions...)))
}

func (i Ingestor) Ingest(filename string, contentType string, data []byte) (domain.Attachment, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return domain.Attachment{}, errors.New("filename is required")
	}
	if int64(len(data)) > i.maxSize() {
		return domain.Attachment{}, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, name, len(data), i.maxSize())
	}

	ext := strings.ToLower(filepath.Ext(name))
	attachment := domain.Attachment{
		Filename:    name,
		ContentType: detectContentType(ext, contentType, data),
		Size:        int64(len(data)),
	}

	switch {
	case slices.Contains(imageExtensions, ext):
		if !strings.HasPrefix(attachment.ContentType, "image/") {
			attachment.ContentType = http.DetectContentType(data)
		}
		attachment.Base64Data = base64.StdEncoding.EncodeToString(data)
	case slices.Contains(textExtensions, ext):
		if !utf8.Valid(data) {
			return domain.Attachment{}, fmt.Errorf("%w: %s is not valid UTF-8 text", ErrUnsupportedType, name)
		}
		attachment.ExtractedText = string(data)
	default:
		return domain.Attachment{}, fmt.Errorf("%w: %s", ErrUnsupportedType, name)
	}

	return attachment, nil
}

func (i Ingestor) ReadFile(path string) (domain.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("stat attachment: %w", err)
	}
	if info.IsDir() {
		return domain.Attachment{}, fmt.Errorf("attachment %s is a directory", path)
	}
	if info.Size() > i.maxSize() {
		return domain.Attachment{}, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, filepath.Base(path), info.Size(), i.maxSize())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("read attachment: %w", err)
	}
	return i.Ingest(filepath.Base(path), "", data)
}

func detectContentType(ext string, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			return mediaType
		}
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if mediaType, _, err := mime.ParseMediaType(byExt); err == nil {
			return mediaType
		}
	}
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mediaType
}
