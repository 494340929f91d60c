package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// AllowedExtensions lists the upload formats the system accepts, in the order
// shown to users in rejection messages.
var AllowedExtensions = []string{".txt", ".md", ".csv", ".log", ".json", ".pdf"}

// AllowedExtension reports whether the filename carries an accepted extension.
func AllowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Extractor pulls plain text out of a staged upload on disk.
type Extractor interface {
	ExtractText(ctx context.Context, path, filename string) (string, error)
}

// DocconvExtractor handles the binary PDF format via sajari/docconv and reads
// every other allowed format as raw text.
type DocconvExtractor struct{}

func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{}
}

func (e *DocconvExtractor) ExtractText(ctx context.Context, path, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open staged file: %w", err)
		}
		defer f.Close()

		res, err := docconv.Convert(f, "application/pdf", false)
		if err != nil {
			return "", fmt.Errorf("pdf extract: %w", err)
		}
		return res.Body, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read staged file: %w", err)
	}
	return string(data), nil
}

var _ Extractor = (*DocconvExtractor)(nil)
