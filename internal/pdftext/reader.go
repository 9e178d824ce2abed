package pdftext

import (
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// Reader extracts per-page plain text from PDF files.
type Reader struct {
	maxFileSize int64
}

// NewReader creates a new PDF text reader with the specified size constraint.
func NewReader(maxFileSize int64) *Reader {
	return &Reader{maxFileSize: maxFileSize}
}

// ExtractPages returns the raw text of every page in document order. A page
// whose text cannot be extracted contributes an empty string rather than
// being skipped, so indices in the result always line up with the source
// document's page numbers.
func (r *Reader) ExtractPages(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.Size() > r.maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	pages := make([]string, 0, pdfReader.NumPage())
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, content)
	}

	return pages, nil
}

// ExtractNormalizedPages extracts and normalizes every page in one call.
func (r *Reader) ExtractNormalizedPages(path string) ([]string, error) {
	pages, err := r.ExtractPages(path)
	if err != nil {
		return nil, err
	}
	return NormalizePages(pages), nil
}
