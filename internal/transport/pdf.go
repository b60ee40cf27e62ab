package transport

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned for PDFs with no extractable text layer, typically
// scanned image notifications.
var ErrNoText = errors.New("pdf contains no extractable text")

// PDFTextExtractor extracts the plain text of a PDF document.
type PDFTextExtractor interface {
	ExtractText(data []byte) (string, error)
}

// PDFExtractor implements PDFTextExtractor over raw PDF bytes.
type PDFExtractor struct{}

// NewPDFExtractor returns a PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText parses data as a PDF and returns the concatenated text of all
// pages. Returns ErrNoText when the document parses but yields no text.
func (e *PDFExtractor) ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("parse pdf: %w", ErrNoText)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var sb strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, textErr := page.GetPlainText(nil)
		if textErr != nil {
			// A single unreadable page should not discard the rest.
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
