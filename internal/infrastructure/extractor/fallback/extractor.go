package fallback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/legallens/legal-lens/internal/core/domain"
	"github.com/legallens/legal-lens/internal/infrastructure/extractor/legaltext"
)

// Confidence reported by the local path. Fixed and advisory: it does not
// reflect measured accuracy.
const fallbackConfidence = 0.5

const placeholderText = "[Document content could not be extracted locally. The file was accepted but requires the remote document processor for full text extraction.]"

// Extractor is the local extraction path used when the remote document
// processor is unavailable or misconfigured. It never returns an error for
// unextractable content; it degrades to a labeled placeholder instead.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, fileBytes []byte, mimeType string) (domain.ExtractionResult, error) {
	text := extractText(fileBytes, mimeType)

	cls := legaltext.Classify(text, nil)
	return domain.ExtractionResult{
		Text:            text,
		Confidence:      fallbackConfidence,
		IsLegalDocument: cls.IsLegal,
		DocumentType:    cls.DocumentType,
		Entities:        []domain.Entity{},
	}, nil
}

func extractText(fileBytes []byte, mimeType string) string {
	switch {
	case mimeType == "application/pdf":
		if text, err := extractPDF(fileBytes); err == nil && text != "" {
			return text
		}
	case strings.HasPrefix(mimeType, "text/"):
		if utf8.Valid(fileBytes) {
			return strings.TrimSpace(string(fileBytes))
		}
	default:
		// Payloads mislabeled as binary but actually plain text still pass.
		if utf8.Valid(fileBytes) && looksTextual(fileBytes) {
			return strings.TrimSpace(string(fileBytes))
		}
	}
	return placeholderText
}

// IsPlaceholder reports whether extracted text is the degraded marker rather
// than real document content.
func IsPlaceholder(text string) bool {
	return text == placeholderText
}

func extractPDF(fileBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	var builder strings.Builder
	if _, err := io.Copy(&builder, plain); err != nil {
		return "", fmt.Errorf("copy pdf text: %w", err)
	}
	return strings.TrimSpace(builder.String()), nil
}

// looksTextual rejects byte streams with control characters outside the
// usual whitespace set.
func looksTextual(raw []byte) bool {
	for _, b := range raw {
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			return false
		}
	}
	return true
}
