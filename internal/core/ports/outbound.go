package ports

import (
	"context"
	"io"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// DocumentStore persists processed documents keyed by ID. Lookups on an
// absent key return (nil, false) rather than an error.
type DocumentStore interface {
	Set(ctx context.Context, doc *domain.ProcessedDocument) error
	Get(ctx context.Context, id string) (*domain.ProcessedDocument, bool, error)
	Has(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*domain.ProcessedDocument, error)
	Size(ctx context.Context) (int, error)
}

// TextExtractor turns raw file bytes into extracted text plus the legal
// classification. Implementations demote extraction failures to a local
// fallback path instead of returning an error for ordinary degradation.
type TextExtractor interface {
	Extract(ctx context.Context, fileBytes []byte, mimeType string) (domain.ExtractionResult, error)
}

// AnalysisBackend produces structured legal analyses and grounded chat
// answers. Analyze never hard-fails: unavailability and malformed output are
// recovered internally. Chat propagates backend errors to the caller.
type AnalysisBackend interface {
	Analyze(ctx context.Context, documentText string, documentType domain.DocumentType) (domain.LegalAnalysis, error)
	Chat(ctx context.Context, query, documentText, chatContext string) (domain.ChatResponse, error)
}

// ObjectArchive retains original upload bytes outside process memory.
type ObjectArchive interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// EventPublisher announces processed documents to downstream consumers.
type EventPublisher interface {
	PublishDocumentProcessed(ctx context.Context, event domain.ProcessedEvent) error
}
