package ports

import (
	"context"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// DocumentProcessor is the inbound contract for upload orchestration.
type DocumentProcessor interface {
	ProcessLegalDocument(ctx context.Context, fileBytes []byte, filename, mimeType string) (*domain.ProcessedDocument, error)
	ValidateDocument(ctx context.Context, fileBytes []byte, filename, mimeType string) (domain.ValidationResult, error)
}

// ChatService answers questions grounded in a stored document.
type ChatService interface {
	HandleChatQuery(ctx context.Context, documentID, query, fallbackText string, fallbackType domain.DocumentType) (domain.ChatResponse, error)
}

// DocumentReader is the inbound read model over stored documents.
type DocumentReader interface {
	GetProcessedDocument(ctx context.Context, id string) (*domain.ProcessedDocument, error)
	GetDocumentSummary(ctx context.Context, id string) (*domain.DocumentSummary, error)
	GetDocumentForChat(ctx context.Context, id string) (string, domain.DocumentType, error)
	ListProcessedDocuments(ctx context.Context) ([]*domain.DocumentSummary, error)
}
