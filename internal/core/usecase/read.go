package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// GetProcessedDocument returns a stored record by ID.
func (s *Service) GetProcessedDocument(ctx context.Context, id string) (*domain.ProcessedDocument, error) {
	doc, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	if !ok {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id %s", id))
	}
	return doc, nil
}

// GetDocumentSummary projects a stored record down to the summary view.
func (s *Service) GetDocumentSummary(ctx context.Context, id string) (*domain.DocumentSummary, error) {
	doc, err := s.GetProcessedDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	summary := summarize(doc)
	return &summary, nil
}

// GetDocumentForChat returns the extracted text and type the chat UI caches
// client-side against store eviction.
func (s *Service) GetDocumentForChat(ctx context.Context, id string) (string, domain.DocumentType, error) {
	doc, err := s.GetProcessedDocument(ctx, id)
	if err != nil {
		return "", "", err
	}
	return doc.Extraction.Text, doc.Extraction.DocumentType, nil
}

// ListProcessedDocuments returns summaries ordered by recency.
func (s *Service) ListProcessedDocuments(ctx context.Context) ([]*domain.DocumentSummary, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	summaries := make([]*domain.DocumentSummary, 0, len(docs))
	for _, doc := range docs {
		summary := summarize(doc)
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}

// CleanupOldDocuments deletes records older than maxAge and reports how many
// were removed. Retention is advisory; nothing schedules this internally.
func (s *Service) CleanupOldDocuments(ctx context.Context, maxAge time.Duration) (int, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list documents for cleanup: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, doc := range docs {
		if doc.UploadTime.After(cutoff) {
			continue
		}
		deleted, err := s.store.Delete(ctx, doc.ID)
		if err != nil {
			return removed, fmt.Errorf("delete expired document %s: %w", doc.ID, err)
		}
		if deleted {
			removed++
		}
	}
	return removed, nil
}

func summarize(doc *domain.ProcessedDocument) domain.DocumentSummary {
	return domain.DocumentSummary{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		DocumentType:     doc.Extraction.DocumentType,
		Summary:          doc.Analysis.Summary,
		RiskScore:        doc.Analysis.RiskScore,
		UploadTime:       doc.UploadTime,
	}
}
