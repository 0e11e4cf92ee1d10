package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// HandleChatQuery answers a question grounded in a stored document. When the
// record is gone but the caller still holds the extracted text (ephemeral
// store, client-side cache), the fallback text is used instead of failing.
func (s *Service) HandleChatQuery(ctx context.Context, documentID, query, fallbackText string, fallbackType domain.DocumentType) (domain.ChatResponse, error) {
	if strings.TrimSpace(query) == "" {
		return domain.ChatResponse{}, domain.WrapError(domain.ErrInvalidInput, "chat query", errors.New("empty query"))
	}

	documentText, chatContext, err := s.resolveChatDocument(ctx, documentID, fallbackText, fallbackType)
	if err != nil {
		return domain.ChatResponse{}, err
	}

	response, err := s.analyzer.Chat(ctx, query, documentText, chatContext)
	if err != nil {
		return domain.ChatResponse{}, fmt.Errorf("chat with analysis backend: %w", err)
	}
	return response, nil
}

func (s *Service) resolveChatDocument(ctx context.Context, documentID, fallbackText string, fallbackType domain.DocumentType) (string, string, error) {
	doc, ok, err := s.store.Get(ctx, documentID)
	if err != nil {
		return "", "", fmt.Errorf("fetch document for chat: %w", err)
	}
	if ok {
		chatContext := fmt.Sprintf("Document type: %s. Summary: %s",
			doc.Extraction.DocumentType, doc.Analysis.Summary)
		return doc.Extraction.Text, chatContext, nil
	}

	if strings.TrimSpace(fallbackText) != "" {
		chatContext := ""
		if fallbackType != "" {
			chatContext = fmt.Sprintf("Document type: %s.", fallbackType)
		}
		return fallbackText, chatContext, nil
	}

	return "", "", domain.WrapError(domain.ErrDocumentNotFound, "chat query",
		fmt.Errorf("document %s not found, upload a document first", documentID))
}
