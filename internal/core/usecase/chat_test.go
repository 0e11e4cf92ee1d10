package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/legallens/legal-lens/internal/core/domain"
)

func TestChatGroundsInStoredDocument(t *testing.T) {
	svc, _, _, analyzer := newTestService(t)
	analyzer.chat = domain.ChatResponse{Response: "Rent is due monthly per Section 4.", Confidence: 0.85}
	ctx := context.Background()

	doc, err := svc.ProcessLegalDocument(ctx, []byte("lease body"), "lease.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	resp, err := svc.HandleChatQuery(ctx, doc.ID, "When is rent due?", "", "")
	if err != nil {
		t.Fatalf("HandleChatQuery() error = %v", err)
	}
	if resp.Response == "" {
		t.Fatalf("empty response")
	}
	if analyzer.lastText != doc.Extraction.Text {
		t.Errorf("chat text = %q, want extracted document text", analyzer.lastText)
	}
	if !strings.Contains(analyzer.lastContext, string(domain.TypeLeaseAgreement)) {
		t.Errorf("chat context %q missing document type", analyzer.lastContext)
	}
	if !strings.Contains(analyzer.lastContext, "Lease with monthly rent obligation.") {
		t.Errorf("chat context %q missing analysis summary", analyzer.lastContext)
	}
}

func TestChatUsesFallbackTextWhenDocumentMissing(t *testing.T) {
	svc, _, _, analyzer := newTestService(t)
	analyzer.chat = domain.ChatResponse{Response: "ok", Confidence: 0.75}

	_, err := svc.HandleChatQuery(context.Background(), "doc_gone", "What does clause 2 say?",
		"clause 2 covers termination", domain.TypeLeaseAgreement)
	if err != nil {
		t.Fatalf("HandleChatQuery() error = %v", err)
	}
	if analyzer.lastText != "clause 2 covers termination" {
		t.Errorf("chat text = %q, want fallback text", analyzer.lastText)
	}
	if !strings.Contains(analyzer.lastContext, "LEASE_AGREEMENT") {
		t.Errorf("chat context %q missing fallback type", analyzer.lastContext)
	}
}

func TestChatMissingDocumentNoFallback(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.HandleChatQuery(context.Background(), "doc_gone", "anything", "", "")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want ErrDocumentNotFound", err)
	}
	if !strings.Contains(err.Error(), "upload a document first") {
		t.Errorf("error %q missing guidance", err)
	}
}

func TestChatRejectsEmptyQuery(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.HandleChatQuery(context.Background(), "any", "   ", "", "")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestChatPropagatesBackendError(t *testing.T) {
	svc, _, _, analyzer := newTestService(t)
	analyzer.chatErr = domain.WrapError(domain.ErrAnalysisUnavailable, "chat", errors.New("503"))
	ctx := context.Background()

	doc, err := svc.ProcessLegalDocument(ctx, []byte("lease body"), "lease.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, err = svc.HandleChatQuery(ctx, doc.ID, "When is rent due?", "", "")
	if !domain.IsKind(err, domain.ErrAnalysisUnavailable) {
		t.Fatalf("error = %v, want ErrAnalysisUnavailable", err)
	}
}
