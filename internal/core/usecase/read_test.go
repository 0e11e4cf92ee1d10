package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/legallens/legal-lens/internal/core/domain"
)

func TestGetProcessedDocumentNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.GetProcessedDocument(context.Background(), "absent")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want ErrDocumentNotFound", err)
	}
}

func TestGetDocumentSummaryProjection(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	doc, err := svc.ProcessLegalDocument(ctx, []byte("lease body"), "lease.pdf", "application/pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	summary, err := svc.GetDocumentSummary(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetDocumentSummary() error = %v", err)
	}
	if summary.ID != doc.ID || summary.RiskScore != 42 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.DocumentType != domain.TypeLeaseAgreement {
		t.Errorf("DocumentType = %s", summary.DocumentType)
	}
}

func TestListProcessedDocuments(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ProcessLegalDocument(ctx, []byte("first lease"), "a.pdf", "application/pdf"); err != nil {
		t.Fatalf("upload a: %v", err)
	}
	if _, err := svc.ProcessLegalDocument(ctx, []byte("second longer lease"), "b.pdf", "application/pdf"); err != nil {
		t.Fatalf("upload b: %v", err)
	}

	summaries, err := svc.ListProcessedDocuments(ctx)
	if err != nil {
		t.Fatalf("ListProcessedDocuments() error = %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("len = %d, want 2", len(summaries))
	}
}

func TestCleanupOldDocuments(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	stale := &domain.ProcessedDocument{
		ID:         "doc_stale",
		FileHash:   "h1",
		UploadTime: time.Now().Add(-48 * time.Hour),
	}
	fresh := &domain.ProcessedDocument{
		ID:         "doc_fresh",
		FileHash:   "h2",
		UploadTime: time.Now(),
	}
	if err := store.Set(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	removed, err := svc.CleanupOldDocuments(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("CleanupOldDocuments() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if ok, _ := store.Has(ctx, "doc_fresh"); !ok {
		t.Errorf("fresh document was deleted")
	}
	if ok, _ := store.Has(ctx, "doc_stale"); ok {
		t.Errorf("stale document survived")
	}
}
