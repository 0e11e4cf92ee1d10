package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/legallens/legal-lens/internal/core/domain"
)

func newStoreWithMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &Store{db: db}, mock, func() { _ = db.Close() }
}

func TestGetMissReturnsNotFoundWithoutError(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, original_filename, mime_type").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, ok, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("miss must not error, got %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetScansJSONColumns(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	extraction, _ := json.Marshal(domain.ExtractionResult{Text: "lease text", DocumentType: domain.TypeLeaseAgreement, IsLegalDocument: true, Confidence: 0.85})
	analysis, _ := json.Marshal(domain.LegalAnalysis{Summary: "A lease.", RiskScore: 40})

	rows := sqlmock.NewRows([]string{
		"id", "original_filename", "mime_type", "file_hash", "file_size",
		"archive_path", "extraction", "analysis", "upload_time",
	}).AddRow("doc-1", "lease.pdf", "application/pdf", "hash-1", int64(1024), "doc-1_lease.pdf", extraction, analysis, time.Now())

	mock.ExpectQuery("SELECT id, original_filename, mime_type").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, ok, err := store.Get(context.Background(), "doc-1")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, ok=%v", err, ok)
	}
	if doc.Extraction.DocumentType != domain.TypeLeaseAgreement {
		t.Fatalf("unexpected document type %s", doc.Extraction.DocumentType)
	}
	if doc.Analysis.RiskScore != 40 {
		t.Fatalf("unexpected risk score %d", doc.Analysis.RiskScore)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetMarshalsJSONColumns(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO processed_documents").
		WithArgs("doc-1", "lease.pdf", "application/pdf", "hash-1", int64(1024),
			"", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Set(context.Background(), &domain.ProcessedDocument{
		ID:               "doc-1",
		OriginalFilename: "lease.pdf",
		MimeType:         "application/pdf",
		FileHash:         "hash-1",
		FileSize:         1024,
		UploadTime:       time.Now(),
	})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteReportsMiss(t *testing.T) {
	store, mock, done := newStoreWithMock(t)
	defer done()

	mock.ExpectExec("DELETE FROM processed_documents").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := store.Delete(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted {
		t.Fatalf("expected no rows deleted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
