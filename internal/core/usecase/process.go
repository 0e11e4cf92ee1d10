package usecase

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// ProcessLegalDocument drives one upload through the pipeline:
// validate, deduplicate by content hash, extract, analyze, persist.
// Re-uploading identical bytes returns the stored record without re-running
// extraction or analysis.
func (s *Service) ProcessLegalDocument(ctx context.Context, fileBytes []byte, filename, mimeType string) (*domain.ProcessedDocument, error) {
	if err := s.checkUploadPolicy(fileBytes, mimeType); err != nil {
		return nil, err
	}

	fileHash := hashBytes(fileBytes)

	if existing, err := s.findExisting(ctx, fileHash, filename, int64(len(fileBytes))); err != nil {
		return nil, err
	} else if existing != nil {
		s.metrics.DedupeHit()
		s.publish(ctx, existing, true)
		return existing, nil
	}

	call, leader := s.joinInflight(fileHash)
	if !leader {
		select {
		case <-call.done:
			return call.doc, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	doc, err := s.runPipeline(ctx, fileBytes, filename, mimeType, fileHash)
	s.finishInflight(fileHash, call, doc, err)
	if err != nil {
		s.metrics.DocumentProcessed("error")
		return nil, err
	}

	s.metrics.DocumentProcessed("success")
	s.publish(ctx, doc, false)
	return doc, nil
}

// ValidateDocument runs the gate checks without analyzing or storing
// anything.
func (s *Service) ValidateDocument(ctx context.Context, fileBytes []byte, filename, mimeType string) (domain.ValidationResult, error) {
	if err := s.checkUploadPolicy(fileBytes, mimeType); err != nil {
		return domain.ValidationResult{IsValid: false, Message: err.Error()}, nil
	}

	extraction, err := s.extractor.Extract(ctx, fileBytes, mimeType)
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("extract for validation: %w", err)
	}

	result := domain.ValidationResult{
		IsValid:      extraction.IsLegalDocument,
		IsLegal:      extraction.IsLegalDocument,
		DocumentType: extraction.DocumentType,
		Confidence:   extraction.Confidence,
	}
	if !extraction.IsLegalDocument {
		result.Message = "the uploaded file does not appear to be a legal document"
	} else {
		result.Message = fmt.Sprintf("document accepted as %s", extraction.DocumentType)
	}
	return result, nil
}

func (s *Service) runPipeline(ctx context.Context, fileBytes []byte, filename, mimeType, fileHash string) (*domain.ProcessedDocument, error) {
	extraction, err := s.extractor.Extract(ctx, fileBytes, mimeType)
	if err != nil {
		return nil, fmt.Errorf("extract document text: %w", err)
	}
	if !extraction.IsLegalDocument {
		return nil, domain.WrapError(domain.ErrValidation, "legal content gate",
			errors.New("the uploaded file does not appear to be a legal document"))
	}

	// Extraction strictly precedes analysis; analysis never runs on an
	// unextracted document.
	analysis, err := s.analyzer.Analyze(ctx, extraction.Text, extraction.DocumentType)
	if err != nil {
		return nil, fmt.Errorf("analyze document: %w", err)
	}

	doc := &domain.ProcessedDocument{
		ID:               newDocumentID(),
		OriginalFilename: filename,
		MimeType:         mimeType,
		FileHash:         fileHash,
		FileSize:         int64(len(fileBytes)),
		Extraction:       extraction,
		Analysis:         analysis,
		UploadTime:       time.Now().UTC(),
		FileBuffer:       fileBytes,
	}

	s.archiveOriginal(ctx, doc)

	if err := s.store.Set(ctx, doc); err != nil {
		return nil, fmt.Errorf("store processed document: %w", err)
	}
	return doc, nil
}

func (s *Service) checkUploadPolicy(fileBytes []byte, mimeType string) error {
	if len(fileBytes) == 0 {
		return domain.WrapError(domain.ErrValidation, "upload policy", errors.New("empty file"))
	}
	if int64(len(fileBytes)) > s.maxFileSize {
		return domain.WrapError(domain.ErrFileTooLarge, "upload policy",
			fmt.Errorf("file size %d exceeds limit %d", len(fileBytes), s.maxFileSize))
	}
	if _, ok := supportedMimeTypes[normalizeMime(mimeType)]; !ok {
		return domain.WrapError(domain.ErrUnsupportedMedia, "upload policy",
			fmt.Errorf("unsupported mime type %q", mimeType))
	}
	return nil
}

// findExisting returns a stored record matching by content hash, or by
// filename+size when no hash match exists.
func (s *Service) findExisting(ctx context.Context, fileHash, filename string, size int64) (*domain.ProcessedDocument, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents for dedupe: %w", err)
	}

	var nameSizeMatch *domain.ProcessedDocument
	for _, doc := range docs {
		if doc.FileHash == fileHash {
			return doc, nil
		}
		if nameSizeMatch == nil && doc.OriginalFilename == filename && doc.FileSize == size {
			nameSizeMatch = doc
		}
	}
	return nameSizeMatch, nil
}

func (s *Service) joinInflight(fileHash string) (*inflightCall, bool) {
	s.inflightMu.Lock()
	defer s.inflightMu.Unlock()

	if call, ok := s.inflight[fileHash]; ok {
		return call, false
	}
	call := &inflightCall{done: make(chan struct{})}
	s.inflight[fileHash] = call
	return call, true
}

func (s *Service) finishInflight(fileHash string, call *inflightCall, doc *domain.ProcessedDocument, err error) {
	s.inflightMu.Lock()
	delete(s.inflight, fileHash)
	s.inflightMu.Unlock()

	call.doc = doc
	call.err = err
	close(call.done)
}

// archiveOriginal moves raw bytes to the archive so the stored record does
// not pin them in memory. Archive failure keeps the buffer and logs.
func (s *Service) archiveOriginal(ctx context.Context, doc *domain.ProcessedDocument) {
	if s.archive == nil {
		return
	}

	key := doc.ID + "_" + sanitizeFilename(doc.OriginalFilename)
	if err := s.archive.Save(ctx, key, bytes.NewReader(doc.FileBuffer)); err != nil {
		slog.Warn("archive_save_failed", "document_id", doc.ID, "error", err)
		return
	}
	doc.ArchivePath = key
	doc.FileBuffer = nil
}

func (s *Service) publish(ctx context.Context, doc *domain.ProcessedDocument, deduplicated bool) {
	if s.events == nil {
		return
	}
	event := domain.ProcessedEvent{
		DocumentID:   doc.ID,
		FileHash:     doc.FileHash,
		DocumentType: doc.Extraction.DocumentType,
		RiskScore:    doc.Analysis.RiskScore,
		Deduplicated: deduplicated,
		ProcessedAt:  time.Now().UTC(),
	}
	if err := s.events.PublishDocumentProcessed(ctx, event); err != nil {
		slog.Warn("processed_event_publish_failed", "document_id", doc.ID, "error", err)
	}
}

func hashBytes(fileBytes []byte) string {
	sum := md5.Sum(fileBytes)
	return hex.EncodeToString(sum[:])
}

func newDocumentID() string {
	return fmt.Sprintf("doc_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func normalizeMime(mimeType string) string {
	base, _, found := strings.Cut(mimeType, ";")
	if found {
		return strings.TrimSpace(base)
	}
	return strings.TrimSpace(mimeType)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
