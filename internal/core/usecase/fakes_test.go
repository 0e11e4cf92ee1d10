package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/legallens/legal-lens/internal/core/domain"
)

type fakeStore struct {
	mu   sync.Mutex
	docs map[string]*domain.ProcessedDocument

	setCalls int
	listErr  error
	getErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*domain.ProcessedDocument)}
}

func (f *fakeStore) Set(_ context.Context, doc *domain.ProcessedDocument) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*domain.ProcessedDocument, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	doc, ok := f.docs[id]
	return doc, ok, nil
}

func (f *fakeStore) Has(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.docs[id]
	return ok, nil
}

func (f *fakeStore) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.docs[id]
	delete(f.docs, id)
	return ok, nil
}

func (f *fakeStore) List(_ context.Context) ([]*domain.ProcessedDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.ProcessedDocument, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadTime.After(out[j].UploadTime) })
	return out, nil
}

func (f *fakeStore) Size(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs), nil
}

type fakeExtractor struct {
	mu     sync.Mutex
	calls  int
	result domain.ExtractionResult
	err    error
}

func (f *fakeExtractor) Extract(_ context.Context, _ []byte, _ string) (domain.ExtractionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

func (f *fakeExtractor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAnalyzer struct {
	mu       sync.Mutex
	calls    int
	analysis domain.LegalAnalysis
	chat     domain.ChatResponse
	chatErr  error

	lastQuery   string
	lastText    string
	lastContext string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, _ string, _ domain.DocumentType) (domain.LegalAnalysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.analysis, nil
}

func (f *fakeAnalyzer) Chat(_ context.Context, query, documentText, chatContext string) (domain.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = query
	f.lastText = documentText
	f.lastContext = chatContext
	if f.chatErr != nil {
		return domain.ChatResponse{}, f.chatErr
	}
	return f.chat, nil
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.ProcessedEvent
}

func (f *fakePublisher) PublishDocumentProcessed(_ context.Context, event domain.ProcessedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) published() []domain.ProcessedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ProcessedEvent(nil), f.events...)
}

func legalExtraction(text string) domain.ExtractionResult {
	return domain.ExtractionResult{
		Text:            text,
		Confidence:      0.9,
		IsLegalDocument: true,
		DocumentType:    domain.TypeLeaseAgreement,
	}
}
