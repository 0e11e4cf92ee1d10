package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/legallens/legal-lens/internal/core/domain"
)

// shared is the process-wide backing map. Keeping it at package scope rather
// than inside a constructed Store means re-running composition (tests,
// embedded reloads) never loses documents within one process.
var (
	sharedMu sync.RWMutex
	shared   = make(map[string]*domain.ProcessedDocument)
)

// Store is the development DocumentStore: a mutex-guarded map shared by every
// Store value in the process. State is per-process only; deployments with
// more than one instance need the postgres store.
type Store struct{}

func New() *Store {
	return &Store{}
}

func (s *Store) Set(_ context.Context, doc *domain.ProcessedDocument) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared[doc.ID] = doc
	return nil
}

func (s *Store) Get(_ context.Context, id string) (*domain.ProcessedDocument, bool, error) {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	doc, ok := shared[id]
	if !ok {
		return nil, false, nil
	}
	copied := *doc
	return &copied, true, nil
}

func (s *Store) Has(_ context.Context, id string) (bool, error) {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	_, ok := shared[id]
	return ok, nil
}

func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if _, ok := shared[id]; !ok {
		return false, nil
	}
	delete(shared, id)
	return true, nil
}

func (s *Store) List(_ context.Context) ([]*domain.ProcessedDocument, error) {
	sharedMu.RLock()
	defer sharedMu.RUnlock()

	docs := make([]*domain.ProcessedDocument, 0, len(shared))
	for _, doc := range shared {
		copied := *doc
		docs = append(docs, &copied)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadTime.After(docs[j].UploadTime)
	})
	return docs, nil
}

func (s *Store) Size(_ context.Context) (int, error) {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return len(shared), nil
}

// Reset clears the shared map. Test helper only.
func Reset() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	shared = make(map[string]*domain.ProcessedDocument)
}
