package usecase

import (
	"sync"

	"github.com/legallens/legal-lens/internal/core/domain"
	"github.com/legallens/legal-lens/internal/core/ports"
)

// DefaultMaxFileSize is the upload ceiling applied when none is configured.
const DefaultMaxFileSize = 10 << 20 // 10 MiB

// supportedMimeTypes is the upload whitelist.
var supportedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
	"image/png":  {},
	"image/jpeg": {},
	"image/tiff": {},
}

// Metrics is the optional pipeline observer. A nil implementation is valid.
type Metrics interface {
	DocumentProcessed(status string)
	DedupeHit()
}

type noopMetrics struct{}

func (noopMetrics) DocumentProcessed(string) {}
func (noopMetrics) DedupeHit()               {}

// inflightCall tracks one in-progress pipeline run for a content hash.
// Concurrent uploads of identical bytes wait on the first run instead of
// re-issuing extraction and analysis.
type inflightCall struct {
	done chan struct{}
	doc  *domain.ProcessedDocument
	err  error
}

// Service orchestrates the upload pipeline and serves lookups against the
// document store. All collaborators are injected; there are no package-level
// clients.
type Service struct {
	store     ports.DocumentStore
	extractor ports.TextExtractor
	analyzer  ports.AnalysisBackend
	archive   ports.ObjectArchive  // optional
	events    ports.EventPublisher // optional
	metrics   Metrics

	maxFileSize int64

	inflightMu sync.Mutex
	inflight   map[string]*inflightCall
}

type Option func(*Service)

func WithMaxFileSize(limit int64) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxFileSize = limit
		}
	}
}

func WithArchive(archive ports.ObjectArchive) Option {
	return func(s *Service) { s.archive = archive }
}

func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) { s.events = events }
}

func WithMetrics(metrics Metrics) Option {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

func NewService(
	store ports.DocumentStore,
	extractor ports.TextExtractor,
	analyzer ports.AnalysisBackend,
	opts ...Option,
) *Service {
	s := &Service{
		store:       store,
		extractor:   extractor,
		analyzer:    analyzer,
		metrics:     noopMetrics{},
		maxFileSize: DefaultMaxFileSize,
		inflight:    make(map[string]*inflightCall),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
