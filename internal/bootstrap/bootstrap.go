package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/legallens/legal-lens/internal/config"
	"github.com/legallens/legal-lens/internal/core/ports"
	"github.com/legallens/legal-lens/internal/core/usecase"
	"github.com/legallens/legal-lens/internal/infrastructure/extractor/docai"
	"github.com/legallens/legal-lens/internal/infrastructure/extractor/fallback"
	"github.com/legallens/legal-lens/internal/infrastructure/llm/vertex"
	"github.com/legallens/legal-lens/internal/infrastructure/queue/nats"
	"github.com/legallens/legal-lens/internal/infrastructure/resilience"
	"github.com/legallens/legal-lens/internal/infrastructure/storage/localfs"
	memorystore "github.com/legallens/legal-lens/internal/infrastructure/store/memory"
	postgresstore "github.com/legallens/legal-lens/internal/infrastructure/store/postgres"
	"github.com/legallens/legal-lens/internal/observability/metrics"
)

type App struct {
	Config config.Config

	Store   ports.DocumentStore
	Queue   *nats.Queue
	Service *usecase.Service
	Metrics *metrics.HTTPServerMetrics

	closeFn func()
}

// New wires the full pipeline. Unconfigured AI endpoints degrade to local
// fallbacks inside their clients; the store backend and queue are hard
// dependencies and fail startup.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	var (
		store ports.DocumentStore
		db    *sql.DB
	)
	switch cfg.StoreBackend {
	case "postgres":
		opened, err := postgresstore.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db = opened
		pgStore := postgresstore.NewStore(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		store = pgStore
	default:
		store = memorystore.New()
	}

	archive, err := localfs.New(cfg.StoragePath)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("init archive storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	requestTimeout := time.Duration(cfg.RequestTimeoutSec) * time.Second

	extractorExecutor := resilience.NewExecutor(resilience.DefaultConfig())

	llmConfig := resilience.DefaultConfig()
	llmConfig.RateLimitPerSecond = float64(cfg.LLMRatePerSecond)
	llmConfig.RateLimitBurst = cfg.LLMRateBurst
	llmExecutor := resilience.NewExecutor(llmConfig)

	httpMetrics := metrics.NewHTTPServerMetrics("api")

	extractor := docai.New(
		cfg.DocAIEndpoint,
		cfg.DocAIProcessorID,
		cfg.DocAIAccessToken,
		requestTimeout,
		extractorExecutor,
		fallback.New(),
	)

	vertexClient := vertex.NewClient(cfg.VertexEndpoint, cfg.VertexModel, cfg.VertexAccessToken, requestTimeout)
	analyzer := vertex.NewAnalyzer(vertexClient, llmExecutor, func(tier vertex.ParseTier) {
		httpMetrics.RecordParseTier("api", string(tier))
	})

	service := usecase.NewService(
		store,
		extractor,
		analyzer,
		usecase.WithMaxFileSize(cfg.MaxFileSizeBytes),
		usecase.WithArchive(archive),
		usecase.WithEventPublisher(queue),
		usecase.WithMetrics(httpMetrics.Pipeline("api")),
	)

	return &App{
		Config:  cfg,
		Store:   store,
		Queue:   queue,
		Service: service,
		Metrics: httpMetrics,

		closeFn: func() {
			queue.Close()
			if db != nil {
				_ = db.Close()
			}
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
