package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-agent-api/internal/handler"
	"github.com/noah-isme/edu-agent-api/internal/repository"
	"github.com/noah-isme/edu-agent-api/internal/service"
	"github.com/noah-isme/edu-agent-api/pkg/cache"
	"github.com/noah-isme/edu-agent-api/pkg/config"
	"github.com/noah-isme/edu-agent-api/pkg/database"
	"github.com/noah-isme/edu-agent-api/pkg/events"
	"github.com/noah-isme/edu-agent-api/pkg/jobs"
	"github.com/noah-isme/edu-agent-api/pkg/llm"
	"github.com/noah-isme/edu-agent-api/pkg/storage"
)

// Container holds every long-lived component of one process.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService

	Repos      *repository.Repositories
	Creator    *service.EntityCreator
	Stats      *service.StatsService
	Retriever  *service.DataRetriever
	Registry   *service.ActionRegistry
	Dispatcher *service.Dispatcher
	Agent      *service.AgentService
	Records    *service.RecordService
	Exports    *service.ExportService
	Events     *service.EventService

	db        *sqlx.DB
	cacheRepo *repository.CacheRepository
	publisher *events.KafkaPublisher
	checks    map[string]handler.ReadinessCheck
}

// New wires the container from configuration. Optional collaborators (Redis, the language model,
// Kafka) are only dialled when enabled.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: service.NewMetricsService(),
		checks:  map[string]handler.ReadinessCheck{},
	}

	backend, err := c.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	store := repository.NewRecordStore(backend, logger, repository.WithObserver(c.Metrics))
	c.Repos = repository.NewRepositories(store)
	if c.db == nil {
		c.checks["store"] = func(ctx context.Context) error {
			_, err := c.Repos.Professors.Load(ctx)
			return err
		}
	}

	var statsCache *service.CacheService
	if cfg.Stats.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.cacheRepo = repository.NewCacheRepository(client, logger)
		c.checks["redis"] = c.cacheRepo.Ping
		statsCache = service.NewCacheService(c.cacheRepo, c.Metrics, cfg.Stats.CacheTTL, logger, true)
	}

	formatter := service.NewResponseFormatter()
	c.Stats = service.NewStatsService(c.Repos, statsCache, cfg.Stats.CacheTTL, logger)
	store.AddMutationHook(c.Stats.HandleMutation)

	c.Creator = service.NewEntityCreator(c.Repos, validator.New(), formatter, service.PolicyFromConfig(cfg.Agent.LenientCreation), logger)
	c.Retriever = service.NewDataRetriever(c.Repos, c.Stats, formatter)
	c.Registry = service.NewDefaultActionRegistry(c.Creator, c.Retriever)
	c.Dispatcher = service.NewDispatcher(c.Registry, cfg.Agent.QuoteAwareScan, c.Metrics, logger)

	var completer service.Completer
	if cfg.LLM.Enabled {
		client, err := llm.New(cfg.LLM)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		completer = client
		logger.Info("language model enabled", zap.String("model", client.Model()))
	}
	c.Agent = service.NewAgentService(c.Dispatcher, c.Stats, completer, c.Metrics, logger)
	c.Records = service.NewRecordService(c.Repos, c.Creator, logger)
	c.Exports = service.NewExportService(c.Repos, logger)

	if cfg.Events.Enabled {
		publisher, err := events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.Events.Brokers, Topic: cfg.Events.Topic})
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.publisher = publisher
		c.Events = service.NewEventService(publisher, jobs.QueueConfig{
			Workers:    cfg.Events.Workers,
			BufferSize: cfg.Events.BufferSize,
			MaxRetries: cfg.Events.MaxRetries,
			RetryDelay: 2 * time.Second,
		}, c.Metrics, logger)
		store.AddMutationHook(c.Events.HandleMutation)
	}

	return c, nil
}

func (c *Container) openBackend(ctx context.Context) (repository.CollectionBackend, error) {
	if c.Config.Store.Backend == config.StoreBackendPostgres {
		db, err := database.NewPostgres(ctx, c.Config.Database)
		if err != nil {
			return nil, err
		}
		backend := repository.NewPostgresCollectionBackend(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare record_collections: %w", err)
		}
		c.db = db
		c.checks["postgres"] = db.PingContext
		c.Logger.Info("record store ready", zap.String("backend", config.StoreBackendPostgres))
		return backend, nil
	}

	files, err := storage.NewLocalStorage(c.Config.Store.DataDir)
	if err != nil {
		return nil, fmt.Errorf("prepare data dir: %w", err)
	}
	c.Logger.Info("record store ready",
		zap.String("backend", config.StoreBackendFile),
		zap.String("dir", c.Config.Store.DataDir),
	)
	return repository.NewFileCollectionBackend(files), nil
}

// Start launches background workers.
func (c *Container) Start(ctx context.Context) {
	if c.Events != nil {
		c.Events.Start(ctx)
	}
}

// ReadinessChecks lists the dependencies probed by /ready.
func (c *Container) ReadinessChecks() map[string]handler.ReadinessCheck {
	return c.checks
}

// Close stops workers and releases connections.
func (c *Container) Close() error {
	var errs []error
	if c.Events != nil {
		c.Events.Stop()
	}
	if c.publisher != nil {
		errs = append(errs, c.publisher.Close())
	}
	if c.cacheRepo != nil {
		errs = append(errs, c.cacheRepo.Close())
	}
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	return errors.Join(errs...)
}
