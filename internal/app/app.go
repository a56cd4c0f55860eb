// Package app wires configuration into the summarization pipeline shared by
// the API server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/repository"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/external/ocr"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/storage"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/telemetry"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/ingest"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/meeting"
	"github.com/johnquangdev/meeting-summarizer/internal/usecase/summary"
	"github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
	"github.com/johnquangdev/meeting-summarizer/pkg/executor"
)

// cacheSweepInterval is how often the in-process response cache drops expired entries
const cacheSweepInterval = 10 * time.Minute

// App holds the wired components
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *telemetry.Metrics
	Generator  ai.Generator
	Ingest     *ingest.Service
	Summarizer *summary.Summarizer
	Repository repositories.MeetingRepository
	Storage    *storage.MinIOClient
	Meetings   meeting.Service

	closers []func(context.Context) error
}

// NewLogger returns a production logger in production and a development
// logger otherwise
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// New wires every component. Close releases what New opened, also after a
// partial failure.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}
	if err := a.init(ctx); err != nil {
		_ = a.Close(context.Background())
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	if cfg.Telemetry.MetricsEnabled {
		log.Println("📈 Initializing telemetry...")
		shutdown, err := telemetry.InitProvider(ctx, telemetry.ProviderConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
		})
		if err != nil {
			return fmt.Errorf("failed to init telemetry: %w", err)
		}
		a.closers = append(a.closers, shutdown)

		if a.Metrics, err = telemetry.NewGlobalMetrics(); err != nil {
			return fmt.Errorf("failed to create metrics: %w", err)
		}
	}

	log.Printf("🤖 Initializing generator (%s)...", cfg.LLM.Provider)
	gen, err := ai.NewGenerator(ctx, cfg, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	responseCache, err := a.responseCache(ctx)
	if err != nil {
		return err
	}
	if responseCache != nil {
		gen = ai.NewCachedGenerator(gen, responseCache, cfg.LLM.CacheTTL, a.Logger, ai.WithCacheFilter(summary.Cacheable))
	}
	a.Generator = telemetry.InstrumentGenerator(gen, a.Metrics, telemetry.Tracer())

	log.Println("📥 Initializing ingestion...")
	ocrCfg := cfg.OCR
	if ocrCfg.Enabled && !(executor.Available(ocrCfg.PdftoppmPath) && executor.Available(ocrCfg.TesseractPath)) {
		log.Println("⚠️  pdftoppm or tesseract not found, scanned documents will be skipped")
		ocrCfg.Enabled = false
	}
	ocrEngine := ocr.New(&ocrCfg, executor.New())
	transcriber := ai.NewAssemblyAIClient(&cfg.AssemblyAI)
	a.Ingest = ingest.NewService(ocrEngine, transcriber, cfg.AssemblyAI.SpeakerGap, a.Logger)
	if !a.Ingest.CanTranscribe() {
		log.Println("⚠️  ASSEMBLYAI_API_KEY not set, audio uploads will yield no transcript")
	}

	a.Summarizer = summary.NewSummarizer(a.Generator, summary.NewConfig(cfg),
		summary.WithLogger(a.Logger),
		summary.WithTracer(telemetry.Tracer()),
		summary.WithMetrics(a.Metrics),
	)

	if a.Repository, err = a.openRepository(); err != nil {
		return err
	}

	var archiver meeting.Archiver
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		if a.Storage, err = storage.NewMinIOClient(ctx, &cfg.Storage); err != nil {
			return fmt.Errorf("failed to connect to object storage: %w", err)
		}
		archiver = a.Storage
	}

	a.Meetings = meeting.NewMeetingService(a.Ingest, a.Summarizer, a.Repository, archiver, cfg.Pipeline.ListLimit, a.Logger)
	return nil
}

// responseCache picks Redis when enabled, an in-process store otherwise, and
// nothing when caching is off
func (a *App) responseCache(ctx context.Context) (ai.ResponseCache, error) {
	if a.Config.LLM.CacheTTL <= 0 {
		return nil, nil
	}
	if a.Config.Redis.Enabled {
		log.Println("📦 Connecting to Redis...")
		store, err := cache.NewRedisStore(ctx, a.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return store.Close() })
		return store, nil
	}

	store := cache.NewMemoryStore(cacheSweepInterval)
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	return store, nil
}

func (a *App) openRepository() (repositories.MeetingRepository, error) {
	cfg := a.Config
	if cfg.Database.Driver == database.DriverMemory {
		log.Println("⚠️  DB_DRIVER=memory, meetings are lost on restart")
		return repository.NewMemoryMeetingRepository(), nil
	}

	log.Printf("📦 Connecting to database (%s)...", cfg.Database.Driver)
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return database.CloseDB(db) })

	if err := migrateOnStart(db, cfg); err != nil {
		return nil, err
	}
	return repository.NewMeetingRepository(db), nil
}

// migrateOnStart applies embedded migrations when DB_AUTO_MIGRATE is set.
// Production schemas are managed with scripts/migrate.go.
func migrateOnStart(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Database.AutoMigrate {
		log.Println("🔄 Skipping migrations; run scripts/migrate.go to manage the schema")
		return nil
	}
	if cfg.IsProduction() && cfg.Database.Driver == database.DriverPostgres {
		return errors.New("DB_AUTO_MIGRATE is enabled in production; disable it and manage schema with sql-migrate")
	}
	if err := database.AutoMigrate(db, cfg.Database.Driver); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases resources in reverse order of acquisition
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
