package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"LawExporter/internal/artifact"
	"LawExporter/internal/config"
	"LawExporter/internal/identity"
	"LawExporter/internal/infrastructure/llm"
	"LawExporter/internal/infrastructure/parser"
	"LawExporter/internal/infrastructure/storage"
	"LawExporter/internal/logging"
	"LawExporter/internal/ports"
	"LawExporter/internal/translation"
	"LawExporter/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	exporter *usecase.Exporter
	db       *sql.DB
	index    *storage.PostgresRepository
}

// New validates cfg and builds a runnable application. Errors are fatal startup errors.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store := storage.NewFSStore()
	source := parser.NewFileSource(store, parser.NewLegiParser(), cfg.Input, baseLogger.With("component", "source"))

	var translator ports.Translator
	if cfg.Translation.Enabled {
		providers, err := NewProviderRegistry().Build(cfg.Translation.Providers)
		if err != nil {
			return nil, err
		}
		if len(providers) == 0 {
			return nil, fmt.Errorf("translation enabled but no provider could be built")
		}
		for _, p := range providers {
			baseLogger.Info("translation provider enabled", "provider", p.Name())
		}
		cache := storage.NewTranslationCache(store, cfg.Translation.CacheDir)
		translator = translation.NewGateway(cache, providers, cfg.Translation.Prompt, baseLogger.With("component", "translation"))
	}

	application := &Application{}

	var index ports.ArtifactRepository
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open index database: %w", err)
		}
		application.db = db
		application.index = storage.NewPostgresRepository(db, cfg.Database.Table)
		index = application.index
	}

	application.exporter = usecase.NewExporter(usecase.ExporterDeps{
		Source:     source,
		Store:      store,
		Translator: translator,
		Index:      index,
		Identity:   identity.NewResolver(cfg.Export.IDAttribute, nil),
		Composer: artifact.NewComposer(artifact.Options{
			IncludeContext: cfg.Export.IncludeContext,
			SourceLanguage: cfg.Export.SourceLanguage,
			TargetLanguage: cfg.Export.TargetLanguage,
		}),
		OutputRoot: cfg.Output.Dir,
		Logger:     baseLogger.With("component", "exporter"),
	})
	return application, nil
}

// NewProviderRegistry registers every supported translation backend.
func NewProviderRegistry() *translation.Registry {
	registry := translation.NewRegistry()
	registry.Register(config.ProviderOllama, func(cfg config.ProviderConfig) (ports.Provider, error) {
		p, err := llm.NewOllamaProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
	registry.Register(config.ProviderOpenAI, func(cfg config.ProviderConfig) (ports.Provider, error) {
		p, err := llm.NewOpenAIProvider(cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
	return registry
}

// Run performs a single export over the whole corpus.
func (a *Application) Run(ctx context.Context) error {
	if a.db != nil {
		defer a.db.Close()
		if err := a.db.PingContext(ctx); err != nil {
			return fmt.Errorf("connect index database: %w", err)
		}
		if err := a.index.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	if _, err := a.exporter.Run(ctx); err != nil {
		return err
	}
	return nil
}
