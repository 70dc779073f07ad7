package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/magstudio/internal/common"
	"github.com/ternarybob/magstudio/internal/handlers"
	"github.com/ternarybob/magstudio/internal/interfaces"
	"github.com/ternarybob/magstudio/internal/services/events"
	"github.com/ternarybob/magstudio/internal/services/interactions"
	"github.com/ternarybob/magstudio/internal/services/llm"
	"github.com/ternarybob/magstudio/internal/services/slides"
	"github.com/ternarybob/magstudio/internal/services/studio"
	"github.com/ternarybob/magstudio/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Event-driven services
	EventService interfaces.EventService

	// Generation pipeline
	ProviderFactory *llm.ProviderFactory
	StudioService   *studio.Service
	Curator         *studio.Curator
	SlideService    *slides.Service
	Relay           *interactions.Relay

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	StatusHandler *handlers.StatusHandler
	KVHandler     *handlers.KVHandler
	StudioHandler *handlers.StudioHandler
	SlideHandler  *handlers.SlideHandler
	IssueHandler  *handlers.IssueHandler
	AuditHandler  *handlers.AuditHandler
	WSHandler     *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// EventService is created before handlers so the WebSocket handler can subscribe
	app.EventService = events.NewService(app.Logger)
	if err := events.SubscribeLoggerToAllEvents(app.EventService, app.Logger); err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to subscribe event logger")
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Int("profiles", len(app.StudioService.Registry().Descriptors())).
		Bool("fetch_excerpts", cfg.Sources.FetchExcerpts).
		Str("default_provider", string(cfg.LLM.DefaultProvider)).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	// API keys in .env take precedence over TOML values, see common.ResolveAPIKey
	if err := a.StorageManager.LoadEnvFile(context.Background(), ".env"); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	return nil
}

// initServices builds the generation pipeline in dependency order:
// provider transport, renderer, registry, invoker, audio, excerpts, then the services using them.
func (a *App) initServices() error {
	a.ProviderFactory = llm.NewProviderFactory(
		&a.Config.Gemini,
		&a.Config.Claude,
		&a.Config.LLM,
		a.StorageManager.KeyValueStorage(),
		a.Logger,
	)

	renderer, err := studio.NewRenderer(a.Config.Studio.Seed)
	if err != nil {
		return fmt.Errorf("failed to create listicle renderer: %w", err)
	}

	registry, err := studio.NewRegistry(&a.Config.Studio, &a.Config.Gemini, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to build profile registry: %w", err)
	}

	invoker := studio.NewInvoker(a.ProviderFactory, a.Logger)
	audio := studio.NewAudioAdapter(a.ProviderFactory, a.Config.Gemini.SpeechModel, a.Logger)

	var excerpts *studio.ExcerptFetcher
	if a.Config.Sources.FetchExcerpts {
		excerpts = studio.NewExcerptFetcher(&a.Config.Sources, a.Logger)
		a.Logger.Debug().Int("excerpt_chars", a.Config.Sources.ExcerptChars).Msg("Web source excerpts enabled")
	}

	a.StudioService = studio.NewService(
		registry,
		invoker,
		renderer,
		audio,
		excerpts,
		a.StorageManager.AuditStorage(),
		a.EventService,
		a.Logger,
	)
	a.Curator = studio.NewCurator(invoker, a.Config.Gemini.FastModel, a.Logger)
	a.SlideService = slides.NewService(a.StorageManager.SlideStorage(), renderer, a.EventService, a.Logger)
	a.Relay = interactions.NewRelay(&a.Config.Interactions, a.EventService, a.Logger)

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler()
	a.StatusHandler = handlers.NewStatusHandler(a.StorageManager.SlideStorage(), a.StudioService.Registry(), a.Logger)
	a.KVHandler = handlers.NewKVHandler(a.StorageManager.KeyValueStorage(), a.Logger)
	a.StudioHandler = handlers.NewStudioHandler(a.StudioService, a.Curator, a.SlideService, a.Logger)
	a.SlideHandler = handlers.NewSlideHandler(a.SlideService, a.Relay, a.Logger)
	a.IssueHandler = handlers.NewIssueHandler(a.StorageManager.IssueStorage(), a.Logger)
	a.AuditHandler = handlers.NewAuditHandler(a.StorageManager.AuditStorage(), a.Logger)
	a.WSHandler = handlers.NewWebSocketHandler(a.EventService, a.Logger, &a.Config.WebSocket)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.ProviderFactory != nil {
		if err := a.ProviderFactory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close provider factory")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		} else {
			a.Logger.Info().Msg("Event service closed")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
