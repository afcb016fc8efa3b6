package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/handlers"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/services/catalogs"
	"github.com/ternarybob/rogo/internal/services/llm"
	"github.com/ternarybob/rogo/internal/services/messages"
	"github.com/ternarybob/rogo/internal/services/onboarding"
	"github.com/ternarybob/rogo/internal/services/steps"
	"github.com/ternarybob/rogo/internal/services/validation"
	"github.com/ternarybob/rogo/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Flow engine
	StepCatalog     *steps.Catalog
	CatalogProvider interfaces.CatalogProvider
	TextService     interfaces.TextService
	Pipeline        *validation.Pipeline
	Composer        *messages.Composer
	Orchestrator    *onboarding.Orchestrator

	// LLM provider factory
	ProviderFactory *llm.ProviderFactory

	// HTTP handlers
	APIHandler        *handlers.APIHandler
	OnboardingHandler *handlers.OnboardingHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.StepCatalog = steps.NewDefaultCatalog()

	storageManager, err := badger.NewManager(logger, &cfg.Storage.Badger, app.StepCatalog.Names())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	app.ProviderFactory = llm.NewProviderFactory(&cfg.Gemini, &cfg.Claude, &cfg.LLM, logger)
	if app.ProviderFactory.Enabled() {
		app.TextService = llm.NewService(app.ProviderFactory, &cfg.Onboarding, logger)
	} else {
		logger.Warn().Msg("No LLM provider configured; semantic checks and generated messages disabled")
	}

	app.CatalogProvider, err = newCatalogProvider(cfg, logger)
	if err != nil {
		storageManager.Close()
		return nil, err
	}

	app.Pipeline = validation.NewPipeline(app.StepCatalog, app.TextService, logger)
	app.Composer = messages.NewComposer(app.TextService, logger)
	app.Orchestrator = onboarding.NewOrchestrator(
		app.StepCatalog,
		app.Pipeline,
		app.Composer,
		app.CatalogProvider,
		app.StorageManager,
		&cfg.Onboarding,
		logger,
	)

	app.APIHandler = handlers.NewAPIHandler()
	app.OnboardingHandler = handlers.NewOnboardingHandler(app.Orchestrator, logger)

	logger.Info().
		Int("steps", app.StepCatalog.Len()).
		Str("catalogs_mode", cfg.Catalogs.Mode).
		Bool("llm_enabled", app.TextService != nil).
		Msg("Application initialized")

	return app, nil
}

// newCatalogProvider selects the snapshot source for dynamic-catalog
// steps from config: an HTTP collaborator or local TOML files.
func newCatalogProvider(cfg *common.Config, logger arbor.ILogger) (interfaces.CatalogProvider, error) {
	switch cfg.Catalogs.Mode {
	case "http":
		if cfg.Catalogs.BaseURL == "" {
			return nil, fmt.Errorf("catalogs.base_url is required in http mode")
		}
		return catalogs.NewClient(cfg.Catalogs.BaseURL,
			catalogs.WithLogger(logger),
			catalogs.WithTimeout(cfg.Catalogs.GetRequestTimeout()),
			catalogs.WithRateLimit(cfg.Catalogs.RateLimit),
		), nil
	case "files", "":
		return catalogs.NewFileProvider(cfg.Catalogs.Dir, logger), nil
	default:
		return nil, fmt.Errorf("unknown catalogs mode: %s", cfg.Catalogs.Mode)
	}
}

// Close releases all application resources
func (a *App) Close() error {
	if a.ProviderFactory != nil {
		a.ProviderFactory.Close()
	}
	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close storage")
			return err
		}
	}
	a.Logger.Info().Msg("Application closed")
	return nil
}
