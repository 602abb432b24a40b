package app

import (
	"context"
	"fmt"

	"promptpilot/internal/auth"
	"promptpilot/internal/config"
	"promptpilot/internal/costtracker"
	"promptpilot/internal/metrics"
	"promptpilot/internal/services"
	"promptpilot/internal/store"
	"promptpilot/internal/store/memory"
	"promptpilot/internal/store/primary"
	"promptpilot/internal/supabase"
	"promptpilot/internal/webhook"
	"promptpilot/pkg/categorizer"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// App holds every client and service the process uses. It is built once and
// passed to the HTTP handlers and CLI commands.
type App struct {
	Config *config.Config

	Store       store.Store
	JobClient   store.JobClient // nil when usage logs are written directly
	Provider    services.CompletionProvider
	CostTracker costtracker.CostTracker
	Metrics     *metrics.Metrics

	Authenticator auth.Authenticator
	Webhooks      *webhook.Receiver

	Classifier            categorizer.ContentCategorizer
	Catalog               *services.CatalogService
	PromptService         *services.PromptService
	RecommendationService *services.RecommendationService
	UserService           *services.UserService
	CostService           *services.CostService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, Metrics: metrics.New()}

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initProvider(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.initCatalog()
	app.initCostTracker()
	if err := app.initServices(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initAuth(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}

	log.WithFields(log.Fields{
		"provider": app.Provider.Name(),
		"status":   app.Provider.Status().String(),
		"queue":    app.JobClient != nil,
	}).Info("Application initialization complete.")
	return app, nil
}

// --- Private Helper Methods ---

func (a *App) initStore(ctx context.Context) error {
	if a.Config.Database.UseInMemory {
		log.Warn("Using in-memory store; data is lost on restart.")
		a.Store = memory.New()
		return nil
	}
	ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.DSN)
	if err != nil {
		return fmt.Errorf("init primary store: %w", err)
	}
	a.Store = ps
	return nil
}

func (a *App) initProvider(ctx context.Context) error {
	p := a.Config.Provider
	switch p.Name {
	case "openrouter":
		a.Provider = services.NewOpenRouterProvider(p.OpenRouterAPIKey, p.OpenRouterBaseURL, p.SiteURL, p.SiteName)
	case "openai":
		a.Provider = services.NewOpenAIProvider(p.OpenAIAPIKey, p.OpenAIBaseURL)
	case "gemini":
		gp, err := services.NewGeminiProvider(ctx, p.GeminiAPIKey, p.GeminiModel)
		if err != nil {
			return fmt.Errorf("init gemini provider: %w", err)
		}
		a.Provider = gp
	default:
		return fmt.Errorf("unknown completion provider configured: %s", p.Name)
	}
	if a.Provider.Status() != services.ProviderStatusActive {
		log.Warnf("Completion provider %s has no API key; AI endpoints will return configuration errors.", p.Name)
	}
	return nil
}

func (a *App) initCatalog() {
	var remote services.ModelLister
	if a.Config.Catalog.Source == "provider" {
		p := a.Config.Provider
		remote = services.NewOpenRouterCatalog(p.OpenRouterAPIKey, p.OpenRouterBaseURL, p.SiteURL, p.SiteName)
	}
	a.Catalog = services.NewCatalogService(a.Config.Catalog.Models, remote)
}

func (a *App) initCostTracker() {
	var recorder costtracker.Recorder
	if a.Config.Redis.Address != "" {
		jc := store.NewAsynqJobClient(a.RedisOpt())
		a.JobClient = jc
		recorder = jc
	} else {
		recorder = store.UsageRecorder{Store: a.Store}
	}
	a.CostTracker = costtracker.New(a.Provider.Name(), a.Catalog, recorder)
}

func (a *App) initServices() error {
	cfg := a.Config

	generateTemplate, err := config.LoadPromptContent(cfg.Prompts.GenerateTemplate, services.DefaultGenerateTemplate)
	if err != nil {
		return fmt.Errorf("load generate template: %w", err)
	}
	improveTemplate, err := config.LoadPromptContent(cfg.Prompts.ImproveTemplate, services.DefaultImproveTemplate)
	if err != nil {
		return fmt.Errorf("load improve template: %w", err)
	}
	classifierTemplate, err := config.LoadPromptContent(cfg.Categorization.PromptTemplate, categorizer.DefaultClassifierPromptTemplate)
	if err != nil {
		return fmt.Errorf("load categorization prompt: %w", err)
	}

	keywords := categorizer.NewKeywordCategorizer(nil)
	a.PromptService = services.NewPromptService(a.Provider, a.Store, a.Store, keywords, a.CostTracker, a.Metrics,
		services.PromptSettings{
			Model:            cfg.Prompts.Model,
			MaxTokens:        cfg.Prompts.MaxTokens,
			Temperature:      float32(cfg.Prompts.Temperature),
			GenerateTemplate: generateTemplate,
			ImproveTemplate:  improveTemplate,
		})

	classifier := categorizer.NewLLMCategorizer(services.ChatCompletionAdapter{Provider: a.Provider},
		cfg.Categorization.Model, classifierTemplate, a.CostTracker)
	a.Classifier = classifier
	a.RecommendationService = services.NewRecommendationService(classifier, a.Store, a.Metrics)

	// A nil *AuthClient must not reach the interface as a typed nil.
	var mailer services.ConfirmationSender
	if c := supabase.NewAuthClient(cfg.Supabase.URL, cfg.Supabase.AnonKey); c != nil {
		mailer = c
	}
	a.UserService = services.NewUserService(a.Store, mailer)
	a.CostService = services.NewCostService(a.Store)

	receiver, err := webhook.NewReceiver(cfg.Webhook.ClerkSecret, a.UserService)
	if err != nil {
		return fmt.Errorf("init webhook receiver: %w", err)
	}
	a.Webhooks = receiver
	return nil
}

func (a *App) initAuth() error {
	cfg := a.Config.Auth
	switch cfg.Mode {
	case "header":
		log.Warnf("Authenticating requests from the %s header. Do not use this mode in production.", cfg.DevHeader)
		a.Authenticator = auth.HeaderAuthenticator{Header: cfg.DevHeader}
	default:
		ca, err := auth.NewClerkAuthenticator(cfg.ClerkJWTKey, cfg.Issuer, cfg.AuthorizedParties)
		if err != nil {
			return fmt.Errorf("init clerk authenticator: %w", err)
		}
		a.Authenticator = ca
	}
	return nil
}

// RedisOpt returns the asynq connection settings from config.
func (a *App) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.Config.Redis.Address,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	}
}

// Close releases the job client, the provider and the store.
func (a *App) Close() {
	a.cleanupPartialInit()
}

func (a *App) cleanupPartialInit() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.Warnf("Error closing job client: %v", err)
		}
		a.JobClient = nil
	}
	if c, ok := a.Provider.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			log.Warnf("Error closing completion provider: %v", err)
		}
	}
	if a.Store != nil {
		a.Store.Close()
		a.Store = nil
	}
}
