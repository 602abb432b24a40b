package config

import (
	"fmt"
	"strings"

	"promptpilot/internal/models"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
		Mode string `mapstructure:"mode"` // gin mode: debug, release, test
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"` // "text" or "json"
	} `mapstructure:"log"`

	Database struct {
		DSN         string `mapstructure:"dsn"`
		UseInMemory bool   `mapstructure:"use_in_memory"`
	} `mapstructure:"database"`

	// Provider selects the completion backend: "openrouter", "openai" or "gemini".
	Provider struct {
		Name              string `mapstructure:"name"`
		OpenRouterAPIKey  string `mapstructure:"openrouter_api_key"`
		OpenRouterBaseURL string `mapstructure:"openrouter_base_url"`
		SiteURL           string `mapstructure:"site_url"`
		SiteName          string `mapstructure:"site_name"`
		OpenAIAPIKey      string `mapstructure:"openai_api_key"`
		OpenAIBaseURL     string `mapstructure:"openai_base_url"`
		GeminiAPIKey      string `mapstructure:"gemini_api_key"`
		GeminiModel       string `mapstructure:"gemini_model"`
	} `mapstructure:"provider"`

	Prompts struct {
		Model            string  `mapstructure:"model"` // generate + improve
		MaxTokens        int     `mapstructure:"max_tokens"`
		Temperature      float64 `mapstructure:"temperature"`
		GenerateTemplate string  `mapstructure:"generate_template"`
		ImproveTemplate  string  `mapstructure:"improve_template"`
	} `mapstructure:"prompts"`

	Categorization struct {
		Model          string `mapstructure:"model"`
		PromptTemplate string `mapstructure:"prompt_template"`
	} `mapstructure:"categorization"`

	Catalog struct {
		Source string                   `mapstructure:"source"` // "static" or "provider"
		Models []models.ModelDescriptor `mapstructure:"models"`
	} `mapstructure:"catalog"`

	Auth struct {
		Mode              string   `mapstructure:"mode"` // "clerk" or "header" (local development only)
		ClerkJWTKey       string   `mapstructure:"clerk_jwt_key"`
		Issuer            string   `mapstructure:"issuer"`
		AuthorizedParties []string `mapstructure:"authorized_parties"`
		DevHeader         string   `mapstructure:"dev_header"`
	} `mapstructure:"auth"`

	Webhook struct {
		ClerkSecret string `mapstructure:"clerk_secret"`
	} `mapstructure:"webhook"`

	Supabase struct {
		URL     string `mapstructure:"url"`
		AnonKey string `mapstructure:"anon_key"`
	} `mapstructure:"supabase"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.use_in_memory", false)
	v.SetDefault("provider.name", "openrouter")
	v.SetDefault("provider.openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("provider.site_url", "http://localhost:3000")
	v.SetDefault("provider.site_name", "PromptPilot")
	v.SetDefault("provider.gemini_model", "gemini-1.5-flash")
	v.SetDefault("prompts.model", "openai/gpt-4o")
	v.SetDefault("prompts.max_tokens", 1024)
	v.SetDefault("prompts.temperature", 0.7)
	v.SetDefault("categorization.model", "openai/gpt-3.5-turbo")
	v.SetDefault("catalog.source", "static")
	v.SetDefault("auth.mode", "clerk")
	v.SetDefault("auth.dev_header", "X-User-ID")
	v.SetDefault("redis.address", "")
	v.SetDefault("worker.concurrency", 5)
	v.SetDefault("worker.queues", map[string]int{"usage": 1})
	v.SetDefault("metrics.enabled", true)
}

// LoadConfig reads config.yaml from the working directory (optional) and
// overlays environment variables.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".")
}

// LoadConfigFrom is LoadConfig with an explicit search directory.
func LoadConfigFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	setDefaults(v)

	// provider.openai_api_key -> PROVIDER_OPENAI_API_KEY
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The env names used by the hosted deployment.
	v.BindEnv("provider.openrouter_api_key", "PROVIDER_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	v.BindEnv("provider.openai_api_key", "PROVIDER_OPENAI_API_KEY", "OPENAI_API_KEY")
	v.BindEnv("provider.gemini_api_key", "PROVIDER_GEMINI_API_KEY", "GEMINI_API_KEY")
	v.BindEnv("provider.site_url", "PROVIDER_SITE_URL", "NEXT_PUBLIC_OPENROUTER_SITE_URL")
	v.BindEnv("webhook.clerk_secret", "WEBHOOK_CLERK_SECRET", "CLERK_WEBHOOK_SECRET")
	v.BindEnv("auth.clerk_jwt_key", "AUTH_CLERK_JWT_KEY", "CLERK_JWT_KEY")
	v.BindEnv("supabase.url", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL")
	v.BindEnv("supabase.anon_key", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY")
	v.BindEnv("database.dsn", "DATABASE_DSN", "DATABASE_URL")
	v.BindEnv("redis.address", "REDIS_ADDRESS", "REDIS_ADDR")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &config, nil
}
