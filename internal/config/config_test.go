package config

import (
	"os"
	"path/filepath"
	"testing"

	"promptpilot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	cfg.Database.UseInMemory = true
	cfg.Auth.ClerkJWTKey = "key"
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "openrouter", cfg.Provider.Name)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Provider.OpenRouterBaseURL)
	assert.Equal(t, "openai/gpt-4o", cfg.Prompts.Model)
	assert.Equal(t, 1024, cfg.Prompts.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Prompts.Temperature, 1e-9)
	assert.Equal(t, "openai/gpt-3.5-turbo", cfg.Categorization.Model)
	assert.Equal(t, "static", cfg.Catalog.Source)
	assert.Equal(t, "clerk", cfg.Auth.Mode)
	assert.Equal(t, map[string]int{"usage": 1}, cfg.Worker.Queues)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("CLERK_WEBHOOK_SECRET", "whsec_test")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://proj.supabase.co")
	t.Setenv("DATABASE_URL", "postgres://localhost/promptpilot")
	t.Setenv("PROMPTS_MODEL", "anthropic/claude-3-opus")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sk-or-test", cfg.Provider.OpenRouterAPIKey)
	assert.Equal(t, "whsec_test", cfg.Webhook.ClerkSecret)
	assert.Equal(t, "https://proj.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "postgres://localhost/promptpilot", cfg.Database.DSN)
	assert.Equal(t, "anthropic/claude-3-opus", cfg.Prompts.Model)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
provider:
  name: gemini
catalog:
  models:
    - id: custom/model
      name: Custom
      context_length: 4096
      pricing:
        prompt: 0.001
        completion: 0.002
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider.Name)
	require.Len(t, cfg.Catalog.Models, 1)
	assert.Equal(t, "custom/model", cfg.Catalog.Models[0].ID)
	assert.InDelta(t, 0.002, cfg.Catalog.Models[0].Pricing.Completion, 1e-9)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "dsn required",
			mutate:  func(c *Config) { c.Database.UseInMemory = false },
			wantErr: "database.dsn",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Provider.Name = "anthropic" },
			wantErr: "provider.name",
		},
		{
			name:    "bad gin mode",
			mutate:  func(c *Config) { c.Server.Mode = "verbose" },
			wantErr: "server.mode",
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.Prompts.Temperature = 2.5 },
			wantErr: "prompts.temperature",
		},
		{
			name:    "clerk key required",
			mutate:  func(c *Config) { c.Auth.ClerkJWTKey = "" },
			wantErr: "auth.clerk_jwt_key",
		},
		{
			name:   "header mode needs no clerk key",
			mutate: func(c *Config) { c.Auth.Mode = "header"; c.Auth.ClerkJWTKey = "" },
		},
		{
			name:    "worker queues checked with redis",
			mutate:  func(c *Config) { c.Redis.Address = "localhost:6379"; c.Worker.Queues = nil },
			wantErr: "worker.queues",
		},
		{
			name: "catalog model needs context length",
			mutate: func(c *Config) {
				c.Catalog.Models = []models.ModelDescriptor{{ID: "custom/model"}}
			},
			wantErr: "context_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
