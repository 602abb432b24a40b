package config

import (
	"errors"
	"fmt"
)

/*
Validate checks the settings the process cannot start without. Secrets used
by a single endpoint (webhook secret, Supabase keys, provider API keys) are
checked lazily by that endpoint so the rest of the API keeps serving.
*/
func (c *Config) Validate() error {
	if !c.Database.UseInMemory && c.Database.DSN == "" {
		return errors.New("database.dsn is required unless database.use_in_memory is true")
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of debug, release, test (got %q)", c.Server.Mode)
	}

	switch c.Provider.Name {
	case "openrouter", "openai", "gemini":
	default:
		return fmt.Errorf("provider.name must be one of openrouter, openai, gemini (got %q)", c.Provider.Name)
	}

	if c.Prompts.Model == "" {
		return errors.New("prompts.model is required")
	}
	if c.Prompts.MaxTokens <= 0 {
		return errors.New("prompts.max_tokens must be a positive integer")
	}
	if c.Prompts.Temperature < 0 || c.Prompts.Temperature > 2 {
		return fmt.Errorf("prompts.temperature must be within [0,2] (got %v)", c.Prompts.Temperature)
	}
	if c.Categorization.Model == "" {
		return errors.New("categorization.model is required")
	}

	switch c.Catalog.Source {
	case "static", "provider":
	default:
		return fmt.Errorf("catalog.source must be static or provider (got %q)", c.Catalog.Source)
	}

	switch c.Auth.Mode {
	case "clerk":
		if c.Auth.ClerkJWTKey == "" {
			return errors.New("auth.clerk_jwt_key is required when auth.mode is clerk")
		}
	case "header":
		if c.Auth.DevHeader == "" {
			return errors.New("auth.dev_header is required when auth.mode is header")
		}
	default:
		return fmt.Errorf("auth.mode must be clerk or header (got %q)", c.Auth.Mode)
	}

	// Worker config only matters when usage logs go through Redis.
	if c.Redis.Address != "" {
		if c.Worker.Concurrency <= 0 {
			return errors.New("worker.concurrency must be a positive integer")
		}
		if len(c.Worker.Queues) == 0 {
			return errors.New("worker.queues must define at least one queue")
		}
		for name, priority := range c.Worker.Queues {
			if name == "" {
				return errors.New("worker.queues contains an empty queue name")
			}
			if priority <= 0 {
				return fmt.Errorf("worker.queues priority for queue '%s' must be positive", name)
			}
		}
	}

	for i, m := range c.Catalog.Models {
		if m.ID == "" {
			return fmt.Errorf("catalog.models[%d].id is required", i)
		}
		if m.ContextLength <= 0 {
			return fmt.Errorf("catalog.models[%d] (%s) context_length must be positive", i, m.ID)
		}
		if m.Pricing.Prompt < 0 || m.Pricing.Completion < 0 {
			return fmt.Errorf("catalog.models[%d] (%s) has negative pricing", i, m.ID)
		}
	}

	return nil
}
