package cmd

import (
	"context"
	"fmt"
	"os"

	"promptpilot/internal/app"
	"promptpilot/internal/config"
	"promptpilot/internal/services"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "promptpilot",
	Short: "PromptPilot API server and tools",
	Long: `PromptPilot generates, improves and classifies AI prompts and recommends
which hosted model to run them on. Use "serve" to run the HTTP API.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "help", "version", "completion", "promptpilot":
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		configureLogging(cfg)
		gin.SetMode(cfg.Server.Mode)

		appInstance, err := app.NewApp(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			appInstance.Close()
		}
	},
}

func configureLogging(cfg *config.Config) {
	if cfg.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext returns the instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(costCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database, provider and queue configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}
		cfg := appInstance.Config
		ok := color.GreenString("ok")

		fmt.Println("Checking database connectivity...")
		if err := appInstance.Store.Ping(ctx); err != nil {
			fmt.Printf("  database: %s (%v)\n", color.RedString("FAILED"), err)
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Printf("  database: %s\n", ok)

		status := appInstance.Provider.Status().String()
		if appInstance.Provider.Status() == services.ProviderStatusActive {
			status = color.GreenString(status)
		} else {
			status = color.YellowString(status)
		}
		fmt.Printf("  provider %s: %s\n", appInstance.Provider.Name(), status)

		if appInstance.JobClient != nil {
			fmt.Printf("  usage queue: %s (redis %s)\n", ok, cfg.Redis.Address)
		} else {
			fmt.Printf("  usage queue: %s (writing usage logs directly)\n", color.YellowString("disabled"))
		}

		checks := []struct {
			name string
			set  bool
		}{
			{"clerk webhook secret", cfg.Webhook.ClerkSecret != ""},
			{"supabase auth", cfg.Supabase.URL != "" && cfg.Supabase.AnonKey != ""},
		}
		for _, c := range checks {
			if c.set {
				fmt.Printf("  %s: %s\n", c.name, ok)
			} else {
				fmt.Printf("  %s: %s\n", c.name, color.YellowString("not configured"))
			}
		}
		return nil
	},
}
