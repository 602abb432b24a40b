package cmd

import (
	"fmt"
	"strings"

	"promptpilot/internal/clix"
	"promptpilot/internal/inputprocessor"
	"promptpilot/pkg/categorizer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	categorizeUseLLM bool
	recommendUser    string

	promptInput = inputprocessor.New()
)

// readPrompt resolves the positional args into prompt text. A single argument
// may name a file, a URL or "-" for stdin.
func readPrompt(cmd *cobra.Command, args []string) (string, error) {
	res, err := promptInput.Process(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// categorizeCmd classifies a prompt without storing anything.
var categorizeCmd = &cobra.Command{
	Use:   "categorize [prompt|file|url|-]",
	Short: "Classify a prompt into chat, code, reasoning, writing or multimodal",
	Long: `Classifies a prompt with the keyword rules, or with the configured LLM
classifier when --llm is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		text, err := readPrompt(cmd, args)
		if err != nil {
			return err
		}

		var classifier categorizer.ContentCategorizer = categorizer.NewKeywordCategorizer(nil)
		if categorizeUseLLM {
			classifier = appInstance.Classifier
		}
		res, err := classifier.Categorize(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("categorize prompt: %w", err)
		}

		fmt.Printf("Category:   %s\n", color.CyanString(res.Category.String()))
		fmt.Printf("Confidence: %.2f\n", res.Confidence)
		if res.Tokens > 0 {
			fmt.Printf("Tokens:     %d\n", res.Tokens)
		}
		return nil
	},
}

// recommendCmd prints the models recommended for a prompt.
var recommendCmd = &cobra.Command{
	Use:   "recommend [prompt|file|url|-]",
	Short: "Recommend models for a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		category, err := clix.ParseCategory(cmd.Flags())
		if err != nil {
			return err
		}

		text, err := readPrompt(cmd, args)
		if err != nil {
			return err
		}

		res, err := appInstance.RecommendationService.Recommend(cmd.Context(), recommendUser, text, category)
		if err != nil {
			return fmt.Errorf("recommend models: %w", err)
		}

		fmt.Printf("Category:   %s (confidence %.2f)\n", color.CyanString(res.Category.String()), res.Confidence)
		for i, m := range res.RecommendedModels {
			fmt.Printf("  %d. %s\n", i+1, color.GreenString(m))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(recommendCmd)

	categorizeCmd.Flags().BoolVar(&categorizeUseLLM, "llm", false, "Use the configured LLM classifier instead of keyword rules")
	recommendCmd.Flags().StringP("category", "c", "", "Skip classification and use this category")
	recommendCmd.Flags().StringVarP(&recommendUser, "user", "u", "cli", "User id the call is counted against")
}
