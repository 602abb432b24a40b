package cmd

import (
	"fmt"
	"os"
	"strconv"

	"promptpilot/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the model catalog with per-1K-token pricing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		category, err := clix.ParseCategory(cmd.Flags())
		if err != nil {
			return err
		}

		list, err := appInstance.Catalog.List(cmd.Context(), category)
		if err != nil {
			return fmt.Errorf("list models: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No models found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Name", "Category", "Context", "Prompt $/1K", "Completion $/1K"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, m := range list {
			table.Append([]string{
				m.ID,
				m.Name,
				m.Category,
				strconv.Itoa(m.ContextLength),
				strconv.FormatFloat(m.Pricing.Prompt, 'f', -1, 64),
				strconv.FormatFloat(m.Pricing.Completion, 'f', -1, 64),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().StringP("category", "c", "", "Only list models for this category")
}
