package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"promptpilot/internal/clix"

	"github.com/spf13/cobra"
)

var (
	costListLimit  int
	costListOffset int
)

// costCmd represents the base command for cost operations.
var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "View AI usage costs",
	Long:  `Provides subcommands to list detailed AI usage logs and view cost summaries.`,
}

var costListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detailed AI usage logs",
	Long:  `Displays a paginated list of recorded AI API calls with associated costs and token counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return fmt.Errorf("invalid pagination flags: %w", err)
		}

		logs, err := appInstance.CostService.ListUsage(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list cost logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No cost logs found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTimestamp\tProvider\tService\tModel\tIn Tokens\tOut Tokens\tCost\tUser\tPrompt")
		fmt.Fprintln(w, "--\t---------\t--------\t-------\t-----\t---------\t----------\t----\t----\t------")

		for _, l := range logs {
			userStr := "N/A"
			if l.UserID != nil {
				userStr = *l.UserID
			}
			promptStr := "N/A"
			if l.PromptID != nil {
				promptStr = l.PromptID.String()
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%.8f\t%s\t%s\n",
				strconv.FormatInt(l.ID, 10),
				l.Timestamp.Format("2006-01-02 15:04:05"),
				l.ProviderName,
				l.ServiceType,
				l.ModelName,
				l.InputTokens,
				l.OutputTokens,
				l.Cost,
				userStr,
				promptStr,
			)
		}
		w.Flush()

		fmt.Printf("\nDisplayed %d logs.\n", len(logs))
		return nil
	},
}

var costSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show summary of total AI costs and token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		summary, err := appInstance.CostService.GetSummary(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get cost summary: %w", err)
		}

		fmt.Println("AI Usage Cost Summary:")
		fmt.Println("----------------------")
		fmt.Printf("Total Cost:          $%.6f\n", summary.TotalCost)
		fmt.Printf("Total Input Tokens:  %d\n", summary.TotalInputTokens)
		fmt.Printf("Total Output Tokens: %d\n", summary.TotalOutputTokens)
		fmt.Println("----------------------")
		return nil
	},
}

func init() {
	costCmd.AddCommand(costListCmd)
	costCmd.AddCommand(costSummaryCmd)

	costListCmd.Flags().IntVarP(&costListLimit, "limit", "l", 50, "Number of logs to display")
	costListCmd.Flags().IntVarP(&costListOffset, "offset", "o", 0, "Number of logs to skip")
}
