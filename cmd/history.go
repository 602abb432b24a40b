package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"promptpilot/internal/clix"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var historyUser string

// historyCmd lists the stored prompt records of one user.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List a user's stored prompts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if historyUser == "" {
			return fmt.Errorf("--user is required")
		}

		pagination, err := clix.ParsePagination(cmd.Flags())
		if err != nil {
			return fmt.Errorf("invalid pagination flags: %w", err)
		}

		records, err := appInstance.PromptService.History(cmd.Context(), historyUser, pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("error listing prompt history: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No prompts found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Category", "Model", "Tokens", "Prompt", "Created At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, r := range records {
			table.Append([]string{
				r.ID.String(),
				r.Category,
				r.ModelUsed,
				strconv.Itoa(r.Tokens),
				truncate(r.OriginalText, 60),
				r.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "Clerk user id whose prompts to list")
	historyCmd.Flags().IntP("limit", "l", 20, "Number of prompts to display")
	historyCmd.Flags().IntP("offset", "o", 0, "Number of prompts to skip")
}
