package cmd

import (
	"fmt"

	"promptpilot/internal/store/primary"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migratePrint bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Creates the users, prompts and ai_usage_logs tables. Safe to run repeatedly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migratePrint {
			fmt.Print(primary.Schema())
			return nil
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		ps, ok := appInstance.Store.(*primary.StoreImpl)
		if !ok {
			log.Warn("In-memory store configured; nothing to migrate.")
			return nil
		}
		if err := ps.Migrate(cmd.Context()); err != nil {
			return err
		}
		fmt.Println(color.GreenString("Schema applied."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "Print the schema instead of applying it")
}
