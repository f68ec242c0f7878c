package commands

import (
	"fmt"

	"IndoHomz/internal/config"
	"IndoHomz/internal/db"

	"github.com/spf13/cobra"
)

func MigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer db.Close(gdb)
			fmt.Fprintf(cmd.OutOrStdout(), "Tables are up to date on %s\n", db.SafeDSN(cfg.DatabaseURL))
			return nil
		},
	}
}
