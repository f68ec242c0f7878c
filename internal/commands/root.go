// Package commands holds the cobra subcommands of the indohomz binary.
package commands

import (
	"IndoHomz/internal/config"
	"IndoHomz/internal/db"
	"IndoHomz/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// NewRootCmd builds the command tree. cfg is shared by every subcommand.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "indohomz",
		Short:         "IndoHomz site, admin panel and API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(cfg.AppName, cfg.LogLevel)
		},
	}
	root.AddCommand(
		ServeCmd(cfg),
		MigrateCmd(cfg),
		SeedCmd(cfg),
		CreateAdminCmd(cfg),
	)
	return root
}

// openDB opens and migrates the configured database.
func openDB(cfg *config.Config) (*gorm.DB, error) {
	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb); err != nil {
		db.Close(gdb)
		return nil, err
	}
	return gdb, nil
}
