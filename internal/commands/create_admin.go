package commands

import (
	"errors"
	"fmt"

	"IndoHomz/internal/config"
	"IndoHomz/internal/db"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/services"

	"github.com/spf13/cobra"
)

func CreateAdminCmd(cfg *config.Config) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator, or reset and re-activate an existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}
			gdb, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			auth := services.NewAuthService(repositories.NewAdminRepository(gdb),
				cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
			admin, created, err := auth.CreateAdmin(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			verb := "Updated"
			if created {
				verb = "Created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s administrator %s (id %d)\n", verb, admin.Email, admin.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (8+ chars with upper, lower and digit)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}
