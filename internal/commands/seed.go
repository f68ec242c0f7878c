package commands

import (
	"fmt"

	"IndoHomz/internal/config"
	"IndoHomz/internal/db"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/seed"

	"github.com/spf13/cobra"
)

func SeedCmd(cfg *config.Config) *cobra.Command {
	var (
		file     string
		clear    bool
		noImages bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load property listings from a JSON or YAML file",
		Long:  `Loads listings from --file, or the built-in dataset when no file is given. Listings whose slug already exists are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadSeedItems(file)
			if err != nil {
				return err
			}
			gdb, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			res, err := seed.Run(cmd.Context(), repositories.NewPropertyRepository(gdb), items,
				seed.Options{Clear: clear, NoImages: noImages, ImageDir: cfg.ImageDir})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if clear {
				fmt.Fprintf(out, "Cleared: %d properties\n", res.Cleared)
			}
			fmt.Fprintf(out, "Created: %d properties\n", res.Created)
			if res.Skipped > 0 {
				fmt.Fprintf(out, "Skipped: %d (already exist)\n", res.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "JSON or YAML file to load")
	cmd.Flags().BoolVar(&clear, "clear", false, "remove existing properties first")
	cmd.Flags().BoolVar(&noImages, "no-images", false, "do not assign placeholder images")
	return cmd
}

func loadSeedItems(file string) ([]seed.Item, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.Load(file)
}
