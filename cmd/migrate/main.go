package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/processimo/internal/config"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/repository/postgres"
)

func main() {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the marketplace schema to the configured SQL store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(db *sqlx.DB, log *logger.Logger) error {
				if err := postgres.RunMigrations(db, log); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Println("Migrations completed successfully")
				return nil
			})
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(db *sqlx.DB, _ *logger.Logger) error {
				states, err := postgres.MigrationStatus(db)
				if err != nil {
					return err
				}
				for _, st := range states {
					mark := "pending"
					if st.Applied {
						mark = "applied"
					}
					fmt.Printf("%-8s %s\n", mark, st.Version)
				}
				return nil
			})
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withStore opens the store named by DB_DRIVER. The memory driver has no
// schema, so fn is skipped.
func withStore(fn func(*sqlx.DB, *logger.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Database.Driver == "memory" {
		fmt.Println("DB_DRIVER is memory, nothing to migrate")
		return nil
	}
	db, err := postgres.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", cfg.Database.Driver, err)
	}
	defer db.Close()
	return fn(db, logger.New(logger.Config{Level: cfg.Logging.Level, Format: "console"}))
}
