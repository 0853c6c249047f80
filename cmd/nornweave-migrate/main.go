// Command nornweave-migrate applies the versioned storage schema to a
// PostgreSQL database. Configuration comes from NORNWEAVE_DB_* env vars
// (optionally via a .env file) or an explicit --dsn.
package main

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/southpawriter02/nornweave/pkg/observability"
	"github.com/southpawriter02/nornweave/pkg/storage"
)

var dsn string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nornweave-migrate",
		Short:         "Manage the nornweave storage schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "database connection string (overrides NORNWEAVE_DB_* env vars)")

	logger := observability.NewStandardLogger("nornweave-migrate")

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()
			return storage.Migrate(db, logger)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations (destructive)",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()
			return storage.MigrateDown(db, logger)
		},
	})

	return root
}

func connect() (*sqlx.DB, error) {
	// A missing .env file is fine; env vars may be set directly.
	_ = godotenv.Load()

	connStr := dsn
	if connStr == "" {
		connStr = storage.LoadConfigFromEnv().DSN()
	}
	return sqlx.Connect("postgres", connStr)
}
