package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waktunyapuasa/puasa/internal/config"
	"github.com/waktunyapuasa/puasa/internal/db"
	"github.com/waktunyapuasa/puasa/internal/model"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back SQL migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, true)
		},
	})
	return cmd
}

func migrate(cmd *cobra.Command, down bool) error {
	cfg := config.Load()
	if cfg.CheckinStore != model.StoreSQL {
		return fmt.Errorf("migrations only apply to CHECKIN_STORE=sql (current: %s)", cfg.CheckinStore)
	}

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return err
	}
	defer database.Close()

	if down {
		err = db.MigrateDown(database.DB, cfg.DBDriver)
	} else {
		err = db.RunMigrations(database.DB, cfg.DBDriver)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "migrations done")
	return nil
}
