package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/quickkart/internal/config"
	"github.com/Skotchmaster/quickkart/internal/db"
	"github.com/Skotchmaster/quickkart/internal/repo/mongorepo"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables (gorm) or indexes (mongo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := cfg.ValidateStore(); err != nil {
				return err
			}
			ctx := cmd.Context()

			if cfg.Store == config.StoreMongo {
				client, _, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "mongo indexes ensured")
				return client.Disconnect(ctx)
			}

			gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close(gdb)
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema migrated")
			return nil
		},
	}
}
