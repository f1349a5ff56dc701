package main

import (
	"github.com/spf13/cobra"

	"github.com/ecochef/ecochef/backend/internal/server"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables (SQL stores) or indexes (mongo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			stores, err := server.OpenStores(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer stores.Close(ctx)

			if err := stores.Migrate(ctx); err != nil {
				return err
			}
			a.logger.Info("migrations complete")
			return nil
		},
	}
}
