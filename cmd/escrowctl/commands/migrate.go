package commands

import (
	"fmt"
	"marketplace_escrow/internal/app"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the DynamoDB tables or apply SQLite migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWire(cmd, func(w *app.Wire) error {
				if err := w.Migrate(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s store is up to date\n", cfg.StorageDriver)
				return nil
			})
		},
	}
}
