package main

import (
	"fmt"

	"github.com/sifan077/slugurl/internal/app/bootstrap"
	"github.com/spf13/cobra"
)

func newMigrateCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the short_links schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := bootstrap.Migrate(cmd.Context(), app.cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date (%s)\n", app.cfg.Store.Driver)
			return nil
		},
	}
}
