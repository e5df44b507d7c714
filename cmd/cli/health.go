package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.Links.HealthCheck(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
