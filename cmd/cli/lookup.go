package main

import (
	"github.com/spf13/cobra"
)

func newLookupCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <slug>",
		Short: "Show a short link without counting a visit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			link, err := rt.Links.GetLink(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printLink(cmd, link)
		},
	}
}
