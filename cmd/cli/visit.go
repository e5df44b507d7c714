package main

import (
	"github.com/spf13/cobra"
)

func newVisitCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "visit <slug>",
		Short: "Resolve a short link and count the visit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			link, err := rt.Links.ResolveLink(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printLink(cmd, link)
		},
	}
}
