package main

import (
	"github.com/sifan077/slugurl/internal/app/service"
	"github.com/spf13/cobra"
)

func newCreateCmd(app *cli) *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "create <target-url>",
		Short: "Shorten a URL",
		Example: `  slugurl create https://example.com
  slugurl create --length 8 https://example.com/docs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := app.runtime(cmd)
			if err != nil {
				return err
			}
			defer rt.Close()

			link, err := rt.Links.CreateLink(cmd.Context(), service.CreateLinkInput{
				Target:     args[0],
				SlugLength: length,
			})
			if err != nil {
				return err
			}
			return printLink(cmd, link)
		},
	}

	cmd.Flags().IntVarP(&length, "length", "l", 0, "slug length (defaults to slug.length from config)")
	return cmd
}
