package main

import (
	"github.com/goccy/go-json"
	"github.com/sifan077/slugurl/config"
	"github.com/sifan077/slugurl/internal/app/bootstrap"
	"github.com/sifan077/slugurl/internal/app/model"
	"github.com/sifan077/slugurl/internal/infra/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries state shared by every subcommand once the root pre-run has loaded config.
type cli struct {
	cfg *config.Config
	log *zap.Logger

	driver string
	dsn    string
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:           "slugurl",
		Short:         "Administer the slugurl link store",
		Long:          "Create, inspect and resolve short links directly against the configured store.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if app.driver != "" {
				cfg.Store.Driver = app.driver
			}
			if app.dsn != "" {
				switch cfg.Store.Driver {
				case config.DriverSQLite:
					cfg.SQLite.DSN = app.dsn
				default:
					cfg.Postgres.URL = app.dsn
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			// Keep stdout for command output; only warnings reach the log.
			logCfg := logger.FromApp(cfg.App)
			logCfg.Level = "warn"
			log, err := logger.New(logCfg)
			if err != nil {
				return err
			}

			app.cfg = cfg
			app.log = log
			return nil
		},
	}

	root.PersistentFlags().StringVar(&app.driver, "driver", "", "store driver override (postgres or sqlite)")
	root.PersistentFlags().StringVar(&app.dsn, "dsn", "", "connection string override for the selected driver")

	root.AddCommand(
		newMigrateCmd(app),
		newCreateCmd(app),
		newLookupCmd(app),
		newVisitCmd(app),
		newHealthCmd(app),
	)
	return root
}

func (a *cli) runtime(cmd *cobra.Command) (*bootstrap.Runtime, error) {
	return bootstrap.New(cmd.Context(), a.cfg, a.log, bootstrap.Options{})
}

func printLink(cmd *cobra.Command, link *model.ShortLink) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(link)
}
