package cmd

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"maestro-dashboard/config"
	"maestro-dashboard/domain/refresh"
)

var notifyCmd = &cobra.Command{
	Use:   "notify [EVENT]",
	Short: "Publish a knowledge change event so running dashboards drop their cache",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if len(cfg.Refresh.AMQPURL) == 0 {
			return errors.WithHintf(errors.Wrap(config.ErrInvalidConfig, "refresh.amqp_url is empty"),
				"set %s or refresh.amqp_url in maestro.toml", config.EnvKeyRefreshAMQPURL)
		}

		event := &refresh.Event{Table: cfg.Remote.Table, Event: "update"}
		if len(args) != 0 {
			event.Event = args[0]
		}

		if err := refresh.Publish(refreshConf(cfg, nil), event); err != nil {
			return err
		}

		pterm.Success.Printfln("change event [%s] of table [%s] published", event.Event, event.Table)
		return nil
	},
}
