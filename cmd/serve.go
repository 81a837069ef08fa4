package cmd

import (
	"github.com/spf13/cobra"
	"maestro-dashboard/server"
	"os"
	"os/signal"
	"syscall"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the MAESTRO web dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cfg, true)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := server.New(&server.Config{
			Host:      cfg.Server.Host,
			Port:      cfg.Server.Port,
			DebugMode: cfg.Server.Debug,
			RateLimit: cfg.Server.RateLimit,
			RateBurst: cfg.Server.RateBurst,
		}, a.loader)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := s.RunServer(ctx); err != nil {
			a.logger.WithError(err).Errorf("run server error=\n%v", err)
			return err
		}
		return nil
	},
}
