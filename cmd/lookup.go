package cmd

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"io"
	"maestro-dashboard/domain/dashboard"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/domain/lookup"
)

// tableLoader 由 knowledge.Loader 实现。
type tableLoader interface {
	Load(ctx context.Context, reporter knowledge.Reporter) *knowledge.Table
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [TARGET]",
	Short: "Show the scores of a target, or the first rows when no target is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := newApp(cfg, false)
		if err != nil {
			return err
		}
		defer a.Close()

		target := ""
		if len(args) != 0 {
			target = args[0]
		}

		return runLookup(cmd.Context(), a.loader, target, cmd.OutOrStdout())
	},
}

func runLookup(ctx context.Context, loader tableLoader, target string, out io.Writer) error {
	var messages knowledge.Messages
	table := loader.Load(ctx, &messages)

	content, err := renderView(dashboard.Build(table, lookup.Lookup(table, target), messages))
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(out, content)
	return err
}
