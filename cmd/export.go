package cmd

import (
	"context"
	"fmt"
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"io"
	"maestro-dashboard/domain/knowledge"
	"maestro-dashboard/domain/lookup"
	"maestro-dashboard/domain/report"
	"maestro-dashboard/utils"
	"os"
	"path/filepath"
)

var ErrNothingToExport = errors.New("nothing to export")

var exportOutDir string

var exportCmd = &cobra.Command{
	Use:   "export TARGET",
	Short: "Write the CSV report of a target",
	Args:  cobra.ExactArgs(1),
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

		_, err = runExport(cmd.Context(), a.loader, args[0], exportOutDir, cmd.OutOrStdout())
		return err
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOutDir, "out", ".", "directory to write the report into")
}

// runExport 返回写入的文件路径。
func runExport(ctx context.Context, loader tableLoader, target string, dir string, out io.Writer) (string, error) {
	var messages knowledge.Messages
	table := loader.Load(ctx, &messages)

	for _, msg := range messages {
		fmt.Fprint(out, pterm.Error.Sprintln(msg))
	}

	outcome := lookup.Lookup(table, target)
	switch outcome.Kind {
	case lookup.KindMatch:
	case lookup.KindEmptyTable:
		return "", errors.WithHint(errors.Wrap(ErrNothingToExport, "axon_knowledge is empty"),
			"check the remote access permissions (RLS policies) for the publishable key")
	default:
		return "", errors.Wrapf(ErrNothingToExport, "target %q not found", outcome.Query)
	}

	rep := report.Export(table.Columns, []knowledge.Row{*outcome.Row}, outcome.Query)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", utils.WrapErrorf(err, "create directory %s fail", dir)
	}

	path := filepath.Join(dir, rep.Filename)
	if err := os.WriteFile(path, rep.Data, 0o644); err != nil {
		return "", utils.WrapErrorf(err, "write report %s fail", path)
	}

	fmt.Fprint(out, pterm.Success.Sprintfln("Report written to %s", path))
	return path, nil
}
