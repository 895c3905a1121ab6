package watch

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/compozy/pdftab/cli/cmd"
	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/pkg/logger"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Convert every PDF that appears in a directory",
		Long: `Watch a directory and convert each new or rewritten .pdf into
<output-dir>/<name>.<ext> (the watched directory when --output-dir is empty).
Changes are debounced per file and conversions run one at a time. Edits to the
config file are picked up without a restart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(c, runWatch, args)
		},
	}
	helpers.AddConfigFlags(c.Flags(),
		"output.format",
		"watch.debounce",
		"watch.output_dir",
		"extract.max_file_size",
		"extract.max_pages",
		"extract.row_tolerance",
		"extract.cell_gap",
	)
	return c
}

func settingsFrom(cfg *config.Config) Settings {
	return Settings{
		Runner:    cmd.NewRunner(cfg),
		Format:    cfg.Output.Format,
		OutputDir: cfg.Watch.OutputDir,
		Debounce:  cfg.Watch.Debounce,
	}
}

func runWatch(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return helpers.NewCliError("INPUT_NOT_FOUND", "Watch directory not found", dir).WithCause(err)
	}
	if !info.IsDir() {
		return helpers.NewCliError("NOT_A_DIRECTORY", "Watch target is not a directory", dir)
	}
	w := NewWatcher(dir, settingsFrom(executor.Config()))
	manager := config.ManagerFromContext(ctx)
	manager.OnChange(func(cfg *config.Config) {
		logger.FromContext(ctx).Info("Configuration change detected, applying to new conversions")
		w.Update(settingsFrom(cfg))
	})
	manager.Watch(ctx)
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}
