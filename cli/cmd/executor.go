package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/engine/batch"
	"github.com/compozy/pdftab/engine/document"
	"github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/pkg/logger"
)

// CommandExecutor carries the per-invocation setup shared by commands that run
// conversions: the effective configuration and a runner built from it.
type CommandExecutor struct {
	cfg    *config.Config
	runner *batch.Runner
}

// HandlerFunc defines the signature for command handlers.
type HandlerFunc func(ctx context.Context, cmd *cobra.Command, executor *CommandExecutor, args []string) error

// NewCommandExecutor builds the executor from the configuration in the command context.
func NewCommandExecutor(cmd *cobra.Command) (*CommandExecutor, error) {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return nil, fmt.Errorf("configuration manager not found in context")
	}
	return &CommandExecutor{cfg: cfg, runner: NewRunner(cfg)}, nil
}

// NewRunner wires the document parser and batch runner from cfg.
func NewRunner(cfg *config.Config) *batch.Runner {
	parser := document.NewAutoParser(
		document.WithMaxPages(cfg.Extract.MaxPages),
		document.WithRowTolerance(cfg.Extract.RowTolerance),
		document.WithCellGap(cfg.Extract.CellGap),
	)
	return batch.NewRunner(parser, batch.WithMaxFileSize(cfg.Extract.MaxFileSize.Int64()))
}

func (e *CommandExecutor) Config() *config.Config {
	return e.cfg
}

func (e *CommandExecutor) Runner() *batch.Runner {
	return e.runner
}

// ExecuteCommand creates the executor, runs handler and normalizes its error.
func ExecuteCommand(cmd *cobra.Command, handler HandlerFunc, args []string) error {
	executor, err := NewCommandExecutor(cmd)
	if err != nil {
		return HandleCommonErrors(cmd, err)
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	return HandleCommonErrors(cmd, handler(ctx, cmd, executor, args))
}

// HandleCommonErrors converts known failures into a *helpers.CliError. The root
// command prints whatever error comes back.
func HandleCommonErrors(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	logger.FromContext(cmd.Context()).Debug("command failed", "error", err)
	if cliErr := helpers.Categorize(err); cliErr != nil {
		return cliErr
	}
	return err
}

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

// OutputError writes err for humans, styled when w is a terminal.
func OutputError(w io.Writer, err error) {
	message, details := err.Error(), ""
	if cliErr := helpers.Categorize(err); cliErr != nil {
		message, details = cliErr.Message, cliErr.Details
	}
	if helpers.ShouldUseColor(w) {
		message = errorStyle.Render(message)
		if details != "" {
			details = detailStyle.Render(details)
		}
	}
	fmt.Fprintf(w, "Error: %s\n", message)
	if details != "" {
		fmt.Fprintf(w, "  %s\n", details)
	}
}
