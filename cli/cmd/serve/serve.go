package serve

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/compozy/pdftab/cli/cmd"
	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/engine/infra/monitoring"
	"github.com/compozy/pdftab/engine/infra/server"
	"github.com/compozy/pdftab/pkg/logger"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	c := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server", "start"},
		Short:   "Serve the conversion API over HTTP",
		Long: `Start the HTTP upload API.

  POST /api/v0/convert?format=csv|json|xlsx   multipart field "files", returns a download
  POST /api/v0/extract                       same input, returns the records as JSON
  GET  /api/v0/formats                       supported formats
  GET  /api/v0/health                        liveness`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(c, runServe, args)
		},
	}
	helpers.AddConfigFlags(c.Flags(),
		"server.host",
		"server.port",
		"server.max_upload_size",
		"server.timeout",
		"monitoring.enabled",
		"monitoring.path",
		"extract.max_file_size",
		"extract.max_pages",
		"extract.row_tolerance",
		"extract.cell_gap",
	)
	return c
}

func runServe(ctx context.Context, _ *cobra.Command, executor *cmd.CommandExecutor, _ []string) error {
	cfg := executor.Config()
	log := logger.FromContext(ctx)
	gin.SetMode(gin.ReleaseMode)
	if err := helpers.EnsurePortAvailable(ctx, cfg.Server.Host, cfg.Server.Port); err != nil {
		return err
	}
	mon := monitoring.NewWithFallback(ctx, cfg.Monitoring)
	if mon.IsInitialized() {
		mon.SetAsGlobal()
		log.Info("Metrics endpoint enabled", "path", mon.Path())
	}
	srv, err := server.NewServer(ctx, executor.Runner(), mon)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(ctx)
}
