package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/compozy/pdftab/cli/cmd"
	"github.com/compozy/pdftab/cli/cmd/config"
	"github.com/compozy/pdftab/cli/cmd/convert"
	"github.com/compozy/pdftab/cli/cmd/formats"
	"github.com/compozy/pdftab/cli/cmd/serve"
	"github.com/compozy/pdftab/cli/cmd/watch"
	"github.com/compozy/pdftab/cli/helpers"
	pkgconfig "github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/pkg/version"
)

// RootCmd builds the pdftab command tree.
func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pdftab",
		Short: "Extract tables from PDF documents into CSV, JSON or XLSX",
		Long: `pdftab reads the text of PDF documents, finds the table-shaped runs of lines
(cells separated by two or more spaces, the first row being the header) and
writes the rows as records in CSV, JSON or XLSX.`,
		Version:           version.Get().String(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: SetupGlobalConfig,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return pkgconfig.ManagerFromContext(cmd.Context()).Close(cmd.Context())
		},
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "Path to the config file (default ./"+pkgconfig.DefaultFileName+" when present)")
	pf.String("env-file", ".env", "Path to an env file loaded before configuration")
	pf.Bool("log-source", false, "Include source file and line in logs")
	helpers.AddConfigFlags(pf, "runtime.log_level", "runtime.log_json")

	root.AddCommand(
		convert.NewConvertCommand(),
		serve.NewServeCommand(),
		watch.NewWatchCommand(),
		formats.NewFormatsCommand(),
		config.NewConfigCommand(),
	)
	return root
}

// Execute runs the command tree and prints the error, if any, to stderr.
func Execute(ctx context.Context) error {
	root := RootCmd()
	err := root.ExecuteContext(ctx)
	if err != nil {
		cmd.OutputError(root.ErrOrStderr(), err)
	}
	return err
}
