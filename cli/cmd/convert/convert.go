package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/compozy/pdftab/cli/cmd"
	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/engine/encode"
	"github.com/compozy/pdftab/engine/table"
	"github.com/compozy/pdftab/pkg/logger"
)

const fromJSONFlag = "from-json"

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "convert [files or globs...]",
		Short: "Extract tables from documents and write them as csv, json or xlsx",
		Long: `Extract the tables of every input, in argument order, and encode all records once.

Glob patterns (including **) expand to their matches sorted by path. Output goes
to --output, or stdout when it is empty or "-". When --output names an existing
directory the file is written there as processed_data.<ext>.`,
		Example: `  pdftab convert report.pdf -f csv
  pdftab convert 'invoices/**/*.pdf' -f xlsx -o out/
  pdftab convert --from-json processed_data.json -f csv`,
		RunE: func(c *cobra.Command, args []string) error {
			return cmd.ExecuteCommand(c, runConvert, args)
		},
	}
	helpers.AddConfigFlags(c.Flags(),
		"output.format",
		"output.path",
		"output.preview",
		"extract.max_file_size",
		"extract.max_pages",
		"extract.row_tolerance",
		"extract.cell_gap",
	)
	c.Flags().String(fromJSONFlag, "", "Re-encode a structured-text (json) result instead of reading documents")
	return c
}

func runConvert(ctx context.Context, c *cobra.Command, executor *cmd.CommandExecutor, args []string) error {
	cfg := executor.Config()
	fromJSON, err := c.Flags().GetString(fromJSONFlag)
	if err != nil {
		return fmt.Errorf("failed to get %s flag: %w", fromJSONFlag, err)
	}
	var (
		data    []byte
		format  encode.Format
		records table.ResultSet
	)
	switch {
	case fromJSON != "" && len(args) > 0:
		return helpers.NewCliError("INVALID_ARGS", "Documents and --from-json are mutually exclusive")
	case fromJSON != "":
		records, data, format, err = reencode(fromJSON, cfg.Output.Format)
	case len(args) == 0:
		return helpers.NewCliError("MISSING_INPUT", "No input documents given")
	default:
		records, data, format, err = extract(ctx, executor, args, cfg.Output.Format)
	}
	if err != nil {
		return err
	}
	dest := resolveDestination(cfg.Output.Path, format)
	if format.Binary() && dest == "" && helpers.IsTerminal(c.OutOrStdout()) {
		return helpers.NewCliError(
			"BINARY_TO_TERMINAL",
			"Refusing to write a binary workbook to the terminal",
			"use --output or redirect stdout",
		)
	}
	if cfg.Output.Preview {
		if err := helpers.WritePreview(c.ErrOrStderr(), records); err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
	}
	if err := helpers.WriteOutput(dest, data, c.OutOrStdout()); err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	if dest != "" {
		log.Info("Conversion written",
			"path", dest,
			"format", format.String(),
			"records", len(records),
			"size", humanize.IBytes(uint64(len(data))),
		)
	}
	return nil
}

func extract(
	ctx context.Context,
	executor *cmd.CommandExecutor,
	args []string,
	format string,
) (table.ResultSet, []byte, encode.Format, error) {
	paths, err := helpers.ExpandInputs(args)
	if err != nil {
		return nil, nil, "", err
	}
	docs, err := helpers.ReadDocuments(ctx, paths)
	if err != nil {
		return nil, nil, "", err
	}
	out, err := executor.Runner().Run(ctx, docs, format)
	if err != nil {
		return nil, nil, "", err
	}
	return out.Result, out.Data, out.Format, nil
}

func reencode(path, format string) (table.ResultSet, []byte, encode.Format, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := encode.DecodeStructured(raw)
	if err != nil {
		return nil, nil, "", helpers.NewCliError("INVALID_JSON", "Input is not a structured-text result", err.Error()).
			WithCause(err)
	}
	data, f, err := encode.EncodeString(records, format)
	if err != nil {
		return nil, nil, "", err
	}
	return records, data, f, nil
}

// resolveDestination maps the configured path to a file path; "" means stdout.
func resolveDestination(path string, format encode.Format) string {
	if path == "" || path == helpers.StdoutPath {
		return ""
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, format.FileName())
	}
	if os.IsPathSeparator(path[len(path)-1]) {
		return filepath.Join(path, format.FileName())
	}
	return path
}
