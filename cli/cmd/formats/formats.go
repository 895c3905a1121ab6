package formats

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/engine/encode"
)

type formatInfo struct {
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	MIMEType    string `json:"mime_type"`
	Default     bool   `json:"default"`
	Description string `json:"description"`
}

// NewFormatsCommand lists the output formats and how each builds its header.
func NewFormatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			return writeFormats(cmd.OutOrStdout(), helpers.OutputFormat(format))
		},
	}
	cmd.Flags().StringP("format", "f", string(helpers.OutputFormatTable), "Output format (table, json)")
	return cmd
}

func listFormats() []formatInfo {
	formats := encode.Formats()
	out := make([]formatInfo, 0, len(formats))
	for _, f := range formats {
		out = append(out, formatInfo{
			Name:        f.String(),
			Extension:   f.Extension(),
			MIMEType:    f.MIMEType(),
			Default:     f == encode.DefaultFormat,
			Description: f.Description(),
		})
	}
	return out
}

func writeFormats(w io.Writer, format helpers.OutputFormat) error {
	formats := listFormats()
	switch format {
	case helpers.OutputFormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(formats)
	case helpers.OutputFormatTable:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FORMAT\tEXTENSION\tDESCRIPTION")
		for _, f := range formats {
			name := f.Name
			if f.Default {
				name += " (default)"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", name, f.Extension, f.Description)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
