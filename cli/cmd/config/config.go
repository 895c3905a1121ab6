package config

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/pkg/logger"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(
		NewConfigShowCommand(),
		NewConfigValidateCommand(),
		NewConfigEnvCommand(),
	)
	return cmd
}

// NewConfigShowCommand creates the config show subcommand
func NewConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration values and their sources",
		Long: `Display the effective configuration after layering defaults, the YAML file,
PDFTAB_* environment variables and CLI flags (highest precedence last).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			showSources, err := cmd.Flags().GetBool("sources")
			if err != nil {
				return fmt.Errorf("failed to get sources flag: %w", err)
			}
			manager := config.ManagerFromContext(cmd.Context())
			logger.FromContext(cmd.Context()).Debug("executing config show command", "format", format)
			return formatConfigOutput(cmd.OutOrStdout(), manager.Get(), collectSources(manager), format, showSources)
		},
	}
	cmd.Flags().StringP("format", "f", string(helpers.OutputFormatTable), "Output format (table, yaml, json)")
	cmd.Flags().Bool("sources", true, "Show the source of each value")
	return cmd
}

// NewConfigValidateCommand creates the config validate subcommand
func NewConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := config.ManagerFromContext(cmd.Context())
			if err := manager.Service.Validate(manager.Get()); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return err
		},
	}
}

// NewConfigEnvCommand lists the environment variables read by the loader.
func NewConfigEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the PDFTAB_* environment variables and the keys they set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "VARIABLE\tKEY\tDESCRIPTION")
			for _, m := range config.EnvMappings() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.EnvVar, m.ConfigPath, m.Help)
			}
			return w.Flush()
		},
	}
}

func collectSources(manager *config.Manager) map[string]config.SourceType {
	flat := flattenConfig(manager.Get())
	sources := make(map[string]config.SourceType, len(flat))
	for key := range flat {
		sources[key] = manager.Source(key)
	}
	return sources
}

// formatConfigOutput formats and outputs configuration based on requested format
func formatConfigOutput(
	w io.Writer,
	cfg *config.Config,
	sources map[string]config.SourceType,
	format string,
	showSources bool,
) error {
	switch helpers.OutputFormat(format) {
	case helpers.OutputFormatJSON:
		return outputJSON(w, cfg, sources, showSources)
	case helpers.OutputFormatYAML:
		return outputYAML(w, cfg, sources, showSources)
	case helpers.OutputFormatTable:
		return outputTable(w, cfg, sources, showSources)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func outputJSON(w io.Writer, cfg *config.Config, sources map[string]config.SourceType, showSources bool) error {
	output := map[string]any{"config": cfg}
	if showSources && len(sources) > 0 {
		output["sources"] = sources
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

func outputYAML(w io.Writer, cfg *config.Config, sources map[string]config.SourceType, showSources bool) error {
	output := map[string]any{"config": cfg}
	if showSources && len(sources) > 0 {
		output["sources"] = sources
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(output); err != nil {
		return err
	}
	return encoder.Close()
}

func outputTable(w io.Writer, cfg *config.Config, sources map[string]config.SourceType, showSources bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	flatMap := flattenConfig(cfg)
	keys := make([]string, 0, len(flatMap))
	for k := range flatMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if showSources {
		fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
	} else {
		fmt.Fprintln(tw, "KEY\tVALUE")
	}
	for _, key := range keys {
		if showSources {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", key, flatMap[key], sources[key])
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, flatMap[key])
	}
	return tw.Flush()
}

// flattenConfig maps every leaf koanf path to its display value.
func flattenConfig(cfg *config.Config) map[string]string {
	result := make(map[string]string)
	if cfg == nil {
		return result
	}
	flattenValue(reflect.ValueOf(*cfg), "", result)
	return result
}

func flattenValue(v reflect.Value, prefix string, result map[string]string) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("koanf")
		if !field.IsExported() || tag == "" || tag == "-" {
			continue
		}
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}
		fv := v.Field(i)
		if fv.Kind() == reflect.Struct {
			flattenValue(fv, key, result)
			continue
		}
		result[key] = displayValue(fv.Interface())
	}
}

func displayValue(v any) string {
	switch val := v.(type) {
	case time.Duration:
		return val.String()
	case fmt.Stringer:
		return val.String()
	case string:
		if val == "" {
			return `""`
		}
		return val
	default:
		return fmt.Sprint(val)
	}
}
