package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/compozy/pdftab/cli/helpers"
	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/pkg/logger"
)

// SetupGlobalConfig loads the env file, resolves the layered configuration and
// attaches the config manager and logger to the command context.
func SetupGlobalConfig(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	configFile, err := resolveConfigFile(cmd)
	if err != nil {
		return err
	}
	sources := []config.Source{config.NewDefaultProvider()}
	if configFile != "" {
		sources = append(sources, config.NewYAMLProvider(configFile))
	}
	sources = append(sources, config.NewEnvProvider(), config.NewCLIProvider(helpers.ChangedConfigFlags(cmd)))
	manager := config.NewManager(config.NewService())
	cfg, err := manager.Load(ctx, sources...)
	if errors.Is(err, core.ErrUnsupportedFormat) {
		return helpers.Categorize(err)
	}
	if err != nil {
		return helpers.NewCliError("CONFIG_INVALID", "Invalid configuration", err.Error()).WithCause(err)
	}
	logSource, err := cmd.Flags().GetBool("log-source")
	if err != nil {
		return fmt.Errorf("failed to get log-source flag: %w", err)
	}
	log := logger.SetupLogger(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON, logSource)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithManager(ctx, manager)
	cmd.SetContext(ctx)
	log.Debug("Configuration loaded", "config_file", configFile)
	return nil
}

// resolveConfigFile returns the --config path, or the default file in the
// working directory when it exists. An explicit path must exist.
func resolveConfigFile(cmd *cobra.Command) (string, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return "", fmt.Errorf("config file %s: %w", configFile, err)
		}
		return configFile, nil
	}
	if info, err := os.Stat(config.DefaultFileName); err == nil && info.Mode().IsRegular() {
		return config.DefaultFileName, nil
	}
	return "", nil
}

// loadEnvFile loads --env-file into the process environment. The file must
// live under the working directory; a missing file is ignored.
func loadEnvFile(cmd *cobra.Command) (string, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	path := envFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(wd, path)
	}
	path = filepath.Clean(path)
	if !withinDir(wd, path) {
		return "", fmt.Errorf("env file path '%s' is outside the project directory", envFile)
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return path, nil
	case err != nil:
		return "", fmt.Errorf("failed to stat env file: %w", err)
	case !info.Mode().IsRegular():
		return "", fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}

func withinDir(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
