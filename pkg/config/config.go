package config

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/compozy/pdftab/pkg/config/definition"
)

// Config represents the complete pdftab configuration.
type Config struct {
	Runtime    RuntimeConfig    `koanf:"runtime"    json:"runtime"    yaml:"runtime"    validate:"required"`
	Extract    ExtractConfig    `koanf:"extract"    json:"extract"    yaml:"extract"    validate:"required"`
	Output     OutputConfig     `koanf:"output"     json:"output"     yaml:"output"`
	Server     ServerConfig     `koanf:"server"     json:"server"     yaml:"server"     validate:"required"`
	Monitoring MonitoringConfig `koanf:"monitoring" json:"monitoring" yaml:"monitoring"`
	Watch      WatchConfig      `koanf:"watch"      json:"watch"      yaml:"watch"`
}

// RuntimeConfig controls process-wide logging.
type RuntimeConfig struct {
	LogLevel string `koanf:"log_level" json:"log_level" yaml:"log_level" validate:"log_level" env:"PDFTAB_LOG_LEVEL"`
	LogJSON  bool   `koanf:"log_json"  json:"log_json"  yaml:"log_json"                       env:"PDFTAB_LOG_JSON"`
}

// ExtractConfig tunes document parsing.
type ExtractConfig struct {
	MaxFileSize  ByteSize `koanf:"max_file_size" json:"max_file_size" yaml:"max_file_size" validate:"min=0" env:"PDFTAB_EXTRACT_MAX_FILE_SIZE"`
	MaxPages     int      `koanf:"max_pages"     json:"max_pages"     yaml:"max_pages"     validate:"min=0" env:"PDFTAB_EXTRACT_MAX_PAGES"`
	RowTolerance float64  `koanf:"row_tolerance" json:"row_tolerance" yaml:"row_tolerance" validate:"gt=0"  env:"PDFTAB_EXTRACT_ROW_TOLERANCE"`
	CellGap      float64  `koanf:"cell_gap"      json:"cell_gap"      yaml:"cell_gap"      validate:"gt=0"  env:"PDFTAB_EXTRACT_CELL_GAP"`
}

// OutputConfig selects the encoding and destination of a conversion.
type OutputConfig struct {
	Format  string `koanf:"format"  json:"format"  yaml:"format"  env:"PDFTAB_OUTPUT_FORMAT"`
	Path    string `koanf:"path"    json:"path"    yaml:"path"                            env:"PDFTAB_OUTPUT_PATH"`
	Preview bool   `koanf:"preview" json:"preview" yaml:"preview"                         env:"PDFTAB_OUTPUT_PREVIEW"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host          string        `koanf:"host"            json:"host"            yaml:"host"            validate:"required"        env:"PDFTAB_SERVER_HOST"`
	Port          int           `koanf:"port"            json:"port"            yaml:"port"            validate:"min=1,max=65535" env:"PDFTAB_SERVER_PORT"`
	MaxUploadSize ByteSize      `koanf:"max_upload_size" json:"max_upload_size" yaml:"max_upload_size" validate:"min=1"           env:"PDFTAB_SERVER_MAX_UPLOAD_SIZE"`
	Timeout       time.Duration `koanf:"timeout"         json:"timeout"         yaml:"timeout"                                    env:"PDFTAB_SERVER_TIMEOUT"`
}

// FullAddress returns host:port for net.Listen.
func (s *ServerConfig) FullAddress() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// MonitoringConfig toggles the Prometheus endpoint.
type MonitoringConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" yaml:"enabled" env:"PDFTAB_MONITORING_ENABLED"`
	Path    string `koanf:"path"    json:"path"    yaml:"path"    env:"PDFTAB_MONITORING_PATH"`
}

// WatchConfig drives directory watch mode.
type WatchConfig struct {
	Debounce  time.Duration `koanf:"debounce"   json:"debounce"   yaml:"debounce"   validate:"min=0" env:"PDFTAB_WATCH_DEBOUNCE"`
	OutputDir string        `koanf:"output_dir" json:"output_dir" yaml:"output_dir"                  env:"PDFTAB_WATCH_OUTPUT_DIR"`
}

// ByteSize is a byte count that decodes from human readable strings such as "50MiB".
type ByteSize int64

func (b ByteSize) Int64() int64 {
	return int64(b)
}

func (b ByteSize) String() string {
	if b < 0 {
		return strconv.FormatInt(int64(b), 10)
	}
	return humanize.IBytes(uint64(b))
}

// MarshalYAML renders the size in its human readable form.
func (b ByteSize) MarshalYAML() (any, error) {
	return b.String(), nil
}

// Service defines the configuration management service interface.
type Service interface {
	// Load merges defaults, sources and the environment into a validated Config.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	// GetSource reports which source provided the value for key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	Load() (map[string]any, error)
	Watch(ctx context.Context, callback func()) error
	Type() SourceType
	Close() error
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Default returns a Config populated from the registry defaults.
func Default() *Config {
	registry := definition.CreateRegistry()
	return &Config{
		Runtime: RuntimeConfig{
			LogLevel: getString(registry, "runtime.log_level"),
			LogJSON:  getBool(registry, "runtime.log_json"),
		},
		Extract: ExtractConfig{
			MaxFileSize:  ByteSize(getInt64(registry, "extract.max_file_size")),
			MaxPages:     getInt(registry, "extract.max_pages"),
			RowTolerance: getFloat64(registry, "extract.row_tolerance"),
			CellGap:      getFloat64(registry, "extract.cell_gap"),
		},
		Output: OutputConfig{
			Format:  getString(registry, "output.format"),
			Path:    getString(registry, "output.path"),
			Preview: getBool(registry, "output.preview"),
		},
		Server: ServerConfig{
			Host:          getString(registry, "server.host"),
			Port:          getInt(registry, "server.port"),
			MaxUploadSize: ByteSize(getInt64(registry, "server.max_upload_size")),
			Timeout:       getDuration(registry, "server.timeout"),
		},
		Monitoring: MonitoringConfig{
			Enabled: getBool(registry, "monitoring.enabled"),
			Path:    getString(registry, "monitoring.path"),
		},
		Watch: WatchConfig{
			Debounce:  getDuration(registry, "watch.debounce"),
			OutputDir: getString(registry, "watch.output_dir"),
		},
	}
}

func getString(registry *definition.Registry, path string) string {
	if s, ok := registry.GetDefault(path).(string); ok {
		return s
	}
	return ""
}

func getInt(registry *definition.Registry, path string) int {
	if i, ok := registry.GetDefault(path).(int); ok {
		return i
	}
	return 0
}

func getInt64(registry *definition.Registry, path string) int64 {
	if i, ok := registry.GetDefault(path).(int64); ok {
		return i
	}
	return 0
}

func getFloat64(registry *definition.Registry, path string) float64 {
	if f, ok := registry.GetDefault(path).(float64); ok {
		return f
	}
	return 0
}

func getBool(registry *definition.Registry, path string) bool {
	if b, ok := registry.GetDefault(path).(bool); ok {
		return b
	}
	return false
}

func getDuration(registry *definition.Registry, path string) time.Duration {
	if d, ok := registry.GetDefault(path).(time.Duration); ok {
		return d
	}
	return 0
}
