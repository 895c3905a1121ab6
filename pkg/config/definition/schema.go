package definition

import (
	"reflect"
	"time"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	float64Type  = reflect.TypeOf(float64(0))
	int64Type    = reflect.TypeOf(int64(0))
	intType      = reflect.TypeOf(0)
	boolType     = reflect.TypeOf(false)
	stringType   = reflect.TypeOf("")
)

const (
	mebibyte = int64(1 << 20)

	DefaultMaxFileSize   = 50 * mebibyte
	DefaultMaxUploadSize = 100 * mebibyte
)

// CreateRegistry creates and populates the configuration registry.
// Every default lives here.
func CreateRegistry() *Registry {
	registry := NewRegistry()
	registerRuntimeFields(registry)
	registerExtractFields(registry)
	registerOutputFields(registry)
	registerServerFields(registry)
	registerMonitoringFields(registry)
	registerWatchFields(registry)
	return registry
}

func registerRuntimeFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "runtime.log_level",
		Default: "info",
		CLIFlag: "log-level",
		EnvVar:  "PDFTAB_LOG_LEVEL",
		Type:    stringType,
		Help:    "Log level (debug, info, warn, error, disabled)",
	})
	registry.Register(&FieldDef{
		Path:    "runtime.log_json",
		Default: false,
		CLIFlag: "log-json",
		EnvVar:  "PDFTAB_LOG_JSON",
		Type:    boolType,
		Help:    "Emit logs as JSON",
	})
}

func registerExtractFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "extract.max_file_size",
		Default: DefaultMaxFileSize,
		CLIFlag: "max-file-size",
		EnvVar:  "PDFTAB_EXTRACT_MAX_FILE_SIZE",
		Type:    int64Type,
		Help:    "Largest accepted document (e.g. 50MiB, 0 disables the check)",
	})
	registry.Register(&FieldDef{
		Path:    "extract.max_pages",
		Default: 0,
		CLIFlag: "max-pages",
		EnvVar:  "PDFTAB_EXTRACT_MAX_PAGES",
		Type:    intType,
		Help:    "Stop reading a document after this many pages (0 reads all pages)",
	})
	registry.Register(&FieldDef{
		Path:    "extract.row_tolerance",
		Default: 2.0,
		CLIFlag: "row-tolerance",
		EnvVar:  "PDFTAB_EXTRACT_ROW_TOLERANCE",
		Type:    float64Type,
		Help:    "Vertical distance in points within which glyphs share a line",
	})
	registry.Register(&FieldDef{
		Path:    "extract.cell_gap",
		Default: 1.0,
		CLIFlag: "cell-gap",
		EnvVar:  "PDFTAB_EXTRACT_CELL_GAP",
		Type:    float64Type,
		Help:    "Horizontal gap, in font sizes, that separates two table cells",
	})
}

func registerOutputFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:      "output.format",
		Default:   "json",
		CLIFlag:   "format",
		Shorthand: "f",
		EnvVar:    "PDFTAB_OUTPUT_FORMAT",
		Type:      stringType,
		Help:      "Output format: csv, json or xlsx",
	})
	registry.Register(&FieldDef{
		Path:      "output.path",
		Default:   "",
		CLIFlag:   "output",
		Shorthand: "o",
		EnvVar:    "PDFTAB_OUTPUT_PATH",
		Type:      stringType,
		Help:      "Write the encoded result to this file instead of stdout",
	})
	registry.Register(&FieldDef{
		Path:    "output.preview",
		Default: false,
		CLIFlag: "preview",
		EnvVar:  "PDFTAB_OUTPUT_PREVIEW",
		Type:    boolType,
		Help:    "Print a table preview of the extracted records to stderr",
	})
}

func registerServerFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "server.host",
		Default: "0.0.0.0",
		CLIFlag: "host",
		EnvVar:  "PDFTAB_SERVER_HOST",
		Type:    stringType,
		Help:    "Host interface for the HTTP server",
	})
	registry.Register(&FieldDef{
		Path:    "server.port",
		Default: 5005,
		CLIFlag: "port",
		EnvVar:  "PDFTAB_SERVER_PORT",
		Type:    intType,
		Help:    "Port for the HTTP server",
	})
	registry.Register(&FieldDef{
		Path:    "server.max_upload_size",
		Default: DefaultMaxUploadSize,
		CLIFlag: "max-upload-size",
		EnvVar:  "PDFTAB_SERVER_MAX_UPLOAD_SIZE",
		Type:    int64Type,
		Help:    "Largest accepted request body (e.g. 100MiB)",
	})
	registry.Register(&FieldDef{
		Path:    "server.timeout",
		Default: 30 * time.Second,
		CLIFlag: "timeout",
		EnvVar:  "PDFTAB_SERVER_TIMEOUT",
		Type:    durationType,
		Help:    "Read and write timeout for HTTP requests",
	})
}

func registerMonitoringFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "monitoring.enabled",
		Default: false,
		CLIFlag: "monitoring",
		EnvVar:  "PDFTAB_MONITORING_ENABLED",
		Type:    boolType,
		Help:    "Expose Prometheus metrics",
	})
	registry.Register(&FieldDef{
		Path:    "monitoring.path",
		Default: "/metrics",
		CLIFlag: "monitoring-path",
		EnvVar:  "PDFTAB_MONITORING_PATH",
		Type:    stringType,
		Help:    "Route serving Prometheus metrics",
	})
}

func registerWatchFields(registry *Registry) {
	registry.Register(&FieldDef{
		Path:    "watch.debounce",
		Default: 500 * time.Millisecond,
		CLIFlag: "debounce",
		EnvVar:  "PDFTAB_WATCH_DEBOUNCE",
		Type:    durationType,
		Help:    "Quiet period after the last file event before converting",
	})
	registry.Register(&FieldDef{
		Path:    "watch.output_dir",
		Default: "",
		CLIFlag: "output-dir",
		EnvVar:  "PDFTAB_WATCH_OUTPUT_DIR",
		Type:    stringType,
		Help:    "Directory receiving converted files (defaults to the watched directory)",
	})
}
