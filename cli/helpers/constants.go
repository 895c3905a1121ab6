package helpers

// OutputFormat is the rendering used by informational commands such as
// `config show` and `formats`.
type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatTable OutputFormat = "table"
)

// StdoutPath selects standard output wherever a file path is accepted.
const StdoutPath = "-"
