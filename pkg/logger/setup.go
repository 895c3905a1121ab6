package logger

import "os"

// SetupLogger builds the process logger from the runtime config and installs
// it as the default. Logs go to stderr so encoded output on stdout stays clean.
func SetupLogger(logLevel string, logJSON, logSource bool) Logger {
	l := NewLogger(&Config{
		Level:      ParseLevel(logLevel),
		Output:     os.Stderr,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: defaultTimeFormat,
	})
	setDefault(l)
	return l
}
