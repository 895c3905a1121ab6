package logger

import (
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	charmlog "github.com/charmbracelet/log"
)

// Logger is the structured logging surface used across pdftab.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

type LogLevel string

const (
	DebugLevel    LogLevel = "debug"
	InfoLevel     LogLevel = "info"
	WarnLevel     LogLevel = "warn"
	ErrorLevel    LogLevel = "error"
	DisabledLevel LogLevel = "disabled"
)

const defaultTimeFormat = "15:04:05"

var charmLevels = map[LogLevel]charmlog.Level{
	DebugLevel: charmlog.DebugLevel,
	InfoLevel:  charmlog.InfoLevel,
	WarnLevel:  charmlog.WarnLevel,
	ErrorLevel: charmlog.ErrorLevel,
	// above every level charm emits
	DisabledLevel: charmlog.Level(1000),
}

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

func (l LogLevel) String() string { return string(l) }

// ToCharmlogLevel maps the level onto charm's scale; unknown levels map to info.
func (l LogLevel) ToCharmlogLevel() charmlog.Level {
	if lvl, ok := charmLevels[l]; ok {
		return lvl
	}
	return charmlog.InfoLevel
}

// ParseLevel maps user input to a LogLevel, defaulting to info.
func ParseLevel(s string) LogLevel {
	lvl := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := charmLevels[lvl]; ok {
		return lvl
	}
	return InfoLevel
}

type charmLogger struct {
	l *charmlog.Logger
}

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }

func (c *charmLogger) Info(msg string, keyvals ...any) { c.l.Info(msg, keyvals...) }

func (c *charmLogger) Warn(msg string, keyvals ...any) { c.l.Warn(msg, keyvals...) }

func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }

func (c *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{l: c.l.With(keyvals...)}
}

type Config struct {
	Level      LogLevel
	Output     io.Writer
	JSON       bool
	AddSource  bool
	TimeFormat string
}

func DefaultConfig() *Config {
	return &Config{Level: InfoLevel, Output: os.Stderr, TimeFormat: defaultTimeFormat}
}

// TestConfig silences all output; used when running under go test.
func TestConfig() *Config {
	return &Config{Level: DisabledLevel, Output: io.Discard, TimeFormat: defaultTimeFormat}
}

// IsTestEnvironment reports whether the binary is a go test binary.
func IsTestEnvironment() bool {
	if strings.HasSuffix(os.Args[0], ".test") {
		return true
	}
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-test.") {
			return true
		}
	}
	return false
}

func NewLogger(cfg *Config) Logger {
	switch {
	case cfg != nil:
	case IsTestEnvironment():
		cfg = TestConfig()
	default:
		cfg = DefaultConfig()
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	formatter := charmlog.TextFormatter
	if cfg.JSON {
		formatter = charmlog.JSONFormatter
	}
	return &charmLogger{l: charmlog.NewWithOptions(out, charmlog.Options{
		Level:           cfg.Level.ToCharmlogLevel(),
		ReportCaller:    cfg.AddSource,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Formatter:       formatter,
	})}
}

// Init replaces the process default logger.
func Init(cfg *Config) error {
	l := NewLogger(cfg)
	if l == nil {
		return errors.New("failed to initialize logger")
	}
	setDefault(l)
	return nil
}

func setDefault(l Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

func GetDefault() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(nil)
	}
	return defaultLogger
}

func Debug(msg string, args ...any) { GetDefault().Debug(msg, args...) }

func Info(msg string, args ...any) { GetDefault().Info(msg, args...) }

func Warn(msg string, args ...any) { GetDefault().Warn(msg, args...) }

func Error(msg string, args ...any) { GetDefault().Error(msg, args...) }
