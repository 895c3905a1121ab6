package helpers

import (
	"context"
	"sync"
	"testing"

	"github.com/compozy/pdftab/pkg/logger"
)

var loggerOnce sync.Once

// InitLogger silences the process default logger for the test binary.
func InitLogger(t *testing.T) {
	loggerOnce.Do(func() {
		if err := logger.Init(logger.TestConfig()); err != nil {
			t.Errorf("Warning: failed to initialize logger for tests: %v\n", err)
		}
	})
}

// TestContext returns t.Context carrying a discarding logger.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	return logger.ContextWithLogger(t.Context(), logger.NewLogger(logger.TestConfig()))
}
