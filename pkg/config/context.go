package config

import (
	"context"
	"sync"

	"github.com/compozy/pdftab/pkg/logger"
)

type managerKey struct{}

// ContextWithManager attaches m so FromContext resolves the command's config.
func ContextWithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// ManagerFromContext returns the attached manager. Without one it returns a
// process-wide manager built from defaults and PDFTAB_* variables, which is
// what library callers and tests get.
func ManagerFromContext(ctx context.Context) *Manager {
	if ctx != nil {
		if m, _ := ctx.Value(managerKey{}).(*Manager); m != nil {
			return m
		}
	}
	return fallbackManager(ctx)
}

// FromContext returns the effective configuration, never nil.
func FromContext(ctx context.Context) *Config {
	if cfg := ManagerFromContext(ctx).Get(); cfg != nil {
		return cfg
	}
	return Default()
}

var (
	fallbackOnce sync.Once
	fallback     *Manager
)

func fallbackManager(ctx context.Context) *Manager {
	fallbackOnce.Do(func() {
		fallback = NewManager(nil)
		if _, err := fallback.Load(ctx, NewDefaultProvider(), NewEnvProvider()); err != nil {
			logger.FromContext(ctx).Warn("invalid PDFTAB_* environment, using built-in defaults", "error", err)
		}
	})
	return fallback
}
