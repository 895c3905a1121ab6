package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/compozy/pdftab/pkg/config/definition"
)

// DefaultFileName is the config file looked up in the working directory.
const DefaultFileName = "pdftab.yaml"

// staticSource is the shared shape of sources that never change at runtime.
type staticSource struct {
	kind   SourceType
	values func() (map[string]any, error)
}

func (s *staticSource) Load() (map[string]any, error) { return s.values() }

func (s *staticSource) Watch(context.Context, func()) error {
	return fmt.Errorf("%s source cannot be watched", s.kind)
}

func (s *staticSource) Type() SourceType { return s.kind }

func (s *staticSource) Close() error { return nil }

func emptyValues() (map[string]any, error) { return map[string]any{}, nil }

// NewDefaultProvider serves the registry defaults as a nested map.
func NewDefaultProvider() Source {
	defaults := registryDefaults()
	return &staticSource{kind: SourceDefault, values: func() (map[string]any, error) {
		return defaults, nil
	}}
}

// NewEnvProvider marks where PDFTAB_* variables sit in the precedence chain.
// The loader reads them itself through koanf's env provider.
func NewEnvProvider() Source {
	return &staticSource{kind: SourceEnv, values: emptyValues}
}

// NewCLIProvider maps changed flags, keyed by flag name, onto config paths.
// Flags the registry does not know are ignored.
func NewCLIProvider(flags map[string]any) Source {
	return &staticSource{kind: SourceCLI, values: func() (map[string]any, error) {
		flagPaths := definition.CreateRegistry().GetCLIFlagMapping()
		out := map[string]any{}
		for flag, value := range flags {
			path, ok := flagPaths[flag]
			if !ok {
				continue
			}
			if err := setNested(out, path, value); err != nil {
				return nil, fmt.Errorf("flag --%s: %w", flag, err)
			}
		}
		return out, nil
	}}
}

func registryDefaults() map[string]any {
	registry := definition.CreateRegistry()
	out := map[string]any{}
	for _, path := range registry.Paths() {
		// one registry never holds a path and a prefix of it
		_ = setNested(out, path, registry.GetDefault(path))
	}
	return out
}

func setNested(m map[string]any, path string, value any) error {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	for i, part := range parts[:len(parts)-1] {
		next, exists := m[part]
		if !exists {
			child := map[string]any{}
			m[part] = child
			m = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("configuration conflict: key %q is not a map", strings.Join(parts[:i+1], "."))
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
	return nil
}

// yamlProvider reads pdftab.yaml. A missing file yields no values so the
// default lookup in the working directory stays optional.
type yamlProvider struct {
	path string

	mu      sync.Mutex
	watcher *fileWatcher
}

func NewYAMLProvider(path string) Source {
	return &yamlProvider{path: path}
}

func (y *yamlProvider) Load() (map[string]any, error) {
	data, err := os.ReadFile(y.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return dropNulls(values), nil
}

// dropNulls removes keys written without a value (`path:`) so they do not
// override defaults with zero values.
func dropNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case nil:
		case map[string]any:
			if nested := dropNulls(val); len(nested) > 0 {
				out[k] = nested
			}
		default:
			out[k] = v
		}
	}
	return out
}

func (y *yamlProvider) Watch(ctx context.Context, callback func()) error {
	if _, err := os.Stat(y.path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", y.path, err)
	}
	y.mu.Lock()
	defer y.mu.Unlock()
	if y.watcher == nil {
		w, err := newFileWatcher(ctx, y.path)
		if err != nil {
			return err
		}
		y.watcher = w
	}
	y.watcher.subscribe(callback)
	return nil
}

func (y *yamlProvider) Type() SourceType {
	return SourceYAML
}

func (y *yamlProvider) Close() error {
	y.mu.Lock()
	defer y.mu.Unlock()
	if y.watcher == nil {
		return nil
	}
	err := y.watcher.close()
	y.watcher = nil
	if err != nil {
		return fmt.Errorf("failed to close config watcher: %w", err)
	}
	return nil
}
