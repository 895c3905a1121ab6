package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/compozy/pdftab/engine/encode"
)

// layer is one step of the merge, applied onto the koanf tree in order.
type layer struct {
	kind  SourceType
	apply func(k *koanf.Koanf) error
}

type loader struct {
	validate *validator.Validate

	mu      sync.RWMutex
	origins map[string]SourceType
}

// NewService returns a Service that merges sources with koanf and validates
// the result with go-playground/validator.
func NewService() Service {
	v := validator.New()
	if err := RegisterCustomValidators(v); err != nil {
		panic(fmt.Sprintf("register config validators: %v", err))
	}
	return &loader{validate: v, origins: map[string]SourceType{}}
}

// Load merges, lowest precedence first: registry defaults, file and default
// sources in argument order, PDFTAB_* environment variables, then CLI sources.
func (l *loader) Load(_ context.Context, sources ...Source) (*Config, error) {
	k := koanf.New(".")
	origins := map[string]SourceType{}
	for _, step := range plan(sources) {
		before := k.All()
		if err := step.apply(k); err != nil {
			return nil, err
		}
		for key, value := range k.All() {
			if prev, ok := before[key]; !ok || !reflect.DeepEqual(prev, value) {
				origins[key] = step.kind
			}
		}
	}
	cfg, err := l.decode(k)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.origins = origins
	l.mu.Unlock()
	return cfg, nil
}

func plan(sources []Source) []layer {
	steps := []layer{{kind: SourceDefault, apply: defaultsLayer}}
	var late []layer
	for _, src := range sources {
		if src == nil || src.Type() == SourceEnv {
			continue
		}
		step := layer{kind: src.Type(), apply: sourceLayer(src)}
		if src.Type() == SourceCLI {
			late = append(late, step)
			continue
		}
		steps = append(steps, step)
	}
	steps = append(steps, layer{kind: SourceEnv, apply: envLayer})
	return append(steps, late...)
}

func defaultsLayer(k *koanf.Koanf) error {
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	return nil
}

func envLayer(k *koanf.Koanf) error {
	index := envIndex()
	provider := env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return envPath(index, key), value
		},
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment variables: %w", err)
	}
	return nil
}

func sourceLayer(src Source) func(k *koanf.Koanf) error {
	return func(k *koanf.Koanf) error {
		data, err := src.Load()
		if err != nil {
			return fmt.Errorf("failed to load from source %s: %w", src.Type(), err)
		}
		// Keys are set one at a time so a partial section only overrides
		// the leaves it names.
		for key, value := range flatten("", data) {
			if err := k.Set(key, value); err != nil {
				return fmt.Errorf("failed to set %s from source %s: %w", key, src.Type(), err)
			}
		}
		return nil
	}
}

func flatten(prefix string, m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for name, value := range m {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if nested, ok := value.(map[string]any); ok {
			maps.Copy(out, flatten(key, nested))
			continue
		}
		out[key] = value
	}
	return out
}

func (l *loader) decode(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{}
	conf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "koanf",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
				stringToByteSize,
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := l.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// stringToByteSize accepts "50MiB", "100 MB" or plain numbers for ByteSize fields.
func stringToByteSize(_ reflect.Type, to reflect.Type, data any) (any, error) {
	s, ok := data.(string)
	if !ok || to != reflect.TypeOf(ByteSize(0)) {
		return data, nil
	}
	n, err := humanize.ParseBytes(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid byte size %q: %w", s, err)
	}
	return ByteSize(n), nil
}

// Validate runs struct tag validation followed by cross-field checks.
func (l *loader) Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("configuration cannot be nil")
	}
	if err := l.validate.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return crossCheck(cfg)
}

// GetSource reports which layer last changed key; unknown keys report the defaults.
func (l *loader) GetSource(key string) SourceType {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if kind, ok := l.origins[key]; ok {
		return kind
	}
	return SourceDefault
}

func crossCheck(cfg *Config) error {
	// Empty selects the default; the typed error keeps the requested value.
	if _, err := encode.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if cfg.Monitoring.Enabled {
		path := cfg.Monitoring.Path
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("monitoring path must start with '/': got %q", path)
		}
		if strings.HasPrefix(path, "/api/") {
			return errors.New("monitoring path cannot be under /api/")
		}
	}
	limit := cfg.Server.MaxUploadSize
	if limit > 0 && cfg.Extract.MaxFileSize > limit {
		return fmt.Errorf(
			"extract.max_file_size (%s) exceeds server.max_upload_size (%s)",
			cfg.Extract.MaxFileSize, limit,
		)
	}
	return nil
}
