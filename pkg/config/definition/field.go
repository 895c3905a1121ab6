package definition

import (
	"fmt"
	"reflect"
	"sort"
)

// FieldDef describes one configuration key: its default and how it is set
// from a flag or an environment variable.
type FieldDef struct {
	Path      string // dotted koanf path, e.g. "server.port"
	Default   any
	CLIFlag   string // flag name without dashes; empty when the key has no flag
	Shorthand string
	EnvVar    string
	Type      reflect.Type // drives the flag type in the CLI
	Help      string
}

// Registry indexes FieldDefs by path and by flag name.
type Registry struct {
	byPath map[string]FieldDef
	byFlag map[string]string
}

func NewRegistry() *Registry {
	return &Registry{byPath: map[string]FieldDef{}, byFlag: map[string]string{}}
}

// Register adds field. A path or flag registered twice is a programming error
// in the schema and panics.
func (r *Registry) Register(field *FieldDef) {
	if _, dup := r.byPath[field.Path]; dup {
		panic(fmt.Sprintf("config field %q registered twice", field.Path))
	}
	if field.CLIFlag != "" {
		if other, dup := r.byFlag[field.CLIFlag]; dup {
			panic(fmt.Sprintf("flag --%s used by %q and %q", field.CLIFlag, other, field.Path))
		}
		r.byFlag[field.CLIFlag] = field.Path
	}
	r.byPath[field.Path] = *field
}

func (r *Registry) GetField(path string) (FieldDef, bool) {
	field, ok := r.byPath[path]
	return field, ok
}

// GetDefault returns the default for path, or nil for unknown paths.
func (r *Registry) GetDefault(path string) any {
	return r.byPath[path].Default
}

// Paths returns every registered path in lexical order.
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.byPath))
	for path := range r.byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// GetCLIFlagMapping returns flag name -> config path.
func (r *Registry) GetCLIFlagMapping() map[string]string {
	out := make(map[string]string, len(r.byFlag))
	for flag, path := range r.byFlag {
		out[flag] = path
	}
	return out
}
