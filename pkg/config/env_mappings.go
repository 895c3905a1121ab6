package config

import (
	"sort"
	"strings"

	"github.com/compozy/pdftab/pkg/config/definition"
)

// EnvPrefix namespaces every environment variable the loader reads.
const EnvPrefix = "PDFTAB_"

// EnvMapping ties an environment variable to the config key it sets.
type EnvMapping struct {
	EnvVar     string
	ConfigPath string
	Help       string
}

// EnvMappings lists the registry's environment variables sorted by name.
func EnvMappings() []EnvMapping {
	registry := definition.CreateRegistry()
	var out []EnvMapping
	for _, path := range registry.Paths() {
		field, _ := registry.GetField(path)
		if field.EnvVar == "" {
			continue
		}
		out = append(out, EnvMapping{EnvVar: field.EnvVar, ConfigPath: path, Help: field.Help})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnvVar < out[j].EnvVar })
	return out
}

// envPath resolves a variable to its config key. Registered names win; other
// PDFTAB_* names map their first segment to the section, e.g.
// PDFTAB_EXTRACT_MAX_PAGES -> extract.max_pages.
func envPath(index map[string]string, name string) string {
	if path, ok := index[name]; ok {
		return path
	}
	rest := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	section, key, found := strings.Cut(strings.Trim(rest, "_"), "_")
	if !found {
		return section
	}
	return section + "." + key
}

func envIndex() map[string]string {
	mappings := EnvMappings()
	index := make(map[string]string, len(mappings))
	for _, m := range mappings {
		index[m.EnvVar] = m.ConfigPath
	}
	return index
}
