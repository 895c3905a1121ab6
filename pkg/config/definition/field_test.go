package definition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRegistry(t *testing.T) {
	t.Run("Should register every section with a flag and env var", func(t *testing.T) {
		r := CreateRegistry()
		sections := map[string]bool{}
		for _, path := range r.Paths() {
			field, ok := r.GetField(path)
			require.True(t, ok)
			assert.NotEmpty(t, field.EnvVar, path)
			assert.NotNil(t, field.Type, path)
			section, _, _ := strings.Cut(path, ".")
			sections[section] = true
		}
		for _, s := range []string{"runtime", "extract", "output", "server", "monitoring", "watch"} {
			assert.True(t, sections[s], s)
		}
	})
	t.Run("Should map flags back to paths", func(t *testing.T) {
		flags := CreateRegistry().GetCLIFlagMapping()
		assert.Equal(t, "output.format", flags["format"])
		assert.Equal(t, "server.port", flags["port"])
		assert.Equal(t, "extract.max_pages", flags["max-pages"])
	})
	t.Run("Should carry the documented defaults", func(t *testing.T) {
		r := CreateRegistry()
		assert.Equal(t, "json", r.GetDefault("output.format"))
		assert.Equal(t, 5005, r.GetDefault("server.port"))
		assert.Equal(t, DefaultMaxUploadSize, r.GetDefault("server.max_upload_size"))
		assert.Nil(t, r.GetDefault("nope"))
	})
}

func TestRegistry_Register(t *testing.T) {
	t.Run("Should panic on a duplicate path or flag", func(t *testing.T) {
		r := NewRegistry()
		r.Register(&FieldDef{Path: "a.b", CLIFlag: "b"})
		assert.Panics(t, func() { r.Register(&FieldDef{Path: "a.b"}) })
		assert.Panics(t, func() { r.Register(&FieldDef{Path: "a.c", CLIFlag: "b"}) })
	})
}
