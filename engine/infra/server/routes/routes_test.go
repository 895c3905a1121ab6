package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	t.Run("Should return versioned API base path", func(t *testing.T) {
		assert.Equal(t, "/api/"+Version(), Base())
		assert.Equal(t, "/api/v0", Base())
	})
}

func TestEndpoints(t *testing.T) {
	t.Run("Should nest every endpoint under the base path", func(t *testing.T) {
		assert.Equal(t, "/api/v0/convert", Convert())
		assert.Equal(t, "/api/v0/extract", Extract())
		assert.Equal(t, "/api/v0/formats", Formats())
		assert.Equal(t, "/api/v0/health", HealthVersioned())
	})
}
