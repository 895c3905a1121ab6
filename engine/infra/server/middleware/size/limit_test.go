package size

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/pdftab/test/helpers/ginmode"
)

func newLimitedRouter(limit int64) *gin.Engine {
	ginmode.EnsureGinTestMode()
	r := gin.New()
	r.POST("/upload", BodySizeLimiter(limit), func(c *gin.Context) {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, "%d", len(data))
	})
	return r
}

func TestBodySizeLimiter(t *testing.T) {
	t.Run("Should pass bodies within the limit", func(t *testing.T) {
		r := newLimitedRouter(16)
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("hello")))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Body.String())
	})

	t.Run("Should reject a declared length over the limit with a problem document", func(t *testing.T) {
		r := newLimitedRouter(4)
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("hello")))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "document_too_large")
	})

	t.Run("Should cut off streamed bodies over the limit", func(t *testing.T) {
		r := newLimitedRouter(4)
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("hello")))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("Should disable the limit when it is not positive", func(t *testing.T) {
		r := newLimitedRouter(0)
		req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("hello")))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
