package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/pkg/logger"
	"github.com/compozy/pdftab/test/helpers/ginmode"
)

func newTestRouter(handler gin.HandlerFunc) *gin.Engine {
	ginmode.EnsureGinTestMode()
	r := gin.New()
	r.Use(RequestLogger(logger.NewLogger(logger.TestConfig())))
	r.GET("/test", handler)
	return r
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, problemContentType, w.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondError(t *testing.T) {
	t.Run("Should map decode errors to 422 with the file name", func(t *testing.T) {
		r := newTestRouter(func(c *gin.Context) {
			RespondError(c, core.NewDocumentDecodeError("scan.pdf", errors.New("bad xref")))
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := decodeProblem(t, w)
		assert.Equal(t, core.ProblemCodeDocumentDecode, body["code"])
		assert.Equal(t, "scan.pdf", body["file"])
		assert.EqualValues(t, http.StatusUnprocessableEntity, body["status"])
	})
	t.Run("Should map unknown errors to 500", func(t *testing.T) {
		r := newTestRouter(func(c *gin.Context) {
			RespondError(c, errors.New("boom"))
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, core.ProblemCodeInternal, decodeProblem(t, w)["code"])
	})
}

func TestRespondProblemWithCode(t *testing.T) {
	t.Run("Should write code and detail", func(t *testing.T) {
		r := newTestRouter(func(c *gin.Context) {
			RespondProblemWithCode(c, http.StatusBadRequest, core.ProblemCodeInvalidInput, "no files")
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeProblem(t, w)
		assert.Equal(t, core.ProblemCodeInvalidInput, body["code"])
		assert.Equal(t, "no files", body["details"])
		assert.Equal(t, "Bad Request", body["error"])
	})
}

func TestRequestLogger(t *testing.T) {
	handler := func(c *gin.Context) {
		assert.NotNil(t, logger.FromContext(c.Request.Context()))
		c.Status(http.StatusNoContent)
	}
	t.Run("Should generate a request ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		newTestRouter(handler).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	})
	t.Run("Should echo a provided request ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		newTestRouter(handler).ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	})
}
