package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/compozy/pdftab/engine/batch"
	"github.com/compozy/pdftab/engine/document"
	"github.com/compozy/pdftab/engine/infra/monitoring"
	"github.com/compozy/pdftab/engine/infra/monitoring/middleware"
	"github.com/compozy/pdftab/engine/infra/server/routes"
	"github.com/compozy/pdftab/pkg/config"
	"github.com/compozy/pdftab/test/helpers"
	"github.com/compozy/pdftab/test/helpers/ginmode"
)

type upload struct {
	name string
	data []byte
}

func newTestServer(t *testing.T, flags map[string]any, mon *monitoring.Service) *Server {
	t.Helper()
	ginmode.EnsureGinTestMode()
	m := config.NewManager(nil)
	_, err := m.Load(t.Context(), config.NewDefaultProvider(), config.NewCLIProvider(flags))
	require.NoError(t, err)
	ctx := config.ContextWithManager(t.Context(), m)
	runner := batch.NewRunner(document.NewAutoParser())
	srv, err := NewServer(ctx, runner, mon)
	require.NoError(t, err)
	return srv
}

func multipartRequest(t *testing.T, target string, files ...upload) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(FilesField, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Convert(t *testing.T) {
	t.Run("Should convert uploaded documents to csv in upload order", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		first := helpers.BuildPDF(t, helpers.TableRows([]string{"Name", "Age"}, []string{"Alice", "30"}))
		second := upload{name: "b.txt", data: []byte("Name  Age\nBob  41\n")}
		req := multipartRequest(t, routes.Convert()+"?format=csv", upload{name: "a.pdf", data: first}, second)
		w := serve(srv, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="processed_data.csv"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "2", w.Header().Get(RecordCountHeader))
		assert.Equal(t, "Name,Age\r\nAlice,30\r\nBob,41\r\n", w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})
	t.Run("Should default to json when no format is given", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		req := multipartRequest(t, routes.Convert(), upload{name: "a.txt", data: []byte("Item  Qty\nBolt  7\n")})
		w := serve(srv, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, `attachment; filename="processed_data.json"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "Bolt", gjson.GetBytes(w.Body.Bytes(), "0.Item").String())
	})
	t.Run("Should return a problem document for unsupported formats", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		req := multipartRequest(t, routes.Convert()+"?format=xml", upload{name: "a.txt", data: []byte("A  B\n1  2\n")})
		w := serve(srv, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
		assert.Equal(t, "unsupported_format", gjson.GetBytes(w.Body.Bytes(), "code").String())
		assert.Equal(t, "xml", gjson.GetBytes(w.Body.Bytes(), "format").String())
	})
	t.Run("Should name the document that failed to decode", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		junk := upload{name: "broken.pdf", data: []byte("%PDF-1.4\nnot really a pdf")}
		req := multipartRequest(t, routes.Convert(), junk)
		w := serve(srv, req)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		assert.Equal(t, "document_decode_failed", gjson.GetBytes(w.Body.Bytes(), "code").String())
		assert.Equal(t, "broken.pdf", gjson.GetBytes(w.Body.Bytes(), "file").String())
	})
	t.Run("Should reject requests without files", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		req := multipartRequest(t, routes.Convert())
		w := serve(srv, req)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid_input", gjson.GetBytes(w.Body.Bytes(), "code").String())
	})
	t.Run("Should reject bodies over the upload limit", func(t *testing.T) {
		srv := newTestServer(t, map[string]any{"max-upload-size": "1KiB", "max-file-size": "1KiB"}, nil)
		big := upload{name: "big.txt", data: []byte(strings.Repeat("A  B\n", 400))}
		req := multipartRequest(t, routes.Convert(), big)
		w := serve(srv, req)
		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "document_too_large", gjson.GetBytes(w.Body.Bytes(), "code").String())
	})
}

func TestServer_Extract(t *testing.T) {
	t.Run("Should return records as json without a download header", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		req := multipartRequest(t, routes.Extract(), upload{name: "a.txt", data: []byte("Item  Qty\nBolt  7\nNut\n")})
		w := serve(srv, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Empty(t, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "1", w.Header().Get(RecordCountHeader))
		assert.Equal(t, "7", gjson.GetBytes(w.Body.Bytes(), "0.Qty").String())
	})
}

func TestServer_Metadata(t *testing.T) {
	t.Run("Should list the supported formats", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		w := serve(srv, httptest.NewRequest(http.MethodGet, routes.Formats(), http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		names := gjson.GetBytes(w.Body.Bytes(), "data.formats.#.name").Array()
		require.Len(t, names, 3)
		assert.Equal(t, "json", gjson.GetBytes(w.Body.Bytes(), "data.default").String())
		assert.Equal(t, "Success", gjson.GetBytes(w.Body.Bytes(), "message").String())
	})
	t.Run("Should report health", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		w := serve(srv, httptest.NewRequest(http.MethodGet, routes.HealthVersioned(), http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "healthy", gjson.GetBytes(w.Body.Bytes(), "data.status").String())
	})
	t.Run("Should answer unknown routes with a problem document", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/nope", http.NoBody))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", gjson.GetBytes(w.Body.Bytes(), "code").String())
	})
	t.Run("Should expose metrics when monitoring is enabled", func(t *testing.T) {
		t.Cleanup(monitoring.ResetSystemMetricsForTesting)
		t.Cleanup(middleware.ResetMetricsForTesting)
		mon, err := monitoring.New(t.Context(), config.MonitoringConfig{Enabled: true, Path: monitoring.DefaultPath})
		require.NoError(t, err)
		t.Cleanup(func() { _ = mon.Shutdown(context.Background()) })
		srv := newTestServer(t, nil, mon)
		serve(srv, httptest.NewRequest(http.MethodGet, routes.Formats(), http.NoBody))
		w := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "pdftab_http_requests_total")
	})
}

func TestNewServer(t *testing.T) {
	t.Run("Should require a runner", func(t *testing.T) {
		_, err := NewServer(t.Context(), nil, nil)
		assert.Error(t, err)
	})
}
