package router

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/pkg/logger"
)

const problemContentType = "application/problem+json"

// problemFallback is written when the body itself cannot be marshalled.
var problemFallback = []byte(`{"status":500,"error":"Internal Server Error","code":"internal_error"}`)

// RespondError writes the problem document for a conversion error: decode
// failures name the file, unsupported formats name the requested value.
func RespondError(c *gin.Context, err error) {
	RespondProblem(c, core.ProblemFromError(err))
}

// RespondProblemWithCode writes a problem with a machine readable code.
func RespondProblemWithCode(c *gin.Context, status int, code string, detail string) {
	RespondProblem(c, &core.Problem{Status: status, Detail: detail, Extras: map[string]any{"code": code}})
}

// RespondProblem normalizes problem, logs it and aborts the request with it.
func RespondProblem(c *gin.Context, problem *core.Problem) {
	problem = core.NormalizeProblem(problem)
	body := core.BuildProblemBody(problem)
	logFailure(c, problem.Status, body)
	status := problem.Status
	payload, err := json.Marshal(body)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to marshal problem", "error", err)
		status, payload = http.StatusInternalServerError, problemFallback
	}
	c.Data(status, problemContentType, payload)
	c.Abort()
}

// logFailure logs client errors at warn and server errors at error, carrying
// every body field except the human readable title.
func logFailure(c *gin.Context, status int, body map[string]any) {
	route := c.FullPath()
	if route == "" {
		route = c.Request.URL.Path
	}
	keys := make([]string, 0, len(body))
	for k := range body {
		if k != "error" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	fields := []any{"route", route}
	for _, k := range keys {
		fields = append(fields, k, body[k])
	}
	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", fields...)
		return
	}
	log.Warn("request failed", fields...)
}
