package size

import (
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/compozy/pdftab/engine/core"
	"github.com/compozy/pdftab/engine/infra/server/router"
)

// BodySizeLimiter caps the request body for the route group. Requests that
// declare a larger Content-Length are rejected before any read.
func BodySizeLimiter(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			router.RespondProblemWithCode(
				c,
				http.StatusRequestEntityTooLarge,
				core.ProblemCodeTooLarge,
				fmt.Sprintf("request body of %s exceeds the %s upload limit",
					humanize.IBytes(uint64(c.Request.ContentLength)), humanize.IBytes(uint64(limit))),
			)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
