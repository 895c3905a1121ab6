package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/compozy/pdftab/engine/infra/server/middleware/size"
	"github.com/compozy/pdftab/engine/infra/server/router"
	"github.com/compozy/pdftab/engine/infra/server/routes"
	"github.com/compozy/pdftab/pkg/logger"
)

func (s *Server) buildRouter(ctx context.Context) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(router.RequestLogger(logger.FromContext(ctx)))
	if s.monitoring != nil && s.monitoring.IsInitialized() {
		r.Use(s.monitoring.GinMiddleware(ctx))
		r.GET(s.monitoring.Path(), gin.WrapH(s.monitoring.ExporterHandler()))
	}
	r.GET(routes.HealthVersioned(), CreateHealthHandler())
	r.GET(routes.Formats(), listFormats)
	uploads := r.Group("", size.BodySizeLimiter(s.serverConfig.MaxUploadSize.Int64()))
	uploads.POST(routes.Convert(), s.convert)
	uploads.POST(routes.Extract(), s.extract)
	r.NoRoute(func(c *gin.Context) {
		router.RespondProblemWithCode(c, http.StatusNotFound, "not_found", "no route for "+c.Request.URL.Path)
	})
	return r
}
