package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tilevision/segserve/internal/api"
	"github.com/tilevision/segserve/internal/api/middleware"
	"github.com/tilevision/segserve/internal/app"
)

func (s *Server) SetupRoutes(app *app.App) {
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Preprocessed tiles and ground-truth label images, served as-is.
	s.ginEngine.Static("/data", app.Config().DataDir)

	// Stored prediction results.
	s.ginEngine.GET("/file/:filename", handlerWrapper(app, api.GetFile))

	s.ginEngine.GET("/", handlerWrapper(app, api.HomePage))
	s.ginEngine.GET("/demo/:model/:dataset", handlerWrapper(app, api.DemoPage))

	// JSON endpoints driving demo_predictor.js.
	demoAPI := s.ginEngine.Group("/")
	demoAPI.Use(handlerWrapper(app, middleware.TokenAuthMiddleware))
	demoAPI.GET("/demo_image_selector", handlerWrapper(app, api.DemoImageSelector))
	demoAPI.POST("/predictor", handlerWrapper(app, api.Predict))
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}
