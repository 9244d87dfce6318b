package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ytdigest/internal/app"
)

// NewRouter wires the API routes and middleware.
func NewRouter(a *app.App) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery(), RequestLogger(), CORS())

	h := NewAPIHandler(a)

	api := router.Group("/api")
	{
		api.POST("/summarize", h.SummarizeHandler)
		api.OPTIONS("/summarize", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		api.GET("/health", h.HealthHandler)
		api.GET("/history", h.HistoryHandler)
	}

	router.NoMethod(MethodNotAllowed(router.Routes()))
	router.NoRoute(NotFound)
	return router
}
