// Package handler exposes the appeal workflow over HTTP.
package handler

import (
	"net/http"

	"deliberate/backend/internal/appeal"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler holds the services the routes call into.
type Handler struct {
	Appeals *appeal.Service
	Logger  *zap.Logger
}

func NewHandler(appeals *appeal.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Appeals: appeals, Logger: logger.Named("http")}
}

// NewRouter builds the gin engine with every route registered.
func (h *Handler) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(h.AccessLog(), h.Recovery())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", h.RequireCaller())
	{
		api.POST("/moderation/actions/:id/appeals", h.CreateAppeal)

		appeals := api.Group("/moderation/appeals")
		appeals.GET("/pending", h.GetPendingAppeals)
		appeals.GET("/stats", h.GetAppealStatistics)
		appeals.GET("/:id", h.GetAppeal)
		appeals.POST("/:id/assign", h.AssignAppeal)
		appeals.POST("/:id/unassign", h.UnassignAppeal)
		appeals.POST("/:id/review", h.ReviewAppeal)

		api.GET("/users/:id/appeals", h.GetUserAppeals)
	}
	return r
}
