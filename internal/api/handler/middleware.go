package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog writes one zap entry per request.
func (h *Handler) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("caller_id", callerID(c)),
		}
		switch {
		case status >= http.StatusInternalServerError:
			h.Logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			h.Logger.Warn("request", fields...)
		default:
			h.Logger.Debug("request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500.
func (h *Handler) Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		h.Logger.Error("panic in handler", zap.Any("panic", rec), zap.String("path", c.FullPath()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
