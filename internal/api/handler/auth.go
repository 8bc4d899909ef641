package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// CallerHeader carries the user id resolved by the upstream auth gateway.
	CallerHeader = "X-User-ID"

	callerKey = "caller_id"
)

// RequireCaller rejects requests that do not identify their caller.
func (h *Handler) RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(CallerHeader))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": CallerHeader + " header missing"})
			return
		}
		c.Set(callerKey, id)
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(callerKey)
}
