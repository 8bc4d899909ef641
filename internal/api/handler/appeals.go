package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"deliberate/backend/internal/appeal"
	"deliberate/backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createAppealRequest struct {
	Reason string `json:"reason"`
}

type assignAppealRequest struct {
	ModeratorID string `json:"moderator_id"`
}

type reviewAppealRequest struct {
	Decision          models.ReviewDecision `json:"decision"`
	DecisionReasoning string                `json:"decision_reasoning"`
}

// CreateAppeal files an appeal by the caller against the action in the path.
func (h *Handler) CreateAppeal(c *gin.Context) {
	var req createAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.Appeals.CreateAppeal(c.Request.Context(), c.Param("id"), callerID(c), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetPendingAppeals(c *gin.Context) {
	pageSize, ok := pageSizeQuery(c)
	if !ok {
		return
	}

	res, err := h.Appeals.GetPendingAppeals(c.Request.Context(), pageSize, c.Query("cursor"), c.Query("moderator_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetUserAppeals(c *gin.Context) {
	pageSize, ok := pageSizeQuery(c)
	if !ok {
		return
	}

	res, err := h.Appeals.GetAppealsByAppellant(c.Request.Context(), c.Param("id"), pageSize, c.Query("cursor"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAppeal(c *gin.Context) {
	res, err := h.Appeals.GetAppealByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if res == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "appeal not found"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) AssignAppeal(c *gin.Context) {
	var req assignAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.Appeals.AssignAppealToModerator(c.Request.Context(), c.Param("id"), req.ModeratorID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UnassignAppeal(c *gin.Context) {
	res, err := h.Appeals.UnassignAppeal(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ReviewAppeal resolves the appeal with the caller as reviewer.
func (h *Handler) ReviewAppeal(c *gin.Context) {
	var req reviewAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.Appeals.ReviewAppeal(c.Request.Context(), c.Param("id"), callerID(c), req.Decision, req.DecisionReasoning)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) GetAppealStatistics(c *gin.Context) {
	start, ok := timeQuery(c, "start")
	if !ok {
		return
	}
	end, ok := timeQuery(c, "end")
	if !ok {
		return
	}

	res, err := h.Appeals.GetAppealStatistics(c.Request.Context(), start, end)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func pageSizeQuery(c *gin.Context) (int, bool) {
	raw := c.Query("page_size")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page_size must be an integer"})
		return 0, false
	}
	return n, true
}

func timeQuery(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be an RFC 3339 timestamp"})
		return nil, false
	}
	return &t, true
}

// writeError maps the workflow's error kinds onto HTTP statuses.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, appeal.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, appeal.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, appeal.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.Logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
