package itinerary

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo Repository
	log  *zap.Logger
}

func NewHandler(repo Repository, log *zap.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log,
	}
}

// ListSaved returns the itineraries saved by a session
func (h *Handler) ListSaved(c *gin.Context) {
	sessionID := c.Param("id")
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	saved, err := h.repo.ListBySession(c.Request.Context(), sessionID, limit)
	if err != nil {
		h.log.Error("Failed to list saved itineraries", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load saved itineraries"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"itineraries": saved})
}
