package sessions

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripplanner/internal/app/middleware"
	"github.com/FACorreiaa/go-tripplanner/internal/app/models"
	"github.com/FACorreiaa/go-tripplanner/internal/app/planner"
)

type Handler struct {
	store *Store
	log   *zap.Logger
}

func NewHandler(store *Store, log *zap.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log,
	}
}

type createResponse struct {
	SessionID string           `json:"session_id"`
	State     planner.Snapshot `json:"state"`
}

type cityRequest struct {
	City *string `json:"city"`
}

type errorResponse struct {
	Error string            `json:"error"`
	State *planner.Snapshot `json:"state,omitempty"`
}

// CreateSession starts a planning session
func (h *Handler) CreateSession(c *gin.Context) {
	id, coord := h.store.Create(c.Request.Context())
	c.JSON(http.StatusCreated, createResponse{SessionID: id, State: coord.Snapshot()})
}

// GetSession returns the current view state
func (h *Handler) GetSession(c *gin.Context) {
	coord, _, ok := h.coordinator(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, coord.Snapshot())
}

// DeleteSession drops a session and its state
func (h *Handler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// SetCity records the search box text
func (h *Handler) SetCity(c *gin.Context) {
	coord, _, ok := h.coordinator(c)
	if !ok {
		return
	}

	var req cityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.City == nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "city is required"})
		return
	}
	c.JSON(http.StatusOK, coord.SetCity(*req.City))
}

// Search submits a city search. Without a body the recorded city is used.
func (h *Handler) Search(c *gin.Context) {
	coord, ctx, ok := h.coordinator(c)
	if !ok {
		return
	}

	var req cityRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}
	city := coord.Snapshot().City
	if req.City != nil {
		city = *req.City
	}

	snap, err := coord.Search(ctx, city)
	h.respond(c, snap, err)
}

// AddPlace appends a place to the itinerary
func (h *Handler) AddPlace(c *gin.Context) {
	coord, _, ok := h.coordinator(c)
	if !ok {
		return
	}
	place, ok := h.bindPlace(c)
	if !ok {
		return
	}

	snap, added := coord.Add(place)
	status := http.StatusCreated
	if !added {
		status = http.StatusOK
	}
	c.JSON(status, snap)
}

// RemovePlace deletes a place from the itinerary
func (h *Handler) RemovePlace(c *gin.Context) {
	coord, _, ok := h.coordinator(c)
	if !ok {
		return
	}
	place, ok := h.bindPlace(c)
	if !ok {
		return
	}

	snap, _ := coord.Remove(place)
	c.JSON(http.StatusOK, snap)
}

// ClosePanel hides the itinerary panel
func (h *Handler) ClosePanel(c *gin.Context) {
	coord, _, ok := h.coordinator(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, coord.ClosePanel())
}

// TogglePanel shows or hides the itinerary panel
func (h *Handler) TogglePanel(c *gin.Context) {
	coord, _, ok := h.coordinator(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, coord.TogglePanel())
}

// Navigate switches to the map view
func (h *Handler) Navigate(c *gin.Context) {
	coord, ctx, ok := h.coordinator(c)
	if !ok {
		return
	}
	snap, err := coord.Navigate(ctx)
	h.respond(c, snap, err)
}

// RequestRoute routes the trip with the algorithm in the path
func (h *Handler) RequestRoute(c *gin.Context) {
	coord, ctx, ok := h.coordinator(c)
	if !ok {
		return
	}

	algorithm, err := models.ParseAlgorithm(c.Param("algorithm"))
	if err != nil {
		snap := coord.Snapshot()
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), State: &snap})
		return
	}

	snap, err := coord.RequestRoute(ctx, algorithm)
	h.respond(c, snap, err)
}

// BackToSearch leaves the map view
func (h *Handler) BackToSearch(c *gin.Context) {
	coord, _, ok := h.coordinator(c)
	if !ok {
		return
	}
	snap, err := coord.BackToSearch()
	h.respond(c, snap, err)
}

// coordinator resolves the session in the path and returns a request
// context tagged with its id. It writes the 404 itself.
func (h *Handler) coordinator(c *gin.Context) (*planner.Coordinator, context.Context, bool) {
	id := c.Param("id")
	coord, err := h.store.Get(id)
	if err != nil {
		h.log.Debug("Unknown session", zap.String("session_id", id))
		c.JSON(http.StatusNotFound, errorResponse{Error: "session not found"})
		return nil, nil, false
	}
	return coord, middleware.WithSessionID(c.Request.Context(), id), true
}

func (h *Handler) bindPlace(c *gin.Context) (models.Place, bool) {
	var place models.Place
	if err := c.ShouldBindJSON(&place); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid place"})
		return models.Place{}, false
	}
	if place.Name == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "place name is required"})
		return models.Place{}, false
	}
	return place, true
}

func (h *Handler) respond(c *gin.Context, snap planner.Snapshot, err error) {
	if err == nil {
		c.JSON(http.StatusOK, snap)
		return
	}

	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("session_id", c.Param("id")),
			zap.Error(err))
	}
	c.JSON(status, errorResponse{Error: err.Error(), State: &snap})
}

// StatusFor maps planner errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case models.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidTransition), errors.Is(err, models.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBackend), errors.Is(err, models.ErrDirections):
		return http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
