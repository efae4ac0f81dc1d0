package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FACorreiaa/go-tripplanner/internal/app/domain/itinerary"
	"github.com/FACorreiaa/go-tripplanner/internal/app/domain/mapview"
	"github.com/FACorreiaa/go-tripplanner/internal/app/domain/sessions"
)

type AppHandlers struct {
	Sessions *sessions.Handler
	MapView  *mapview.Handler
	// Itineraries is nil unless saved itineraries live in Postgres.
	Itineraries *itinerary.Handler
}

// Setup registers every route of the planner API.
func Setup(r *gin.Engine, h *AppHandlers) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	r.GET("/map", h.MapView.ShowMap)

	api := r.Group("/api/v1")
	{
		api.POST("/sessions", h.Sessions.CreateSession)

		session := api.Group("/sessions/:id")
		session.GET("", h.Sessions.GetSession)
		session.DELETE("", h.Sessions.DeleteSession)
		session.PUT("/city", h.Sessions.SetCity)
		session.POST("/search", h.Sessions.Search)
		session.POST("/itinerary", h.Sessions.AddPlace)
		session.DELETE("/itinerary", h.Sessions.RemovePlace)
		session.POST("/panel/close", h.Sessions.ClosePanel)
		session.POST("/panel/toggle", h.Sessions.TogglePanel)
		session.POST("/navigate", h.Sessions.Navigate)
		session.POST("/route/:algorithm", h.Sessions.RequestRoute)
		session.POST("/back", h.Sessions.BackToSearch)

		if h.Itineraries != nil {
			session.GET("/itineraries", h.Itineraries.ListSaved)
		}
	}
}
