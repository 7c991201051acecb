// Package api provides HTTP handlers for the session engine.
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"questengine/domain"
	"questengine/engine"
)

// Handler handles HTTP requests.
type Handler struct {
	engine *engine.Engine
}

// NewHandler creates a new handler.
func NewHandler(eng *engine.Engine) *Handler {
	return &Handler{engine: eng}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/sessions", h.CreateSession)
	e.GET("/v1/sessions", h.ListSessions)
	e.GET("/v1/sessions/recoverable", h.ListRecoverableSessions)
	e.GET("/v1/sessions/:session_id", h.GetSession)
	e.DELETE("/v1/sessions/:session_id", h.DeleteSession)

	e.POST("/v1/sessions/:session_id/participants", h.AddParticipant)
	e.DELETE("/v1/sessions/:session_id/participants/:participant_id", h.RemoveParticipant)

	e.POST("/v1/sessions/:session_id/messages", h.PostMessage)
	e.POST("/v1/sessions/:session_id/phase", h.AdvancePhase)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps domain errors to HTTP statuses.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrParticipantNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrSessionFull), errors.Is(err, domain.ErrDuplicateParticipant):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusBadRequest
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
