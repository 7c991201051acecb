package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"questengine/domain"
)

// sessionSummary is the list representation of a session.
type sessionSummary struct {
	SessionID    string       `json:"session_id"`
	Realm        string       `json:"realm"`
	Theme        string       `json:"theme,omitempty"`
	Phase        domain.Phase `json:"phase"`
	Participants int          `json:"participants"`
	Companions   int          `json:"companions"`
	Messages     int          `json:"messages"`
	StartedAt    string       `json:"started_at"`
}

func summarize(s *domain.Session) sessionSummary {
	return sessionSummary{
		SessionID:    s.SessionID,
		Realm:        s.Config.Realm,
		Theme:        s.Config.Theme,
		Phase:        s.Phase,
		Participants: len(s.Participants),
		Companions:   len(s.Companions),
		Messages:     len(s.Transcript),
		StartedAt:    s.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateSession creates a new session.
// POST /v1/sessions
func (h *Handler) CreateSession(c echo.Context) error {
	var cfg domain.SessionConfig
	if err := c.Bind(&cfg); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	id, err := h.engine.CreateSession(c.Request().Context(), cfg)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"session_id": id})
}

// ListSessions returns summaries of all active sessions.
// GET /v1/sessions
func (h *Handler) ListSessions(c echo.Context) error {
	sessions := h.engine.ListActiveSessions()
	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, summarize(s))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sessions": out})
}

// ListRecoverableSessions returns summaries of sessions a player can
// rejoin.
// GET /v1/sessions/recoverable
func (h *Handler) ListRecoverableSessions(c echo.Context) error {
	sessions := h.engine.ListRecoverableSessions()
	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, summarize(s))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"sessions": out})
}

// GetSession returns a full session snapshot.
// GET /v1/sessions/:session_id
func (h *Handler) GetSession(c echo.Context) error {
	s, ok := h.engine.GetSession(c.Param("session_id"))
	if !ok {
		return errorResponse(c, domain.ErrSessionNotFound)
	}
	return c.JSON(http.StatusOK, s)
}

// DeleteSession removes a session.
// DELETE /v1/sessions/:session_id
func (h *Handler) DeleteSession(c echo.Context) error {
	if err := h.engine.DeleteSession(c.Request().Context(), c.Param("session_id")); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddParticipant joins a participant to a session.
// POST /v1/sessions/:session_id/participants
func (h *Handler) AddParticipant(c echo.Context) error {
	var p domain.Participant
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if p.ParticipantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "participant_id is required"})
	}

	if err := h.engine.AddParticipant(c.Request().Context(), c.Param("session_id"), p); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveParticipant removes a participant from a session. Removing an
// absent participant reports removed=false rather than an error.
// DELETE /v1/sessions/:session_id/participants/:participant_id
func (h *Handler) RemoveParticipant(c echo.Context) error {
	removed, err := h.engine.RemoveParticipant(c.Request().Context(), c.Param("session_id"), c.Param("participant_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"removed": removed})
}

type postMessageRequest struct {
	ParticipantID string `json:"participant_id"`
	Text          string `json:"text"`
}

// PostMessage processes a participant message and returns the narrator
// reply.
// POST /v1/sessions/:session_id/messages
func (h *Handler) PostMessage(c echo.Context) error {
	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "text is required"})
	}

	reply, err := h.engine.ProcessMessage(c.Request().Context(), c.Param("session_id"), req.ParticipantID, req.Text)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, reply)
}

type advancePhaseRequest struct {
	Phase domain.Phase `json:"phase"`
}

// AdvancePhase manually advances a session's phase.
// POST /v1/sessions/:session_id/phase
func (h *Handler) AdvancePhase(c echo.Context) error {
	var req advancePhaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := h.engine.AdvancePhase(c.Param("session_id"), req.Phase); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
