package handler

import (
	"net/http"
	"strings"

	"flight-assistant/internal/middleware"
	"flight-assistant/internal/model"
	"flight-assistant/internal/service"
	"flight-assistant/internal/session"

	"github.com/gin-gonic/gin"
)

// APIHandler exposes the same two actions as the page, as JSON.
type APIHandler struct {
	assistant *service.Assistant
	sessions  *session.Store
}

func NewAPIHandler(assistant *service.Assistant, sessions *session.Store) *APIHandler {
	return &APIHandler{assistant: assistant, sessions: sessions}
}

// GET /api/state
func (h *APIHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, stateOf(c, h.sessions).Snapshot())
}

// POST /api/predict  body: FlightQuery
func (h *APIHandler) Predict(c *gin.Context) {
	var q model.FlightQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": describeBindError(err).Error(), "kind": service.KindValidation})
		return
	}
	out := h.assistant.Predict(c.Request.Context(), stateOf(c, h.sessions), q)
	c.JSON(statusFor(out), out)
}

// POST /api/ask  body: {"query":"..."}
func (h *APIHandler) Ask(c *gin.Context) {
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty query", "kind": service.KindValidation})
		return
	}
	st := stateOf(c, h.sessions)
	out := h.assistant.Ask(c.Request.Context(), st, req.Query)
	c.JSON(statusFor(out), gin.H{"outcome": out, "history": st.History()})
}

// POST /api/reset
func (h *APIHandler) Reset(c *gin.Context) {
	h.sessions.Delete(c.GetString(middleware.SessionKey))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func statusFor(out service.Outcome) int {
	switch out.Kind {
	case "":
		return http.StatusOK
	case service.KindPrecondition:
		return http.StatusConflict
	case service.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusBadGateway
	}
}
