package handler

import (
	"embed"
	"html/template"
	"net/http"

	"flight-assistant/internal/middleware"
	"flight-assistant/internal/model"
	"flight-assistant/internal/service"
	"flight-assistant/internal/session"
	"flight-assistant/internal/view"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Templates parses the page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.ParseFS(templatesFS, "templates/*.tmpl")
}

// PageHandler serves the single page: the flight form, the latest result,
// the chat box and the transcript.
type PageHandler struct {
	assistant *service.Assistant
	sessions  *session.Store
}

func NewPageHandler(assistant *service.Assistant, sessions *session.Store) *PageHandler {
	return &PageHandler{assistant: assistant, sessions: sessions}
}

// GET /
func (h *PageHandler) Index(c *gin.Context) {
	st := stateOf(c, h.sessions)
	c.HTML(http.StatusOK, "index", view.NewPage(st.Snapshot(), service.Outcome{}, service.Outcome{}))
}

// POST /  form field "action" is "predict" or "ask"
func (h *PageHandler) Submit(c *gin.Context) {
	st := stateOf(c, h.sessions)
	ctx := c.Request.Context()

	var predictOut, askOut service.Outcome
	switch c.PostForm("action") {
	case "predict":
		var q model.FlightQuery
		if err := c.ShouldBind(&q); err != nil {
			predictOut = service.Rejected(describeBindError(err))
			break
		}
		predictOut = h.assistant.Predict(ctx, st, q)
	case "ask":
		askOut = h.assistant.Ask(ctx, st, c.PostForm("query"))
	default:
		c.String(http.StatusBadRequest, "unknown action")
		return
	}

	c.HTML(http.StatusOK, "index", view.NewPage(st.Snapshot(), predictOut, askOut))
}

func stateOf(c *gin.Context, sessions *session.Store) *session.State {
	return sessions.Get(c.GetString(middleware.SessionKey))
}
