package handler

import (
	"net/http"

	"flight-assistant/internal/middleware"
	"flight-assistant/internal/service"
	"flight-assistant/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	SessionSecret []byte
	CookieName    string
	RatePerMinute int
	RateBurst     int
}

// NewRouter wires the page, the JSON API and the operational endpoints.
func NewRouter(opts RouterOptions, assistant *service.Assistant, sessions *session.Store) (*gin.Engine, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))
	r.SetHTMLTemplate(tmpl)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	page := NewPageHandler(assistant, sessions)
	api := NewAPIHandler(assistant, sessions)
	limit := middleware.RateLimit(opts.RatePerMinute, opts.RateBurst)

	app := r.Group("/", middleware.Session(opts.SessionSecret, opts.CookieName))
	app.GET("/", page.Index)
	app.POST("/", limit, page.Submit)

	g := app.Group("/api")
	g.GET("/state", api.State)
	g.POST("/predict", limit, api.Predict)
	g.POST("/ask", limit, api.Ask)
	g.POST("/reset", api.Reset)

	return r, nil
}
