package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flight-assistant/internal/config"
	"flight-assistant/internal/handler"
	"flight-assistant/internal/logger"
	"flight-assistant/internal/metrics"
	"flight-assistant/internal/service"
	"flight-assistant/internal/session"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	metrics.Register()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(cfg.SessionIdle())
	go sessions.Run(ctx)

	client := service.NewAPIClient(cfg.API.BaseURL, cfg.APITimeout())
	assistant := service.NewAssistant(client)

	r, err := handler.NewRouter(handler.RouterOptions{
		SessionSecret: []byte(cfg.Session.Secret),
		CookieName:    cfg.Session.CookieName,
		RatePerMinute: cfg.RateLimit.PerMinute,
		RateBurst:     cfg.RateLimit.Burst,
	}, assistant, sessions)
	if err != nil {
		slog.Error("router init failed", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "api", cfg.API.BaseURL, "timeout", cfg.APITimeout())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
