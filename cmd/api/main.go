// Command api runs the diet-plan HTTP service.
//
// Startup order: environment, logging, tracing, the optional diagnostics
// log, pipeline components, then the HTTP server. SIGINT/SIGTERM stop
// accepting requests, wait for in-flight handlers, and then give detached
// e-mail deliveries a bounded window to finish.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/delivery"
	"github.com/Akshaypareek01/DietProject-samsara/internal/document"
	httpapi "github.com/Akshaypareek01/DietProject-samsara/internal/http"
	"github.com/Akshaypareek01/DietProject-samsara/internal/http/handlers"
	"github.com/Akshaypareek01/DietProject-samsara/internal/llm"
	"github.com/Akshaypareek01/DietProject-samsara/internal/observability"
	"github.com/Akshaypareek01/DietProject-samsara/internal/repo"
	"github.com/Akshaypareek01/DietProject-samsara/internal/services"
	"github.com/Akshaypareek01/DietProject-samsara/internal/sysutil"
	"github.com/Akshaypareek01/DietProject-samsara/internal/weather"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownGrace = 10 * time.Second

func main() {
	// A missing .env is normal outside development.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.ConfigureLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	// Diagnostics log
	var (
		events services.EventLog
		stats  handlers.EventStats
	)
	if cfg.DiagDBPath != "" {
		db, err := repo.OpenSQLite(cfg.DiagDBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DiagDBPath).Msg("open diagnostics db")
		}
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate diagnostics db")
		}
		el := repo.EventLog{DB: db}
		events, stats = el, el
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
	}

	// Pipeline
	gen, err := llm.New(ctx, cfg.LLM, nil)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.LLM.Provider).Msg("llm client")
	}
	defer gen.Close()

	enricher := weather.New(cfg.Weather, &http.Client{Timeout: cfg.Weather.Timeout})

	transport, err := delivery.NewTransport(ctx, cfg.Mail)
	if err != nil {
		// Generation still works without mail; deliveries are skipped.
		log.Error().Err(err).Str("transport", cfg.Mail.Transport).Msg("mail transport unavailable")
		transport = nil
	}
	dispatcher := delivery.NewDispatcher(cfg.Mail, transport, document.NewRenderer(cfg.Document))

	plans := services.NewPlanService(cfg, enricher, gen, dispatcher)
	plans.Events = events

	if !gen.Configured() {
		log.Warn().Str("provider", cfg.LLM.Provider).Msg("language model key missing; generation requests will fail")
	}

	// HTTP
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		Plans: plans,
		Status: handlers.Status{
			LLMProvider:       gen.Provider(),
			LLMConfigured:     gen.Configured(),
			WeatherConfigured: enricher.Configured(),
			EmailConfigured:   dispatcher.Configured(),
		},
		Stats: stats,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("llm_provider", gen.Provider()).
			Bool("weather", enricher.Configured()).
			Bool("email", dispatcher.Configured()).
			Str("version", version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		log.Error().Err(err).Msg("http server error")
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := plans.Drain(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("deliveries still running at exit")
	}
	if err := otelShutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown")
	}
	log.Info().Msg("server exiting")
}
