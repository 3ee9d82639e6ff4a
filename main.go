package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"studentrisk/adapters/charts"
	"studentrisk/app"
	"studentrisk/internal"
	"studentrisk/internal/config"
	"studentrisk/internal/metrics"
	"studentrisk/ui"
)

//go:embed ui/templates/*.html ui/static/*
var embeddedFiles embed.FS

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.Log.Level))
	recorder := metrics.NewRecorder()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := app.Bootstrap(ctx, app.BootstrapConfigFrom(appConfig), app.Dependencies{
		Logger:  logger,
		Metrics: recorder,
		Charts:  charts.NewSVGRenderer(appConfig.Render.ChartWidth, appConfig.Render.ChartHeight),
	})
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}
	if sess.Halted() {
		logger.Warn("session halted: %s; the dashboard will only show this message", sess.Halt.Message)
	}

	if appConfig.Ops.Enabled {
		ops := &http.Server{
			Addr:              ":" + appConfig.Ops.Port,
			Handler:           ui.NewOpsRouter(sess, recorder),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("Ops server (healthz, metrics, pprof) on :%s", appConfig.Ops.Port)
			if err := ops.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("ops server failed: %v", err)
			}
		}()
		defer ops.Shutdown(context.Background())
	}

	files, err := fs.Sub(embeddedFiles, "ui")
	if err != nil {
		log.Fatalf("Failed to open embedded UI files: %v", err)
	}
	server := ui.NewServer(files, ui.ServerConfig{
		GinMode:           appConfig.Server.GinMode,
		RenderConcurrency: appConfig.Render.Concurrency,
	})
	if err := server.Initialize(sess); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	dashboard := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dashboard.Shutdown(shutdownCtx)
	}()

	logger.Info("Starting dashboard on port %s (session %s)", appConfig.Server.Port, sess.ID.Short())
	if err := dashboard.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Dashboard server failed: %v", err)
	}
}
