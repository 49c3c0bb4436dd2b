package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"remind/src-server/metric"
	"remind/src-server/route"
	"remind/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}

	level := slog.LevelDebug
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			level = slog.LevelDebug
		}
	}

	var out io.Writer = os.Stderr
	noColor := false
	if logFile := os.Getenv("LOG_FILE"); logFile != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		noColor = true
	}

	slog.SetDefault(slog.New(
		tint.NewHandler(out, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC1123Z,
			NoColor:    noColor,
		}),
	))
}

func main() {
	as := utils.NewAppState()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ask the sinks once, up front; a denial sticks until restart
	as.Notifier.RequestPermission(ctx)

	as.Clock.Start(ctx)
	go as.Scheduler.Run(ctx, as.Clock, as.Store)
	go metric.Init(as)

	// http server
	muxer := http.NewServeMux()
	muxer.Handle("GET /metrics", promhttp.Handler())
	route.Auth(muxer, as)
	route.Events(muxer, as)
	route.Ical(muxer, as)
	route.Ping(muxer, as)
	server := &http.Server{
		Addr:              ":" + as.Config.GetPort(),
		Handler:           muxer,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort(), "events", len(as.Store.All()))

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	slog.Info("Gracefully shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Warn("can't shut down HTTP server", "error", err)
	}
	cancel()
	as.GracefulShutdown()
}
