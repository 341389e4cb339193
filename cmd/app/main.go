package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"receiving/cmd"
	httpin "receiving/internal/adapters/in/http"
	"receiving/internal/adapters/out/postgres/migrations"

	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := newLogger(configs.LogLevel)

	if err = migrations.Up(configs.DSN()); err != nil {
		log.Fatalf("Error applying migrations: %v", err)
	}
	logger.Info("migrations applied")

	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := cmd.NewCompositionRoot(configs, gormDB, registry, logger)
	if err != nil {
		log.Fatalf("Error building application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, registry, logger, configs.HTTPPort)
}

func newLogger(level string) *slog.Logger {
	var slogLevel slog.Level
	if err := slogLevel.UnmarshalText([]byte(level)); err != nil {
		slogLevel = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}

func startWebServer(
	ctx context.Context,
	app *cmd.CompositionRoot,
	registry *prometheus.Registry,
	logger *slog.Logger,
	port string,
) {
	server, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("Error creating HTTP server: %v", err)
	}

	spec, err := httpin.LoadSpec(ctx)
	if err != nil {
		log.Fatalf("Error loading API document: %v", err)
	}

	e, err := httpin.NewRouter(server, spec, registry, logger)
	if err != nil {
		log.Fatalf("Error creating router: %v", err)
	}
	e.Logger.SetLevel(log.WARN)

	go func() {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			e.Logger.Fatal(startErr)
		}
	}()
	logger.Info("HTTP server started", "port", port)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("graceful shutdown complete")
}
