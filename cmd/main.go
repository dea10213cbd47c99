package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensor_dashboard/internal/config"
	"sensor_dashboard/internal/device"
	"sensor_dashboard/internal/handlers"
	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/push"
	"sensor_dashboard/internal/repository"
	"sensor_dashboard/internal/repository/db"
	"sensor_dashboard/internal/server"
	"sensor_dashboard/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title        Sensor Dashboard API
// @version      1.0
// @description  Local operator API for the temperature/humidity dashboard.
// @host         localhost:8090
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	journalDB, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := journalDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	dev, err := device.NewClient(cfg.Device.BaseURL, cfg.Device.RequestTimeout)
	if err != nil {
		log.Fatalw("invalid device address", "err", err)
	}

	opts, err := serviceOptions(cfg, dev)
	if err != nil {
		log.Fatalw("invalid configuration", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(journalDB)
	services := service.NewService(repos, dev, opts, log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncDone := make(chan struct{})
	go func() {
		defer close(syncDone)
		services.Sync.Run(ctx)
	}()
	log.Infow("dashboard_started", "device", cfg.Device.BaseURL, "port", cfg.Port)

	srv := server.New()
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, syncDone, log)
}

// openDB opens the event journal; an empty path keeps it in memory.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	if cfg.DB.Path == "" {
		log.Infow("db.path not set; journal kept in memory")
	}
	return db.InitDB(cfg.DB.Path)
}

func serviceOptions(cfg *config.Config, dev *device.Client) (service.Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return service.Options{}, err
	}
	opts := service.Options{
		PollInterval:     cfg.Poll.Interval,
		SeriesCapacity:   cfg.Series.Capacity,
		Location:         loc,
		JournalRetention: cfg.Journal.Retention,
	}
	if cfg.Push.Enabled {
		opts.Push = push.Config{
			URL:              dev.PushURL(),
			Reconnect:        cfg.Push.Reconnect,
			MinBackoff:       cfg.Push.MinBackoff,
			MaxBackoff:       cfg.Push.MaxBackoff,
			HandshakeTimeout: cfg.Push.HandshakeTimeout,
		}
	}
	return opts, nil
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, syncDone <-chan struct{}, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop the push channel and the poll timer
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
	select {
	case <-syncDone:
	case <-ctx.Done():
		log.Warnw("sync loop did not stop in time")
	}
	_ = log.Sync()
}
