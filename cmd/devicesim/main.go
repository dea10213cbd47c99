// Command devicesim serves a fake sensor board for local development.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sensor_dashboard/internal/config"
	"sensor_dashboard/internal/devicesim"
	"sensor_dashboard/internal/logger"
	"sensor_dashboard/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(cfg.LogLevel)

	sim := devicesim.New(devicesim.Options{HistorySize: cfg.Simulator.HistorySize}, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.Run(ctx, cfg.Simulator.Tick)

	srv := server.New()
	go func() {
		if err := srv.Run(cfg.Simulator.Port, sim.Routes()); err != nil {
			log.Fatalw("error starting simulator", "err", err)
		}
	}()
	log.Infow("devicesim_started", "port", cfg.Simulator.Port, "tick", cfg.Simulator.Tick)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	sim.Close()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("simulator forced to shutdown", "err", err)
	}
}
