package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savari-labs/go-transit/parser"
)

var MANAGER *PlannerManager

func main() {
	config_file := "./config.yaml"
	if v := os.Getenv("TRANSIT_CONFIG"); v != "" {
		config_file = v
	}
	config := ReadConfig(config_file)
	log := SetupLogging(config.Logging.Level, config.Logging.Format)

	manager, err := NewPlannerManager(config, log)
	if err != nil {
		log.Error("failed to start planner: " + err.Error())
		os.Exit(1)
	}
	MANAGER = manager
	defer manager.Close()

	if config.Feeds.Watch {
		watcher, err := parser.NewWatcher(config.Feeds.NetworkFile, manager.Store(), log)
		if err != nil {
			log.Error("failed to watch network feed: " + err.Error())
			os.Exit(1)
		}
		watcher.OnSwap = func(version int64) {
			metric_snapshot_swaps.Inc()
		}
		defer watcher.Close()
	}

	router := NewRouter(manager, config, log)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed: " + err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed: " + err.Error())
	}
}
