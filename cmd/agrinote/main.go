package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/api"
	"github.com/enzomar/agrinote/internal/netmon"
	"github.com/enzomar/agrinote/internal/storage"
	"github.com/enzomar/agrinote/internal/store"
	"github.com/enzomar/agrinote/pkg/config"
	"github.com/enzomar/agrinote/pkg/logger"
	"github.com/enzomar/agrinote/pkg/metrics"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("agrinote-sync")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting agrinote sync agent", appConfig.LogConfig()...)

	// Initialize local storage
	db, err := storage.OpenSQLite(appConfig.Storage.Path)
	if err != nil {
		log.Fatal("Failed to open local storage", zap.Error(err))
	}
	defer db.Close()
	log.Info("Local storage ready", zap.String("path", appConfig.Storage.Path))

	// Initialize sync metrics
	syncMetrics := metrics.NewSyncMetrics(appConfig.ServiceName)

	// Build the gateway and the store
	client := api.NewClient(appConfig.API.BaseURL, appConfig.API.Timeout, db)
	dataStore := store.New(client, db, store.Config{
		TreatmentsInterval: appConfig.Sync.TreatmentsInterval,
		ProductsInterval:   appConfig.Sync.ProductsInterval,
		WeatherInterval:    appConfig.Sync.WeatherInterval,
		MaxReplayAttempts:  appConfig.Sync.MaxReplayAttempts,
	})
	dataStore.SetMetrics(syncMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connectivity monitor drives the offline flag and reconciliation
	monitor := netmon.New(
		appConfig.API.BaseURL+"/health",
		appConfig.Sync.ProbeInterval,
		appConfig.Sync.ProbeTimeout,
		func(online bool) {
			dataStore.SetOnline(ctx, online)
		},
	)
	dataStore.SetMonitor(monitor)

	// Restore the persisted snapshot before any sync runs
	if err := dataStore.LoadFromStorage(); err != nil {
		log.Warn("Starting from an empty snapshot", zap.Error(err))
	}

	dataStore.Start(ctx)

	// Operational endpoints
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))
	e.GET("/health", func(c echo.Context) error {
		state := dataStore.GetState()
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":  "ok",
			"offline": state.Offline,
		})
	})

	go func() {
		if err := e.Start(":" + appConfig.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	dataStore.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}
}
