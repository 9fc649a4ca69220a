package main

import (
	"github.com/enzomar/agrinote/internal/mockapi"
	"github.com/enzomar/agrinote/pkg/config"
	"github.com/enzomar/agrinote/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("agrinote-mockapi")
	if err != nil {
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

	log.Info("Starting mock farm API",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	server := mockapi.New(appConfig)
	e := server.Echo(appConfig)

	if err := e.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
