package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"ttestcalc/internal/api"
	"ttestcalc/internal/config"
	"ttestcalc/internal/container"

	"github.com/joho/godotenv"
)

// JSON API only, without the form front end
func main() {
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	if err := appContainer.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	router := api.NewRouter(appContainer.Service, appContainer.Logger, appConfig.Server.GinMode)

	server := &http.Server{
		Addr:         ":" + appConfig.Server.Port,
		Handler:      router,
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	appContainer.Logger.Info("Starting API server on %s", server.Addr)
	if err := api.Serve(ctx, server, 10*time.Second); err != nil {
		appContainer.Logger.Error("API server stopped: %v", err)
		return
	}
	appContainer.Logger.Info("API server stopped")
}
