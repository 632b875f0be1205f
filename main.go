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
	"ttestcalc/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

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

	apiRouter := api.NewRouter(appContainer.Service, appContainer.Logger, appConfig.Server.GinMode)

	uiApp, err := ui.NewApp(ui.Config{
		Service:        appContainer.Service,
		Logger:         appContainer.Logger,
		API:            apiRouter,
		RequestLogging: appConfig.Server.GinMode != gin.ReleaseMode,
	})
	if err != nil {
		log.Fatalf("Failed to create UI app: %v", err)
	}

	server := &http.Server{
		Addr:         ":" + appConfig.Server.Port,
		Handler:      uiApp.Handler(),
		ReadTimeout:  appConfig.Server.ReadTimeout,
		WriteTimeout: appConfig.Server.WriteTimeout,
	}

	appContainer.Logger.Info("t-test calculator listening on :%s (alpha %g)", appConfig.Server.Port, appContainer.Service.Options().Alpha)
	if err := api.Serve(ctx, server, 10*time.Second); err != nil {
		appContainer.Logger.Error("server stopped: %v", err)
		return
	}
	appContainer.Logger.Info("server stopped")
}
