// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/memlife/memlife/internal/api"
	"github.com/memlife/memlife/internal/app"
	"github.com/memlife/memlife/internal/config"
	"github.com/memlife/memlife/internal/di"
	"github.com/memlife/memlife/internal/services"
	"github.com/memlife/memlife/internal/utils"
)

func main() {
	log.Println("starting memlife server...")

	baseConfig, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	createDirectories(baseConfig)

	if err := utils.InitLogger(filepath.Join(baseConfig.LogDir, "memlife.log")); err != nil {
		log.Printf("warning: file logging unavailable: %v", err)
	}

	if err := config.InitConfig(baseConfig.DataDir); err != nil {
		log.Fatalf("failed to initialize configuration: %v", err)
	}

	if err := app.InitServices(); err != nil {
		log.Fatalf("failed to initialize services: %v", err)
	}

	router, err := api.SetupRouter()
	if err != nil {
		log.Fatalf("failed to set up routes: %v", err)
	}

	log.Printf("listening on port %s", baseConfig.Port)
	runWithGracefulShutdown(router, baseConfig.Port)
}

func createDirectories(cfg *config.Config) {
	dirs := []string{
		cfg.DataDir,
		filepath.Join(cfg.DataDir, "users"),
		filepath.Join(cfg.DataDir, "accounts"),
		filepath.Join(cfg.DataDir, "images"),
		filepath.Join(cfg.DataDir, "stats"),
		cfg.LogDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("failed to create directory %s: %v", dir, err)
		}
	}
}

func runWithGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	// Persist any pending usage stats before the process exits.
	if stats, ok := di.GetContainer().Get("stats").(*services.StatsService); ok {
		stats.Flush()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
