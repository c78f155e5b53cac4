// internal/api/router.go
package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/memlife/memlife/internal/config"
	"github.com/memlife/memlife/internal/di"
	"github.com/memlife/memlife/internal/services"
)

// SetupRouter wires the HTTP routes. Services come from the container;
// nothing is constructed here.
func SetupRouter() (*gin.Engine, error) {
	cfg := config.GetCurrentConfig()

	container := di.GetContainer()

	accounts, ok := container.Get("accounts").(*services.AccountService)
	if !ok {
		return nil, fmt.Errorf("account service not initialized")
	}
	catalog, ok := container.Get("catalog").(*services.CatalogService)
	if !ok {
		return nil, fmt.Errorf("catalog service not initialized")
	}
	interview, ok := container.Get("interview").(*services.InterviewService)
	if !ok {
		return nil, fmt.Errorf("interview service not initialized")
	}
	images, ok := container.Get("images").(*services.ImageService)
	if !ok {
		return nil, fmt.Errorf("image service not initialized")
	}
	export, ok := container.Get("export").(*services.ExportService)
	if !ok {
		return nil, fmt.Errorf("export service not initialized")
	}
	llmService, ok := container.Get("llm").(*services.LLMService)
	if !ok {
		return nil, fmt.Errorf("llm service not initialized")
	}
	stats, ok := container.Get("stats").(*services.StatsService)
	if !ok {
		return nil, fmt.Errorf("stats service not initialized")
	}

	handler := NewHandler(accounts, catalog, interview, images, export, llmService, stats)

	if cfg != nil && !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(corsMiddleware())

	// Public routes.
	auth := r.Group("/api/auth")
	{
		auth.POST("/signup", handler.Signup)
		auth.POST("/login", handler.Login)
	}

	// Everything else needs a valid token.
	authorized := r.Group("/api")
	authorized.Use(authMiddleware(accounts))
	{
		authorized.POST("/auth/logout", handler.Logout)
		authorized.GET("/profile", handler.GetProfile)

		authorized.GET("/sessions", handler.GetSessions)
		authorized.POST("/sessions/select", handler.SelectSession)
		authorized.GET("/sessions/:id/images", handler.ListSessionImages)
		authorized.POST("/sessions/:id/images", handler.RegisterImage)

		authorized.POST("/topics/next", handler.NextTopic)
		authorized.POST("/topics/previous", handler.PreviousTopic)
		authorized.POST("/topics/override", handler.SetOverrideTopic)
		authorized.DELETE("/topics/override", handler.ClearOverrideTopic)
		authorized.GET("/topics/fallback-prompts", handler.GetFallbackPrompts)

		authorized.GET("/interview/state", handler.GetInterview)
		authorized.POST("/interview/message", handler.SendMessage)
		authorized.PUT("/interview/message/:index", handler.EditMessage)
		authorized.POST("/interview/mode", handler.SetGhostwriterMode)
		authorized.POST("/interview/photo-story", handler.SetPhotoStoryMode)

		authorized.GET("/export", handler.ExportBiography)

		authorized.GET("/llm/status", handler.GetLLMStatus)
		authorized.PUT("/llm/config", handler.UpdateLLMConfig)
		authorized.GET("/stats", handler.GetUsageStats)
	}

	// Websocket endpoint authenticates via the token query parameter.
	r.GET("/ws/interview", authMiddleware(accounts), handler.InterviewWebSocket)

	return r, nil
}
