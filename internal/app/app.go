// internal/app/app.go
package app

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/memlife/memlife/internal/config"
	"github.com/memlife/memlife/internal/di"
	"github.com/memlife/memlife/internal/services"
	"github.com/memlife/memlife/internal/storage"

	// Provider packages register themselves on import.
	_ "github.com/memlife/memlife/internal/llm/providers/anthropic"
	_ "github.com/memlife/memlife/internal/llm/providers/openai"
)

// InitServices constructs every service in dependency order and
// registers them in the global container. Call after config.InitConfig.
func InitServices() error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("configuration not initialized")
	}

	container := di.GetContainer()

	// Re-registering would orphan live service state.
	if container.Has("interview") {
		return nil
	}

	fileStorage, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	container.Register("storage", fileStorage)

	catalog := services.NewCatalogService()
	container.Register("catalog", catalog)

	accounts := services.NewAccountService(fileStorage)
	container.Register("accounts", accounts)

	recorder := services.NewRecorderService(fileStorage, catalog, accounts)
	container.Register("recorder", recorder)

	events, err := services.NewEventsService(filepath.Join(cfg.DataDir, cfg.EventsFile))
	if err != nil {
		return fmt.Errorf("failed to initialize historical events: %w", err)
	}
	container.Register("events", events)

	images := services.NewImageService(fileStorage)
	container.Register("images", images)

	contextService := services.NewContextService(rand.New(rand.NewSource(time.Now().UnixNano())))
	container.Register("context", contextService)

	prompts := services.NewPromptService(contextService)
	container.Register("prompts", prompts)

	stats := services.NewStatsService(cfg.DataDir)
	container.Register("stats", stats)

	llmService := services.NewLLMService(stats)
	container.Register("llm", llmService)

	interview := services.NewInterviewService(
		catalog, accounts, recorder, events, images, contextService, prompts, llmService)
	container.Register("interview", interview)

	export := services.NewExportService(catalog, recorder, accounts, images)
	container.Register("export", export)

	return nil
}
