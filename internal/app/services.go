package app

import (
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
	"github.com/yungbote/promptcraft-backend/internal/platform/promptstyle"
	"github.com/yungbote/promptcraft-backend/internal/refiner"
	"github.com/yungbote/promptcraft-backend/internal/services"
)

type Services struct {
	Engine   refiner.Engine
	Workflow services.EnhancementWorkflow
	Library  services.LibraryService
}

func wireServices(log *logger.Logger, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")
	engine := refiner.New(log, clients.LLM, promptstyle.Default())
	return Services{
		Engine:   engine,
		Workflow: services.NewEnhancementWorkflow(log, reposet.Enhancement, engine),
		Library:  services.NewLibraryService(log, reposet.Enhancement),
	}
}
