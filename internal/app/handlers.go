package app

import (
	apphttp "github.com/yungbote/promptcraft-backend/internal/http"
	httpH "github.com/yungbote/promptcraft-backend/internal/http/handlers"
	httpMW "github.com/yungbote/promptcraft-backend/internal/http/middleware"
	"github.com/yungbote/promptcraft-backend/internal/observability"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

type Handlers struct {
	Health      *httpH.HealthHandler
	Enhancement *httpH.EnhancementHandler
	Library     *httpH.LibraryHandler
}

func wireHandlers(log *logger.Logger, services Services, pinger httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:      httpH.NewHealthHandler(pinger),
		Enhancement: httpH.NewEnhancementHandler(services.Workflow),
		Library:     httpH.NewLibraryHandler(services.Library),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *apphttp.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                log,
		ServiceName:        serviceName,
		CORSOrigins:        cfg.CORSOrigins,
		Metrics:            metrics,
		RateLimiter:        httpMW.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		EnhancementHandler: handlers.Enhancement,
		LibraryHandler:     handlers.Library,
		HealthHandler:      handlers.Health,
	}, cfg.Addr())
}
