package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/promptcraft-backend/internal/http/handlers"
	httpMW "github.com/yungbote/promptcraft-backend/internal/http/middleware"
	"github.com/yungbote/promptcraft-backend/internal/observability"
	"github.com/yungbote/promptcraft-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	// RateLimiter guards the LLM-backed routes. Nil disables limiting.
	RateLimiter *httpMW.RateLimiter

	EnhancementHandler *httpH.EnhancementHandler
	LibraryHandler     *httpH.LibraryHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Workflow
		if cfg.EnhancementHandler != nil {
			limited := cfg.RateLimiter.Middleware()
			api.POST("/analyze", limited, cfg.EnhancementHandler.Analyze)
			api.POST("/enhance", limited, cfg.EnhancementHandler.Enhance)
			api.GET("/enhancement/:id", cfg.EnhancementHandler.Get)
		}

		// Library
		if cfg.LibraryHandler != nil {
			api.GET("/history", cfg.LibraryHandler.History)
			api.GET("/saved", cfg.LibraryHandler.Saved)
			api.POST("/save/:id", cfg.LibraryHandler.Save)
			api.DELETE("/save/:id", cfg.LibraryHandler.Unsave)
		}
	}

	return r
}
