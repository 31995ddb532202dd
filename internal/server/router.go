package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/kimrutherford/pombase-chado-json/internal/http/handlers"
	"github.com/kimrutherford/pombase-chado-json/internal/http/middleware"
)

type RouterConfig struct {
	DataHandler *handlers.DataHandler
	WebRoot     string
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Requested-With"},
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/reload", cfg.DataHandler.Reload)

	api := router.Group("/api/v1/dataset/latest")
	{
		api.GET("/data/gene/:id", cfg.DataHandler.GetGene)
		api.GET("/data/genotype/:id", cfg.DataHandler.GetGenotype)
		api.GET("/data/term/:id", cfg.DataHandler.GetTerm)
		api.GET("/data/reference/:id", cfg.DataHandler.GetReference)
		api.POST("/query", cfg.DataHandler.Query)
		api.GET("/complete/:cv_name/*q", cfg.DataHandler.Complete)
	}

	if cfg.WebRoot != "" {
		router.NoRoute(handlers.StaticFallback(cfg.WebRoot))
	}

	return router
}
