package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/edu-agent-api/api/swagger"
	"github.com/noah-isme/edu-agent-api/internal/handler"
	"github.com/noah-isme/edu-agent-api/internal/middleware"
	"github.com/noah-isme/edu-agent-api/internal/models"
	"github.com/noah-isme/edu-agent-api/pkg/config"
	"github.com/noah-isme/edu-agent-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-agent-api/pkg/middleware/cors"
	ratelimitmiddleware "github.com/noah-isme/edu-agent-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/edu-agent-api/pkg/middleware/requestid"
)

// Router builds the HTTP surface over the container's services.
func (c *Container) Router() *gin.Engine {
	if c.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(c.Logger))
	r.Use(corsmiddleware.New(c.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(c.Metrics))
	r.Use(middleware.WithResponseMeta())

	health := handler.NewHealthHandler(c.Metrics, c.ReadinessChecks())
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)

	if c.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(c.Config.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)

	agent := handler.NewAgentHandler(c.Agent, c.Registry)
	agentGroup := api.Group("/agent")
	agentGroup.POST("/chat", ratelimitmiddleware.New(c.Config.RateLimit.ChatPerSecond, c.Config.RateLimit.ChatBurst), agent.Chat)
	agentGroup.POST("/dispatch", agent.Dispatch)
	agentGroup.GET("/actions", agent.Actions)

	api.GET("/stats", handler.NewStatsHandler(c.Stats).Summary)
	api.GET("/exports/:collection", handler.NewExportHandler(c.Exports).Download)

	records := handler.NewRecordHandler(c.Records)
	for _, collection := range models.Collections {
		group := api.Group("/"+string(collection), records.Bind(collection))
		group.GET("", records.List)
		group.POST("", records.Create)
		group.GET("/:id", records.Get)
		group.PUT("/:id", records.Update)
		group.DELETE("/:id", records.Delete)
	}

	return r
}
