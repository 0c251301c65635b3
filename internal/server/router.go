package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/wellbeing-api/internal/handler"
	"github.com/noah-isme/wellbeing-api/internal/middleware"
	"github.com/noah-isme/wellbeing-api/internal/models"
	"github.com/noah-isme/wellbeing-api/internal/service"
	"github.com/noah-isme/wellbeing-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/wellbeing-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/wellbeing-api/pkg/middleware/requestid"
)

// Deps carries everything the router mounts.
type Deps struct {
	APIPrefix      string
	AllowedOrigins []string
	EnableDocs     bool
	Logger         *zap.Logger
	Tokens         middleware.TokenValidator
	Metrics        *service.MetricsService
	Checkins       *handler.CheckinHandler
	Cohort         *handler.CohortHandler
	Observability  *handler.MetricsHandler
}

// NewRouter builds the gin engine with the public and authenticated routes.
func NewRouter(deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	prefix := deps.APIPrefix
	if prefix == "" {
		prefix = "/api/v1"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(deps.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", deps.Observability.Health)
	r.GET("/ready", deps.Observability.Ready)
	r.GET("/metrics", deps.Observability.Prometheus)
	if deps.EnableDocs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(prefix)
	api.Use(middleware.JWT(deps.Tokens))

	api.POST("/checkins", middleware.RequireRoles(models.RoleStudent), deps.Checkins.Submit)
	api.GET("/metrics/summary", middleware.RequireRoles(models.RoleAdmin), deps.Observability.Summary)

	cohort := api.Group("/cohort")
	cohort.Use(middleware.RequireRoles(models.RoleStaff, models.RoleAdmin), middleware.WithResponseMeta())
	cohort.GET("/snapshot", deps.Cohort.Snapshot)
	cohort.GET("/trends", deps.Cohort.Trends)
	cohort.GET("/export", deps.Cohort.Export)

	return r
}
