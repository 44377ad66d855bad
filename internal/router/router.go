package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/chatforge-io/chatforge/internal/config"
	"github.com/chatforge-io/chatforge/internal/middleware"
	"github.com/chatforge-io/chatforge/internal/modules/handler"
	"github.com/chatforge-io/chatforge/internal/modules/serializer"
	"github.com/chatforge-io/chatforge/internal/modules/service"
	"github.com/chatforge-io/chatforge/internal/telemetry"
)

type RouterDeps struct {
	Config           *config.Config
	Log              *zap.Logger
	Users            service.UserService
	ProjectHandler   *handler.ProjectHandler
	InsightsHandler  *handler.InsightsHandler
	SmartTipsHandler *handler.SmartTipsHandler
	RolesHandler     *handler.RolesHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.APIKeyAuth(d.Config, d.Users))

		v1.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "pong"}) })

		v1.GET("/roles", d.RolesHandler.ListRoles)

		projects := v1.Group("/projects")
		{
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.POST("", d.ProjectHandler.CreateProject)
			projects.GET("/:project_id", d.ProjectHandler.GetProject)
			projects.PATCH("/:project_id", d.ProjectHandler.UpdateProject)
			projects.DELETE("/:project_id", d.ProjectHandler.DeleteProject)

			projects.POST("/:project_id/training/start", d.ProjectHandler.StartTraining)
			projects.POST("/:project_id/training/stop", d.ProjectHandler.StopTraining)

			projects.GET("/:project_id/default_language", d.ProjectHandler.GetDefaultLanguage)
			projects.GET("/:project_id/environments", d.ProjectHandler.GetEnvironments)
			projects.GET("/:project_id/slots", d.ProjectHandler.GetSlots)

			projects.GET("/:project_id/entities_and_intents", d.InsightsHandler.EntitiesAndIntents)
			projects.GET("/:project_id/actions", d.InsightsHandler.Actions)

			projects.GET("/:project_id/models/:model_id/smart_tips", d.SmartTipsHandler.ForModel)
		}
	}

	return r
}
