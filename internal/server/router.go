package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/harborpeak/dealdesk-backend/internal/handlers"
	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/middleware"
)

type RouterConfig struct {
	Log              *logger.Logger
	AuthMiddleware   *middleware.AuthMiddleware
	CatalogHandler   *handlers.CatalogHandler
	ChecklistHandler *handlers.ChecklistHandler
	ReleaseHandler   *handlers.ReleaseHandler
	EventsHandler    *handlers.EventsHandler
	AllowOrigins     []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("dealdesk-backend"))
	router.Use(middleware.RequestLogger(cfg.Log))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.GET("/requirements", cfg.CatalogHandler.ListRequirements)

		api.GET("/deals/:id/checklist", cfg.ChecklistHandler.GetChecklist)
		api.POST("/deals/:id/checklist/:requirementId/upload", cfg.ChecklistHandler.SetUploaded)
		api.POST("/deals/:id/checklist/:requirementId/approve", cfg.ChecklistHandler.SetApproved)

		api.GET("/releases", cfg.ReleaseHandler.ListMine)
		api.GET("/releases/:id", cfg.ReleaseHandler.Get)
		api.POST("/releases/:id/viewed", cfg.ReleaseHandler.MarkViewed)
		api.POST("/releases/:id/interest", cfg.ReleaseHandler.ExpressInterest)
		api.POST("/releases/:id/pass", cfg.ReleaseHandler.Pass)
		api.POST("/releases/:id/notes", cfg.ReleaseHandler.AddNote)
		api.POST("/releases/:id/downloads", cfg.ReleaseHandler.RecordDownload)

		api.GET("/events/stream", cfg.EventsHandler.Stream)
	}

	// Admin
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		admin.POST("/requirements", cfg.CatalogHandler.CreateRequirement)
		admin.PATCH("/requirements/:id", cfg.CatalogHandler.UpdateRequirement)
		admin.DELETE("/requirements/:id", cfg.CatalogHandler.DeactivateRequirement)

		admin.POST("/deals/:id/checklist/:requirementId/waive", cfg.ChecklistHandler.Waive)
		admin.POST("/deals/:id/checklist/:requirementId/restore", cfg.ChecklistHandler.Restore)
		admin.POST("/deals/:id/checklist/manual", cfg.ChecklistHandler.AddManualRequirement)
		admin.GET("/deals/:id/releases", cfg.ReleaseHandler.ListByDeal)

		admin.POST("/releases", cfg.ReleaseHandler.Create)
		admin.POST("/releases/:id/advance", cfg.ReleaseHandler.AdminAdvance)
		admin.POST("/releases/:id/access-level", cfg.ReleaseHandler.SetAccessLevel)
		admin.GET("/releases/:id/log", cfg.ReleaseHandler.AccessLog)
	}

	return router
}
