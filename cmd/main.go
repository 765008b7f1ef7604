package main

import (
	"context"
	"fmt"
	"os"

	"github.com/harborpeak/dealdesk-backend/internal/db"
	"github.com/harborpeak/dealdesk-backend/internal/handlers"
	"github.com/harborpeak/dealdesk-backend/internal/logger"
	"github.com/harborpeak/dealdesk-backend/internal/middleware"
	"github.com/harborpeak/dealdesk-backend/internal/observability"
	"github.com/harborpeak/dealdesk-backend/internal/repos"
	"github.com/harborpeak/dealdesk-backend/internal/server"
	"github.com/harborpeak/dealdesk-backend/internal/services"
	"github.com/harborpeak/dealdesk-backend/internal/sse"
	"github.com/harborpeak/dealdesk-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "dealdesk-backend",
		Environment: utils.GetEnv("DEPLOY_ENV", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "dev", log),
	})
	defer func() { _ = otelShutdown(ctx) }()

	// Env
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	seedPath := utils.GetEnv("REQUIREMENT_SEED_PATH", "config/requirements.yaml", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	if err := db.SeedRequirementCatalog(ctx, thePG, log, seedPath); err != nil {
		log.Warn("Requirement catalog seed failed", "error", err)
	}

	// Repos
	log.Info("Setting up repos...")
	requirementDefRepo := repos.NewRequirementDefRepo(thePG, log)
	checklistStatusRepo := repos.NewChecklistStatusRepo(thePG, log)
	dealRepo := repos.NewDealRepo(thePG, log)
	partnerRepo := repos.NewPartnerRepo(thePG, log)
	dealReleaseRepo := repos.NewDealReleaseRepo(thePG, log)
	accessLogRepo := repos.NewAccessLogRepo(thePG, log)

	// Realtime
	log.Info("Setting up SSE hub...")
	sseHub := sse.NewSSEHub(log)
	var emitter services.SSEEmitter = services.NewHubEmitter(sseHub)
	if os.Getenv("REDIS_ADDR") != "" {
		sseBus, err := services.NewRedisSSEBus(log)
		if err != nil {
			log.Warn("Could not init RedisSSEBus, falling back to local hub", "error", err)
		} else {
			if err := sseBus.StartForwarder(ctx, func(m sse.SSEMessage) { sseHub.Broadcast(m) }); err != nil {
				log.Warn("Could not start SSE forwarder, falling back to local hub", "error", err)
			} else {
				emitter = services.NewBusEmitter(log, sseBus)
			}
		}
	}
	notifier := services.NewDashboardNotifier(emitter)

	// Services
	log.Info("Setting up services...")
	catalogService := services.NewCatalogService(thePG, log, requirementDefRepo)
	contextResolver := services.NewDealContextResolver(thePG, log, dealRepo)
	eligibilityFilter := services.NewEligibilityFilter(log)
	checklistService := services.NewChecklistService(thePG, log, catalogService, contextResolver, eligibilityFilter, checklistStatusRepo, requirementDefRepo, notifier)
	releaseService := services.NewReleaseService(thePG, log, dealReleaseRepo, accessLogRepo, dealRepo, partnerRepo, notifier)

	// Handlers
	log.Info("Setting up handlers...")
	catalogHandler := handlers.NewCatalogHandler(log, catalogService)
	checklistHandler := handlers.NewChecklistHandler(log, checklistService)
	releaseHandler := handlers.NewReleaseHandler(log, releaseService, dealRepo)
	eventsHandler := handlers.NewEventsHandler(log, sseHub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router...")
	router := server.NewRouter(server.RouterConfig{
		Log:              log,
		AuthMiddleware:   authMiddleware,
		CatalogHandler:   catalogHandler,
		ChecklistHandler: checklistHandler,
		ReleaseHandler:   releaseHandler,
		EventsHandler:    eventsHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
