package bootstrap

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"financial-assistant-be/internal/config"
	"financial-assistant-be/internal/controller"
	"financial-assistant-be/internal/pkg/logger"
	"financial-assistant-be/internal/repository/contract"
	"financial-assistant-be/internal/repository/memory"
	redisrepo "financial-assistant-be/internal/repository/redis"
	"financial-assistant-be/internal/service"
	"financial-assistant-be/pkg/analytics"
	"financial-assistant-be/pkg/events"
	"financial-assistant-be/pkg/exports"
	"financial-assistant-be/pkg/workspace"

	pktNats "financial-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	SessionController   controller.ISessionController
	WorkspaceController controller.IWorkspaceController
	ExportController    controller.IExportController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Deletion scheduler, exposed so shutdown hooks can inspect it
	Janitor *workspace.Janitor
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	ops := workspace.NewOps(sysLogger)
	writer := exports.NewWriter(sysLogger)
	tracker := analytics.NewTracker(cfg.Analytics.MixpanelToken, cfg.Analytics.KitName, cfg.Workspace.ProdMode)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Session storage
	ttl := time.Duration(cfg.Session.TTLMinutes) * time.Minute
	var sessionRepo contract.SessionRepository
	if cfg.Session.Store == "redis" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to memory store", err)
			sessionRepo = memory.NewSessionRepository(ttl)
			log.Printf("[INFO] Using Session Store: MEMORY")
		} else {
			sessionRepo = redisrepo.NewSessionRepository(rdb, ttl)
			log.Printf("[INFO] Using Session Store: REDIS")
		}
	} else {
		sessionRepo = memory.NewSessionRepository(ttl)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	// 3. Services
	publisherService := service.NewPublisherService(cfg.App.EventsTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EventsTopic,
		auditLogger,
		natsPub, // nil when NATS is down; the consumer skips the fan-out
	)

	janitor := workspace.NewJanitor(ops, sysLogger)
	janitor.OnFired(func(path string) {
		payload, err := json.Marshal(events.DeletionFired(path))
		if err != nil {
			return
		}
		if err := publisherService.Publish(context.Background(), payload); err != nil {
			sysLogger.Warn("Bootstrap", "Failed to publish deletion event", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	})

	sessionService := service.NewSessionService(cfg, sessionRepo, ops, tracker, publisherService, sysLogger)
	workspaceService := service.NewWorkspaceService(sessionRepo, ops, janitor, publisherService, sysLogger)
	exportService := service.NewExportService(sessionRepo, writer, publisherService, sysLogger)

	// 4. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		SessionController:   controller.NewSessionController(sessionService),
		WorkspaceController: controller.NewWorkspaceController(workspaceService),
		ExportController:    controller.NewExportController(exportService),

		ConsumerService: consumerService,
		Janitor:         janitor,
	}
}
