package bootstrap

import (
	"context"
	"log"
	"time"

	"studytrack-be/internal/config"
	"studytrack-be/internal/controller"
	"studytrack-be/internal/handler"
	"studytrack-be/internal/pkg/logger"
	"studytrack-be/internal/pkg/mailer"
	"studytrack-be/internal/repository/memory"
	"studytrack-be/internal/repository/unitofwork"
	"studytrack-be/internal/service"
	"studytrack-be/internal/websocket"
	"studytrack-be/pkg/livequery"

	pktNats "studytrack-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController controller.IAuthController
	GoalController controller.IGoalController
	ChatController controller.IChatController

	// Background Services (Exposed for main.go to run)
	FeedService *service.FeedService

	// WebSockets & Live Stream
	StreamHandler *handler.StreamHandler
	WebSocketHub  *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// Each instance gets its own identity so replicated events can be told
	// apart from locally published ones.
	instanceID := uuid.New().String()

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Change Feed (in-process)
	feed := livequery.NewGoChannelFeed()

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// In-Memory Stores
	sessionRepo := memory.NewSessionRepository()
	ruleCache := memory.NewRuleCache(time.Duration(cfg.Chat.RuleCacheMinutes) * time.Minute)

	// 3. Services
	goalService := service.NewGoalService(uowFactory, feed, natsPub, instanceID, sysLogger)
	authService := service.NewAuthService(uowFactory, emailService, cfg.Auth, sysLogger)

	// WebSocket Hub (goalService primes the per-user views)
	wsLogger := logger.NewIsolatedLogger("logs/stream.log")
	wsHub := websocket.NewHub(rdb, feed, goalService, wsLogger)
	go wsHub.Run()

	chatService := service.NewChatService(uowFactory, sessionRepo, ruleCache, wsHub, sysLogger)

	// Replication worker: forwards goal events from other instances into the
	// local feed.
	feedService := service.NewFeedService(natsSub, feed, instanceID, sysLogger)

	// Handler
	streamHandler := handler.NewStreamHandler(wsHub, wsLogger)

	// 4. Controllers
	return &Container{
		AuthController: controller.NewAuthController(authService),
		GoalController: controller.NewGoalController(goalService),
		ChatController: controller.NewChatController(chatService),

		FeedService: feedService,

		StreamHandler: streamHandler,
		WebSocketHub:  wsHub,

		Logger: sysLogger,
	}
}
