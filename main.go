package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messaging-service/internal/db"
	"messaging-service/internal/handlers"
	"messaging-service/internal/middleware"
	"messaging-service/internal/observability"
	"messaging-service/internal/rabbitmq"
	"messaging-service/internal/repositories"
	"messaging-service/internal/telemetry"
	"messaging-service/internal/ws"
)

const serviceName = "messaging-service"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	ctx := context.Background()
	shutdownTracing, err := observability.InitTracing(ctx, serviceName, os.Getenv("OTLP_ENDPOINT"))
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	amqpURL := os.Getenv("AMQP_URL")
	eventsExchange := getEnv("AMQP_EVENTS_EXCHANGE", "messaging.events")
	if amqpURL != "" {
		eventsPublisher, err := observability.NewAMQPPublisher(amqpURL, eventsExchange)
		if err != nil {
			log.Printf("event publishing disabled: %v", err)
		} else {
			defer eventsPublisher.Close()
			observability.SetPublisher(eventsPublisher)
		}
	}

	auditPublisher := rabbitmq.NewPublisher(amqpURL, getEnv("AMQP_AUDIT_EXCHANGE", "messaging.audit"))
	defer auditPublisher.Close()
	log.Printf("audit publisher mode=%s", rabbitmq.PublisherMode(auditPublisher))
	auditEmitter := telemetry.NewAuditEmitter(auditPublisher,
		getEnv("AMQP_AUDIT_ROUTING_KEY", "audit.messaging"),
		serviceName, getEnv("ENVIRONMENT", "development"))

	validator := middleware.NewTokenValidator([]byte(getEnv("JWT_SECRET", "dev-secret")))

	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	receiptRepo := repositories.NewReceiptRepo(database)
	callRepo := repositories.NewCallRepo(database)
	reactionRepo := repositories.NewReactionRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)

	hub := ws.NewHub()
	registry := ws.NewRegistry()

	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, receiptRepo, hub)
	callHandler := handlers.NewCallHandler(callRepo, notificationRepo, hub)
	reactionHandler := handlers.NewReactionHandler(reactionRepo, messageRepo, chatRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	chatWS := ws.NewChatSocketHandler(hub, registry, validator, chatRepo, messageRepo, receiptRepo)
	callWS := ws.NewCallSocketHandler(hub, validator, callRepo)
	notifyWS := ws.NewNotifySocketHandler(hub, validator)

	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	authMiddleware := middleware.AuthMiddleware(validator)

	router.GET("/chats", authMiddleware, chatHandler.ListChats)
	router.POST("/chats/start", authMiddleware, chatHandler.StartChat)
	router.GET("/chats/:chat_id/messages", authMiddleware, chatHandler.GetChatMessages)
	router.POST("/chats/:chat_id/messages", authMiddleware, chatHandler.PostChatMessage)
	router.POST("/chats/:chat_id/open", authMiddleware, chatHandler.OpenChat)
	router.DELETE("/chats/:chat_id/messages/:message_id/me", authMiddleware, chatHandler.DeleteMessageForMe)
	router.DELETE("/chats/:chat_id/messages/:message_id/all", authMiddleware, chatHandler.DeleteMessageForAll)
	router.POST("/chats/:chat_id/messages/:message_id/reactions", authMiddleware, reactionHandler.ToggleReaction)
	router.GET("/chats/:chat_id/messages/:message_id/reactions", authMiddleware, reactionHandler.ListReactions)

	router.POST("/calls", authMiddleware, callHandler.InitiateCall)
	router.GET("/calls", authMiddleware, callHandler.ListCalls)
	router.PATCH("/calls/:call_id/status", authMiddleware, callHandler.UpdateCallStatus)

	router.GET("/notifications", authMiddleware, notificationHandler.ListNotifications)
	router.POST("/notifications/:notification_id/read", authMiddleware, notificationHandler.MarkNotificationRead)

	router.GET("/ws/chats/:chat_id", chatWS.Handle)
	router.GET("/ws/calls/:call_id", callWS.Handle)
	router.GET("/ws/notifications", notifyWS.Handle)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, auditEmitter, getEnv("DEBUG_ROUTES", "") == "true")

	port := getEnv("PORT", "8083")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
