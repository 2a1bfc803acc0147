package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/laporinapp/laporin/internal/config"
	"github.com/laporinapp/laporin/internal/handler"
	"github.com/laporinapp/laporin/internal/middleware"
	"github.com/laporinapp/laporin/internal/model"
	"github.com/laporinapp/laporin/internal/repository"
	"github.com/laporinapp/laporin/internal/service"
	"github.com/laporinapp/laporin/internal/ws"
	"github.com/laporinapp/laporin/migrations"
	"github.com/laporinapp/laporin/pkg/auth"
	"github.com/laporinapp/laporin/pkg/webpush"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           Laporin API
// @version         1.0
// @description     Neighborhood civic reporting: push notification fan-out and real-time report chat.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@laporin.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting Laporin API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.User{},
			&model.PushSubscription{},
			&model.Notification{},
			&model.Report{},
			&model.Announcement{},
			&model.Chat{},
			&model.Message{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Initialize Layers ====================
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	cookieVerifier := auth.NewCookieVerifier(jwtManager, auth.AccessTokenCookie)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// Web Push client. Without a VAPID keypair the fan-out engine still
	// writes in-app notifications; it just skips endpoint delivery.
	var pushSender webpush.Sender
	if cfg.Push.Enabled() {
		pushSender = webpush.New(webpush.Config{
			Subscriber:      cfg.Push.Subscriber,
			VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
			TTL:             cfg.Push.TTL,
		})
		log.Println("✅ Web Push configured")
	} else {
		log.Println("⚠️  VAPID keys not set, push delivery disabled (in-app notifications still work)")
	}

	// Services
	authService := service.NewAuthService(userRepo, jwtManager, rdb)
	pushService := service.NewPushService(subRepo, notifRepo, userRepo, pushSender)
	notificationService := service.NewNotificationService(notifRepo, subRepo)
	reportService := service.NewReportService(reportRepo, pushService)
	chatService := service.NewChatService(chatRepo)

	// WebSocket Hub
	hub := ws.NewHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	notificationHandler := handler.NewNotificationHandler(notificationService, cfg.Push.VAPIDPublicKey)
	reportHandler := handler.NewReportHandler(reportService)
	chatHandler := handler.NewChatHandler(chatService)
	wsHandler := handler.NewWSHandler(hub, hub, chatService, cookieVerifier)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"service":     "laporin-api",
			"time":        time.Now().Format(time.RFC3339),
			"connections": hub.ConnectionsCount(),
			"rooms":       hub.ActiveRoomsCount(),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		api.POST("/auth/login", authHandler.Login)

		// Public key the frontend needs before it can subscribe
		api.GET("/notifications/vapid-public-key", notificationHandler.VAPIDPublicKey)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			protected.POST("/auth/logout", authHandler.Logout)

			// Push subscription lifecycle
			protected.POST("/notifications/subscribe", notificationHandler.Subscribe)
			protected.DELETE("/notifications/subscribe", notificationHandler.Unsubscribe)
			protected.PUT("/notifications/push-enabled", notificationHandler.SetPushEnabled)
			protected.GET("/notifications/subscription", notificationHandler.SubscriptionStatus)

			// Notification bell
			protected.GET("/notifications", notificationHandler.Feed)
			protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
			protected.DELETE("/notifications/read", notificationHandler.ClearRead)
			protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)

			// Reports
			protected.POST("/reports", reportHandler.CreateReport)
			protected.GET("/reports/:id", reportHandler.GetReport)

			// Report chat threads
			protected.POST("/reports/:id/chat", chatHandler.StartChat)
			protected.GET("/reports/:id/chat", chatHandler.GetChatForReport)
			protected.GET("/chats/:id/messages", chatHandler.GetMessages)

			// RT admin only
			admin := protected.Group("")
			admin.Use(middleware.RequireRole(model.RoleRTAdmin))
			{
				admin.PUT("/reports/:id/status", reportHandler.UpdateStatus)
				admin.POST("/announcements", reportHandler.CreateAnnouncement)
			}
		}
	}

	// WebSocket endpoint (auth via access_token cookie on the handshake)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Laporin API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("🔌 WebSocket: ws://0.0.0.0:%s/ws", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	hubCancel()
	log.Println("✅ Server exited gracefully")
}
