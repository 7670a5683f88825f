package main

import (
	"log"

	"github.com/ayberk/groupora/internal/cache"
	"github.com/ayberk/groupora/internal/config"
	"github.com/ayberk/groupora/internal/database"
	"github.com/ayberk/groupora/internal/handler"
	"github.com/ayberk/groupora/internal/journal"
	"github.com/ayberk/groupora/internal/middleware"
	"github.com/ayberk/groupora/internal/repository"
	"github.com/ayberk/groupora/internal/service"
	"github.com/ayberk/groupora/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(cfg.Environment != "production"); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Reaction journal
	reactionJournal, err := journal.Open(cfg.JournalPath)
	if err != nil {
		log.Fatalf("Failed to open reaction journal: %v", err)
	}
	defer reactionJournal.Close()

	// Redis (feed cache + rate limiting)
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	feedCache := cache.NewFeedCache(redisClient, cfg.FeedCacheTTL)

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	reactionRepo := repository.NewReactionRepository(database.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry, cfg.Environment)
	messageService := service.NewMessageService(messageRepo, userRepo, feedCache)
	counter := service.NewCounterMaintainer(messageRepo)
	reactionService := service.NewReactionService(
		database.DB, messageRepo, userRepo, reactionRepo, counter, reactionJournal, feedCache,
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	messageHandler := handler.NewMessageHandler(messageService)
	reactionHandler := handler.NewReactionHandler(reactionService)
	adminHandler := handler.NewAdminHandler(authService)

	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
		BlockTime:   cfg.RateLimitBlockTime,
	})

	// Setup Gin router
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(authService.IsProduction()))
	router.Use(rateLimiter.Middleware())

	api := router.Group("/api")
	api.Use(middleware.Identity(cfg.JWTSecret))
	{
		// Accounts
		api.POST("/users/register", authHandler.Register)
		api.POST("/users/login", authHandler.Login)
		api.GET("/users/me", authHandler.GetProfile)
		api.PUT("/users/me", authHandler.UpdateProfile)

		// Messages
		api.POST("/messages", messageHandler.Create)
		api.GET("/messages", messageHandler.List)

		// Reactions
		api.POST("/messages/:messageId/like", reactionHandler.Like)
		api.POST("/messages/:messageId/dislike", reactionHandler.Dislike)

		// Admin
		admin := api.Group("/admin")
		admin.Use(middleware.AdminOnly())
		admin.GET("/users", adminHandler.GetAllUsers)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
