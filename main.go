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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/thinhtt264/snaplet-core-service/internal/config"
	"github.com/thinhtt264/snaplet-core-service/internal/db"
	"github.com/thinhtt264/snaplet-core-service/internal/handlers"
	"github.com/thinhtt264/snaplet-core-service/internal/metrics"
	"github.com/thinhtt264/snaplet-core-service/internal/middleware"
	"github.com/thinhtt264/snaplet-core-service/internal/observability"
	"github.com/thinhtt264/snaplet-core-service/internal/rabbitmq"
	"github.com/thinhtt264/snaplet-core-service/internal/redisdb"
	"github.com/thinhtt264/snaplet-core-service/internal/repositories"
	"github.com/thinhtt264/snaplet-core-service/internal/services"
	"github.com/thinhtt264/snaplet-core-service/internal/telemetry"
)

func main() {
	cfg := config.Load()

	if cfg.DatabaseDSN == "" || cfg.JWTSecret == "" {
		log.Fatal("DB_DSN and JWT_SECRET environment variables must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	rdb, err := redisdb.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("warning: failed to connect to redis; rate limiting disabled: %v", err)
		rdb = nil
	}

	publisher := rabbitmq.NewNoopPublisher()
	if cfg.AMQPURL == "" {
		log.Printf("warning: AMQP_URL not set; event publishing disabled")
	} else {
		pub, err := rabbitmq.NewPublisher(cfg.AMQPURL, "app.events")
		if err != nil {
			log.Printf("warning: failed to initialize RabbitMQ publisher: %v", err)
		} else {
			publisher = pub
		}
	}
	defer publisher.Close()

	auditPublisher := rabbitmq.NewNoopPublisher()
	if cfg.AMQPURL == "" {
		log.Printf("warning: AMQP_URL not set; audit publishing disabled")
	} else {
		pub, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.LogsExchange)
		if err != nil {
			log.Printf("warning: failed to initialize RabbitMQ audit publisher: %v", err)
		} else {
			auditPublisher = pub
		}
	}
	defer auditPublisher.Close()

	observability.InitMetrics(prometheus.DefaultRegisterer)
	metrics.RegisterRelationshipMetrics()

	userRepo := repositories.NewUserRepository(database)
	tokenRepo := repositories.NewRefreshTokenRepository(database)
	relationshipRepo := repositories.NewRelationshipRepository(database, publisher)
	postRepo := repositories.NewPostRepository(database)

	authService := services.NewAuthService(userRepo, tokenRepo, cfg.JWTSecret, cfg.JWTExpiresIn, cfg.RefreshExpiresIn)
	userService := services.NewUserService(userRepo)
	relationshipService := services.NewRelationshipService(relationshipRepo, cfg.MaxRelationshipsPerUser)
	postService := services.NewPostService(postRepo, relationshipService)

	auditEmitter := telemetry.NewAuditEmitter(auditPublisher, cfg.ServiceName, cfg.Environment)
	authHandler := handlers.NewAuthHandler(authService, auditEmitter)
	userHandler := handlers.NewUserHandler(userService)
	relationshipHandler := handlers.NewRelationshipHandler(relationshipService, auditEmitter)
	postHandler := handlers.NewPostHandler(postService)
	healthHandler := handlers.NewHealthHandler(database, rdb)

	r := gin.Default()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	throttled := middleware.RateLimit(rdb, cfg.ThrottleLimit, cfg.ThrottleTTL)
	r.POST("/auth/register", throttled, authHandler.Register)
	r.POST("/auth/login", throttled, authHandler.Login)
	r.POST("/auth/refresh", authHandler.Refresh)
	r.GET("/auth/check-email", authHandler.CheckEmail)
	r.GET("/auth/check-username", authHandler.CheckUsername)

	r.GET("/users/:id", userHandler.GetUserByID)

	auth := r.Group("", middleware.JWTAuth(cfg.JWTSecret))
	auth.POST("/auth/logout", authHandler.Logout)
	auth.GET("/users/me", userHandler.GetMe)
	auth.PUT("/users/me/avatar", userHandler.UpdateAvatar)
	auth.POST("/relationships", relationshipHandler.Create)
	auth.PATCH("/relationships/:relationshipId", relationshipHandler.Update)
	auth.DELETE("/relationships/:relationshipId", relationshipHandler.Delete)
	auth.GET("/relationships/status/:status", relationshipHandler.GetByStatus)
	auth.GET("/friends", relationshipHandler.GetFriends)
	auth.POST("/posts", postHandler.Create)
	auth.GET("/posts/feed", postHandler.GetFeed)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
