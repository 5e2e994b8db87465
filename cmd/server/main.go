// Package main runs the awards voting HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/campus-awards/backend/config"
	"github.com/campus-awards/backend/internal/auth"
	"github.com/campus-awards/backend/internal/emaillog"
	"github.com/campus-awards/backend/internal/middleware"
	"github.com/campus-awards/backend/internal/nominations"
	"github.com/campus-awards/backend/internal/polls"
	"github.com/campus-awards/backend/internal/realtime"
	"github.com/campus-awards/backend/internal/results"
	"github.com/campus-awards/backend/internal/settings"
	"github.com/campus-awards/backend/internal/votes"
	"github.com/campus-awards/backend/pkg/database"
	"github.com/campus-awards/backend/pkg/queue"
	"github.com/campus-awards/backend/pkg/redis"
	"github.com/campus-awards/backend/pkg/response"
	"github.com/campus-awards/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:            cfg.AWS.Region,
			AccessKeyID:       cfg.AWS.AccessKeyID,
			SecretAccessKey:   cfg.AWS.SecretAccessKey,
			NominationsBucket: cfg.AWS.NominationsBucket,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth and accounts
	authRepo := auth.NewRepository(pool)
	codeStore := auth.NewCodeStore(rdb.Client, time.Duration(cfg.Auth.CodeTTLMinutes)*time.Minute)
	settingsRepo := settings.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, codeStore, settingsRepo, jobQueue, cfg.Auth, logger)

	// Admin settings (email allowlist)
	settingsHandler := settings.NewHandler(settingsRepo)

	// Polls
	pollRepo := polls.NewRepository(pool)
	pollHandler := polls.NewHandler(pollRepo, logger)

	// Nominations
	nominationRepo := nominations.NewRepository(pool)
	nominationHandler := nominations.NewHandler(nominationRepo, pollRepo, s3Client, logger)

	// Votes
	voteRepo := votes.NewRepository(pool)
	voteHandler := votes.NewHandler(voteRepo, pollRepo, nominationRepo, hub, cfg.Auth.AllowAdminVote, logger)

	// Results and analytics
	resultsHandler := results.NewHandler(pool, pollRepo, nominationRepo, voteRepo, logger)

	// Email delivery log
	emailLogRepo := emaillog.NewRepository(pool)
	emailLogHandler := emaillog.NewHandler(emailLogRepo, logger)

	jwtValidate := func(token string) (userID, role string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", "", err
		}
		return claims.UserID.String(), claims.Role, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/check-email", authHandler.CheckEmail)
		authGroup.POST("/request-code", authHandler.RequestCode)
		authGroup.POST("/callback", authHandler.Callback)
	}

	// Public reads: polls, approved nominations, live results
	router.GET("/polls", pollHandler.List)
	router.GET("/polls/:id", pollHandler.GetByID)
	router.GET("/polls/:id/nominations", nominationHandler.ListApproved)
	router.GET("/polls/:id/results", resultsHandler.GetByPoll)
	router.GET("/leaderboard", resultsHandler.Leaderboard)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		api.GET("/me", authHandler.Me)

		// Users (admin)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)
		api.PATCH("/users/:id/role", middleware.RequireRole("admin"), authHandler.UpdateRole)

		// Polls (admin writes)
		api.POST("/polls", middleware.RequireRole("admin"), pollHandler.Create)
		api.PATCH("/polls/:id", middleware.RequireRole("admin"), pollHandler.Update)
		api.PATCH("/polls/:id/status", middleware.RequireRole("admin"), pollHandler.UpdateStatus)

		// Nominations
		api.POST("/polls/:id/nominations", nominationHandler.Create)
		api.POST("/polls/:id/nominations/photo", nominationHandler.UploadPhoto)
		api.GET("/polls/:id/nominations/all", middleware.RequireRole("admin"), nominationHandler.ListAll)
		api.PATCH("/nominations/:id/approval", middleware.RequireRole("admin"), nominationHandler.SetApproval)

		// Votes
		api.POST("/polls/:id/votes", voteHandler.Cast)
		api.GET("/polls/:id/votes/me", voteHandler.HasVoted)

		// Admin settings and observability
		api.GET("/settings", middleware.RequireRole("admin"), settingsHandler.List)
		api.PUT("/settings", middleware.RequireRole("admin"), settingsHandler.Set)
		api.GET("/email-logs", middleware.RequireRole("admin"), emailLogHandler.List)
		api.GET("/analytics", middleware.RequireRole("admin"), resultsHandler.Analytics)
	}

	// WebSocket (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
