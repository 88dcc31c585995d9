package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rrishiddh/portfolio-project-backend/internal/broker"
	"github.com/rrishiddh/portfolio-project-backend/internal/config"
	"github.com/rrishiddh/portfolio-project-backend/internal/database"
	"github.com/rrishiddh/portfolio-project-backend/internal/handler"
	"github.com/rrishiddh/portfolio-project-backend/internal/middleware"
	"github.com/rrishiddh/portfolio-project-backend/internal/oauth"
	"github.com/rrishiddh/portfolio-project-backend/internal/pdf"
	"github.com/rrishiddh/portfolio-project-backend/internal/repository"
	"github.com/rrishiddh/portfolio-project-backend/internal/router"
	"github.com/rrishiddh/portfolio-project-backend/internal/service"
	"github.com/rrishiddh/portfolio-project-backend/internal/storage"
	"github.com/rrishiddh/portfolio-project-backend/internal/utils"
	"github.com/rrishiddh/portfolio-project-backend/internal/wal"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Log.Error("Failed to close database", zap.Error(err))
		}
	}()

	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// Redis backs the rate limiter and content events. Without it the API
	// still serves, unthrottled.
	var (
		redisClient *redis.Client
		rateLimiter *middleware.RateLimiter
		publisher   broker.Publisher = broker.NopPublisher{}
	)
	redisClient, err = broker.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting and content events disabled", zap.Error(err))
	} else {
		defer redisClient.Close()

		rateLimiter = middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
			MaxRequests: cfg.RateLimit.MaxRequests,
			Window:      cfg.RateLimit.Window,
		})

		redisPublisher := broker.NewRedisPublisher(redisClient)
		defer redisPublisher.Close()
		publisher = redisPublisher

		if cfg.Events.WALPath != "" {
			eventLog, err := wal.New(cfg.Events.WALPath)
			if err != nil {
				logger.Log.Warn("Event outbox disabled", zap.String("path", cfg.Events.WALPath), zap.Error(err))
			} else {
				defer eventLog.Close()
				outbox := broker.NewOutboxPublisher(redisPublisher, eventLog)
				go outbox.Run(ctx, cfg.Events.ReplayInterval)
				publisher = outbox
			}
		}

		events, err := redisPublisher.Subscribe(ctx)
		if err != nil {
			logger.Log.Warn("Failed to subscribe to content events", zap.Error(err))
		} else {
			go logContentEvents(events)
		}
	}

	var googleVerifier service.GoogleTokenVerifier
	if cfg.Google.TokenLoginEnabled() {
		verifier, err := oauth.NewGoogleVerifier(cfg.Google.ClientID)
		if err != nil {
			logger.Log.Warn("Google token login disabled", zap.Error(err))
		} else {
			defer verifier.Close()
			googleVerifier = verifier
		}
	}
	if cfg.Google.RedirectLoginEnabled() {
		oauth.SetupGoth(cfg.Google, cfg.IsProduction())
	}

	var objectStore service.ObjectStore
	if cfg.MinIO.Enabled() {
		client, err := storage.NewClient(ctx, cfg.MinIO)
		if err != nil {
			logger.Log.Warn("PDF archive disabled", zap.Error(err))
		} else {
			objectStore = client
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	resumeRepo := repository.NewResumeRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, utils.TokenConfig{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.ExpiresIn,
		RefreshTTL:    cfg.JWT.RefreshExpiresIn,
	}, googleVerifier)
	blogService := service.NewBlogService(blogRepo, publisher)
	projectService := service.NewProjectService(projectRepo, publisher)
	resumeService := service.NewResumeService(resumeRepo, pdf.NewChromeRenderer(cfg.PDF.ChromeBin, cfg.PDF.Timeout), objectStore)
	userService := service.NewUserService(userRepo)

	opts := router.Options{
		IsProduction:   cfg.IsProduction(),
		ClientURL:      cfg.ClientURL,
		GoogleRedirect: cfg.Google.RedirectLoginEnabled(),
		Authenticator:  authService,
		RateLimiter:    rateLimiter,
		Auth:           handler.NewAuthHandler(authService, cfg.ClientURL),
		Blogs:          handler.NewBlogHandler(blogService),
		Projects:       handler.NewProjectHandler(projectService),
		Resumes:        handler.NewResumeHandler(resumeService),
		Users:          handler.NewUserHandler(userService),
	}
	if rateLimiter != nil {
		opts.Admin = handler.NewAdminHandler(rateLimiter)
	}

	srv := &http.Server{
		Addr:              cfg.ServerPort,
		Handler:           router.New(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting",
			zap.String("addr", cfg.ServerPort),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// logContentEvents writes an audit line for every content change.
func logContentEvents(events <-chan broker.Event) {
	for event := range events {
		logger.Log.Info("Content event",
			zap.String("resource", event.Resource),
			zap.String("action", string(event.Action)),
			zap.String("id", event.ID),
			zap.String("slug", event.Slug),
			zap.String("actor_id", event.ActorID),
		)
	}
}
