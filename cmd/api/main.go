package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/projectflow/engine/internal/api"
	"github.com/projectflow/engine/internal/api/handlers"
	"github.com/projectflow/engine/internal/api/validators"
	"github.com/projectflow/engine/internal/repository"
	"github.com/projectflow/engine/internal/services"
	"github.com/projectflow/engine/pkg/config"
	"github.com/projectflow/engine/pkg/database"
	"github.com/projectflow/engine/pkg/logger"
)

// @title           ProjectFlow API
// @version         1.0
// @description     University project workflow: group formation, coordinator approval, guide assignment, abstract review and SDG declaration

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting ProjectFlow Engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// JWT secret
	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, using default (INSECURE for production)")
		jwtSecret = []byte("change-me-in-production-please")
	}

	// Asynq client for best-effort notifications
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer asynqClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	groupRequestRepo := repository.NewGroupRequestRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	guideRequestRepo := repository.NewGuideRequestRepository(db)
	abstractRepo := repository.NewAbstractRepository(db)
	sdgRepo := repository.NewSDGRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	notifier := services.NewNotifier(asynqClient)
	roleSvc := services.NewRoleService(userRepo)
	authSvc := services.NewAuthService(db, userRepo, jwtSecret)
	groupSvc := services.NewGroupService(db, groupRepo, groupRequestRepo, userRepo, approvalRepo, guideRequestRepo, abstractRepo, sdgRepo, notifier)
	approvalSvc := services.NewApprovalService(db, approvalRepo, groupRepo, userRepo, abstractRepo, sdgRepo, notifier)
	guideSvc := services.NewGuideService(db, guideRequestRepo, groupRepo, userRepo, approvalRepo, abstractRepo, sdgRepo, notifier)
	abstractSvc := services.NewAbstractService(db, abstractRepo, groupRepo, guideRequestRepo, approvalRepo, userRepo, notifier, cfg.MaxUploadBytes)
	sdgSvc := services.NewSDGService(sdgRepo, groupRepo, approvalRepo)

	// Router
	v := validators.New()
	router := api.NewRouter(api.Dependencies{
		HMACSecret:           jwtSecret,
		AuthHandler:          handlers.NewAuthHandler(authSvc, roleSvc, v),
		GroupsHandler:        handlers.NewGroupsHandler(groupSvc, roleSvc, v),
		ApprovalsHandler:     handlers.NewApprovalsHandler(approvalSvc, roleSvc, v),
		GuidesHandler:        handlers.NewGuidesHandler(guideSvc, roleSvc, v),
		AbstractsHandler:     handlers.NewAbstractsHandler(abstractSvc, roleSvc, cfg.MaxUploadBytes),
		SDGHandler:           handlers.NewSDGHandler(sdgSvc, roleSvc),
		NotificationsHandler: handlers.NewNotificationsHandler(notificationRepo),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
