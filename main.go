package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/proplist/realty-api/internal/domain"
	"github.com/proplist/realty-api/internal/handler"
	"github.com/proplist/realty-api/internal/middleware"
	"github.com/proplist/realty-api/internal/repository"
	"github.com/proplist/realty-api/internal/service"
	"github.com/proplist/realty-api/pkg/config"
	"github.com/proplist/realty-api/pkg/database"
	"github.com/proplist/realty-api/pkg/logger"
	"github.com/proplist/realty-api/pkg/telemetry"
)

const serviceName = "realty-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting realty API...")

	ctx := context.Background()

	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Repositories and services
	userRepo := repository.NewPostgresUserRepository(db.Pool())
	homeRepo := repository.NewPostgresHomeRepository(db.Pool())

	authService := service.NewAuthService(userRepo, &service.AuthServiceConfig{
		JWTSecret:        cfg.JWT.Secret,
		ProductKeySecret: cfg.ProductKey.Secret,
		TokenExpiry:      cfg.JWT.TokenTTL,
		BcryptCost:       10,
	})
	homeService := service.NewHomeService(homeRepo, userRepo)

	authHandler := handler.NewAuthHandler(authService)
	homeHandler := handler.NewHomeHandler(homeService)
	healthHandler := handler.NewHealthHandler(db)

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(serviceName))
	}

	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	authenticated := middleware.Authenticate(authService)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup/:userType", authHandler.Signup)
			auth.POST("/signin", authHandler.Signin)
			auth.POST("/key", authHandler.GenerateKey)
		}

		homes := v1.Group("/homes")
		{
			// Public browsing
			homes.GET("", homeHandler.List)
			homes.GET("/:id", homeHandler.Get)

			// Listing mutation: role gate, then ownership guard, then handler
			homes.POST("", authenticated,
				middleware.RequireRoles(domain.RoleRealtor, domain.RoleAdmin),
				homeHandler.Create)
			homes.PUT("/:id", authenticated,
				middleware.RequireRoles(domain.RoleRealtor, domain.RoleAdmin),
				middleware.RequireHomeOwner(homeService),
				homeHandler.Update)
			homes.DELETE("/:id", authenticated,
				middleware.RequireRoles(domain.RoleRealtor, domain.RoleAdmin),
				middleware.RequireHomeOwner(homeService),
				homeHandler.Delete)

			// Inquiries
			homes.POST("/:id/inquire", authenticated, homeHandler.Inquire)
			homes.GET("/:id/messages", authenticated,
				middleware.RequireRoles(domain.RoleRealtor),
				middleware.RequireHomeOwner(homeService),
				homeHandler.ListMessages)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Realty API listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
