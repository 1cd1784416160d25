package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/Emmanuel10701/katwanyaa-api/api/swagger"
	"github.com/Emmanuel10701/katwanyaa-api/internal/handler"
	"github.com/Emmanuel10701/katwanyaa-api/internal/middleware"
	"github.com/Emmanuel10701/katwanyaa-api/internal/repository"
	"github.com/Emmanuel10701/katwanyaa-api/internal/service"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/cache"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/config"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/database"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/logger"
	corsmiddleware "github.com/Emmanuel10701/katwanyaa-api/pkg/middleware/cors"
	reqidmiddleware "github.com/Emmanuel10701/katwanyaa-api/pkg/middleware/requestid"
	"github.com/Emmanuel10701/katwanyaa-api/pkg/storage"
)

// @title Katwanyaa School API
// @version 1.0.0
// @description Backend for the Katwanyaa High School website and admin dashboard
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional: the site degrades to uncached reads without it.
	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Dashboard.CacheTTL, logr, cacheRepo != nil)

	resolver := storage.NewURLResolver(cfg.Storage.PublicBaseURL, cfg.Storage.Bucket)

	studentRepo := repository.NewStudentRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	schoolRepo := repository.NewSchoolRepository(db)
	userRepo := repository.NewUserRepository(db)

	studentAuthSvc := service.NewStudentAuthService(studentRepo, sessionRepo, validate, logr, metrics, service.StudentAuthConfig{
		Secret:     cfg.JWT.Secret,
		SessionTTL: cfg.JWT.StudentSession,
		Issuer:     "katwanyaa-api",
	})
	adminAuthSvc := service.NewAdminAuthService(userRepo, validate, logr, service.AdminAuthConfig{
		Secret: cfg.JWT.Secret,
		Expiry: cfg.JWT.AdminExpiration,
		Issuer: "katwanyaa-api",
	})
	schoolSvc := service.NewSchoolService(schoolRepo, cacheSvc, logr, cfg.Dashboard.CacheTTL)

	fileCfg := service.FileServiceConfig{
		InterFileDelay: cfg.Downloads.InterFileDelay,
		FetchTimeout:   cfg.Downloads.FetchTimeout,
	}
	var fileSvc *service.FileService
	if objectStore, err := storage.NewObjectStore(cfg.Storage); err != nil {
		logr.Sugar().Warnw("object store unavailable, size probing disabled", "error", err)
		fileSvc = service.NewFileService(resolver, nil, metrics, logr, fileCfg)
	} else {
		fileSvc = service.NewFileService(resolver, objectStore, metrics, logr, fileCfg)
	}

	studentSvc := service.NewStudentService(studentRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(studentRepo, sessionRepo, schoolSvc, fileSvc, cacheSvc, logr, cfg.Dashboard.CacheTTL)

	studentAuthHandler := handler.NewStudentAuthHandler(studentAuthSvc, cfg.Env == config.EnvProduction, int(cfg.JWT.StudentSession.Seconds()))
	adminAuthHandler := handler.NewAdminAuthHandler(adminAuthSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)
	fileHandler := handler.NewFileHandler(fileSvc, schoolSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/school", schoolHandler.Get)

		api.GET("/files", fileHandler.List)
		api.GET("/files/:id/download", fileHandler.Download)
		api.POST("/files/download-all", fileHandler.DownloadAll)

		api.POST("/students/login", studentAuthHandler.Login)
		api.GET("/students/verify", studentAuthHandler.Verify)
		api.DELETE("/students/logout", studentAuthHandler.Logout)
		api.GET("/students/me", middleware.StudentSession(studentAuthSvc), studentAuthHandler.Me)

		api.POST("/admin/auth/login", adminAuthHandler.Login)

		admin := api.Group("/admin", middleware.AdminJWT(adminAuthSvc))
		{
			admin.GET("/auth/me", adminAuthHandler.Me)
			admin.GET("/dashboard", dashboardHandler.Overview)

			admin.GET("/students", studentHandler.List)
			admin.POST("/students", studentHandler.Create)
			admin.GET("/students/export", studentHandler.Export)
			admin.GET("/students/:id", studentHandler.Get)
			admin.PUT("/students/:id", studentHandler.Update)
			admin.DELETE("/students/:id", studentHandler.Deactivate)

			admin.PUT("/school", schoolHandler.Update)
		}
	}

	go sweepSessions(sessionRepo, logr)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// sweepSessions drops expired audit session rows on a fixed interval so the
// table doesn't grow without bound.
func sweepSessions(sessions *repository.SessionRepository, logr *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		deleted, err := sessions.DeleteExpired(ctx, time.Now().UTC())
		cancel()
		if err != nil {
			logr.Sugar().Warnw("session sweep failed", "error", err)
			continue
		}
		if deleted > 0 {
			logr.Sugar().Infow("session sweep", "deleted", deleted)
		}
	}
}
