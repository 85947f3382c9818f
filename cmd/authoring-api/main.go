package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/cursolab/authoring-api/internal/handler"
	"github.com/cursolab/authoring-api/internal/middleware"
	"github.com/cursolab/authoring-api/internal/repository"
	"github.com/cursolab/authoring-api/internal/service"
	"github.com/cursolab/authoring-api/internal/upstream"
	"github.com/cursolab/authoring-api/pkg/cache"
	"github.com/cursolab/authoring-api/pkg/config"
	"github.com/cursolab/authoring-api/pkg/logger"
	corsmiddleware "github.com/cursolab/authoring-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cursolab/authoring-api/pkg/middleware/requestid"
)

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

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Categories.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, category cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Categories.CacheTTL, logr, true)
		}
	}

	courseClient := upstream.NewCourseClient(upstream.CourseClientConfig{
		BaseURL: cfg.Upstream.CoursesBaseURL,
		Timeout: cfg.Upstream.RequestTimeout,
	}, logr)

	validate := validator.New()

	authoringSvc := service.NewAuthoringService(courseClient, validate, metricsSvc, logr, service.AuthoringServiceConfig{
		SessionIdleTTL: cfg.Sessions.IdleTTL,
		SweepInterval:  cfg.Sessions.SweepInterval,
	})
	authoringSvc.StartSweeper(context.Background())

	uploadSvc := service.NewUploadService(service.UploadServiceConfig{
		EndpointURL: cfg.Upstream.MediaUploadURL,
		FieldName:   cfg.Upload.FieldName,
		Timeout:     cfg.Upload.Timeout,
	}, metricsSvc, logr)
	authoringSvc.OnSessionEnd(uploadSvc.Discard)

	categorySvc := service.NewCategoryService(courseClient, cacheSvc, metricsSvc, cfg.Categories.CacheTTL, logr)

	authoringHandler := handler.NewAuthoringHandler(authoringSvc)
	uploadHandler := handler.NewUploadHandler(uploadSvc, cfg.Upload.FieldName, cfg.Upload.MaxFileSizeBytes)
	categoryHandler := handler.NewCategoryHandler(categorySvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		sessions := api.Group("/authoring/sessions")
		{
			sessions.POST("", authoringHandler.CreateSession)
			sessions.GET("/:sessionId", authoringHandler.GetOutline)
			sessions.PATCH("/:sessionId/course", authoringHandler.UpdateCourse)
			sessions.POST("/:sessionId/submit", authoringHandler.Submit)
			sessions.POST("/:sessionId/modules", authoringHandler.AddModule)
			sessions.DELETE("/:sessionId/modules/:moduleIndex", authoringHandler.RemoveModule)
			sessions.PATCH("/:sessionId/modules/:moduleIndex", authoringHandler.UpdateModule)
			sessions.POST("/:sessionId/modules/:moduleIndex/lessons", authoringHandler.AddLesson)
			sessions.DELETE("/:sessionId/modules/:moduleIndex/lessons/:lessonIndex", authoringHandler.RemoveLesson)
			sessions.PATCH("/:sessionId/modules/:moduleIndex/lessons/:lessonIndex", authoringHandler.UpdateLesson)
		}

		api.GET("/categories", categoryHandler.List)

		uploads := api.Group("/uploads")
		{
			uploads.POST("/:sessionId/video", uploadHandler.Upload)
			uploads.GET("/:sessionId/video", uploadHandler.State)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
