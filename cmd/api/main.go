package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/services"
)

// multipart framing on top of the file itself
const bodyOverhead = 1 << 20

func main() {
	cfg := config.Load()

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	log.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("model", cfg.Gemini.Model),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	extractor := services.NewDocumentExtractor(
		services.NewPDFParserService(),
		services.NewDOCXParserService(),
		log,
	)

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Temperature, log)
	if err != nil {
		log.Fatal("failed to initialize gemini", zap.Error(err))
	}

	analyzer := services.NewAnalysisClient(
		geminiService,
		services.NewPromptBuilder(),
		cfg.Gemini.Timeout,
		log,
	)
	store := services.NewSessionStore(extractor, analyzer, cfg.Session.TTL, log)
	theater := services.NewProgressTheater(cfg.Pipeline.StepInterval)
	log.Info("services initialized")

	uploadHandler := handlers.NewUploadHandler(extractor, cfg.Upload.MaxFileSize, log)
	analysisHandler := handlers.NewAnalysisHandler(analyzer, theater, log)
	sessionHandler := handlers.NewSessionHandler(store, theater, cfg.Pipeline.Enabled, cfg.Upload.MaxFileSize, log)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Gemini.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Upload.MaxFileSize) + bodyOverhead,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	handlers.RegisterRoutes(app, uploadHandler, analysisHandler, sessionHandler)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/extract",
				"POST /api/v1/analyze",
				"GET /api/v1/pipeline/steps",
				"POST /api/v1/sessions",
				"GET /api/v1/sessions/:id",
				"DELETE /api/v1/sessions/:id",
				"POST /api/v1/sessions/:id/upload",
				"PUT /api/v1/sessions/:id/resume",
				"PUT /api/v1/sessions/:id/job-description",
				"POST /api/v1/sessions/:id/analyze",
				"DELETE /api/v1/sessions/:id/result",
			},
		})
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Error("failed to start server", zap.Error(err))
		os.Exit(1)
	}
}
