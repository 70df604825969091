package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app *fiber.App, upload *UploadHandler, analysis *AnalysisHandler, sessions *SessionHandler) {
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Get("/pipeline/steps", analysis.HandleSteps)
	api.Post("/extract", upload.HandleExtract)
	api.Post("/analyze", analysis.HandleAnalyze)

	s := api.Group("/sessions")
	s.Post("", sessions.HandleCreate)
	s.Get("/:id", sessions.HandleGet)
	s.Delete("/:id", sessions.HandleDelete)
	s.Post("/:id/upload", sessions.HandleUpload)
	s.Put("/:id/resume", sessions.HandleSetResume)
	s.Put("/:id/job-description", sessions.HandleSetJobDescription)
	s.Post("/:id/analyze", sessions.HandleAnalyze)
	s.Delete("/:id/result", sessions.HandleReset)
}
