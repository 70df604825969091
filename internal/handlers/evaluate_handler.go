package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type AnalysisHandler struct {
	analyzer services.AnalysisClient
	theater  *services.ProgressTheater
	logger   *zap.Logger
}

func NewAnalysisHandler(
	analyzer services.AnalysisClient,
	theater *services.ProgressTheater,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		theater:  theater,
		logger:   logger,
	}
}

// HandleAnalyze handles POST /analyze. It blocks until the model answers.
func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	analysisReq, err := models.BuildAnalysisRequest(deref(req.ResumeText), deref(req.JobDescription))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), analysisReq)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(result)
}

// HandleSteps handles GET /pipeline/steps.
func (h *AnalysisHandler) HandleSteps(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"steps": h.theater.Steps(),
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
