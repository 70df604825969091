package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindUnsupportedFormat:
		return fiber.StatusUnsupportedMediaType
	case apperrors.KindExtractionFailed:
		return fiber.StatusUnprocessableEntity
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindAnalysisFailed:
		return fiber.StatusBadGateway
	case apperrors.KindSessionBusy:
		return fiber.StatusConflict
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the generic user message for err's kind. The cause is
// logged, never returned.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	kind := apperrors.KindOf(err)
	status := statusFor(kind)

	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", string(kind)),
			zap.Error(err),
		)
	} else {
		logger.Info("request rejected",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("code", string(kind)),
			zap.Error(err),
		)
	}

	return c.Status(status).JSON(models.ErrorResponse{
		Error: apperrors.UserMessage(kind),
		Code:  string(kind),
	})
}

// ErrorHandler is the fiber fallback for errors returned by handlers or
// middleware, such as an oversized body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(models.ErrorResponse{
			Error: e.Message,
			Code:  "HTTP_ERROR",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: apperrors.UserMessage(apperrors.KindInternal),
		Code:  string(apperrors.KindInternal),
	})
}
