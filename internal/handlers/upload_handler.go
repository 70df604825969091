package handlers

import (
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const resumeFormField = "resume"

type UploadHandler struct {
	extractor   services.DocumentExtractor
	maxFileSize int64
	logger      *zap.Logger
}

func NewUploadHandler(
	extractor services.DocumentExtractor,
	maxFileSize int64,
	logger *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		extractor:   extractor,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// HandleExtract handles POST /extract. Nothing is stored.
func (h *UploadHandler) HandleExtract(c *fiber.Ctx) error {
	doc, ok, err := readResumeFile(c, h.maxFileSize)
	if !ok {
		return err
	}

	text, err := h.extractor.Extract(c.UserContext(), doc)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(models.ExtractResponse{
		Filename:   doc.Filename,
		FileType:   doc.Extension,
		ResumeText: text,
		Characters: len([]rune(text)),
	})
}

// readResumeFile reads the "resume" multipart file into memory. When ok is
// false the response has already been written and err is what the handler
// should return.
func readResumeFile(c *fiber.Ctx, maxFileSize int64) (doc models.UploadedDocument, ok bool, err error) {
	file, err := c.FormFile(resumeFormField)
	if err != nil {
		return doc, false, c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "No file uploaded. Please upload the resume as 'resume' (PDF, DOCX or TXT).",
			Code:  "MISSING_FILE",
		})
	}

	if maxFileSize > 0 && file.Size > maxFileSize {
		return doc, false, c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Resume file too large. Max size: %d bytes", maxFileSize),
			Code:  "FILE_TOO_LARGE",
		})
	}

	f, err := file.Open()
	if err != nil {
		return doc, false, c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "failed to read uploaded file",
			Code:  "BAD_UPLOAD",
		})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return doc, false, c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "failed to read uploaded file",
			Code:  "BAD_UPLOAD",
		})
	}

	return models.NewUploadedDocument(file.Filename, data), true, nil
}
