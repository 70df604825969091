package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
)

type SessionHandler struct {
	store        services.SessionStore
	theater      *services.ProgressTheater
	showProgress bool
	maxFileSize  int64
	logger       *zap.Logger
}

func NewSessionHandler(
	store services.SessionStore,
	theater *services.ProgressTheater,
	showProgress bool,
	maxFileSize int64,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		store:        store,
		theater:      theater,
		showProgress: showProgress,
		maxFileSize:  maxFileSize,
		logger:       logger,
	}
}

// HandleCreate handles POST /sessions
func (h *SessionHandler) HandleCreate(c *fiber.Ctx) error {
	session := h.store.Create()
	snap := session.Snapshot()

	return c.Status(fiber.StatusCreated).JSON(models.SessionResponse{
		ID:     snap.ID.String(),
		Status: string(snap.Status),
	})
}

// HandleGet handles GET /sessions/:id
func (h *SessionHandler) HandleGet(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(h.stateOf(session.Snapshot()))
}

// HandleDelete handles DELETE /sessions/:id
func (h *SessionHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.store.Delete(c.Params("id")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUpload handles POST /sessions/:id/upload
func (h *SessionHandler) HandleUpload(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	doc, ok, err := readResumeFile(c, h.maxFileSize)
	if !ok {
		return err
	}

	text, err := session.Upload(c.UserContext(), doc)
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

// HandleSetResume handles PUT /sessions/:id/resume
func (h *SessionHandler) HandleSetResume(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.ResumeTextRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	session.SetResumeText(req.ResumeText)
	return c.JSON(h.stateOf(session.Snapshot()))
}

// HandleSetJobDescription handles PUT /sessions/:id/job-description
func (h *SessionHandler) HandleSetJobDescription(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	var req models.JobDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}

	session.SetJobDescription(req.JobDescription)
	return c.JSON(h.stateOf(session.Snapshot()))
}

// HandleAnalyze handles POST /sessions/:id/analyze. Texts in the body, when
// present, replace the session's texts before the analysis starts.
func (h *SessionHandler) HandleAnalyze(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if len(c.Body()) > 0 {
		var req models.AnalyzeRequest
		if err := c.BodyParser(&req); err != nil {
			return invalidPayload(c)
		}
		if req.ResumeText != nil {
			session.SetResumeText(*req.ResumeText)
		}
		if req.JobDescription != nil {
			session.SetJobDescription(*req.JobDescription)
		}
	}

	if _, err := session.Analyze(c.UserContext()); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(h.stateOf(session.Snapshot()))
}

// HandleReset handles DELETE /sessions/:id/result
func (h *SessionHandler) HandleReset(c *fiber.Ctx) error {
	session, err := h.store.Get(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, err)
	}

	if err := session.Reset(); err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(h.stateOf(session.Snapshot()))
}

func (h *SessionHandler) stateOf(snap models.SessionSnapshot) models.SessionStateResponse {
	response := models.SessionStateResponse{SessionSnapshot: snap}

	if h.showProgress && snap.Status == models.StatusAnalyzing && snap.InFlightSince != nil {
		steps := h.theater.Steps()
		index := h.theater.StepAt(time.Since(*snap.InFlightSince))
		response.Progress = &models.ProgressResponse{
			Step:  index,
			Label: steps[index].Label,
			Log:   steps[index].Log,
			Total: len(steps),
		}
	}

	return response
}

func invalidPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: "Invalid request payload",
		Code:  "INVALID_PAYLOAD",
	})
}
