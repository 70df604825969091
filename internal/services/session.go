package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// Session holds one user's working state: the current resume text, the
// current job description and the latest analysis result. At most one
// extraction or analysis runs at a time.
type Session struct {
	id        uuid.UUID
	extractor DocumentExtractor
	analyzer  AnalysisClient
	logger    *zap.Logger
	now       func() time.Time

	mu             sync.Mutex
	phase          models.SessionStatus
	inFlightSince  time.Time
	sourceFilename string
	resumeText     string
	jobDescription string
	result         *models.AnalysisResult
	lastErr        error
	createdAt      time.Time
	updatedAt      time.Time
}

func NewSession(extractor DocumentExtractor, analyzer AnalysisClient, logger *zap.Logger) *Session {
	id := uuid.New()
	now := time.Now()
	return &Session{
		id:        id,
		extractor: extractor,
		analyzer:  analyzer,
		logger:    logger.With(zap.String("session_id", id.String())),
		now:       time.Now,
		phase:     models.StatusIdle,
		createdAt: now,
		updatedAt: now,
	}
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Upload extracts text from doc and, on success, replaces the current resume
// text with it. On failure the current text is left as it was.
func (s *Session) Upload(ctx context.Context, doc models.UploadedDocument) (string, error) {
	if err := s.begin(models.StatusExtracting, "upload"); err != nil {
		return "", err
	}
	defer s.finish()

	text, err := s.extractor.Extract(ctx, doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.logger.Warn("upload rejected", zap.String("filename", doc.Filename), zap.Error(err))
		return "", err
	}
	s.resumeText = text
	s.sourceFilename = doc.Filename

	return text, nil
}

func (s *Session) SetResumeText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resumeText = text
	s.sourceFilename = ""
	s.updatedAt = s.now()
}

func (s *Session) SetJobDescription(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobDescription = text
	s.updatedAt = s.now()
}

// Analyze runs one analysis over the current texts. Success replaces the
// stored result; failure records the error and leaves the previous result.
func (s *Session) Analyze(ctx context.Context) (*models.AnalysisResult, error) {
	s.mu.Lock()
	if s.phase != models.StatusIdle {
		s.mu.Unlock()
		return nil, apperrors.NewSessionBusyError("analyze")
	}
	req, err := models.BuildAnalysisRequest(s.resumeText, s.jobDescription)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.enter(models.StatusAnalyzing)
	s.mu.Unlock()
	defer s.finish()

	result, err := s.analyzer.Analyze(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		s.logger.Warn("analysis failed", zap.Error(err))
		return nil, err
	}
	s.result = result
	s.lastErr = nil
	return result, nil
}

// Reset discards the current result and last error. Texts are kept.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != models.StatusIdle {
		return apperrors.NewSessionBusyError("reset")
	}
	s.result = nil
	s.lastErr = nil
	s.updatedAt = s.now()
	return nil
}

func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := models.SessionSnapshot{
		ID:             s.id,
		Status:         s.statusLocked(),
		SourceFilename: s.sourceFilename,
		ResumeText:     s.resumeText,
		JobDescription: s.jobDescription,
		CreatedAt:      s.createdAt,
		UpdatedAt:      s.updatedAt,
	}
	if s.result != nil {
		result := *s.result
		snap.Result = &result
	}
	if s.lastErr != nil {
		kind := apperrors.KindOf(s.lastErr)
		snap.ErrorCode = string(kind)
		snap.ErrorMessage = apperrors.UserMessage(kind)
	}
	if s.phase != models.StatusIdle {
		since := s.inFlightSince
		snap.InFlightSince = &since
	}
	return snap
}

// LastActivity reports when the session last changed. In-flight sessions
// report the current time so they are never considered idle.
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != models.StatusIdle {
		return s.now()
	}
	return s.updatedAt
}

func (s *Session) statusLocked() models.SessionStatus {
	switch {
	case s.phase != models.StatusIdle:
		return s.phase
	case s.lastErr != nil:
		return models.StatusFailed
	case s.result != nil:
		return models.StatusSucceeded
	default:
		return models.StatusIdle
	}
}

func (s *Session) begin(phase models.SessionStatus, operation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != models.StatusIdle {
		return apperrors.NewSessionBusyError(operation)
	}
	s.enter(phase)
	return nil
}

func (s *Session) enter(phase models.SessionStatus) {
	s.phase = phase
	s.lastErr = nil
	s.inFlightSince = s.now()
	s.updatedAt = s.inFlightSince
}

func (s *Session) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phase = models.StatusIdle
	s.inFlightSince = time.Time{}
	s.updatedAt = s.now()
}
