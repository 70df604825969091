package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusExtracting SessionStatus = "extracting"
	StatusAnalyzing  SessionStatus = "analyzing"
	StatusSucceeded  SessionStatus = "succeeded"
	StatusFailed     SessionStatus = "failed"
)

// SessionSnapshot is a read-only copy of a session's state at one instant.
type SessionSnapshot struct {
	ID             uuid.UUID       `json:"id"`
	Status         SessionStatus   `json:"status"`
	SourceFilename string          `json:"source_filename,omitempty"`
	ResumeText     string          `json:"resume_text"`
	JobDescription string          `json:"job_description"`
	Result         *AnalysisResult `json:"result,omitempty"`
	ErrorCode      string          `json:"error_code,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	InFlightSince  *time.Time      `json:"in_flight_since,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
