package models

import (
	"strings"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
)

// AnalysisRequest pairs a resume with a job description. Construct it with
// BuildAnalysisRequest; the zero value is not a valid request.
type AnalysisRequest struct {
	resumeText     string
	jobDescription string
}

// BuildAnalysisRequest checks that both inputs are non-blank. The original,
// untrimmed strings are what the request carries.
func BuildAnalysisRequest(resumeText, jobDescription string) (AnalysisRequest, error) {
	var missing []string
	if strings.TrimSpace(resumeText) == "" {
		missing = append(missing, "resume_text")
	}
	if strings.TrimSpace(jobDescription) == "" {
		missing = append(missing, "job_description")
	}
	if len(missing) > 0 {
		return AnalysisRequest{}, apperrors.NewValidationError(missing...)
	}

	return AnalysisRequest{
		resumeText:     resumeText,
		jobDescription: jobDescription,
	}, nil
}

func (r AnalysisRequest) ResumeText() string {
	return r.resumeText
}

func (r AnalysisRequest) JobDescription() string {
	return r.jobDescription
}
