package models

type ExtractResponse struct {
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	ResumeText string `json:"resume_text"`
	Characters int    `json:"characters"`
}

type AnalyzeRequest struct {
	ResumeText     *string `json:"resume_text,omitempty"`
	JobDescription *string `json:"job_description,omitempty"`
}

type ResumeTextRequest struct {
	ResumeText string `json:"resume_text"`
}

type JobDescriptionRequest struct {
	JobDescription string `json:"job_description"`
}

type SessionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ProgressResponse struct {
	Step  int    `json:"step"`
	Label string `json:"label"`
	Log   string `json:"log"`
	Total int    `json:"total"`
}

type SessionStateResponse struct {
	SessionSnapshot
	Progress *ProgressResponse `json:"progress,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
