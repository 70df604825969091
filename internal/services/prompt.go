package services

import (
	"fmt"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildAnalysisPrompt creates the resume vs job description analysis prompt.
// Both texts are embedded verbatim.
func (pb *PromptBuilder) BuildAnalysisPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`You are an ML Engineer specialized in HR-Tech. Analyze this resume against the job description.

Provide the standard analysis:
1. Scores from 0 to 100: overall, ATS compatibility, semantic match and keyword score
2. A short explanation of the scores
3. Skills grouped as technical, tools and soft, plus the skills the job requires that the resume is missing
4. Bullet point rewrites with the original line, the improved line and the reason
5. Formatting issues, grammar insights and quantification tips
6. A rewritten professional summary
7. A benchmark of the candidate level (Junior, Mid, Senior or Lead) with a comparison against typical candidates

In addition to the standard analysis, provide:
1. A Python script (using spacy/scikit-learn) that would extract these specific skills.
2. A SQL query (Postgres/pgvector style) to find similar resumes in a vector DB.
3. Feature importance weights for the scoring model.

Return every field of the response schema. Use empty lists rather than omitting a field.

RESUME:
%s

JOB DESCRIPTION:
%s`,
		resumeText, jobDescription)
}
