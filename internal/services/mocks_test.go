package services

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"alfredoptarigan/resume-analyzer/internal/models"
)

type MockPDFParser struct {
	mock.Mock
}

func (m *MockPDFParser) ExtractText(ctx context.Context, data []byte) (*PDFContent, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PDFContent), args.Error(1)
}

type MockDOCXParser struct {
	mock.Mock
}

func (m *MockDOCXParser) ExtractText(data []byte) (string, error) {
	args := m.Called(data)
	return args.String(0), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateJSON(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	args := m.Called(ctx, prompt, schema)
	return args.String(0), args.Error(1)
}

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, doc models.UploadedDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}

type MockAnalysisClient struct {
	mock.Mock
}

func (m *MockAnalysisClient) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalysisResult), args.Error(1)
}

func sampleResult(overall float64) *models.AnalysisResult {
	return &models.AnalysisResult{
		Scores: models.Scores{
			Overall:          overall,
			ATSCompatibility: 80,
			SemanticMatch:    65,
			KeywordScore:     70,
		},
		Explanation: "Solid backend background with a few gaps.",
		Skills: models.SkillGap{
			Technical: []string{"Go", "PostgreSQL"},
			Tools:     []string{"Docker"},
			Soft:      []string{"Communication"},
			Missing:   []string{"Kubernetes"},
		},
		BulletPointImprovements: []models.BulletImprovement{
			{Original: "Worked on APIs", Improved: "Built 12 REST APIs serving 2M requests/day", Reason: "Quantifies impact"},
		},
		FormattingIssues:    []string{"Inconsistent date formats"},
		GrammarInsights:     []string{},
		QuantificationTips:  []string{"Add team size"},
		ProfessionalSummary: "Backend engineer focused on reliable services.",
		Benchmarking: models.Benchmarking{
			Level:      models.LevelMid,
			Comparison: "Comparable to mid-level backend candidates.",
		},
		MLMetadata: models.MLMetadata{
			PythonSnippet: "import spacy",
			SQLQuery:      "SELECT id FROM resumes ORDER BY embedding <=> $1 LIMIT 5;",
			ModelWeights:  map[string]float64{"skills": 0.6, "experience": 0.4},
			FeatureImportance: []models.FeatureImportance{
				{Feature: "skills", Impact: 0.6},
			},
		},
	}
}

func samplePayload(overall float64) string {
	raw, err := json.Marshal(sampleResult(overall))
	if err != nil {
		panic(err)
	}
	return string(raw)
}
