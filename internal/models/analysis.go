package models

import "encoding/json"

// AnalysisResult is the structured response of the analysis service. Values
// are only produced by a fully validated decode; see services.DecodeAnalysisResult.
type AnalysisResult struct {
	Scores                  Scores              `json:"scores"`
	Explanation             string              `json:"explanation"`
	Skills                  SkillGap            `json:"skills"`
	BulletPointImprovements []BulletImprovement `json:"bulletPointImprovements"`
	FormattingIssues        []string            `json:"formattingIssues"`
	GrammarInsights         []string            `json:"grammarInsights"`
	QuantificationTips      []string            `json:"quantificationTips"`
	ProfessionalSummary     string              `json:"professionalSummary"`
	Benchmarking            Benchmarking        `json:"benchmarking"`
	MLMetadata              MLMetadata          `json:"mlMetadata"`
}

// MarshalJSON writes missing collections as empty arrays and objects, keeping
// an encoded result inside the response contract that rejects null.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	type plain AnalysisResult
	out := plain(r)

	out.Skills.Technical = emptyIfNil(out.Skills.Technical)
	out.Skills.Tools = emptyIfNil(out.Skills.Tools)
	out.Skills.Soft = emptyIfNil(out.Skills.Soft)
	out.Skills.Missing = emptyIfNil(out.Skills.Missing)
	out.BulletPointImprovements = emptyIfNil(out.BulletPointImprovements)
	out.FormattingIssues = emptyIfNil(out.FormattingIssues)
	out.GrammarInsights = emptyIfNil(out.GrammarInsights)
	out.QuantificationTips = emptyIfNil(out.QuantificationTips)
	out.MLMetadata.FeatureImportance = emptyIfNil(out.MLMetadata.FeatureImportance)
	if out.MLMetadata.ModelWeights == nil {
		out.MLMetadata.ModelWeights = map[string]float64{}
	}

	return json.Marshal(out)
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Scores are expected in [0,100]; the service is trusted and no bound is enforced.
type Scores struct {
	Overall          float64 `json:"overall"`
	ATSCompatibility float64 `json:"atsCompatibility"`
	SemanticMatch    float64 `json:"semanticMatch"`
	KeywordScore     float64 `json:"keywordScore"`
}

type SkillGap struct {
	Technical []string `json:"technical"`
	Tools     []string `json:"tools"`
	Soft      []string `json:"soft"`
	Missing   []string `json:"missing"`
}

type BulletImprovement struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
	Reason   string `json:"reason"`
}

type BenchmarkLevel string

const (
	LevelJunior BenchmarkLevel = "Junior"
	LevelMid    BenchmarkLevel = "Mid"
	LevelSenior BenchmarkLevel = "Senior"
	LevelLead   BenchmarkLevel = "Lead"
)

var BenchmarkLevels = []BenchmarkLevel{LevelJunior, LevelMid, LevelSenior, LevelLead}

type Benchmarking struct {
	Level      BenchmarkLevel `json:"level"`
	Comparison string         `json:"comparison"`
}

// MLMetadata carries display-only strings. PythonSnippet and SQLQuery are
// never executed or checked beyond being text.
type MLMetadata struct {
	PythonSnippet     string              `json:"pythonSnippet"`
	SQLQuery          string              `json:"sqlQuery"`
	ModelWeights      map[string]float64  `json:"modelWeights"`
	FeatureImportance []FeatureImportance `json:"featureImportance"`
}

type FeatureImportance struct {
	Feature string  `json:"feature"`
	Impact  float64 `json:"impact"`
}
