package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// analysisResultJSONSchema is the strict contract for a model response. Every
// field is required and nothing else is allowed. It sticks to the JSON Schema
// subset the model's structured output accepts, so the same document is sent
// with the prompt and used to validate the reply.
const analysisResultJSONSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["scores", "explanation", "skills", "bulletPointImprovements", "formattingIssues",
               "grammarInsights", "quantificationTips", "professionalSummary", "benchmarking", "mlMetadata"],
  "$defs": {
    "stringList": {"type": "array", "items": {"type": "string"}}
  },
  "properties": {
    "scores": {
      "type": "object",
      "additionalProperties": false,
      "required": ["overall", "atsCompatibility", "semanticMatch", "keywordScore"],
      "properties": {
        "overall": {"type": "number"},
        "atsCompatibility": {"type": "number"},
        "semanticMatch": {"type": "number"},
        "keywordScore": {"type": "number"}
      }
    },
    "explanation": {"type": "string"},
    "skills": {
      "type": "object",
      "additionalProperties": false,
      "required": ["technical", "tools", "soft", "missing"],
      "properties": {
        "technical": {"$ref": "#/$defs/stringList"},
        "tools": {"$ref": "#/$defs/stringList"},
        "soft": {"$ref": "#/$defs/stringList"},
        "missing": {"$ref": "#/$defs/stringList"}
      }
    },
    "bulletPointImprovements": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["original", "improved", "reason"],
        "properties": {
          "original": {"type": "string"},
          "improved": {"type": "string"},
          "reason": {"type": "string"}
        }
      }
    },
    "formattingIssues": {"$ref": "#/$defs/stringList"},
    "grammarInsights": {"$ref": "#/$defs/stringList"},
    "quantificationTips": {"$ref": "#/$defs/stringList"},
    "professionalSummary": {"type": "string"},
    "benchmarking": {
      "type": "object",
      "additionalProperties": false,
      "required": ["level", "comparison"],
      "properties": {
        "level": {"type": "string", "enum": ["Junior", "Mid", "Senior", "Lead"]},
        "comparison": {"type": "string"}
      }
    },
    "mlMetadata": {
      "type": "object",
      "additionalProperties": false,
      "required": ["pythonSnippet", "sqlQuery", "modelWeights", "featureImportance"],
      "properties": {
        "pythonSnippet": {"type": "string"},
        "sqlQuery": {"type": "string"},
        "modelWeights": {"type": "object", "additionalProperties": {"type": "number"}},
        "featureImportance": {
          "type": "array",
          "items": {
            "type": "object",
            "additionalProperties": false,
            "required": ["feature", "impact"],
            "properties": {
              "feature": {"type": "string"},
              "impact": {"type": "number"}
            }
          }
        }
      }
    }
  }
}`

var analysisSchema, analysisSchemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(analysisResultJSONSchema))

// AnalysisResponseJSONSchema returns the response contract as a JSON Schema
// document for the model's structured output. It is the same document payloads
// are validated against, and every call returns a fresh copy.
func AnalysisResponseJSONSchema() (map[string]any, error) {
	var schema map[string]any
	if err := json.Unmarshal([]byte(analysisResultJSONSchema), &schema); err != nil {
		return nil, fmt.Errorf("analysis schema: %w", err)
	}
	return schema, nil
}

// DecodeAnalysisResult turns a raw model payload into a fully populated
// AnalysisResult or an AnalysisFailed error. There is no partial result.
func DecodeAnalysisResult(payload string) (*models.AnalysisResult, error) {
	body := stripCodeFence(payload)
	if body == "" {
		return nil, apperrors.NewAnalysisFailedError("empty response payload", nil)
	}

	if err := validateAnalysisPayload(body); err != nil {
		return nil, apperrors.NewAnalysisFailedError("response does not match the analysis contract", err)
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var result models.AnalysisResult
	if err := dec.Decode(&result); err != nil {
		return nil, apperrors.NewAnalysisFailedError("failed to decode response payload", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.NewAnalysisFailedError("unexpected data after response payload", err)
	}

	return &result, nil
}

func validateAnalysisPayload(body string) error {
	if analysisSchemaErr != nil {
		return fmt.Errorf("analysis schema: %w", analysisSchemaErr)
	}

	result, err := analysisSchema.Validate(gojsonschema.NewStringLoader(body))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("schema validation failed: %v", errs)
	}

	return nil
}

// stripCodeFence removes a surrounding markdown fence such as ```json ... ```.
func stripCodeFence(payload string) string {
	text := strings.TrimSpace(payload)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	return strings.TrimSpace(text)
}
