package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	apperrors "alfredoptarigan/resume-analyzer/internal/errors"
	"alfredoptarigan/resume-analyzer/internal/metrics"
	"alfredoptarigan/resume-analyzer/internal/models"
)

// AnalysisClient sends one validated request to the generative model and
// returns a fully populated result.
type AnalysisClient interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error)
}

type analysisClient struct {
	generator     Generator
	promptBuilder *PromptBuilder
	timeout       time.Duration
	logger        *zap.Logger
}

func NewAnalysisClient(generator Generator, promptBuilder *PromptBuilder, timeout time.Duration, logger *zap.Logger) AnalysisClient {
	return &analysisClient{
		generator:     generator,
		promptBuilder: promptBuilder,
		timeout:       timeout,
		logger:        logger.Named("analyzer"),
	}
}

// Analyze implements AnalysisClient. Every failure, whether transport or
// payload, surfaces as AnalysisFailed with the cause attached.
func (a *analysisClient) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	schema, err := AnalysisResponseJSONSchema()
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, apperrors.NewAnalysisFailedError("analysis schema unavailable", err)
	}

	prompt := a.promptBuilder.BuildAnalysisPrompt(req.ResumeText(), req.JobDescription())

	start := time.Now()
	payload, err := a.generator.GenerateJSON(ctx, prompt, schema)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		a.logger.Error("analysis service call failed",
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		return nil, apperrors.NewAnalysisFailedError("analysis service call failed", err)
	}

	result, err := DecodeAnalysisResult(payload)
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		a.logger.Error("analysis response rejected",
			zap.Int("payload_characters", len(payload)),
			zap.Error(err),
		)
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	a.logger.Info("analysis completed",
		zap.Float64("overall_score", result.Scores.Overall),
		zap.String("level", string(result.Benchmarking.Level)),
		zap.Duration("took", time.Since(start)),
	)
	return result, nil
}
